package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/go-pdf/fpdf"
)

type PaymentGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	GetForCustomer(ctx context.Context, id, customerID int64) (*domain.Payment, error)
}

type SettingsGetter interface {
	Get(ctx context.Context) (*domain.Settings, error)
}

// InvoiceService renders the single-page PDF receipt for a payment.
type InvoiceService struct {
	Payments PaymentGetter
	Settings SettingsGetter
}

// ForCustomer renders a receipt only if the customer owns the payment.
func (s InvoiceService) ForCustomer(ctx context.Context, paymentID, customerID int64) ([]byte, string, error) {
	payment, err := s.Payments.GetForCustomer(ctx, paymentID, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperr.NotFound("Payment not found")
		}
		return nil, "", fmt.Errorf("get payment: %w", err)
	}
	return s.render(ctx, payment)
}

// ForAdmin renders a receipt for any payment.
func (s InvoiceService) ForAdmin(ctx context.Context, paymentID int64) ([]byte, string, error) {
	payment, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperr.NotFound("Payment not found")
		}
		return nil, "", fmt.Errorf("get payment: %w", err)
	}
	return s.render(ctx, payment)
}

func (s InvoiceService) render(ctx context.Context, p *domain.Payment) ([]byte, string, error) {
	settings, err := s.Settings.Get(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("load settings: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt "+p.PaymentID, false)
	pdf.AddPage()

	// Company header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 10, settings.CompanyName)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.Cell(0, 5, settings.Address)
	pdf.Ln(5)
	pdf.Cell(0, 5, settings.CompanyPhone+"  |  "+settings.CompanyEmail)
	pdf.Ln(12)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "PAYMENT RECEIPT")
	pdf.Ln(12)

	// Metadata
	pdf.SetFont("Helvetica", "", 11)
	meta := [][2]string{
		{"Receipt No.", p.PaymentID},
		{"Date", p.TransactionDate.Format("02 Jan 2006 15:04")},
		{"Customer", p.CustomerName},
		{"Shipment", p.ShipmentCode},
		{"Method", string(p.Method)},
	}
	for _, kv := range meta {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 7, kv[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, kv[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Line item
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(130, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, "Amount", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(130, 8, "Shipping charges for "+p.ShipmentCode, "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, p.Amount.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(130, 10, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 10, p.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.Ln(14)

	// Stamp
	if p.Status == domain.PaymentCompleted {
		pdf.SetTextColor(0, 140, 60)
		pdf.SetFont("Helvetica", "B", 26)
		pdf.Cell(0, 12, "PAID")
	} else {
		pdf.SetTextColor(200, 40, 40)
		pdf.SetFont("Helvetica", "B", 26)
		pdf.Cell(0, 12, "UNPAID")
	}
	pdf.Ln(20)

	pdf.SetTextColor(120, 120, 120)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 5, "Thank you for shipping with "+settings.CompanyName+".")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), p.PaymentID + ".pdf", nil
}
