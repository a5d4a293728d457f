package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/shopspring/decimal"
)

type PaymentLedger interface {
	Create(ctx context.Context, p repository.CreatePaymentParams) (*domain.Payment, error)
	MarkCompleted(ctx context.Context, id, customerID int64, at time.Time) (*domain.Payment, error)
}

type ShipmentLookup interface {
	GetByShipmentCode(ctx context.Context, code string) (*domain.Shipment, error)
}

type PaymentService struct {
	Payments  PaymentLedger
	Shipments ShipmentLookup
}

type AdminCreatePaymentInput struct {
	ShipmentCode string
	Amount       *decimal.Decimal
	Method       domain.PaymentMethod
	Status       domain.PaymentStatus
}

// AdminCreate records a payment against a shipment. The amount defaults to
// the shipment's cost and the status to Completed, since an admin entering a
// payment is usually booking money already received.
func (s PaymentService) AdminCreate(ctx context.Context, in AdminCreatePaymentInput) (*domain.Payment, error) {
	if !domain.ValidPaymentMethod(in.Method) {
		return nil, apperr.Invalid("invalid payment method")
	}
	shipment, err := s.Shipments.GetByShipmentCode(ctx, in.ShipmentCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(fmt.Sprintf("Shipment with ID %s not found", in.ShipmentCode))
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	if shipment.CustomerID == nil {
		return nil, apperr.Invalid("shipment has no customer on record")
	}
	amount := shipment.Cost
	if in.Amount != nil {
		amount = *in.Amount
	}
	status := in.Status
	if status == "" {
		status = domain.PaymentCompleted
	}
	payment, err := s.Payments.Create(ctx, repository.CreatePaymentParams{
		PaymentCode: domain.NewPaymentCode(),
		ShipmentID:  shipment.ID,
		CustomerID:  *shipment.CustomerID,
		Amount:      amount,
		Method:      in.Method,
		Status:      status,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return payment, nil
}

// Pay settles a customer's Pending payment. The Pending -> Completed
// transition is the only one a customer can trigger; paying an already
// settled (or missing, or foreign) payment fails identically.
func (s PaymentService) Pay(ctx context.Context, paymentID, customerID int64) (*domain.Payment, error) {
	payment, err := s.Payments.MarkCompleted(ctx, paymentID, customerID, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Payment not found or not pending")
		}
		return nil, fmt.Errorf("complete payment: %w", err)
	}
	return payment, nil
}
