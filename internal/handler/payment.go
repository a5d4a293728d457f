package handler

import (
	"net/http"
	"time"

	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/Barmakyy/logistics-app/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	Repo    repository.PaymentRepository
	Service service.PaymentService
	Invoice service.InvoiceService
}

func (h PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/payments", h.list)
	r.Get("/payments/summary", h.summary)
	r.Get("/payments/chart-data", h.chartData)
	r.Post("/payments", h.create)
	r.Get("/payments/{id}/invoice", h.invoice)
}

func (h PaymentHandler) list(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r)
	items, total, err := h.Repo.List(r.Context(), repository.ListPaymentsParams{
		Search: q.Search,
		Status: domain.PaymentStatus(q.Status),
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writePage(w, map[string]any{"payments": paymentViews(items)}, pagination(total, q.Page, q.Limit))
}

func (h PaymentHandler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.Summary(r.Context())
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"totalRevenue":     s.TotalRevenue,
		"pendingPayments":  s.PendingPayments,
		"completedCount":   s.CompletedCount,
		"failedOrRefunded": s.FailedOrRefundedCount,
	})
}

// chartData returns completed revenue per month for the last six months,
// zero-filled so the chart always has six points.
func (h PaymentHandler) chartData(w http.ResponseWriter, r *http.Request) {
	buckets := lastMonths(6, time.Now())
	points, err := h.Repo.MonthlyRevenue(r.Context(), buckets[0].Start)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	byMonth := make(map[string]decimal.Decimal, len(points))
	for _, p := range points {
		byMonth[p.Month] = p.Revenue
	}
	series := make([]map[string]any, 0, len(buckets))
	for _, b := range buckets {
		revenue := decimal.Zero
		if v, ok := byMonth[b.Key]; ok {
			revenue = v
		}
		series = append(series, map[string]any{
			"month":   b.Label,
			"revenue": revenue,
		})
	}
	writeData(w, http.StatusOK, map[string]any{"monthlyRevenue": series})
}

func (h PaymentHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShipmentID string           `json:"shipmentId"`
		Amount     *decimal.Decimal `json:"amount"`
		Method     string           `json:"method"`
		Status     string           `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAppErr(w, err)
		return
	}
	payment, err := h.Service.AdminCreate(r.Context(), service.AdminCreatePaymentInput{
		ShipmentCode: req.ShipmentID,
		Amount:       req.Amount,
		Method:       domain.PaymentMethod(req.Method),
		Status:       domain.PaymentStatus(req.Status),
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"payment": paymentView(*payment)})
}

func (h PaymentHandler) invoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	pdf, filename, err := h.Invoice.ForAdmin(r.Context(), id)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename=`+filename)
	_, _ = w.Write(pdf)
}
