package handler

import (
	"errors"
	"net/http"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/Barmakyy/logistics-app/internal/server/authctx"
	"github.com/Barmakyy/logistics-app/internal/service"
	"github.com/go-chi/chi/v5"
)

// CustomerPortalHandler serves the logged-in customer's own dashboard. Every
// query is scoped to the current user; there is no way to reach another
// customer's records from here.
type CustomerPortalHandler struct {
	Shipments repository.ShipmentRepository
	Payments  repository.PaymentRepository
	Messages  repository.MessageRepository

	ShipmentSvc service.ShipmentService
	PaymentSvc  service.PaymentService
	InvoiceSvc  service.InvoiceService
	MessageSvc  service.MessageService
}

func (h CustomerPortalHandler) RegisterRoutes(r chi.Router) {
	r.Get("/customer-dashboard/stats", h.stats)
	r.Get("/customer-dashboard/shipments", h.listShipments)
	r.Post("/customer-dashboard/shipments", h.bookShipment)
	r.Get("/customer-dashboard/shipments/{id}", h.shipmentDetails)
	r.Get("/customer-dashboard/payments", h.listPayments)
	r.Get("/customer-dashboard/payments/summary", h.paymentSummary)
	r.Post("/customer-dashboard/payments/{id}/pay", h.pay)
	r.Get("/customer-dashboard/payments/{id}/invoice", h.invoice)
	r.Get("/customer-dashboard/messages", h.listMessages)
	r.Post("/customer-dashboard/messages", h.createMessage)
	r.Delete("/customer-dashboard/messages/{id}", h.deleteMessage)
}

func (h CustomerPortalHandler) stats(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	shipmentStats, err := h.Shipments.StatsForCustomer(r.Context(), user.ID)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	paymentStats, err := h.Payments.SummaryForCustomer(r.Context(), user.ID)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	recent, err := h.Shipments.RecentForCustomer(r.Context(), user.ID, 5)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"shipments": map[string]any{
			"total":     shipmentStats.Total,
			"delivered": shipmentStats.Delivered,
			"pending":   shipmentStats.Pending,
		},
		"payments": map[string]any{
			"totalPaid":     paymentStats.TotalPaid,
			"pendingAmount": paymentStats.PendingAmount,
			"count":         paymentStats.PaymentCount,
		},
		"recentShipments": shipmentViews(recent),
	})
}

func (h CustomerPortalHandler) listShipments(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	q := parseListQuery(r)
	items, total, err := h.Shipments.List(r.Context(), repository.ListShipmentsParams{
		Search:     q.Search,
		Status:     domain.ShipmentStatus(q.Status),
		CustomerID: user.ID,
		Page:       q.Page,
		Limit:      q.Limit,
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writePage(w, map[string]any{"shipments": shipmentViews(items)}, pagination(total, q.Page, q.Limit))
}

func (h CustomerPortalHandler) bookShipment(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	var req struct {
		Origin         string  `json:"origin"`
		Destination    string  `json:"destination"`
		Weight         float64 `json:"weight"`
		PackageDetails string  `json:"packageDetails"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAppErr(w, err)
		return
	}
	shipment, err := h.ShipmentSvc.Book(r.Context(), *user, service.BookingInput{
		Origin:         req.Origin,
		Destination:    req.Destination,
		Weight:         req.Weight,
		PackageDetails: req.PackageDetails,
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"shipment": shipmentView(*shipment)})
}

func (h CustomerPortalHandler) shipmentDetails(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	shipment, err := h.ShipmentSvc.Details(r.Context(), id, user.ID)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"shipment": shipmentView(*shipment)})
}

func (h CustomerPortalHandler) listPayments(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	q := parseListQuery(r)
	items, total, err := h.Payments.List(r.Context(), repository.ListPaymentsParams{
		Search:     q.Search,
		Status:     domain.PaymentStatus(q.Status),
		CustomerID: user.ID,
		Page:       q.Page,
		Limit:      q.Limit,
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writePage(w, map[string]any{"payments": paymentViews(items)}, pagination(total, q.Page, q.Limit))
}

func (h CustomerPortalHandler) paymentSummary(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	s, err := h.Payments.SummaryForCustomer(r.Context(), user.ID)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"totalPaid":     s.TotalPaid,
		"pendingAmount": s.PendingAmount,
		"count":         s.PaymentCount,
	})
}

func (h CustomerPortalHandler) pay(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	payment, err := h.PaymentSvc.Pay(r.Context(), id, user.ID)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"payment": paymentView(*payment)})
}

func (h CustomerPortalHandler) invoice(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	pdf, filename, err := h.InvoiceSvc.ForCustomer(r.Context(), id, user.ID)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename=`+filename)
	_, _ = w.Write(pdf)
}

func (h CustomerPortalHandler) listMessages(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	q := parseListQuery(r)
	items, total, err := h.Messages.List(r.Context(), repository.ListMessagesParams{
		Search: q.Search,
		Status: domain.MessageStatus(q.Status),
		UserID: user.ID,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writePage(w, map[string]any{"messages": messageViews(items)}, pagination(total, q.Page, q.Limit))
}

func (h CustomerPortalHandler) createMessage(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	var req struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAppErr(w, err)
		return
	}
	msg, err := h.MessageSvc.SubmitOwn(r.Context(), *user, req.Subject, req.Message)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"message": messageView(*msg)})
}

func (h CustomerPortalHandler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	if err := h.Messages.DeleteForUser(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeAppErr(w, apperr.NotFound("Message not found"))
			return
		}
		writeAppErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
