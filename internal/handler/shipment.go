package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/Barmakyy/logistics-app/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

type ShipmentHandler struct {
	Repo    repository.ShipmentRepository
	Service service.ShipmentService
}

// RegisterPublicRoutes exposes tracking by the public shipment code, without
// customer details.
func (h ShipmentHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/track/{code}", h.track)
}

func (h ShipmentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/shipments", h.list)
	r.Get("/shipments/summary", h.summary)
	r.Get("/shipments/export", h.export)
	r.Post("/shipments", h.create)
	r.Get("/shipments/{id}", h.get)
	r.Patch("/shipments/{id}", h.update)
	r.Delete("/shipments/{id}", h.delete)
}

func (h ShipmentHandler) track(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	shipment, err := h.Repo.GetByShipmentCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeAppErr(w, apperr.NotFound("Shipment not found"))
			return
		}
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"shipment": map[string]any{
			"shipmentId":      shipment.ShipmentID,
			"origin":          shipment.Origin,
			"destination":     shipment.Destination,
			"status":          shipment.Status,
			"dispatchDate":    shipment.DispatchDate,
			"trackingHistory": trackingView(shipment.TrackingHistory),
		},
	})
}

func (h ShipmentHandler) list(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r)
	items, total, err := h.Repo.List(r.Context(), repository.ListShipmentsParams{
		Search: q.Search,
		Status: domain.ShipmentStatus(q.Status),
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writePage(w, map[string]any{"shipments": shipmentViews(items)}, pagination(total, q.Page, q.Limit))
}

func (h ShipmentHandler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.Summary(r.Context())
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"total":     s.Total,
		"inTransit": s.InTransit,
		"delivered": s.Delivered,
		"pending":   s.Pending,
		"cancelled": s.Cancelled,
	})
}

// export streams the filtered shipment list as an xlsx workbook.
func (h ShipmentHandler) export(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r)
	items, _, err := h.Repo.List(r.Context(), repository.ListShipmentsParams{
		Search: q.Search,
		Status: domain.ShipmentStatus(q.Status),
		Page:   1,
		Limit:  10000,
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Shipments"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Shipment ID", "Customer", "Origin", "Destination", "Status", "Dispatch Date", "Weight (kg)", "Cost"}
	for i, hv := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, hv)
	}
	for row, s := range items {
		values := []any{
			s.ShipmentID, s.CustomerName, s.Origin, s.Destination, string(s.Status),
			s.DispatchDate.Format("2006-01-02"), s.Weight, s.Cost.StringFixed(2),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=shipments-%s.xlsx", time.Now().Format("2006-01-02")))
	_ = f.Write(w)
}

func (h ShipmentHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Customer       string  `json:"customer"`
		Origin         string  `json:"origin"`
		Destination    string  `json:"destination"`
		Weight         float64 `json:"weight"`
		PackageDetails string  `json:"packageDetails"`
		Status         string  `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAppErr(w, err)
		return
	}
	shipment, err := h.Service.AdminCreate(r.Context(), service.AdminCreateInput{
		CustomerName:   req.Customer,
		Origin:         req.Origin,
		Destination:    req.Destination,
		Weight:         req.Weight,
		PackageDetails: req.PackageDetails,
		Status:         domain.ShipmentStatus(req.Status),
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"shipment": shipmentView(*shipment)})
}

func (h ShipmentHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	shipment, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeAppErr(w, apperr.NotFound("Shipment not found"))
			return
		}
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"shipment": shipmentView(*shipment)})
}

func (h ShipmentHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	var req struct {
		Origin          *string  `json:"origin"`
		Destination     *string  `json:"destination"`
		Status          *string  `json:"status"`
		AgentID         *int64   `json:"agentId"`
		Weight          *float64 `json:"weight"`
		PackageDetails  *string  `json:"packageDetails"`
		CurrentLocation string   `json:"currentLocation"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAppErr(w, err)
		return
	}

	var status *domain.ShipmentStatus
	if req.Status != nil {
		s := domain.ShipmentStatus(*req.Status)
		if !domain.ValidShipmentStatus(s) {
			writeAppErr(w, apperr.Invalid("invalid shipment status"))
			return
		}
		status = &s
	}

	shipment, err := h.Repo.Update(r.Context(), id, repository.UpdateShipmentParams{
		Origin:         req.Origin,
		Destination:    req.Destination,
		Status:         status,
		AgentID:        req.AgentID,
		Weight:         req.Weight,
		PackageDetails: req.PackageDetails,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeAppErr(w, apperr.NotFound("Shipment not found"))
			return
		}
		writeAppErr(w, err)
		return
	}

	// A status change extends the tracking trail. The location is whatever
	// the operator reported; "N/A" when they did not say.
	if status != nil {
		location := req.CurrentLocation
		if location == "" {
			location = "N/A"
		}
		if err := h.Repo.AddTrackingEvent(r.Context(), id, *status, location, time.Now()); err != nil {
			writeAppErr(w, err)
			return
		}
		shipment, err = h.Repo.GetByID(r.Context(), id)
		if err != nil {
			writeAppErr(w, err)
			return
		}
	}
	writeData(w, http.StatusOK, map[string]any{"shipment": shipmentView(*shipment)})
}

func (h ShipmentHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeAppErr(w, apperr.NotFound("Shipment not found"))
			return
		}
		writeAppErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("invalid id")
	}
	return id, nil
}
