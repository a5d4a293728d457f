package handler

import (
	"errors"
	"net/http"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// AgentHandler is the admin's delivery-agent management surface.
type AgentHandler struct {
	Users     repository.UserRepository
	Shipments repository.ShipmentRepository
}

func (h AgentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/agents", h.list)
	r.Get("/agents/summary", h.summary)
	r.Get("/agents/list", h.listAll)
	r.Post("/agents", h.create)
	r.Patch("/agents/{id}", h.update)
	r.Delete("/agents/{id}", h.delete)
}

// agentRating derives the display rating from the delivery count. There is
// no review system; the rating is a synthetic 3.5 to 7.5 score.
func agentRating(deliveries int64) float64 {
	return float64(deliveries%5) + 3.5
}

func (h AgentHandler) list(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r)
	items, total, err := h.Users.List(r.Context(), repository.ListUsersParams{
		Role:   domain.RoleAgent,
		Search: q.Search,
		Status: domain.UserStatus(q.Status),
		Region: q.Region,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}

	ids := make([]int64, 0, len(items))
	for _, u := range items {
		ids = append(ids, u.ID)
	}
	deliveries := map[int64]int64{}
	if len(ids) > 0 {
		deliveries, err = h.Shipments.DeliveredCountsByAgent(r.Context(), ids)
		if err != nil {
			writeAppErr(w, err)
			return
		}
	}

	views := make([]map[string]any, 0, len(items))
	for _, u := range items {
		v := userView(u)
		v["deliveries"] = deliveries[u.ID]
		v["rating"] = agentRating(deliveries[u.ID])
		views = append(views, v)
	}
	writePage(w, map[string]any{"agents": views}, pagination(total, q.Page, q.Limit))
}

func (h AgentHandler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Users.AgentSummary(r.Context())
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"total":    s.Total,
		"active":   s.Active,
		"idle":     s.Idle,
		"inactive": s.Inactive,
	})
}

// listAll returns every agent for assignment dropdowns, unpaginated.
func (h AgentHandler) listAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.Users.ListByRole(r.Context(), domain.RoleAgent)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	views := make([]map[string]any, 0, len(items))
	for _, u := range items {
		views = append(views, map[string]any{
			"id":     u.ID,
			"name":   u.Name,
			"status": u.Status,
		})
	}
	writeData(w, http.StatusOK, map[string]any{"agents": views})
}

func (h AgentHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Location string `json:"location"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAppErr(w, err)
		return
	}
	if req.Name == "" || req.Email == "" {
		writeAppErr(w, apperr.Invalid("name and email are required"))
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultManagedPassword), bcrypt.DefaultCost)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	hashStr := string(hash)
	user, err := h.Users.Create(r.Context(), repository.CreateUserParams{
		Name:         req.Name,
		Email:        req.Email,
		Role:         domain.RoleAgent,
		Status:       domain.UserIdle,
		Phone:        req.Phone,
		Location:     req.Location,
		PasswordHash: &hashStr,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			writeAppErr(w, apperr.Invalid("a user with this email already exists"))
			return
		}
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"agent": userView(*user)})
}

func (h AgentHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		Location *string `json:"location"`
		Status   *string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAppErr(w, err)
		return
	}
	user, err := h.Users.Update(r.Context(), id, domain.RoleAgent, repository.UpdateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
		Status:   (*domain.UserStatus)(req.Status),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeAppErr(w, apperr.NotFound("Agent not found"))
			return
		}
		if repository.IsDuplicate(err) {
			writeAppErr(w, apperr.Invalid("a user with this email already exists"))
			return
		}
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"agent": userView(*user)})
}

func (h AgentHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	if err := h.Users.Delete(r.Context(), id, domain.RoleAgent); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeAppErr(w, apperr.NotFound("Agent not found"))
			return
		}
		writeAppErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
