package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// defaultManagedPassword is the first-login password for accounts an admin
// creates on someone's behalf.
const defaultManagedPassword = "password123"

// CustomerHandler is the admin's customer management surface.
type CustomerHandler struct {
	Users     repository.UserRepository
	Shipments repository.ShipmentRepository
}

func (h CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/customers", h.list)
	r.Get("/customers/summary", h.summary)
	r.Post("/customers", h.create)
	r.Get("/customers/{id}", h.get)
	r.Patch("/customers/{id}", h.update)
	r.Delete("/customers/{id}", h.delete)
}

func (h CustomerHandler) list(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r)
	items, total, err := h.Users.List(r.Context(), repository.ListUsersParams{
		Role:   domain.RoleCustomer,
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
	counts := map[int64]int64{}
	if len(ids) > 0 {
		counts, err = h.Shipments.CountsByCustomer(r.Context(), ids)
		if err != nil {
			writeAppErr(w, err)
			return
		}
	}

	views := make([]map[string]any, 0, len(items))
	for _, u := range items {
		v := userView(u)
		v["shipments"] = counts[u.ID]
		views = append(views, v)
	}
	writePage(w, map[string]any{"customers": views}, pagination(total, q.Page, q.Limit))
}

func (h CustomerHandler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Users.CustomerSummary(r.Context())
	if err != nil {
		writeAppErr(w, err)
		return
	}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	shipmentsThisMonth, err := h.Shipments.CountDispatchedBetween(r.Context(), monthStart, now)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"total":              s.Total,
		"active":             s.Active,
		"inactive":           s.Inactive,
		"shipmentsThisMonth": shipmentsThisMonth,
	})
}

func (h CustomerHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Location string `json:"location"`
		Status   string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAppErr(w, err)
		return
	}
	if req.Name == "" || req.Email == "" {
		writeAppErr(w, apperr.Invalid("name and email are required"))
		return
	}
	if req.Status != "" && req.Status != string(domain.UserActive) && req.Status != string(domain.UserInactive) {
		writeAppErr(w, apperr.Invalid("invalid customer status"))
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
		Role:         domain.RoleCustomer,
		Status:       domain.UserStatus(req.Status),
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
	writeData(w, http.StatusCreated, map[string]any{"customer": userView(*user)})
}

func (h CustomerHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	user, err := h.Users.GetByID(r.Context(), id)
	if err != nil || user.Role != domain.RoleCustomer {
		writeAppErr(w, apperr.NotFound("Customer not found"))
		return
	}
	writeData(w, http.StatusOK, map[string]any{"customer": userView(*user)})
}

func (h CustomerHandler) update(w http.ResponseWriter, r *http.Request) {
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
	user, err := h.Users.Update(r.Context(), id, domain.RoleCustomer, repository.UpdateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
		Status:   (*domain.UserStatus)(req.Status),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeAppErr(w, apperr.NotFound("Customer not found"))
			return
		}
		if repository.IsDuplicate(err) {
			writeAppErr(w, apperr.Invalid("a user with this email already exists"))
			return
		}
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"customer": userView(*user)})
}

func (h CustomerHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	if err := h.Users.Delete(r.Context(), id, domain.RoleCustomer); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeAppErr(w, apperr.NotFound("Customer not found"))
			return
		}
		writeAppErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
