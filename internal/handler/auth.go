package handler

import (
	"net/http"

	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/Barmakyy/logistics-app/internal/server/authctx"
	"github.com/Barmakyy/logistics-app/internal/service"
	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	Service service.AuthService
	Users   repository.UserRepository
}

func (h AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
}

// RegisterProtectedRoutes mounts the routes that operate on the logged-in
// account, whatever its role.
func (h AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/auth/me", h.me)
	r.Patch("/auth/update-me", h.updateMe)
	r.Patch("/auth/update-password", h.updatePassword)
}

func (h AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAppErr(w, err)
		return
	}
	res, err := h.Service.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeRawJSON(w, http.StatusCreated, map[string]any{
		"status": "success",
		"token":  res.Token,
		"data":   map[string]any{"user": userView(res.User)},
	})
}

func (h AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAppErr(w, err)
		return
	}
	res, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeRawJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"token":  res.Token,
		"data":   map[string]any{"user": userView(res.User)},
	})
}

func (h AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	writeData(w, http.StatusOK, map[string]any{"user": userView(*user)})
}

func (h AuthHandler) updateMe(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	var req struct {
		Name     *string `json:"name"`
		Phone    *string `json:"phone"`
		Location *string `json:"location"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAppErr(w, err)
		return
	}
	updated, err := h.Users.UpdateProfile(r.Context(), user.ID, req.Name, req.Phone, req.Location, nil)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"user": userView(*updated)})
}

func (h AuthHandler) updatePassword(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAppErr(w, err)
		return
	}
	res, err := h.Service.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeRawJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"token":  res.Token,
		"data":   map[string]any{"user": userView(res.User)},
	})
}
