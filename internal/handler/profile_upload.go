package handler

import (
	"net/http"

	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/Barmakyy/logistics-app/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

// ProfileUploadHandler stores a new profile picture for the logged-in user.
type ProfileUploadHandler struct {
	UploadDir string
	Users     repository.UserRepository
}

func (h ProfileUploadHandler) RegisterRoutes(r chi.Router) {
	r.Post("/uploads/profile-picture", h.upload)
}

func (h ProfileUploadHandler) upload(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	path, err := saveImageUpload(w, r, "profilePicture", h.UploadDir)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	updated, err := h.Users.UpdateProfile(r.Context(), user.ID, nil, nil, nil, &path)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"user": userView(*updated)})
}
