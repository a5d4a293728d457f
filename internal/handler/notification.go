package handler

import (
	"errors"
	"net/http"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/Barmakyy/logistics-app/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	Repo repository.NotificationRepository
}

func (h NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/notifications", h.listUnread)
	r.Patch("/notifications/{id}/read", h.markRead)
}

func (h NotificationHandler) listUnread(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	items, err := h.Repo.ListUnread(r.Context(), user.ID)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	views := make([]map[string]any, 0, len(items))
	for _, n := range items {
		views = append(views, notificationView(n))
	}
	writeData(w, http.StatusOK, map[string]any{"notifications": views})
}

func (h NotificationHandler) markRead(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	n, err := h.Repo.MarkRead(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeAppErr(w, apperr.NotFound("Notification not found"))
			return
		}
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"notification": notificationView(*n)})
}
