package handler

import (
	"errors"
	"net/http"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/Barmakyy/logistics-app/internal/service"
	"github.com/go-chi/chi/v5"
)

type MessageHandler struct {
	Repo    repository.MessageRepository
	Service service.MessageService
}

// RegisterPublicRoutes exposes the contact form; anyone can write in.
func (h MessageHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/messages", h.submit)
}

func (h MessageHandler) RegisterRoutes(r chi.Router) {
	r.Get("/messages", h.list)
	r.Get("/messages/summary", h.summary)
	r.Post("/messages/{id}/reply", h.reply)
	r.Patch("/messages/{id}/status", h.updateStatus)
	r.Delete("/messages/{id}", h.delete)
}

func (h MessageHandler) submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAppErr(w, err)
		return
	}
	msg, err := h.Service.Submit(r.Context(), service.ContactInput{
		Sender:  req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Message,
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"message": messageView(*msg)})
}

func (h MessageHandler) list(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r)
	items, total, err := h.Repo.List(r.Context(), repository.ListMessagesParams{
		Search: q.Search,
		Status: domain.MessageStatus(q.Status),
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writePage(w, map[string]any{"messages": messageViews(items)}, pagination(total, q.Page, q.Limit))
}

func (h MessageHandler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.Summary(r.Context())
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"total":   s.Total,
		"unread":  s.Unread,
		"replied": s.Replied,
		"spam":    s.Spam,
	})
}

func (h MessageHandler) reply(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	var req struct {
		Reply string `json:"reply"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAppErr(w, err)
		return
	}
	msg, err := h.Service.Reply(r.Context(), id, req.Reply)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"message": messageView(*msg)})
}

func (h MessageHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAppErr(w, err)
		return
	}
	status := domain.MessageStatus(req.Status)
	if !domain.ValidMessageStatus(status) {
		writeAppErr(w, apperr.Invalid("invalid message status"))
		return
	}
	msg, err := h.Repo.UpdateStatus(r.Context(), id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeAppErr(w, apperr.NotFound("Message not found"))
			return
		}
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"message": messageView(*msg)})
}

func (h MessageHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeAppErr(w, apperr.NotFound("Message not found"))
			return
		}
		writeAppErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
