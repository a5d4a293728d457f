package handler

import (
	"net/http"

	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/go-chi/chi/v5"
)

// SettingsHandler manages the single company configuration record.
type SettingsHandler struct {
	Repo      repository.SettingsRepository
	UploadDir string
}

func (h SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.get)
	r.Patch("/settings", h.update)
	r.Post("/settings/logo", h.uploadLogo)
}

// RegisterPublicRoutes exposes the company's public profile for the site
// footer and contact page.
func (h SettingsHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/settings/public", h.public)
}

func (h SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.Get(r.Context())
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"settings": settingsView(*s)})
}

func (h SettingsHandler) public(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.Get(r.Context())
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"companyName":  s.CompanyName,
		"companyEmail": s.CompanyEmail,
		"companyPhone": s.CompanyPhone,
		"address":      s.Address,
		"website":      s.Website,
		"logo":         s.Logo,
		"socialMedia": map[string]any{
			"facebook":  s.Facebook,
			"whatsapp":  s.Whatsapp,
			"instagram": s.Instagram,
			"linkedin":  s.Linkedin,
		},
	})
}

func (h SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyName  *string `json:"companyName"`
		CompanyEmail *string `json:"companyEmail"`
		CompanyPhone *string `json:"companyPhone"`
		Address      *string `json:"address"`
		Website      *string `json:"website"`

		SocialMedia *struct {
			Facebook  *string `json:"facebook"`
			Whatsapp  *string `json:"whatsapp"`
			Instagram *string `json:"instagram"`
			Linkedin  *string `json:"linkedin"`
		} `json:"socialMedia"`

		Notifications *struct {
			EmailAlertsNewShipments         *bool `json:"emailAlertsNewShipments"`
			EmailAlertsNewMessages          *bool `json:"emailAlertsNewMessages"`
			EmailAlertsPaymentConfirmations *bool `json:"emailAlertsPaymentConfirmations"`
			WhatsappNotifications           *bool `json:"whatsappNotifications"`
		} `json:"notifications"`

		Appearance *struct {
			DarkMode    *bool   `json:"darkMode"`
			AccentColor *string `json:"accentColor"`
		} `json:"appearance"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAppErr(w, err)
		return
	}

	params := repository.UpdateSettingsParams{
		CompanyName:  req.CompanyName,
		CompanyEmail: req.CompanyEmail,
		CompanyPhone: req.CompanyPhone,
		Address:      req.Address,
		Website:      req.Website,
	}
	if req.SocialMedia != nil {
		params.Facebook = req.SocialMedia.Facebook
		params.Whatsapp = req.SocialMedia.Whatsapp
		params.Instagram = req.SocialMedia.Instagram
		params.Linkedin = req.SocialMedia.Linkedin
	}
	if req.Notifications != nil {
		params.EmailAlertsNewShipments = req.Notifications.EmailAlertsNewShipments
		params.EmailAlertsNewMessages = req.Notifications.EmailAlertsNewMessages
		params.EmailAlertsPaymentConfirmations = req.Notifications.EmailAlertsPaymentConfirmations
		params.WhatsappNotifications = req.Notifications.WhatsappNotifications
	}
	if req.Appearance != nil {
		params.DarkMode = req.Appearance.DarkMode
		params.AccentColor = req.Appearance.AccentColor
	}

	s, err := h.Repo.Update(r.Context(), params)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"settings": settingsView(*s)})
}

func (h SettingsHandler) uploadLogo(w http.ResponseWriter, r *http.Request) {
	path, err := saveImageUpload(w, r, "companyLogo", h.UploadDir)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	if err := h.Repo.UpdateLogo(r.Context(), path); err != nil {
		writeAppErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"logo": path})
}
