package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Barmakyy/logistics-app/internal/apperr"
)

// Every JSON body carries a status discriminator: "success" with a data
// payload, "fail" for client errors, "error" for server errors.

func writeRawJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeRawJSON(w, status, map[string]any{
		"status": "success",
		"data":   data,
	})
}

type pageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func writePage(w http.ResponseWriter, data any, meta pageMeta) {
	writeRawJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"pagination": meta,
		"data":       data,
	})
}

// writeAppErr maps a classified error to its response exactly once, at the
// boundary. 4xx bodies use status "fail", 5xx use "error"; internal detail
// never leaves the process.
func writeAppErr(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	kind := "fail"
	if status >= 500 {
		kind = "error"
	}
	writeRawJSON(w, status, map[string]any{
		"status":  kind,
		"message": apperr.PublicMessage(err),
	})
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Invalid("request body is required")
		}
		return apperr.Invalid("invalid JSON payload")
	}
	return nil
}
