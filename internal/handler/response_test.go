package handler

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteDataEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeData(rec, 200, map[string]any{"answer": 42})

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(42), body["data"].(map[string]any)["answer"])
}

func TestWriteAppErrClientError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeAppErr(rec, apperr.NotFound("Shipment not found"))

	assert.Equal(t, 404, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, "Shipment not found", body["message"])
}

func TestWriteAppErrServerErrorHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeAppErr(rec, errors.New("pq: password authentication failed for user postgres"))

	assert.Equal(t, 500, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "internal server error", body["message"])
	assert.NotContains(t, rec.Body.String(), "postgres")
}

func TestWritePage(t *testing.T) {
	rec := httptest.NewRecorder()
	writePage(rec, map[string]any{"items": []int{}}, pagination(21, 2, 10))

	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	meta := body["pagination"].(map[string]any)
	assert.Equal(t, float64(21), meta["total"])
	assert.Equal(t, float64(2), meta["page"])
	assert.Equal(t, float64(3), meta["totalPages"])
}
