package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func multipartUpload(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest("POST", "/upload", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestSaveImageUploadStoresFile(t *testing.T) {
	dir := t.TempDir()
	r := multipartUpload(t, "profilePicture", "avatar.png", pngBytes)

	path, err := saveImageUpload(httptest.NewRecorder(), r, "profilePicture", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "/uploads/"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	// the stored name is randomized, not the client's filename
	assert.NotContains(t, path, "avatar")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}

func TestSaveImageUploadRejectsDisallowedExtension(t *testing.T) {
	r := multipartUpload(t, "profilePicture", "payload.svg", []byte("<svg/>"))
	_, err := saveImageUpload(httptest.NewRecorder(), r, "profilePicture", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, 400, apperr.HTTPStatus(err))
}

func TestSaveImageUploadRejectsMismatchedContent(t *testing.T) {
	// a text file renamed to .png fails the content sniff
	r := multipartUpload(t, "profilePicture", "fake.png", []byte("just some plain text, not pixels"))
	_, err := saveImageUpload(httptest.NewRecorder(), r, "profilePicture", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, 400, apperr.HTTPStatus(err))
	assert.Contains(t, apperr.PublicMessage(err), "content does not match")
}

func TestSaveImageUploadRejectsOversizedBody(t *testing.T) {
	dir := t.TempDir()
	big := append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{0}, 2<<20)...)
	r := multipartUpload(t, "profilePicture", "huge.png", big)

	_, err := saveImageUpload(httptest.NewRecorder(), r, "profilePicture", dir)
	require.Error(t, err)
	assert.Equal(t, 400, apperr.HTTPStatus(err))

	// nothing was stored
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveImageUploadRejectsMissingField(t *testing.T) {
	r := multipartUpload(t, "somethingElse", "avatar.png", pngBytes)
	_, err := saveImageUpload(httptest.NewRecorder(), r, "profilePicture", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, 400, apperr.HTTPStatus(err))
}
