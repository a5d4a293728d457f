package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Barmakyy/logistics-app/internal/apperr"
	"github.com/google/uuid"
)

// maxUploadBytes caps image uploads at 1 MB.
const maxUploadBytes = 1 << 20

var allowedImageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// saveImageUpload validates and stores a multipart image upload under dir,
// returning the public path clients use to fetch it. The extension and the
// sniffed content type must both be on the allowlist; a mismatched pair is
// rejected. The request body is hard-capped so an oversized upload is cut
// off mid-stream instead of being spooled to disk first.
func saveImageUpload(w http.ResponseWriter, r *http.Request, field, dir string) (string, error) {
	// slack for the multipart boundary and part headers
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+10*1024)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", apperr.Invalid("could not parse upload; files are limited to 1MB")
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", apperr.Invalid(fmt.Sprintf("missing file field %q", field))
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		return "", apperr.Invalid("file too large; the limit is 1MB")
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	wantType, ok := allowedImageExts[ext]
	if !ok {
		return "", apperr.Invalid("only jpg, jpeg, png and gif images are allowed")
	}
	if err := checkContentType(file, wantType); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, io.LimitReader(file, maxUploadBytes)); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return "/uploads/" + name, nil
}

func checkContentType(file multipart.File, want string) error {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("read upload: %w", err)
	}
	got := http.DetectContentType(buf[:n])
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind upload: %w", err)
	}
	// gif detection yields image/gif; jpeg and png likewise. Anything else,
	// including renamed binaries, fails here even with an allowed extension.
	if got != want {
		return apperr.Invalid("file content does not match its extension")
	}
	return nil
}
