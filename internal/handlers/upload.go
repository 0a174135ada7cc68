package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"parishcms/internal/storage"
)

// maxUploadBytes caps image uploads at 5 MB.
const maxUploadBytes = 5 << 20

// allowedImageTypes maps accepted MIME types to the stored file extension.
var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Upload groups the image upload and serving handlers. storageClient may be
// nil when S3 is not configured; uploads then return 503.
type Upload struct {
	storageClient *storage.Client
}

// NewUpload creates a new Upload handler group.
func NewUpload(storageClient *storage.Client) *Upload {
	return &Upload{storageClient: storageClient}
}

// Image accepts a multipart image upload and stores it in the bucket under
// a unique key. The response carries the API path the image is served from.
// POST /api/upload/image
func (u *Upload) Image(w http.ResponseWriter, r *http.Request) {
	if u.storageClient == nil {
		writeError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Image storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "FILE_TOO_LARGE", "Image must be 5 MB or smaller")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_FILE", `Multipart field "file" is required`)
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		writeError(w, http.StatusBadRequest, "FILE_TOO_LARGE", "Image must be 5 MB or smaller")
		return
	}

	// Sniff the real content type; the client-declared one is advisory.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		serverError(w, "read upload failed", err)
		return
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_FILE_TYPE", "Image must be JPEG, PNG, GIF, or WebP")
		return
	}

	filename := fmt.Sprintf("%d-%s.%s", time.Now().UnixMilli(), uuid.NewString(), ext)
	body := io.MultiReader(bytes.NewReader(head), file)

	if err := u.storageClient.Upload(r.Context(), filename, contentType, body, header.Size); err != nil {
		serverError(w, "store upload failed", err)
		return
	}

	slog.Info("image uploaded", "filename", filename, "size", header.Size, "type", contentType)
	writeJSON(w, http.StatusCreated, map[string]any{
		"url":      "/api/images/" + filename,
		"filename": filename,
	})
}

// Delete removes a stored image. Deleting an already-removed key succeeds;
// object deletion is idempotent.
// DELETE /api/images/{filename}
func (u *Upload) Delete(w http.ResponseWriter, r *http.Request) {
	if u.storageClient == nil {
		writeError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Image storage is not configured")
		return
	}

	filename := chi.URLParam(r, "filename")
	if filename == "" || strings.Contains(filename, "/") || strings.Contains(filename, "..") {
		writeError(w, http.StatusBadRequest, "INVALID_FILENAME", "Invalid image name")
		return
	}

	if err := u.storageClient.Delete(r.Context(), filename); err != nil {
		serverError(w, "delete image failed", err)
		return
	}

	slog.Info("image deleted", "filename", filename)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Image deleted"})
}

// Serve streams a stored image. Keys are unique per upload, so responses
// are immutable and cached for a year.
// GET /api/images/{filename}
func (u *Upload) Serve(w http.ResponseWriter, r *http.Request) {
	if u.storageClient == nil {
		writeError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Image storage is not configured")
		return
	}

	filename := chi.URLParam(r, "filename")
	if filename == "" || strings.Contains(filename, "/") || strings.Contains(filename, "..") {
		writeError(w, http.StatusBadRequest, "INVALID_FILENAME", "Invalid image name")
		return
	}

	obj, err := u.storageClient.Open(r.Context(), filename)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Image not found")
		return
	}
	defer obj.Body.Close()

	if obj.ETag != "" {
		if match := r.Header.Get("If-None-Match"); match != "" && match == obj.ETag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", obj.ETag)
	}
	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	if obj.ContentLength > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", obj.ContentLength))
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")

	if _, err := io.Copy(w, obj.Body); err != nil {
		slog.Warn("stream image failed", "filename", filename, "error", err)
	}
}
