package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"parishcms/internal/storage"
)

// newTestRouter mounts the image routes so chi URL params resolve.
func newTestRouter(u *Upload) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/images/{filename}", u.Serve)
	r.Delete("/api/images/{filename}", u.Delete)
	return r
}

// testStorage returns a real client pointed at nothing. Tests below only
// exercise paths that reject before any network call.
func testStorage(t *testing.T) *storage.Client {
	t.Helper()
	client, err := storage.New("http://localhost:1", "auto", "test", "test", "test-bucket")
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	return client
}

func multipartFile(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(content)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func uploadErrCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if body.Error == nil {
		t.Fatal("expected error envelope")
	}
	return body.Error.Code
}

func TestUploadImageNoStorage(t *testing.T) {
	u := NewUpload(nil)

	body, ct := multipartFile(t, "file", "a.png", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload/image", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	u.Image(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
	if code := uploadErrCode(t, rec); code != "STORAGE_UNAVAILABLE" {
		t.Errorf("code: got %q", code)
	}
}

func TestUploadImageMissingFile(t *testing.T) {
	u := NewUpload(testStorage(t))

	body, ct := multipartFile(t, "wrong_field", "a.png", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload/image", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	u.Image(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
	if code := uploadErrCode(t, rec); code != "MISSING_FILE" {
		t.Errorf("code: got %q", code)
	}
}

func TestUploadImageRejectsOversize(t *testing.T) {
	u := NewUpload(testStorage(t))

	// One byte over the cap. The form parser hits the reader limit before
	// any content inspection.
	body, ct := multipartFile(t, "file", "big.png", make([]byte, maxUploadBytes+1))
	req := httptest.NewRequest(http.MethodPost, "/api/upload/image", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	u.Image(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
	if code := uploadErrCode(t, rec); code != "FILE_TOO_LARGE" {
		t.Errorf("code: got %q", code)
	}
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	u := NewUpload(testStorage(t))

	// Plain text sniffs as text/plain regardless of the .png name.
	body, ct := multipartFile(t, "file", "fake.png", []byte("definitely not an image"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload/image", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	u.Image(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
	if code := uploadErrCode(t, rec); code != "INVALID_FILE_TYPE" {
		t.Errorf("code: got %q", code)
	}
}

func TestUploadImageRejectsSVG(t *testing.T) {
	u := NewUpload(testStorage(t))

	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	body, ct := multipartFile(t, "file", "image.svg", svg)
	req := httptest.NewRequest(http.MethodPost, "/api/upload/image", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	u.Image(rec, req)

	// SVG can carry script; it is not on the allow-list.
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestServeImageRejectsTraversal(t *testing.T) {
	u := NewUpload(testStorage(t))

	for _, bad := range []string{"..%2Fetc%2Fpasswd", "a..b/../c"} {
		req := httptest.NewRequest(http.MethodGet, "/api/images/"+bad, nil)
		rec := httptest.NewRecorder()
		// Route the request through chi so URLParam resolves.
		router := newTestRouter(u)
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest && rec.Code != http.StatusNotFound {
			t.Errorf("%q: got %d, want rejection", bad, rec.Code)
		}
	}
}

func TestDeleteImageNoStorage(t *testing.T) {
	router := newTestRouter(NewUpload(nil))

	req := httptest.NewRequest(http.MethodDelete, "/api/images/123-abc.jpg", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
	if code := uploadErrCode(t, rec); code != "STORAGE_UNAVAILABLE" {
		t.Errorf("code: got %q", code)
	}
}

func TestDeleteImageRejectsTraversal(t *testing.T) {
	router := newTestRouter(NewUpload(testStorage(t)))

	req := httptest.NewRequest(http.MethodDelete, "/api/images/a..b%2F..%2Fc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
	if code := uploadErrCode(t, rec); code != "INVALID_FILENAME" {
		t.Errorf("code: got %q", code)
	}
}
