// Package router tests verify route wiring, the health endpoint, and the
// embedded admin shell. Stores are built over a nil DB; no route exercised
// here touches it.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parishcms/internal/auth"
	"parishcms/internal/handlers"
	"parishcms/internal/store"
)

func testRouter() http.Handler {
	issuer := auth.NewIssuer("router-test-secret")
	users := store.NewUserStore(nil)
	sessions := store.NewSessionStore(nil)

	return New(
		issuer,
		nil,
		handlers.NewAuth(users, sessions, issuer, "http://localhost:8080", false),
		handlers.NewBlog(store.NewBlogStore(nil)),
		handlers.NewEvents(store.NewEventStore(nil)),
		handlers.NewMembers(store.NewMemberStore(nil)),
		handlers.NewTestimonials(store.NewTestimonialStore(nil)),
		handlers.NewPages(store.NewPageStore(nil)),
		handlers.NewUpload(nil),
	)
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)

	testRouter().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type: got %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q", body["status"])
	}
}

func TestAdminShellServed(t *testing.T) {
	for _, path := range []string{"/admin/login", "/admin/accept-invite"} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, path, nil)

		testRouter().ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Errorf("%s: got %d, want 200", path, w.Code)
			continue
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("%s: content-type %q", path, ct)
		}
		if !strings.Contains(w.Body.String(), "<div id=\"app\">") {
			t.Errorf("%s: shell markup missing", path)
		}
	}
}

func TestAdminPagesRedirectWhenAnonymous(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/admin/posts", nil)

	testRouter().ServeHTTP(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin/login" {
		t.Errorf("location: got %q", loc)
	}
}

func TestProtectedAPIRejectsAnonymous(t *testing.T) {
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/pages"},
		{http.MethodPost, "/api/upload/image"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(tt.method, tt.path, nil)

		testRouter().ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: got %d, want 401", tt.method, tt.path, w.Code)
		}
	}
}

func TestStaticAssetsServed(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/static/admin.css", nil)

	testRouter().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("static asset: got %d, want 200", w.Code)
	}
}
