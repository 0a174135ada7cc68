package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"parishcms/internal/middleware"
	"parishcms/internal/store"
)

// Pages groups the free-form page content handlers. Page bodies are opaque
// JSON blocks keyed by page_key; the server validates shape, never meaning.
type Pages struct {
	pages *store.PageStore
}

// NewPages creates a new Pages handler group.
func NewPages(pages *store.PageStore) *Pages {
	return &Pages{pages: pages}
}

// List returns all page blocks with editor attribution.
// GET /api/pages
func (p *Pages) List(w http.ResponseWriter, r *http.Request) {
	pages, err := p.pages.List()
	if err != nil {
		serverError(w, "list pages failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pages": pages})
}

// Get returns one page block by key.
// GET /api/pages/{key}
func (p *Pages) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	page, err := p.pages.FindByKey(key)
	if err != nil {
		serverError(w, "get page failed", err)
		return
	}
	if page == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Page not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"page": page})
}

// Upsert creates or replaces a page block. The content must be a JSON
// object; its internals are stored verbatim.
// PUT /api/pages/{key}
func (p *Pages) Upsert(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if strings.TrimSpace(key) == "" || utf8.RuneCountInString(key) > maxPageKeyLen {
		writeError(w, http.StatusBadRequest, "INVALID_KEY", "Page key is required (max 100 characters)")
		return
	}

	var req struct {
		ContentJSON  json.RawMessage `json:"content_json"`
		MarkdownBody *string         `json:"markdown_body"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if len(req.ContentJSON) > maxPageJSONLen {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Content is too large (max 200 KB)")
		return
	}
	if len(req.ContentJSON) > 0 && !isJSONObject(req.ContentJSON) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "content_json must be a JSON object")
		return
	}

	identity := middleware.IdentityFromCtx(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	page, created, err := p.pages.Upsert(key, req.ContentJSON, req.MarkdownBody, identity.ID)
	if err != nil {
		serverError(w, "upsert page failed", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	slog.Info("page saved", "key", key, "created", created, "by", identity.ID)
	writeJSON(w, status, map[string]any{"page": page})
}

// isJSONObject reports whether raw parses as a JSON object.
func isJSONObject(raw json.RawMessage) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal(raw, &obj) == nil
}
