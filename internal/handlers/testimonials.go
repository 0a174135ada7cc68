package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"parishcms/internal/models"
	"parishcms/internal/store"
)

// Testimonials groups the testimonial handlers.
type Testimonials struct {
	testimonials *store.TestimonialStore
}

// NewTestimonials creates a new Testimonials handler group.
func NewTestimonials(testimonials *store.TestimonialStore) *Testimonials {
	return &Testimonials{testimonials: testimonials}
}

type testimonialRequest struct {
	Author       string        `json:"author"`
	Organization *string       `json:"organization"`
	Rating       models.Rating `json:"rating"`
	Content      string        `json:"content"`
	IsActive     *bool         `json:"is_active"`
	SortOrder    int           `json:"sort_order"`
}

func (req *testimonialRequest) validate() string {
	if strings.TrimSpace(req.Author) == "" {
		return "Author is required."
	}
	if strings.TrimSpace(req.Content) == "" {
		return "Content is required."
	}
	if !models.ValidRating(req.Rating) {
		return "Rating must be one, two, three, four, or five."
	}
	return ""
}

// List returns testimonials, optionally restricted to active entries with
// ?active=true.
// GET /api/testimonials
func (t *Testimonials) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	items, err := t.testimonials.List(activeOnly)
	if err != nil {
		serverError(w, "list testimonials failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"testimonials": items})
}

// Get returns a single testimonial.
// GET /api/testimonials/{id}
func (t *Testimonials) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Testimonial id must be numeric")
		return
	}

	item, err := t.testimonials.FindByID(id)
	if err != nil {
		serverError(w, "get testimonial failed", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Testimonial not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"testimonial": item})
}

// Create adds a testimonial. New entries default to visible unless
// is_active is explicitly false.
// POST /api/testimonials
func (t *Testimonials) Create(w http.ResponseWriter, r *http.Request) {
	var req testimonialRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	created, err := t.testimonials.Create(&models.Testimonial{
		Author:       strings.TrimSpace(req.Author),
		Organization: req.Organization,
		Rating:       req.Rating,
		Content:      req.Content,
		IsActive:     isActive,
		SortOrder:    req.SortOrder,
	})
	if err != nil {
		serverError(w, "create testimonial failed", err)
		return
	}

	slog.Info("testimonial created", "id", created.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"testimonial": created})
}

// Update modifies a testimonial.
// PUT /api/testimonials/{id}
func (t *Testimonials) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Testimonial id must be numeric")
		return
	}

	item, err := t.testimonials.FindByID(id)
	if err != nil {
		serverError(w, "get testimonial failed", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Testimonial not found")
		return
	}

	var req testimonialRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}

	item.Author = strings.TrimSpace(req.Author)
	item.Organization = req.Organization
	item.Rating = req.Rating
	item.Content = req.Content
	item.SortOrder = req.SortOrder
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := t.testimonials.Update(item); err != nil {
		serverError(w, "update testimonial failed", err)
		return
	}

	updated, err := t.testimonials.FindByID(id)
	if err != nil {
		serverError(w, "reload testimonial failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"testimonial": updated})
}

// Delete removes a testimonial.
// DELETE /api/testimonials/{id}
func (t *Testimonials) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Testimonial id must be numeric")
		return
	}

	deleted, err := t.testimonials.Delete(id)
	if err != nil {
		serverError(w, "delete testimonial failed", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Testimonial not found")
		return
	}

	slog.Info("testimonial deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Testimonial deleted"})
}
