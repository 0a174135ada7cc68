package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"parishcms/internal/middleware"
	"parishcms/internal/models"
	"parishcms/internal/slug"
	"parishcms/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Blog groups the blog post handlers.
type Blog struct {
	posts *store.BlogStore
}

// NewBlog creates a new Blog handler group.
func NewBlog(posts *store.BlogStore) *Blog {
	return &Blog{posts: posts}
}

// pagination reads limit/offset query params with sane bounds.
func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// blogRequest is the write payload shared by create and update.
type blogRequest struct {
	Title           string        `json:"title"`
	Content         string        `json:"content"`
	Slug            string        `json:"slug"`
	Excerpt         *string       `json:"excerpt"`
	FeaturedImage   *string       `json:"featured_image"`
	Status          models.Status `json:"status"`
	MetaTitle       *string       `json:"meta_title"`
	MetaDescription *string       `json:"meta_description"`
}

func (req *blogRequest) validate() string {
	if msg := validateTitleContent(req.Title, req.Content); msg != "" {
		return msg
	}
	var excerpt, metaTitle, metaDesc string
	if req.Excerpt != nil {
		excerpt = *req.Excerpt
	}
	if req.MetaTitle != nil {
		metaTitle = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		metaDesc = *req.MetaDescription
	}
	if msg := validateMetadata(excerpt, metaTitle, metaDesc); msg != "" {
		return msg
	}
	if req.Status != "" && !models.ValidStatus(req.Status) {
		return "Status must be draft or published."
	}
	return ""
}

// resolveSlug derives a slug (explicit or from the title) and de-collides it
// with a timestamp suffix. excludeID is the post being updated, 0 on create.
func (b *Blog) resolveSlug(explicit, title string, excludeID int64) (string, error) {
	s := strings.TrimSpace(explicit)
	if s == "" {
		s = slug.Generate(title)
	} else {
		s = slug.Generate(s)
	}
	if s == "" {
		s = "post"
	}

	taken, err := b.posts.SlugExists(s, excludeID)
	if err != nil {
		return "", err
	}
	if taken {
		s = slug.Disambiguate(s, time.Now())
	}
	return s, nil
}

// List returns posts. Anonymous callers see published posts only and the
// status filter is ignored; authenticated callers see everything.
// GET /api/blog
func (b *Blog) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	filter := store.BlogFilter{Limit: limit, Offset: offset}

	if middleware.IdentityFromCtx(r.Context()) == nil {
		filter.PublishedOnly = true
	} else if s := models.Status(r.URL.Query().Get("status")); s != "" {
		if !models.ValidStatus(s) {
			writeError(w, http.StatusBadRequest, "INVALID_STATUS", "Status must be draft or published")
			return
		}
		filter.Status = s
	}

	posts, err := b.posts.List(filter)
	if err != nil {
		serverError(w, "list posts failed", err)
		return
	}
	total, err := b.posts.Count(filter)
	if err != nil {
		serverError(w, "count posts failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posts":  posts,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// Get returns a single post by numeric id or slug. Drafts are invisible to
// anonymous callers: they get the same 404 as a missing post.
// GET /api/blog/{idOrSlug}
func (b *Blog) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "idOrSlug")

	var post *models.BlogPost
	var err error
	if id, convErr := strconv.ParseInt(key, 10, 64); convErr == nil {
		post, err = b.posts.FindByID(id)
	} else {
		post, err = b.posts.FindBySlug(key)
	}
	if err != nil {
		serverError(w, "get post failed", err)
		return
	}

	if post == nil || (!post.IsPublished() && middleware.IdentityFromCtx(r.Context()) == nil) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Post not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

// Create adds a new post authored by the authenticated user.
// POST /api/blog
func (b *Blog) Create(w http.ResponseWriter, r *http.Request) {
	var req blogRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}
	if req.Status == "" {
		req.Status = models.StatusDraft
	}

	postSlug, err := b.resolveSlug(req.Slug, req.Title, 0)
	if err != nil {
		serverError(w, "resolve slug failed", err)
		return
	}

	post := &models.BlogPost{
		Slug:            postSlug,
		Title:           strings.TrimSpace(req.Title),
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		FeaturedImage:   req.FeaturedImage,
		Status:          req.Status,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
	}
	if identity := middleware.IdentityFromCtx(r.Context()); identity != nil {
		post.AuthorID = &identity.ID
	}

	created, err := b.posts.Create(post)
	if err != nil {
		serverError(w, "create post failed", err)
		return
	}

	slog.Info("post created", "id", created.ID, "slug", created.Slug, "status", created.Status)
	writeJSON(w, http.StatusCreated, map[string]any{"post": created})
}

// Update modifies an existing post. The slug is re-derived only when the
// title changed or an explicit slug was sent; stable URLs survive edits.
// PUT /api/blog/{id}
func (b *Blog) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Post id must be numeric")
		return
	}

	post, err := b.posts.FindByID(id)
	if err != nil {
		serverError(w, "get post failed", err)
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Post not found")
		return
	}

	var req blogRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}

	newTitle := strings.TrimSpace(req.Title)
	if newTitle != post.Title || strings.TrimSpace(req.Slug) != "" {
		newSlug, err := b.resolveSlug(req.Slug, newTitle, post.ID)
		if err != nil {
			serverError(w, "resolve slug failed", err)
			return
		}
		post.Slug = newSlug
	}

	post.Title = newTitle
	post.Content = req.Content
	post.Excerpt = req.Excerpt
	post.FeaturedImage = req.FeaturedImage
	post.MetaTitle = req.MetaTitle
	post.MetaDescription = req.MetaDescription
	if req.Status != "" {
		post.Status = req.Status
	}

	if err := b.posts.Update(post); err != nil {
		serverError(w, "update post failed", err)
		return
	}

	updated, err := b.posts.FindByID(post.ID)
	if err != nil {
		serverError(w, "reload post failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": updated})
}

// Delete removes a post.
// DELETE /api/blog/{id}
func (b *Blog) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Post id must be numeric")
		return
	}

	deleted, err := b.posts.Delete(id)
	if err != nil {
		serverError(w, "delete post failed", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Post not found")
		return
	}

	slog.Info("post deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Post deleted"})
}
