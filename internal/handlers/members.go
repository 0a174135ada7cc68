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

// Members groups the committee roster handlers.
type Members struct {
	members *store.MemberStore
}

// NewMembers creates a new Members handler group.
func NewMembers(members *store.MemberStore) *Members {
	return &Members{members: members}
}

type memberRequest struct {
	GroupType models.GroupType `json:"group_type"`
	Name      string           `json:"name"`
	Title     string           `json:"title"`
	Term      *string          `json:"term"`
	Image     *string          `json:"image"`
	Bio       *string          `json:"bio"`
	SortOrder int              `json:"sort_order"`
}

func (req *memberRequest) validate() string {
	if !models.ValidGroupType(req.GroupType) {
		return "Group must be vestry, music-team, endowment, or clergy."
	}
	if strings.TrimSpace(req.Name) == "" {
		return "Name is required."
	}
	if strings.TrimSpace(req.Title) == "" {
		return "Title is required."
	}
	return ""
}

// List returns roster members, optionally filtered by group.
// GET /api/members?group=
func (m *Members) List(w http.ResponseWriter, r *http.Request) {
	group := models.GroupType(r.URL.Query().Get("group"))
	if group != "" && !models.ValidGroupType(group) {
		writeError(w, http.StatusBadRequest, "INVALID_GROUP", "Group must be vestry, music-team, endowment, or clergy")
		return
	}

	members, err := m.members.List(group)
	if err != nil {
		serverError(w, "list members failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

// Get returns a single member.
// GET /api/members/{id}
func (m *Members) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Member id must be numeric")
		return
	}

	member, err := m.members.FindByID(id)
	if err != nil {
		serverError(w, "get member failed", err)
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Member not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"member": member})
}

// Create adds a roster member.
// POST /api/members
func (m *Members) Create(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}

	created, err := m.members.Create(&models.Member{
		GroupType: req.GroupType,
		Name:      strings.TrimSpace(req.Name),
		Title:     strings.TrimSpace(req.Title),
		Term:      req.Term,
		Image:     req.Image,
		Bio:       req.Bio,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		serverError(w, "create member failed", err)
		return
	}

	slog.Info("member created", "id", created.ID, "group", created.GroupType)
	writeJSON(w, http.StatusCreated, map[string]any{"member": created})
}

// Update modifies a roster member.
// PUT /api/members/{id}
func (m *Members) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Member id must be numeric")
		return
	}

	member, err := m.members.FindByID(id)
	if err != nil {
		serverError(w, "get member failed", err)
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Member not found")
		return
	}

	var req memberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}

	member.GroupType = req.GroupType
	member.Name = strings.TrimSpace(req.Name)
	member.Title = strings.TrimSpace(req.Title)
	member.Term = req.Term
	member.Image = req.Image
	member.Bio = req.Bio
	member.SortOrder = req.SortOrder

	if err := m.members.Update(member); err != nil {
		serverError(w, "update member failed", err)
		return
	}

	updated, err := m.members.FindByID(id)
	if err != nil {
		serverError(w, "reload member failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"member": updated})
}

// Delete removes a roster member.
// DELETE /api/members/{id}
func (m *Members) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Member id must be numeric")
		return
	}

	deleted, err := m.members.Delete(id)
	if err != nil {
		serverError(w, "delete member failed", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Member not found")
		return
	}

	slog.Info("member deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Member deleted"})
}
