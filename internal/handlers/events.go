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

// Events groups the event handlers. The shape mirrors the blog handlers:
// slug addressing, draft visibility, timestamp de-collision.
type Events struct {
	events *store.EventStore
}

// NewEvents creates a new Events handler group.
func NewEvents(events *store.EventStore) *Events {
	return &Events{events: events}
}

type eventRequest struct {
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Slug            string            `json:"slug"`
	EventDate       string            `json:"event_date"`
	EventTime       *string           `json:"event_time"`
	EndDate         *string           `json:"end_date"`
	EndTime         *string           `json:"end_time"`
	Location        *string           `json:"location"`
	Image           *string           `json:"image"`
	Status          models.Status     `json:"status"`
	Recurring       models.Recurrence `json:"recurring"`
	RecurrenceRule  *string           `json:"recurrence_rule"`
	RSVPLink        *string           `json:"rsvp_link"`
	MoreInfoLink    *string           `json:"more_info_link"`
	MetaTitle       *string           `json:"meta_title"`
	MetaDescription *string           `json:"meta_description"`
}

func (req *eventRequest) validate() string {
	if msg := validateTitleContent(req.Title, req.Description); msg != "" {
		// Description fills the content slot for events.
		return strings.Replace(msg, "Content", "Description", 1)
	}
	if strings.TrimSpace(req.EventDate) == "" {
		return "Event date is required."
	}
	if _, err := time.Parse("2006-01-02", req.EventDate); err != nil {
		return "Event date must be formatted YYYY-MM-DD."
	}
	if req.EndDate != nil && *req.EndDate != "" {
		if _, err := time.Parse("2006-01-02", *req.EndDate); err != nil {
			return "End date must be formatted YYYY-MM-DD."
		}
	}
	if req.Status != "" && !models.ValidStatus(req.Status) {
		return "Status must be draft or published."
	}
	if req.Recurring != "" && !models.ValidRecurrence(req.Recurring) {
		return "Recurring must be none, weekly, monthly, or yearly."
	}
	return ""
}

func (e *Events) resolveSlug(explicit, title string, excludeID int64) (string, error) {
	s := strings.TrimSpace(explicit)
	if s == "" {
		s = slug.Generate(title)
	} else {
		s = slug.Generate(s)
	}
	if s == "" {
		s = "event"
	}

	taken, err := e.events.SlugExists(s, excludeID)
	if err != nil {
		return "", err
	}
	if taken {
		s = slug.Disambiguate(s, time.Now())
	}
	return s, nil
}

// List returns events ordered soonest first. Anonymous callers see only
// published events; `upcoming=true` drops past dates.
// GET /api/events
func (e *Events) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	filter := store.EventFilter{
		Limit:    limit,
		Offset:   offset,
		Upcoming: r.URL.Query().Get("upcoming") == "true",
	}

	if middleware.IdentityFromCtx(r.Context()) == nil {
		filter.PublishedOnly = true
	} else if s := models.Status(r.URL.Query().Get("status")); s != "" {
		if !models.ValidStatus(s) {
			writeError(w, http.StatusBadRequest, "INVALID_STATUS", "Status must be draft or published")
			return
		}
		filter.Status = s
	}

	events, err := e.events.List(filter)
	if err != nil {
		serverError(w, "list events failed", err)
		return
	}
	total, err := e.events.Count(filter)
	if err != nil {
		serverError(w, "count events failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// Get returns a single event by numeric id or slug. Draft events 404 for
// anonymous callers.
// GET /api/events/{idOrSlug}
func (e *Events) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "idOrSlug")

	var event *models.Event
	var err error
	if id, convErr := strconv.ParseInt(key, 10, 64); convErr == nil {
		event, err = e.events.FindByID(id)
	} else {
		event, err = e.events.FindBySlug(key)
	}
	if err != nil {
		serverError(w, "get event failed", err)
		return
	}

	if event == nil || (!event.IsPublished() && middleware.IdentityFromCtx(r.Context()) == nil) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Event not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"event": event})
}

// Create adds a new event.
// POST /api/events
func (e *Events) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
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
	if req.Recurring == "" {
		req.Recurring = models.RecurNone
	}

	eventSlug, err := e.resolveSlug(req.Slug, req.Title, 0)
	if err != nil {
		serverError(w, "resolve slug failed", err)
		return
	}

	created, err := e.events.Create(&models.Event{
		Slug:            eventSlug,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		EventDate:       req.EventDate,
		EventTime:       req.EventTime,
		EndDate:         req.EndDate,
		EndTime:         req.EndTime,
		Location:        req.Location,
		Image:           req.Image,
		Status:          req.Status,
		Recurring:       req.Recurring,
		RecurrenceRule:  req.RecurrenceRule,
		RSVPLink:        req.RSVPLink,
		MoreInfoLink:    req.MoreInfoLink,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
	})
	if err != nil {
		serverError(w, "create event failed", err)
		return
	}

	slog.Info("event created", "id", created.ID, "slug", created.Slug, "date", created.EventDate)
	writeJSON(w, http.StatusCreated, map[string]any{"event": created})
}

// Update modifies an existing event. Re-slugging follows the blog rule:
// only when the title changed or an explicit slug was sent.
// PUT /api/events/{id}
func (e *Events) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Event id must be numeric")
		return
	}

	event, err := e.events.FindByID(id)
	if err != nil {
		serverError(w, "get event failed", err)
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Event not found")
		return
	}

	var req eventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}

	newTitle := strings.TrimSpace(req.Title)
	if newTitle != event.Title || strings.TrimSpace(req.Slug) != "" {
		newSlug, err := e.resolveSlug(req.Slug, newTitle, event.ID)
		if err != nil {
			serverError(w, "resolve slug failed", err)
			return
		}
		event.Slug = newSlug
	}

	event.Title = newTitle
	event.Description = req.Description
	event.EventDate = req.EventDate
	event.EventTime = req.EventTime
	event.EndDate = req.EndDate
	event.EndTime = req.EndTime
	event.Location = req.Location
	event.Image = req.Image
	event.RecurrenceRule = req.RecurrenceRule
	event.RSVPLink = req.RSVPLink
	event.MoreInfoLink = req.MoreInfoLink
	event.MetaTitle = req.MetaTitle
	event.MetaDescription = req.MetaDescription
	if req.Status != "" {
		event.Status = req.Status
	}
	if req.Recurring != "" {
		event.Recurring = req.Recurring
	}

	if err := e.events.Update(event); err != nil {
		serverError(w, "update event failed", err)
		return
	}

	updated, err := e.events.FindByID(event.ID)
	if err != nil {
		serverError(w, "reload event failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"event": updated})
}

// Delete removes an event.
// DELETE /api/events/{id}
func (e *Events) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Event id must be numeric")
		return
	}

	deleted, err := e.events.Delete(id)
	if err != nil {
		serverError(w, "delete event failed", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Event not found")
		return
	}

	slog.Info("event deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Event deleted"})
}
