package store

import (
	"database/sql"
	"fmt"
	"time"

	"parishcms/internal/models"
)

const eventCols = `id, slug, title, description, event_date, event_time, end_date, end_time,
	location, image, status, recurring, recurrence_rule, rsvp_link, more_info_link,
	meta_title, meta_description, created_at, updated_at`

// EventFilter narrows an event listing. PublishedOnly wins over Status.
// Upcoming keeps only events dated today or later.
type EventFilter struct {
	PublishedOnly bool
	Status        models.Status
	Upcoming      bool
	Limit         int
	Offset        int
}

// EventStore handles all event database operations.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates a new EventStore with the given database connection.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	e := &models.Event{}
	err := row.Scan(
		&e.ID, &e.Slug, &e.Title, &e.Description, &e.EventDate, &e.EventTime,
		&e.EndDate, &e.EndTime, &e.Location, &e.Image, &e.Status, &e.Recurring,
		&e.RecurrenceRule, &e.RSVPLink, &e.MoreInfoLink, &e.MetaTitle,
		&e.MetaDescription, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func eventWhere(f EventFilter) (string, []any) {
	var conds []string
	var args []any

	switch {
	case f.PublishedOnly:
		conds = append(conds, `status = 'published'`)
	case f.Status != "":
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf(`status = $%d`, len(args)))
	}
	if f.Upcoming {
		args = append(args, time.Now().Format("2006-01-02"))
		conds = append(conds, fmt.Sprintf(`event_date >= $%d`, len(args)))
	}

	where := ""
	for i, c := range conds {
		if i == 0 {
			where = " WHERE " + c
		} else {
			where += " AND " + c
		}
	}
	return where, args
}

// List returns events matching the filter, soonest first.
func (s *EventStore) List(f EventFilter) ([]models.Event, error) {
	where, args := eventWhere(f)
	query := `SELECT ` + eventCols + ` FROM events` + where +
		fmt.Sprintf(` ORDER BY event_date ASC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(
			&e.ID, &e.Slug, &e.Title, &e.Description, &e.EventDate, &e.EventTime,
			&e.EndDate, &e.EndTime, &e.Location, &e.Image, &e.Status, &e.Recurring,
			&e.RecurrenceRule, &e.RSVPLink, &e.MoreInfoLink, &e.MetaTitle,
			&e.MetaDescription, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Count returns the number of events matching the filter, ignoring paging.
func (s *EventStore) Count(f EventFilter) (int, error) {
	where, args := eventWhere(f)
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM events`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

// FindByID retrieves an event by id regardless of status. Returns nil if not found.
func (s *EventStore) FindByID(id int64) (*models.Event, error) {
	e, err := scanEvent(s.db.QueryRow(
		`SELECT `+eventCols+` FROM events WHERE id = $1`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("find event by id: %w", err)
	}
	return e, nil
}

// FindBySlug retrieves an event by slug regardless of status. Returns nil if not found.
func (s *EventStore) FindBySlug(slug string) (*models.Event, error) {
	e, err := scanEvent(s.db.QueryRow(
		`SELECT `+eventCols+` FROM events WHERE slug = $1`, slug,
	))
	if err != nil {
		return nil, fmt.Errorf("find event by slug: %w", err)
	}
	return e, nil
}

// SlugExists reports whether a slug is already taken by a different event.
func (s *EventStore) SlugExists(slug string, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM events WHERE slug = $1 AND id <> $2)`,
		slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("event slug exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new event, stamping published_at on creation into published.
func (s *EventStore) Create(e *models.Event) (*models.Event, error) {
	result := &models.Event{}
	err := s.db.QueryRow(`
		INSERT INTO events (slug, title, description, event_date, event_time, end_date,
		                    end_time, location, image, status, recurring, recurrence_rule,
		                    rsvp_link, more_info_link, meta_title, meta_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+eventCols,
		e.Slug, e.Title, e.Description, e.EventDate, e.EventTime, e.EndDate,
		e.EndTime, e.Location, e.Image, e.Status, e.Recurring, e.RecurrenceRule,
		e.RSVPLink, e.MoreInfoLink, e.MetaTitle, e.MetaDescription,
	).Scan(
		&result.ID, &result.Slug, &result.Title, &result.Description, &result.EventDate,
		&result.EventTime, &result.EndDate, &result.EndTime, &result.Location, &result.Image,
		&result.Status, &result.Recurring, &result.RecurrenceRule, &result.RSVPLink,
		&result.MoreInfoLink, &result.MetaTitle, &result.MetaDescription,
		&result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return result, nil
}

// Update modifies an existing event.
func (s *EventStore) Update(e *models.Event) error {
	_, err := s.db.Exec(`
		UPDATE events SET
			slug = $1, title = $2, description = $3, event_date = $4, event_time = $5,
			end_date = $6, end_time = $7, location = $8, image = $9, status = $10,
			recurring = $11, recurrence_rule = $12, rsvp_link = $13, more_info_link = $14,
			meta_title = $15, meta_description = $16, updated_at = NOW()
		WHERE id = $17
	`, e.Slug, e.Title, e.Description, e.EventDate, e.EventTime,
		e.EndDate, e.EndTime, e.Location, e.Image, e.Status,
		e.Recurring, e.RecurrenceRule, e.RSVPLink, e.MoreInfoLink,
		e.MetaTitle, e.MetaDescription, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// Delete removes an event by id. Returns false if no row was deleted.
func (s *EventStore) Delete(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	return n > 0, nil
}
