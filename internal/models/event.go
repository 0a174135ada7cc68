package models

import "time"

// Recurrence describes how an event repeats.
type Recurrence string

const (
	RecurNone    Recurrence = "none"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
	RecurYearly  Recurrence = "yearly"
)

// ValidRecurrence reports whether r is one of the defined recurrence values.
func ValidRecurrence(r Recurrence) bool {
	switch r {
	case RecurNone, RecurWeekly, RecurMonthly, RecurYearly:
		return true
	}
	return false
}

// Event is a calendar entry addressable by a unique slug. It shares the
// draft/published lifecycle with blog posts.
type Event struct {
	ID              int64      `json:"id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	EventDate       string     `json:"event_date"` // ISO date, e.g. 2026-09-14
	EventTime       *string    `json:"event_time,omitempty"`
	EndDate         *string    `json:"end_date,omitempty"`
	EndTime         *string    `json:"end_time,omitempty"`
	Location        *string    `json:"location,omitempty"`
	Image           *string    `json:"image,omitempty"`
	Status          Status     `json:"status"`
	Recurring       Recurrence `json:"recurring"`
	RecurrenceRule  *string    `json:"recurrence_rule,omitempty"`
	RSVPLink        *string    `json:"rsvp_link,omitempty"`
	MoreInfoLink    *string    `json:"more_info_link,omitempty"`
	MetaTitle       *string    `json:"meta_title,omitempty"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsPublished returns true if the event is publicly visible.
func (e *Event) IsPublished() bool {
	return e.Status == StatusPublished
}
