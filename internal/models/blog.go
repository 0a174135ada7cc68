package models

import "time"

// Status represents the publishing state of a content entity.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// ValidStatus reports whether s is one of the defined statuses.
func ValidStatus(s Status) bool {
	return s == StatusDraft || s == StatusPublished
}

// BlogPost is a blog entry addressable by a unique slug. PublishedAt is set
// exactly once, on the first transition into published.
type BlogPost struct {
	ID              int64      `json:"id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	Excerpt         *string    `json:"excerpt,omitempty"`
	FeaturedImage   *string    `json:"featured_image,omitempty"`
	AuthorID        *int64     `json:"author_id,omitempty"`
	Status          Status     `json:"status"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	MetaTitle       *string    `json:"meta_title,omitempty"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// AuthorName is joined from the users table on reads.
	AuthorName *string `json:"author_name,omitempty"`
}

// IsPublished returns true if the post is publicly visible.
func (p *BlogPost) IsPublished() bool {
	return p.Status == StatusPublished
}
