package models

import "time"

// Rating is a word-valued score from one to five.
type Rating string

const (
	RatingOne   Rating = "one"
	RatingTwo   Rating = "two"
	RatingThree Rating = "three"
	RatingFour  Rating = "four"
	RatingFive  Rating = "five"
)

// ValidRating reports whether r is one of the defined ratings.
func ValidRating(r Rating) bool {
	switch r {
	case RatingOne, RatingTwo, RatingThree, RatingFour, RatingFive:
		return true
	}
	return false
}

// Testimonial is a quote with an is_active visibility flag, independent of
// the draft/published lifecycle used by posts and events.
type Testimonial struct {
	ID           int64     `json:"id"`
	Author       string    `json:"author"`
	Organization *string   `json:"organization,omitempty"`
	Rating       Rating    `json:"rating"`
	Content      string    `json:"content"`
	IsActive     bool      `json:"is_active"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
