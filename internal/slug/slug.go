// Package slug provides URL-friendly slug generation from titles.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace collapses runs of whitespace into one separator.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given title.
// Example: "Sunday Service, 2026!" → "sunday-service-2026"
func Generate(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonAlphanumeric.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Disambiguate appends a timestamp-based suffix to a slug that collided
// with an existing row. Millisecond resolution keeps repeated submissions
// of the same title distinct.
func Disambiguate(s string, now time.Time) string {
	return fmt.Sprintf("%s-%d", s, now.UnixMilli())
}
