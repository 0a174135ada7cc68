package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for request fields.
const (
	maxTitleLen    = 300
	maxEmailLen    = 254
	maxNameLen     = 200
	maxBodyLen     = 100_000
	maxExcerptLen  = 1_000
	maxMetaLen     = 500
	maxPageKeyLen  = 100
	maxPageJSONLen = 200_000
)

// validEmail performs a cheap shape check; real validation is the invite
// email actually arriving.
func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || utf8.RuneCountInString(email) > maxEmailLen {
		return false
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

// validateTitleContent checks the shared title/content requirements of posts
// and returns the first error found, or "".
func validateTitleContent(title, content string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if strings.TrimSpace(content) == "" {
		return "Content is required."
	}
	if utf8.RuneCountInString(content) > maxBodyLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}

// validateMetadata checks optional SEO metadata fields.
func validateMetadata(excerpt, metaTitle, metaDesc string) string {
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return "Excerpt is too long (max 1,000 characters)."
	}
	if utf8.RuneCountInString(metaTitle) > maxMetaLen {
		return "Meta title is too long (max 500 characters)."
	}
	if utf8.RuneCountInString(metaDesc) > maxMetaLen {
		return "Meta description is too long (max 500 characters)."
	}
	return ""
}
