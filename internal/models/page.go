package models

import (
	"encoding/json"
	"time"
)

// PageContent is a free-form content block keyed by page_key. The body is an
// opaque JSON object validated on write but never interpreted by the server.
type PageContent struct {
	ID           int64           `json:"id"`
	PageKey      string          `json:"page_key"`
	ContentJSON  json.RawMessage `json:"content_json"`
	MarkdownBody *string         `json:"markdown_body,omitempty"`
	UpdatedBy    *int64          `json:"updated_by,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// UpdatedByName is joined from the users table on reads.
	UpdatedByName *string `json:"updated_by_name,omitempty"`
}
