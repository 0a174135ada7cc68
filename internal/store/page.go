package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"parishcms/internal/models"
)

// PageStore handles all page-content database operations. Page bodies are
// opaque JSON keyed by page_key; there is no listing hierarchy.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a new PageStore with the given database connection.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

// List returns all page blocks ordered by key, with the editor name joined in.
func (s *PageStore) List() ([]models.PageContent, error) {
	rows, err := s.db.Query(`
		SELECT pc.id, pc.page_key, pc.content_json, pc.markdown_body,
		       pc.updated_by, pc.updated_at, u.name AS updated_by_name
		FROM page_content pc
		LEFT JOIN users u ON pc.updated_by = u.id
		ORDER BY pc.page_key ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []models.PageContent
	for rows.Next() {
		var p models.PageContent
		var body []byte
		if err := rows.Scan(
			&p.ID, &p.PageKey, &body, &p.MarkdownBody,
			&p.UpdatedBy, &p.UpdatedAt, &p.UpdatedByName,
		); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		p.ContentJSON = json.RawMessage(body)
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// FindByKey retrieves a page block by its key. Returns nil if not found.
func (s *PageStore) FindByKey(key string) (*models.PageContent, error) {
	p := &models.PageContent{}
	var body []byte
	err := s.db.QueryRow(`
		SELECT pc.id, pc.page_key, pc.content_json, pc.markdown_body,
		       pc.updated_by, pc.updated_at, u.name AS updated_by_name
		FROM page_content pc
		LEFT JOIN users u ON pc.updated_by = u.id
		WHERE pc.page_key = $1
	`, key).Scan(
		&p.ID, &p.PageKey, &body, &p.MarkdownBody,
		&p.UpdatedBy, &p.UpdatedAt, &p.UpdatedByName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by key: %w", err)
	}
	p.ContentJSON = json.RawMessage(body)
	return p, nil
}

// Upsert creates or replaces the page block for the given key. The created
// return value reports whether a new row was inserted.
func (s *PageStore) Upsert(key string, contentJSON json.RawMessage, markdownBody *string, updatedBy int64) (*models.PageContent, bool, error) {
	if len(contentJSON) == 0 {
		contentJSON = json.RawMessage(`{}`)
	}

	p := &models.PageContent{}
	var body []byte
	var created bool
	err := s.db.QueryRow(`
		INSERT INTO page_content (page_key, content_json, markdown_body, updated_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (page_key) DO UPDATE SET
			content_json = EXCLUDED.content_json,
			markdown_body = EXCLUDED.markdown_body,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING id, page_key, content_json, markdown_body, updated_by, updated_at,
		          (xmax = 0) AS created
	`, key, []byte(contentJSON), markdownBody, updatedBy).Scan(
		&p.ID, &p.PageKey, &body, &p.MarkdownBody, &p.UpdatedBy, &p.UpdatedAt, &created,
	)
	if err != nil {
		return nil, false, fmt.Errorf("upsert page: %w", err)
	}
	p.ContentJSON = json.RawMessage(body)
	return p, created, nil
}
