package store

import (
	"database/sql"
	"fmt"

	"parishcms/internal/models"
)

const testimonialCols = `id, author, organization, rating, content, is_active, sort_order, created_at, updated_at`

// TestimonialStore handles all testimonial database operations.
type TestimonialStore struct {
	db *sql.DB
}

// NewTestimonialStore creates a new TestimonialStore with the given database connection.
func NewTestimonialStore(db *sql.DB) *TestimonialStore {
	return &TestimonialStore{db: db}
}

// List returns testimonials ordered by sort_order then recency. When
// activeOnly is true, hidden testimonials are excluded.
func (s *TestimonialStore) List(activeOnly bool) ([]models.Testimonial, error) {
	query := `SELECT ` + testimonialCols + ` FROM testimonials`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order ASC, created_at DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	var items []models.Testimonial
	for rows.Next() {
		var t models.Testimonial
		if err := rows.Scan(
			&t.ID, &t.Author, &t.Organization, &t.Rating, &t.Content,
			&t.IsActive, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// FindByID retrieves a testimonial by id. Returns nil if not found.
func (s *TestimonialStore) FindByID(id int64) (*models.Testimonial, error) {
	t := &models.Testimonial{}
	err := s.db.QueryRow(
		`SELECT `+testimonialCols+` FROM testimonials WHERE id = $1`, id,
	).Scan(
		&t.ID, &t.Author, &t.Organization, &t.Rating, &t.Content,
		&t.IsActive, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find testimonial by id: %w", err)
	}
	return t, nil
}

// Create inserts a new testimonial.
func (s *TestimonialStore) Create(t *models.Testimonial) (*models.Testimonial, error) {
	result := &models.Testimonial{}
	err := s.db.QueryRow(`
		INSERT INTO testimonials (author, organization, rating, content, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+testimonialCols,
		t.Author, t.Organization, t.Rating, t.Content, t.IsActive, t.SortOrder,
	).Scan(
		&result.ID, &result.Author, &result.Organization, &result.Rating, &result.Content,
		&result.IsActive, &result.SortOrder, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create testimonial: %w", err)
	}
	return result, nil
}

// Update modifies an existing testimonial.
func (s *TestimonialStore) Update(t *models.Testimonial) error {
	_, err := s.db.Exec(`
		UPDATE testimonials SET
			author = $1, organization = $2, rating = $3, content = $4,
			is_active = $5, sort_order = $6, updated_at = NOW()
		WHERE id = $7
	`, t.Author, t.Organization, t.Rating, t.Content, t.IsActive, t.SortOrder, t.ID)
	if err != nil {
		return fmt.Errorf("update testimonial: %w", err)
	}
	return nil
}

// Delete removes a testimonial by id. Returns false if no row was deleted.
func (s *TestimonialStore) Delete(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete testimonial: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete testimonial: %w", err)
	}
	return n > 0, nil
}
