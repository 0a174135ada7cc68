package store

import (
	"database/sql"
	"fmt"

	"parishcms/internal/models"
)

const memberCols = `id, group_type, name, title, term, image, bio, sort_order, created_at, updated_at`

// MemberStore handles all roster-member database operations.
type MemberStore struct {
	db *sql.DB
}

// NewMemberStore creates a new MemberStore with the given database connection.
func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

// List returns members ordered by sort_order then name, optionally filtered
// by group. Pass an empty group for all members.
func (s *MemberStore) List(group models.GroupType) ([]models.Member, error) {
	query := `SELECT ` + memberCols + ` FROM members`
	args := []any{}
	if group != "" {
		query += ` WHERE group_type = $1`
		args = append(args, group)
	}
	query += ` ORDER BY sort_order ASC, name ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(
			&m.ID, &m.GroupType, &m.Name, &m.Title, &m.Term, &m.Image,
			&m.Bio, &m.SortOrder, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// FindByID retrieves a member by id. Returns nil if not found.
func (s *MemberStore) FindByID(id int64) (*models.Member, error) {
	m := &models.Member{}
	err := s.db.QueryRow(
		`SELECT `+memberCols+` FROM members WHERE id = $1`, id,
	).Scan(
		&m.ID, &m.GroupType, &m.Name, &m.Title, &m.Term, &m.Image,
		&m.Bio, &m.SortOrder, &m.CreatedAt, &m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find member by id: %w", err)
	}
	return m, nil
}

// Create inserts a new member.
func (s *MemberStore) Create(m *models.Member) (*models.Member, error) {
	result := &models.Member{}
	err := s.db.QueryRow(`
		INSERT INTO members (group_type, name, title, term, image, bio, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+memberCols,
		m.GroupType, m.Name, m.Title, m.Term, m.Image, m.Bio, m.SortOrder,
	).Scan(
		&result.ID, &result.GroupType, &result.Name, &result.Title, &result.Term,
		&result.Image, &result.Bio, &result.SortOrder, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	return result, nil
}

// Update modifies an existing member.
func (s *MemberStore) Update(m *models.Member) error {
	_, err := s.db.Exec(`
		UPDATE members SET
			group_type = $1, name = $2, title = $3, term = $4, image = $5,
			bio = $6, sort_order = $7, updated_at = NOW()
		WHERE id = $8
	`, m.GroupType, m.Name, m.Title, m.Term, m.Image, m.Bio, m.SortOrder, m.ID)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

// Delete removes a member by id. Returns false if no row was deleted.
func (s *MemberStore) Delete(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete member: %w", err)
	}
	return n > 0, nil
}
