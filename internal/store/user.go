// Package store provides database access methods for all application
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"parishcms/internal/models"
)

const userCols = `id, email, password_hash, name, role, invite_token, invite_expires_at, is_active, created_at, updated_at`

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
		&u.InviteToken, &u.InviteExpiresAt, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmail retrieves a user by case-normalized email. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(
		`SELECT `+userCols+` FROM users WHERE email = $1`,
		strings.ToLower(email),
	))
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindActiveByEmail retrieves an activated user by email. Returns nil if the
// user does not exist or has not redeemed their invite.
func (s *UserStore) FindActiveByEmail(email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(
		`SELECT `+userCols+` FROM users WHERE email = $1 AND is_active = TRUE`,
		strings.ToLower(email),
	))
	if err != nil {
		return nil, fmt.Errorf("find active user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by id. Returns nil if not found.
func (s *UserStore) FindByID(id int64) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(
		`SELECT `+userCols+` FROM users WHERE id = $1`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindActiveByID retrieves an activated user by id. Returns nil if not found
// or inactive.
func (s *UserStore) FindActiveByID(id int64) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(
		`SELECT `+userCols+` FROM users WHERE id = $1 AND is_active = TRUE`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("find active user by id: %w", err)
	}
	return u, nil
}

// FindByInviteToken retrieves a user by an unexpired invite token.
// Returns nil if the token is unknown or past its expiry.
func (s *UserStore) FindByInviteToken(token string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(
		`SELECT `+userCols+` FROM users WHERE invite_token = $1 AND invite_expires_at > NOW()`,
		token,
	))
	if err != nil {
		return nil, fmt.Errorf("find user by invite token: %w", err)
	}
	return u, nil
}

// List returns all users ordered by creation date descending.
func (s *UserStore) List() ([]models.User, error) {
	rows, err := s.db.Query(`SELECT ` + userCols + ` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
			&u.InviteToken, &u.InviteExpiresAt, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateInvited inserts a new inactive user holding an invite token.
// The password hash stays null until the invite is redeemed.
func (s *UserStore) CreateInvited(email, name string, role models.Role, inviteToken string, expiresAt time.Time) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`
		INSERT INTO users (email, name, role, invite_token, invite_expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING `+userCols,
		strings.ToLower(email), name, role, inviteToken, expiresAt,
	))
	if err != nil {
		return nil, fmt.Errorf("create invited user: %w", err)
	}
	return u, nil
}

// Reinvite replaces the invite token of an existing inactive user and
// refreshes their name and role.
func (s *UserStore) Reinvite(id int64, name string, role models.Role, inviteToken string, expiresAt time.Time) error {
	_, err := s.db.Exec(`
		UPDATE users
		SET name = $1, role = $2, invite_token = $3, invite_expires_at = $4, updated_at = NOW()
		WHERE id = $5
	`, name, role, inviteToken, expiresAt, id)
	if err != nil {
		return fmt.Errorf("reinvite user: %w", err)
	}
	return nil
}

// Activate sets the password hash, marks the user active, and clears the
// invite token so it can never be redeemed twice.
func (s *UserStore) Activate(id int64, passwordHash string) error {
	_, err := s.db.Exec(`
		UPDATE users
		SET password_hash = $1, is_active = TRUE, invite_token = NULL,
		    invite_expires_at = NULL, updated_at = NOW()
		WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("activate user: %w", err)
	}
	return nil
}
