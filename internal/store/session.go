package store

import (
	"database/sql"
	"fmt"
	"time"

	"parishcms/internal/models"
)

// SessionStore persists refresh-token sessions so they can be revoked
// independently of their cryptographic validity. Rotation updates the row
// in place; expired rows are inert and filtered out at lookup, not swept.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore creates a new SessionStore with the given database connection.
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create inserts a new session row for the given refresh token.
func (s *SessionStore) Create(userID int64, refreshToken string, expiresAt time.Time) (*models.Session, error) {
	sess := &models.Session{}
	err := s.db.QueryRow(`
		INSERT INTO sessions (user_id, refresh_token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, refresh_token, expires_at, created_at
	`, userID, refreshToken, expiresAt).Scan(
		&sess.ID, &sess.UserID, &sess.RefreshToken, &sess.ExpiresAt, &sess.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// FindByToken retrieves the live session holding the given refresh token.
// Returns nil if the token is unknown or the session has expired.
func (s *SessionStore) FindByToken(refreshToken string) (*models.Session, error) {
	sess := &models.Session{}
	err := s.db.QueryRow(`
		SELECT id, user_id, refresh_token, expires_at, created_at
		FROM sessions
		WHERE refresh_token = $1 AND expires_at > NOW()
	`, refreshToken).Scan(
		&sess.ID, &sess.UserID, &sess.RefreshToken, &sess.ExpiresAt, &sess.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session by token: %w", err)
	}
	return sess, nil
}

// Rotate replaces the session's refresh token and pushes its expiry forward.
// The old token value is invalid the moment this returns.
func (s *SessionStore) Rotate(id int64, newRefreshToken string, newExpiresAt time.Time) error {
	_, err := s.db.Exec(`
		UPDATE sessions SET refresh_token = $1, expires_at = $2 WHERE id = $3
	`, newRefreshToken, newExpiresAt, id)
	if err != nil {
		return fmt.Errorf("rotate session: %w", err)
	}
	return nil
}

// DeleteByToken removes the session holding the given refresh token.
// Deleting an unknown token is not an error.
func (s *SessionStore) DeleteByToken(refreshToken string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE refresh_token = $1`, refreshToken)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
