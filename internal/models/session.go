package models

import "time"

// Session is a server-side record of an issued refresh token. Its row is
// rotated in place on refresh and deleted on logout; possession of the JWT
// alone is not enough once the row is gone.
type Session struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}
