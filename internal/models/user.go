// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "time"

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// ValidRole reports whether r is one of the defined roles.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleEditor
}

// User represents a CMS user. Accounts are created inactive with an invite
// token and activated exactly once when the invite is redeemed.
type User struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	PasswordHash    *string    `json:"-"` // Nil until the invite is accepted
	Name            string     `json:"name"`
	Role            Role       `json:"role"`
	InviteToken     *string    `json:"-"`
	InviteExpiresAt *time.Time `json:"-"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserSummary is the public shape of a user returned by the auth endpoints.
// It never carries the password hash or invite token.
type UserSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// Summary returns the safe-to-serialize view of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
