package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"parishcms/internal/auth"
)

// Seed populates the database with initial development data.
// It creates a default active admin user if no users exist yet.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := auth.HashPassword("Admin1234")
	if err != nil {
		return fmt.Errorf("seed hash password: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, name, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, "admin@parish.local", hash, "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@parish.local",
		"password", "Admin1234",
	)

	return nil
}
