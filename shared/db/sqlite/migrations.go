package sqlite

import (
	"database/sql"
	"fmt"
)

// migration represents a single database migration
type migration struct {
	version int
	name    string
	up      string
}

// migrations is the ordered list of all database migrations
// Each migration should be idempotent and safe to run multiple times
var migrations = []migration{
	{
		version: 1,
		name:    "create_interaction_tables",
		up: `
			CREATE TABLE IF NOT EXISTS liked (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				userid TEXT NOT NULL,
				slug TEXT NOT NULL,
				title TEXT NOT NULL,
				UNIQUE(userid, slug)
			);

			CREATE TABLE IF NOT EXISTS saved (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				userid TEXT NOT NULL,
				slug TEXT NOT NULL,
				title TEXT NOT NULL,
				UNIQUE(userid, slug)
			);

			CREATE INDEX IF NOT EXISTS idx_liked_slug ON liked(slug);
			CREATE INDEX IF NOT EXISTS idx_saved_slug ON saved(slug);
		`,
	},
	{
		version: 2,
		name:    "create_pending_syncs_table",
		up: `
			CREATE TABLE IF NOT EXISTS pending_syncs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				old_slug TEXT NOT NULL,
				new_slug TEXT NOT NULL,
				title TEXT NOT NULL,
				attempts INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
}

// runMigrations executes all pending migrations
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	currentVersion := 0
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue // Already applied
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", m.version, err)
		}

		_, err = tx.Exec(m.up)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d (%s): %w", m.version, m.name, err)
		}

		_, err = tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			m.version,
			m.name,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
	}

	return nil
}
