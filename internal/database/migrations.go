package database

import (
	"database/sql"
	"fmt"
)

type Migration struct {
	Version int
	SQL     string
}

var migrations = []Migration{
	{
		Version: 1,
		SQL: `
		CREATE TABLE IF NOT EXISTS archived_files (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			destination TEXT NOT NULL,
			artifact_path TEXT NOT NULL,
			metadata_path TEXT NOT NULL,
			checksum TEXT NOT NULL DEFAULT '',
			size_bytes INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			downloaded BOOLEAN DEFAULT FALSE,
			metadata_written BOOLEAN DEFAULT FALSE,
			remote_deleted BOOLEAN DEFAULT FALSE,
			archived_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_archived_files_destination
			ON archived_files(destination);`,
	},
	{
		Version: 2,
		SQL: `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at DATETIME NOT NULL,
			finished_at DATETIME,
			cutoff DATETIME,
			remove BOOLEAN DEFAULT FALSE,
			files_seen INTEGER NOT NULL DEFAULT 0,
			files_archived INTEGER NOT NULL DEFAULT 0,
			files_skipped INTEGER NOT NULL DEFAULT 0
		);`,
	},
}

func applyMigrations(db *sql.DB) error {
	// Create migrations table if it doesn't exist
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Apply each migration in transaction
	for _, migration := range migrations {
		var version int
		err := db.QueryRow("SELECT version FROM schema_migrations WHERE version = ?", migration.Version).Scan(&version)
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("failed to check migration version: %w", err)
		}
		if err == nil {
			continue // Migration already applied
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}

		if _, err := tx.Exec(migration.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}
