package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"archive_slack/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

// ArchivedFile is one row of the archive ledger
type ArchivedFile struct {
	ID              string
	Title           string
	Destination     string
	ArtifactPath    string
	MetadataPath    string
	Checksum        string
	SizeBytes       int64
	CreatedAt       time.Time
	Downloaded      bool
	MetadataWritten bool
	RemoteDeleted   bool
	ArchivedAt      time.Time
}

// Run summarizes one archival pass
type Run struct {
	ID            int64
	StartedAt     time.Time
	Cutoff        time.Time
	Remove        bool
	FilesSeen     int
	FilesArchived int
	FilesSkipped  int
}

// New creates a new database connection and ensures schema is up to date
func New(dbPath string) (*DB, error) {
	// Ensure database directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database connection
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Apply migrations
	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &DB{db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// RecordFile upserts a ledger row. Flags only ever go from false to true, so
// a later pass that skipped a step does not erase an earlier one.
func (db *DB) RecordFile(f ArchivedFile) error {
	query := `
        INSERT INTO archived_files (
            id, title, destination, artifact_path, metadata_path, checksum,
            size_bytes, created_at, downloaded, metadata_written, remote_deleted, archived_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            title = excluded.title,
            destination = excluded.destination,
            artifact_path = excluded.artifact_path,
            metadata_path = excluded.metadata_path,
            checksum = CASE WHEN excluded.checksum != '' THEN excluded.checksum ELSE archived_files.checksum END,
            downloaded = archived_files.downloaded OR excluded.downloaded,
            metadata_written = archived_files.metadata_written OR excluded.metadata_written,
            remote_deleted = archived_files.remote_deleted OR excluded.remote_deleted,
            archived_at = excluded.archived_at
    `
	archivedAt := f.ArchivedAt
	if archivedAt.IsZero() {
		archivedAt = time.Now()
	}

	result, err := db.DB.Exec(query,
		f.ID, f.Title, f.Destination, f.ArtifactPath, f.MetadataPath, f.Checksum,
		f.SizeBytes, f.CreatedAt, f.Downloaded, f.MetadataWritten, f.RemoteDeleted, archivedAt)
	if err != nil {
		logger.Error.Printf("Database error recording file %s: %v", f.ID, err)
		return err
	}

	rows, _ := result.RowsAffected()
	logger.Debug.Printf("Recorded file %s (rows affected: %d)", f.ID, rows)
	return nil
}

// MarkRemoteDeleted flags a file as removed from Slack
func (db *DB) MarkRemoteDeleted(id string) error {
	_, err := db.DB.Exec(`UPDATE archived_files SET remote_deleted = TRUE WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark file %s deleted: %w", id, err)
	}
	return nil
}

// GetArchivedFile returns the ledger row for id, or nil when there is none
func (db *DB) GetArchivedFile(id string) (*ArchivedFile, error) {
	var f ArchivedFile
	err := db.DB.QueryRow(`
        SELECT id, title, destination, artifact_path, metadata_path, checksum, size_bytes,
               created_at, downloaded, metadata_written, remote_deleted, archived_at
        FROM archived_files WHERE id = ?`, id).Scan(
		&f.ID, &f.Title, &f.Destination, &f.ArtifactPath, &f.MetadataPath, &f.Checksum, &f.SizeBytes,
		&f.CreatedAt, &f.Downloaded, &f.MetadataWritten, &f.RemoteDeleted, &f.ArchivedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get archived file: %w", err)
	}
	return &f, nil
}

// StartRun opens a run row and returns its id
func (db *DB) StartRun(run Run) (int64, error) {
	var cutoff sql.NullTime
	if !run.Cutoff.IsZero() {
		cutoff = sql.NullTime{Time: run.Cutoff, Valid: true}
	}

	result, err := db.DB.Exec(`INSERT INTO runs (started_at, cutoff, remove) VALUES (?, ?, ?)`,
		run.StartedAt, cutoff, run.Remove)
	if err != nil {
		return 0, fmt.Errorf("failed to start run: %w", err)
	}
	return result.LastInsertId()
}

// FinishRun stores the final counters of a run
func (db *DB) FinishRun(run Run) error {
	_, err := db.DB.Exec(`
        UPDATE runs SET finished_at = ?, files_seen = ?, files_archived = ?, files_skipped = ?
        WHERE id = ?`,
		time.Now(), run.FilesSeen, run.FilesArchived, run.FilesSkipped, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run %d: %w", run.ID, err)
	}
	return nil
}
