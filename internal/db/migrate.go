package db

import (
	"database/sql"
	"fmt"
)

// All contains the ordered list of migrations to apply.
var All = []string{
	`CREATE TABLE files (
		id         INTEGER PRIMARY KEY,
		file_path  TEXT UNIQUE NOT NULL,
		created_at DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE runs (
		id         TEXT PRIMARY KEY,
		files      INTEGER NOT NULL,
		bound      INTEGER NOT NULL,
		unbound    INTEGER NOT NULL,
		success    INTEGER NOT NULL,
		started_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE bindings (
		id                INTEGER PRIMARY KEY,
		run_id            TEXT NOT NULL REFERENCES runs(id),
		file_id           INTEGER NOT NULL REFERENCES files(id),
		line              INTEGER NOT NULL,
		col               INTEGER NOT NULL,
		step              TEXT NOT NULL,
		status            TEXT NOT NULL,
		definition_id     TEXT NOT NULL DEFAULT '',
		definition        TEXT NOT NULL DEFAULT '',
		definition_source TEXT NOT NULL DEFAULT '',
		message           TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX bindings_run_status ON bindings (run_id, status)`,
	`CREATE TABLE messages (
		id           INTEGER PRIMARY KEY,
		run_id       TEXT NOT NULL REFERENCES runs(id),
		source       TEXT NOT NULL,
		code         INTEGER NOT NULL,
		severity     TEXT NOT NULL,
		text         TEXT NOT NULL,
		start_line   INTEGER NOT NULL,
		start_column INTEGER NOT NULL
	)`,
}

func Migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`)
	if err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		return fmt.Errorf("checking schema_version: %w", err)
	}
	if count == 0 {
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("initializing schema version: %w", err)
		}
	}

	var current int
	if err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := current; i < len(All); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec(All[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}

		if _, err := tx.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("updating schema version to %d: %w", i+1, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", i+1, err)
		}
	}

	return nil
}
