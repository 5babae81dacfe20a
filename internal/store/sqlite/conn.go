package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) a SQLite database at the given path and enables WAL
// journal mode. The URI parameters give better concurrency for read-heavy
// workloads.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ensureSchema creates the catalog tables if they do not exist.
func ensureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS regulations (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            jurisdiction_level TEXT NOT NULL,
            location TEXT NOT NULL,
            category TEXT NOT NULL,
            compliance_level TEXT NOT NULL,
            requirements TEXT NOT NULL,
            source_url TEXT,
            last_updated TIMESTAMP NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS regulations_last_updated_idx ON regulations(last_updated);`,
		`CREATE TABLE IF NOT EXISTS updates (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            jurisdiction_level TEXT NOT NULL,
            location TEXT NOT NULL,
            category TEXT NOT NULL,
            impact_level TEXT NOT NULL,
            description TEXT NOT NULL,
            source_url TEXT,
            update_date TIMESTAMP NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS updates_update_date_idx ON updates(update_date);`,
		`CREATE TABLE IF NOT EXISTS saved_searches (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT,
            criteria TEXT NOT NULL,
            is_public BOOLEAN NOT NULL DEFAULT 0,
            created_at TIMESTAMP NOT NULL,
            last_used_at TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS notification_preferences (
            email TEXT PRIMARY KEY,
            locations TEXT,
            categories TEXT,
            frequency TEXT NOT NULL,
            created_at TIMESTAMP NOT NULL,
            updated_at TIMESTAMP NOT NULL
        );`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
