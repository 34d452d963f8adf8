package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{`
	CREATE TABLE IF NOT EXISTS items (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		name            TEXT NOT NULL CHECK (length(name) > 0),
		category        TEXT NOT NULL CHECK (category IN ('Produce', 'Dairy', 'Meat', 'Pantry', 'Frozen', 'Other')),
		purchase_date   DATETIME NOT NULL,
		expiration_date DATETIME NOT NULL,
		barcode         TEXT,
		image_url       TEXT,
		created_at      DATETIME NOT NULL
	)`,
		`CREATE INDEX IF NOT EXISTS idx_items_user ON items(user_id)`,
		`
	CREATE TABLE IF NOT EXISTS users (
		id                TEXT PRIMARY KEY,
		email             TEXT,
		first_name        TEXT,
		last_name         TEXT,
		profile_image_url TEXT,
		created_at        DATETIME NOT NULL,
		updated_at        DATETIME NOT NULL
	)`,
	},
	upsertUser: `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			profile_image_url = excluded.profile_image_url,
			updated_at = excluded.updated_at`,
	sizeQuery: `SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()`,
	maxOpen:   1, // SQLite only supports 1 writer
	maxIdle:   1,
}

// NewSQLiteRepository opens (or creates) the SQLite database at path.
// Use ":memory:" for a throwaway database.
func NewSQLiteRepository(ctx context.Context, path string) (*SQLRepository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_time_format=sqlite", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	repo, err := newSQLRepository(ctx, db, sqliteDialect)
	if err != nil {
		return nil, err
	}

	slog.Info("sqlite repository initialized", "path", path)
	return repo, nil
}
