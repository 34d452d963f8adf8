package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

var mysqlDialect = dialect{
	name: "mysql",
	schema: []string{`
	CREATE TABLE IF NOT EXISTS items (
		id              VARCHAR(36) PRIMARY KEY,
		user_id         VARCHAR(255) NOT NULL,
		name            TEXT NOT NULL,
		category        ENUM('Produce', 'Dairy', 'Meat', 'Pantry', 'Frozen', 'Other') NOT NULL,
		purchase_date   DATETIME(6) NOT NULL,
		expiration_date DATETIME(6) NOT NULL,
		barcode         TEXT,
		image_url       TEXT,
		created_at      DATETIME(6) NOT NULL,
		INDEX idx_items_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`
	CREATE TABLE IF NOT EXISTS users (
		id                VARCHAR(255) PRIMARY KEY,
		email             TEXT,
		first_name        TEXT,
		last_name         TEXT,
		profile_image_url TEXT,
		created_at        DATETIME(6) NOT NULL,
		updated_at        DATETIME(6) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
	upsertUser: `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			email = VALUES(email),
			first_name = VALUES(first_name),
			last_name = VALUES(last_name),
			profile_image_url = VALUES(profile_image_url),
			updated_at = VALUES(updated_at)`,
	sizeQuery: `SELECT COALESCE(SUM(data_length + index_length), 0)
		FROM information_schema.tables WHERE table_schema = DATABASE()`,
	maxOpen:     10,
	maxIdle:     5,
	maxLifetime: 5 * time.Minute,
}

// NewMySQLRepository connects to MySQL. The DSN must set parseTime=true and
// loc=UTC so DATETIME columns scan into UTC time.Time values.
func NewMySQLRepository(ctx context.Context, dsn string) (*SQLRepository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	repo, err := newSQLRepository(ctx, db, mysqlDialect)
	if err != nil {
		return nil, err
	}

	slog.Info("mysql repository initialized",
		"max_open", mysqlDialect.maxOpen, "max_idle", mysqlDialect.maxIdle)
	return repo, nil
}
