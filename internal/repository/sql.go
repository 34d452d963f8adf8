package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"freshguard-api/internal/model"
)

// dialect captures what differs between the SQL backends.
type dialect struct {
	name        string
	numbered    bool // $1, $2 placeholders instead of ?
	schema      []string
	upsertUser  string
	sizeQuery   string
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
}

// SQLRepository implements Store on database/sql. The dialect decides
// placeholder style, schema and upsert syntax.
type SQLRepository struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

const itemColumns = `id, user_id, name, category, purchase_date, expiration_date, barcode, image_url, created_at`

func newSQLRepository(ctx context.Context, db *sql.DB, d dialect) (*SQLRepository, error) {
	db.SetMaxOpenConns(d.maxOpen)
	db.SetMaxIdleConns(d.maxIdle)
	db.SetConnMaxLifetime(d.maxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", d.name, err)
	}

	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return &SQLRepository{db: db, dialect: d, now: storageNow}, nil
}

// bind rewrites ? placeholders for dialects that number them.
func (r *SQLRepository) bind(query string) string {
	if !r.dialect.numbered {
		return query
	}

	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// ListItems returns all items owned by owner.
func (r *SQLRepository) ListItems(ctx context.Context, owner model.Owner) ([]model.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		r.bind(`SELECT `+itemColumns+` FROM items WHERE user_id = ?`),
		owner.UserID(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := make([]model.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// GetItem returns the item if it exists and is owned by owner.
func (r *SQLRepository) GetItem(ctx context.Context, id string, owner model.Owner) (*model.Item, error) {
	row := r.db.QueryRowContext(ctx,
		r.bind(`SELECT `+itemColumns+` FROM items WHERE id = ? AND user_id = ?`),
		id, owner.UserID(),
	)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

// CreateItem stores a new item.
func (r *SQLRepository) CreateItem(ctx context.Context, fields model.ItemFields, owner model.Owner) (*model.Item, error) {
	if !owner.Valid() {
		return nil, ErrInvalidOwner
	}
	item := newItem(fields, owner, r.now())

	_, err := r.db.ExecContext(ctx,
		r.bind(`INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		item.ID,
		item.UserID,
		item.Name,
		string(item.Category),
		item.PurchaseDate.UTC(),
		item.ExpirationDate.UTC(),
		nullString(item.Barcode),
		nullString(item.ImageURL),
		item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return &item, nil
}

// UpdateItem applies the non-nil patch fields to an owned item.
func (r *SQLRepository) UpdateItem(ctx context.Context, id string, owner model.Owner, patch model.ItemPatch) (*model.Item, error) {
	sets := []string{}
	args := []interface{}{}

	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, string(*patch.Category))
	}
	if patch.PurchaseDate != nil {
		sets = append(sets, "purchase_date = ?")
		args = append(args, patch.PurchaseDate.UTC())
	}
	if patch.ExpirationDate != nil {
		sets = append(sets, "expiration_date = ?")
		args = append(args, patch.ExpirationDate.UTC())
	}
	if patch.Barcode != nil {
		sets = append(sets, "barcode = ?")
		args = append(args, *patch.Barcode)
	}
	if patch.ImageURL != nil {
		sets = append(sets, "image_url = ?")
		args = append(args, *patch.ImageURL)
	}

	if len(sets) > 0 {
		args = append(args, id, owner.UserID())
		query := `UPDATE items SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND user_id = ?`
		if _, err := r.db.ExecContext(ctx, r.bind(query), args...); err != nil {
			return nil, fmt.Errorf("failed to update item: %w", err)
		}
	}

	// Same predicate as the UPDATE: a miss there is a miss here.
	return r.GetItem(ctx, id, owner)
}

// DeleteItem removes an owned item.
func (r *SQLRepository) DeleteItem(ctx context.Context, id string, owner model.Owner) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		r.bind(`DELETE FROM items WHERE id = ? AND user_id = ?`),
		id, owner.UserID(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete item: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete item: %w", err)
	}
	return deleted > 0, nil
}

// UpsertUser creates or refreshes a user.
func (r *SQLRepository) UpsertUser(ctx context.Context, user model.User) (*model.User, error) {
	now := r.now()

	_, err := r.db.ExecContext(ctx, r.bind(r.dialect.upsertUser),
		user.ID,
		nullString(user.Email),
		nullString(user.FirstName),
		nullString(user.LastName),
		nullString(user.ProfileImageURL),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return r.GetUser(ctx, user.ID)
}

// GetUser returns a user by id.
func (r *SQLRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	var email, firstName, lastName, image sql.NullString

	err := r.db.QueryRowContext(ctx,
		r.bind(`SELECT id, email, first_name, last_name, profile_image_url, created_at, updated_at
		 FROM users WHERE id = ?`),
		id,
	).Scan(&user.ID, &email, &firstName, &lastName, &image, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Email = stringPtr(email)
	user.FirstName = stringPtr(firstName)
	user.LastName = stringPtr(lastName)
	user.ProfileImageURL = stringPtr(image)
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}

// GetStats returns statistics about the database.
func (r *SQLRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})
	stats["db_type"] = r.dialect.name

	var items, users int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&items); err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	stats["total_items"] = items
	stats["total_users"] = users

	if r.dialect.sizeQuery != "" {
		var size int64
		if err := r.db.QueryRowContext(ctx, r.dialect.sizeQuery).Scan(&size); err == nil {
			stats["db_size_bytes"] = size
		}
	}

	dbStats := r.db.Stats()
	stats["connections"] = map[string]interface{}{
		"open":     dbStats.OpenConnections,
		"in_use":   dbStats.InUse,
		"idle":     dbStats.Idle,
		"max_open": dbStats.MaxOpenConnections,
	}

	return stats, nil
}

// Ping checks the database connection.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection pool.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (model.Item, error) {
	var item model.Item
	var category string
	var barcode, imageURL sql.NullString

	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Name,
		&category,
		&item.PurchaseDate,
		&item.ExpirationDate,
		&barcode,
		&imageURL,
		&item.CreatedAt,
	)
	if err != nil {
		return model.Item{}, err
	}

	item.Category = model.Category(category)
	item.PurchaseDate = item.PurchaseDate.UTC()
	item.ExpirationDate = item.ExpirationDate.UTC()
	item.CreatedAt = item.CreatedAt.UTC()
	item.Barcode = stringPtr(barcode)
	item.ImageURL = stringPtr(imageURL)
	return item, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// Ensure SQLRepository implements Store
var _ Store = (*SQLRepository)(nil)
