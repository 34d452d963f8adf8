package repository

import (
	"context"
	"errors"

	"freshguard-api/internal/model"
)

// ErrInvalidOwner is returned when an item would be stored without a user.
var ErrInvalidOwner = errors.New("item owner is required")

// ItemRepository defines ownership-scoped item data access. Every by-id
// method matches on id AND owner, so an item owned by someone else is
// indistinguishable from one that does not exist.
type ItemRepository interface {
	// ListItems returns all items owned by owner, in no particular order.
	ListItems(ctx context.Context, owner model.Owner) ([]model.Item, error)

	// GetItem returns the item, or nil if it is absent or not owned.
	GetItem(ctx context.Context, id string, owner model.Owner) (*model.Item, error)

	// CreateItem stores a new item with a fresh id and creation time. It
	// returns ErrInvalidOwner for an empty owner.
	CreateItem(ctx context.Context, fields model.ItemFields, owner model.Owner) (*model.Item, error)

	// UpdateItem applies the non-nil patch fields and returns the stored
	// record, or nil if nothing matched. It never creates an item.
	UpdateItem(ctx context.Context, id string, owner model.Owner, patch model.ItemPatch) (*model.Item, error)

	// DeleteItem removes the item and reports whether anything was removed.
	DeleteItem(ctx context.Context, id string, owner model.Owner) (bool, error)
}

// UserRepository defines user data access.
type UserRepository interface {
	// UpsertUser creates the user or overwrites its profile attributes.
	// CreatedAt is kept from the first insert; UpdatedAt is refreshed.
	UpsertUser(ctx context.Context, user model.User) (*model.User, error)

	// GetUser returns the user, or nil if not found.
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// Store is a complete storage backend.
type Store interface {
	ItemRepository
	UserRepository

	// GetStats returns statistics about the backing database.
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close closes the repository connection.
	Close() error
}
