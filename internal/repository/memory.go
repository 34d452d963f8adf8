package repository

import (
	"context"
	"sync"
	"time"

	"freshguard-api/internal/model"
	"freshguard-api/pkg/uid"
)

// MemoryRepository implements Store with maps. It backs tests and the
// "memory" storage type; nothing survives a restart.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]model.Item
	users map[string]model.User
	now   func() time.Time
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[string]model.Item),
		users: make(map[string]model.User),
		now:   storageNow,
	}
}

// ListItems returns all items owned by owner.
func (r *MemoryRepository) ListItems(ctx context.Context, owner model.Owner) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.Item, 0)
	if !owner.Valid() {
		return items, nil
	}
	for _, item := range r.items {
		if item.UserID == owner.UserID() {
			items = append(items, copyItem(item))
		}
	}
	return items, nil
}

// GetItem returns the item if it exists and is owned by owner.
func (r *MemoryRepository) GetItem(ctx context.Context, id string, owner model.Owner) (*model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.owned(id, owner)
	if !ok {
		return nil, nil
	}
	out := copyItem(item)
	return &out, nil
}

// CreateItem stores a new item.
func (r *MemoryRepository) CreateItem(ctx context.Context, fields model.ItemFields, owner model.Owner) (*model.Item, error) {
	if !owner.Valid() {
		return nil, ErrInvalidOwner
	}
	item := newItem(fields, owner, r.now())

	r.mu.Lock()
	r.items[item.ID] = item
	r.mu.Unlock()

	out := copyItem(item)
	return &out, nil
}

// UpdateItem applies patch to an owned item.
func (r *MemoryRepository) UpdateItem(ctx context.Context, id string, owner model.Owner, patch model.ItemPatch) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.owned(id, owner)
	if !ok {
		return nil, nil
	}

	item = patch.Apply(item)
	r.items[id] = item

	out := copyItem(item)
	return &out, nil
}

// DeleteItem removes an owned item.
func (r *MemoryRepository) DeleteItem(ctx context.Context, id string, owner model.Owner) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owned(id, owner); !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

// owned is the single ownership predicate. Callers hold r.mu.
func (r *MemoryRepository) owned(id string, owner model.Owner) (model.Item, bool) {
	item, ok := r.items[id]
	if !ok || !owner.Valid() || item.UserID != owner.UserID() {
		return model.Item{}, false
	}
	return item, true
}

// UpsertUser creates or refreshes a user.
func (r *MemoryRepository) UpsertUser(ctx context.Context, user model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	user.CreatedAt = now
	if existing, ok := r.users[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
	}
	user.UpdatedAt = now
	r.users[user.ID] = user

	out := user
	return &out, nil
}

// GetUser returns a user by id.
func (r *MemoryRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// GetStats returns item and user counts.
func (r *MemoryRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return map[string]interface{}{
		"total_items": int64(len(r.items)),
		"total_users": int64(len(r.users)),
	}, nil
}

// Ping always succeeds.
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (r *MemoryRepository) Close() error {
	return nil
}

// newItem builds the stored record from untrusted fields and the trusted owner.
func newItem(fields model.ItemFields, owner model.Owner, now time.Time) model.Item {
	return copyItem(model.Item{
		ID:             uid.New(),
		UserID:         owner.UserID(),
		Name:           fields.Name,
		Category:       fields.Category,
		PurchaseDate:   fields.PurchaseDate,
		ExpirationDate: fields.ExpirationDate,
		Barcode:        fields.Barcode,
		ImageURL:       fields.ImageURL,
		CreatedAt:      now,
	})
}

func copyItem(item model.Item) model.Item {
	if item.Barcode != nil {
		v := *item.Barcode
		item.Barcode = &v
	}
	if item.ImageURL != nil {
		v := *item.ImageURL
		item.ImageURL = &v
	}
	return item
}

// storageNow is truncated to microseconds, the finest precision every SQL
// backend keeps, so memory and SQL stores agree on round trips.
func storageNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Ensure MemoryRepository implements Store
var _ Store = (*MemoryRepository)(nil)
