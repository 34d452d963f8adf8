package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"freshguard-api/internal/expiry"
	"freshguard-api/internal/model"
	"freshguard-api/internal/repository"
	"freshguard-api/pkg/apierror"
)

// Sort orders accepted by List.
const (
	SortExpiration = "expiration"
	SortName       = "name"
	SortCategory   = "category"
)

// ListOptions filters and orders an item listing. Zero values mean all
// categories, sorted by expiration.
type ListOptions struct {
	Category string
	Sort     string
}

// ItemService implements the item use cases on top of an ItemRepository.
type ItemService struct {
	repo repository.ItemRepository
	now  func() time.Time
}

// NewItemService creates a new item service.
func NewItemService(repo repository.ItemRepository) *ItemService {
	return &ItemService{
		repo: repo,
		now:  time.Now,
	}
}

// SetClock overrides the clock used for freshness. Intended for tests.
func (s *ItemService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *ItemService) view(item *model.Item) *model.ItemView {
	v := expiry.View(*item, s.now())
	return &v
}

// List returns the owner's items with derived freshness.
func (s *ItemService) List(ctx context.Context, owner model.Owner, opts ListOptions) ([]model.ItemView, error) {
	var category model.Category
	if opts.Category != "" {
		c, ok := model.ParseCategory(opts.Category)
		if !ok {
			return nil, apierror.ValidationError("Unknown category filter").
				WithDetails(apierror.FieldError{Field: "category", Message: "must be one of " + categoryList()})
		}
		category = c
	}

	less, err := sortFunc(opts.Sort)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	now := s.now()
	views := make([]model.ItemView, 0, len(items))
	for _, item := range items {
		if category != "" && item.Category != category {
			continue
		}
		views = append(views, expiry.View(item, now))
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.ID < b.ID
	})

	return views, nil
}

func sortFunc(order string) (func(a, b model.ItemView) bool, error) {
	byExpiration := func(a, b model.ItemView) bool {
		return a.ExpirationDate.Before(b.ExpirationDate)
	}

	switch order {
	case "", SortExpiration:
		return byExpiration, nil
	case SortName:
		return func(a, b model.ItemView) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}, nil
	case SortCategory:
		return func(a, b model.ItemView) bool {
			if a.Category != b.Category {
				return a.Category < b.Category
			}
			return byExpiration(a, b)
		}, nil
	default:
		return nil, apierror.ValidationError("Unknown sort order").
			WithDetails(apierror.FieldError{Field: "sort", Message: "must be one of expiration, name, category"})
	}
}

// Get returns one owned item.
func (s *ItemService) Get(ctx context.Context, owner model.Owner, id string) (*model.ItemView, error) {
	item, err := s.repo.GetItem(ctx, id, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, apierror.NotFound("Item not found")
	}
	return s.view(item), nil
}

// Create validates the body and stores a new item for owner.
func (s *ItemService) Create(ctx context.Context, owner model.Owner, body []byte) (*model.ItemView, error) {
	fields, err := ParseItemFields(body)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.CreateItem(ctx, fields, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return s.view(item), nil
}

// Update validates the body and applies it to an owned item.
func (s *ItemService) Update(ctx context.Context, owner model.Owner, id string, body []byte) (*model.ItemView, error) {
	patch, err := ParseItemPatch(body)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.UpdateItem(ctx, id, owner, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	if item == nil {
		return nil, apierror.NotFound("Item not found")
	}
	return s.view(item), nil
}

// Delete removes an owned item.
func (s *ItemService) Delete(ctx context.Context, owner model.Owner, id string) error {
	deleted, err := s.repo.DeleteItem(ctx, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if !deleted {
		return apierror.NotFound("Item not found")
	}
	return nil
}

// CategoryInfo describes one category and its default shelf life.
type CategoryInfo struct {
	Name          model.Category `json:"name"`
	ShelfLifeDays int            `json:"shelfLifeDays"`
}

// Categories lists every category with its shelf life.
func (s *ItemService) Categories() []CategoryInfo {
	cats := model.Categories()
	out := make([]CategoryInfo, len(cats))
	for i, c := range cats {
		out[i] = CategoryInfo{Name: c, ShelfLifeDays: expiry.DefaultShelfLifeDays(c)}
	}
	return out
}

// Preview is the server-computed expiration for a prospective item.
type Preview struct {
	ExpirationDate time.Time    `json:"expirationDate"`
	Status         model.Status `json:"status"`
	TimeRemaining  string       `json:"timeRemaining"`
}

// PreviewExpiration computes what Create would store when no expiration
// date is sent.
func (s *ItemService) PreviewExpiration(body []byte) (*Preview, error) {
	req, err := ParsePreviewRequest(body)
	if err != nil {
		return nil, err
	}

	exp := expiry.ComputeExpiration(req.PurchaseDate, req.Category)
	now := s.now()
	return &Preview{
		ExpirationDate: exp,
		Status:         expiry.ClassifyStatus(exp, now),
		TimeRemaining:  expiry.TimeRemainingLabel(exp, now),
	}, nil
}
