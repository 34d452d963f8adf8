package model

import "time"

// Item is a stored food item. ID, UserID and CreatedAt are assigned by the
// repository and never change afterwards.
type Item struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	Category       Category  `json:"category"`
	PurchaseDate   time.Time `json:"purchaseDate"`
	ExpirationDate time.Time `json:"expirationDate"`
	Barcode        *string   `json:"barcode"`
	ImageURL       *string   `json:"imageUrl"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ItemFields are the client-controlled fields of a new item. There is
// deliberately no way to express an id, owner or creation time here.
type ItemFields struct {
	Name           string    `validate:"required,min=1"`
	Category       Category  `validate:"required,category"`
	PurchaseDate   time.Time `validate:"required"`
	ExpirationDate time.Time `validate:"required"`
	Barcode        *string
	ImageURL       *string
}

// ItemPatch is a partial update. Nil fields are left untouched.
type ItemPatch struct {
	Name           *string    `validate:"omitnil,min=1"`
	Category       *Category  `validate:"omitnil,category"`
	PurchaseDate   *time.Time `validate:"omitnil"`
	ExpirationDate *time.Time `validate:"omitnil"`
	Barcode        *string
	ImageURL       *string
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.PurchaseDate == nil &&
		p.ExpirationDate == nil && p.Barcode == nil && p.ImageURL == nil
}

// Apply returns a copy of item with the patch applied.
func (p ItemPatch) Apply(item Item) Item {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.PurchaseDate != nil {
		item.PurchaseDate = *p.PurchaseDate
	}
	if p.ExpirationDate != nil {
		item.ExpirationDate = *p.ExpirationDate
	}
	if p.Barcode != nil {
		item.Barcode = cloneString(p.Barcode)
	}
	if p.ImageURL != nil {
		item.ImageURL = cloneString(p.ImageURL)
	}
	return item
}

// ItemView is an item as served to clients, with freshness derived at
// response time. Status and TimeRemaining are never stored.
type ItemView struct {
	Item
	Status        Status `json:"status"`
	TimeRemaining string `json:"timeRemaining"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
