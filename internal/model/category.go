package model

// Category is the closed set of food categories an item can belong to.
type Category string

// Food categories, in display order.
const (
	CategoryProduce Category = "Produce"
	CategoryDairy   Category = "Dairy"
	CategoryMeat    Category = "Meat"
	CategoryPantry  Category = "Pantry"
	CategoryFrozen  Category = "Frozen"
	CategoryOther   Category = "Other"
)

var categories = []Category{
	CategoryProduce,
	CategoryDairy,
	CategoryMeat,
	CategoryPantry,
	CategoryFrozen,
	CategoryOther,
}

// Categories returns every valid category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is a member of the category set.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory returns the category named s. Matching is exact.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}

// Status is the freshness of an item relative to a point in time.
type Status string

// Freshness statuses.
const (
	StatusFresh   Status = "fresh"
	StatusSoon    Status = "soon"
	StatusUrgent  Status = "urgent"
	StatusExpired Status = "expired"
)
