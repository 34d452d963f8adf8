// Package expiry holds the shelf-life policy and the pure functions that turn
// purchase and expiration dates into freshness information.
package expiry

import (
	"fmt"
	"math"
	"time"

	"freshguard-api/internal/model"
)

const (
	urgentWithin = 24 // hours
	soonWithin   = 72 // hours
)

var shelfLifeDays = map[model.Category]int{
	model.CategoryProduce: 7,
	model.CategoryDairy:   7,
	model.CategoryMeat:    3,
	model.CategoryPantry:  365,
	model.CategoryFrozen:  180,
	model.CategoryOther:   14,
}

// DefaultShelfLifeDays returns the number of days items of the category stay
// fresh after purchase. It panics on a category outside the fixed set;
// callers validate input first.
func DefaultShelfLifeDays(c model.Category) int {
	days, ok := shelfLifeDays[c]
	if !ok {
		panic(fmt.Sprintf("expiry: unknown category %q", string(c)))
	}
	return days
}

// ComputeExpiration advances purchaseDate by the category's shelf life in
// calendar days. Time of day and location are preserved.
func ComputeExpiration(purchaseDate time.Time, c model.Category) time.Time {
	return purchaseDate.AddDate(0, 0, DefaultShelfLifeDays(c))
}

// ClassifyStatus buckets the time left until expiration. Less than 24h left
// is urgent and less than 72h is soon; anything past expiration is expired.
func ClassifyStatus(expirationDate, now time.Time) model.Status {
	h := expirationDate.Sub(now).Hours()
	switch {
	case h < 0:
		return model.StatusExpired
	case h < urgentWithin:
		return model.StatusUrgent
	case h < soonWithin:
		return model.StatusSoon
	default:
		return model.StatusFresh
	}
}

// TimeRemainingLabel renders the time left as "5h remaining", "3d remaining",
// "Expired today" or "Expired 2d ago". Hours are floored before any day math.
func TimeRemainingLabel(expirationDate, now time.Time) string {
	h := int64(math.Floor(expirationDate.Sub(now).Hours()))

	if h < 0 {
		d := -h / 24
		if d == 0 {
			return "Expired today"
		}
		return fmt.Sprintf("Expired %dd ago", d)
	}
	if h < urgentWithin {
		return fmt.Sprintf("%dh remaining", h)
	}
	return fmt.Sprintf("%dd remaining", h/24)
}

// View decorates an item with its freshness as of now.
func View(item model.Item, now time.Time) model.ItemView {
	return model.ItemView{
		Item:          item,
		Status:        ClassifyStatus(item.ExpirationDate, now),
		TimeRemaining: TimeRemainingLabel(item.ExpirationDate, now),
	}
}
