package expiry

import (
	"testing"
	"time"

	"freshguard-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultShelfLifeDays(t *testing.T) {
	want := map[model.Category]int{
		model.CategoryProduce: 7,
		model.CategoryDairy:   7,
		model.CategoryMeat:    3,
		model.CategoryPantry:  365,
		model.CategoryFrozen:  180,
		model.CategoryOther:   14,
	}

	for _, c := range model.Categories() {
		assert.Equal(t, want[c], DefaultShelfLifeDays(c), c)
	}
	assert.Len(t, model.Categories(), len(want))
}

func TestDefaultShelfLifeDays_UnknownCategoryPanics(t *testing.T) {
	assert.Panics(t, func() { DefaultShelfLifeDays("Snacks") })
}

func TestComputeExpiration(t *testing.T) {
	tests := []struct {
		name     string
		purchase time.Time
		category model.Category
		want     time.Time
	}{
		{
			name:     "dairy adds a week",
			purchase: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			category: model.CategoryDairy,
			want:     time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "meat rolls into next month",
			purchase: time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC),
			category: model.CategoryMeat,
			want:     time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "time of day is preserved",
			purchase: time.Date(2025, 3, 10, 17, 45, 12, 500, time.UTC),
			category: model.CategoryProduce,
			want:     time.Date(2025, 3, 17, 17, 45, 12, 500, time.UTC),
		},
		{
			name:     "frozen rolls into next year",
			purchase: time.Date(2024, 10, 1, 8, 0, 0, 0, time.UTC),
			category: model.CategoryFrozen,
			want:     time.Date(2025, 3, 30, 8, 0, 0, 0, time.UTC),
		},
		{
			name:     "pantry across a leap day",
			purchase: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			category: model.CategoryPantry,
			want:     time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "other",
			purchase: time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC),
			category: model.CategoryOther,
			want:     time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeExpiration(tt.purchase, tt.category)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestComputeExpiration_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	purchase := time.Date(2025, 6, 1, 23, 30, 0, 0, loc)

	got := ComputeExpiration(purchase, model.CategoryMeat)

	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 4, got.Day())
	assert.Equal(t, 23, got.Hour())
}

func TestClassifyStatus(t *testing.T) {
	exp := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		remaining time.Duration
		want      model.Status
	}{
		{"one second past", -time.Second, model.StatusExpired},
		{"days past", -72 * time.Hour, model.StatusExpired},
		{"exactly now", 0, model.StatusUrgent},
		{"23h59m left", 23*time.Hour + 59*time.Minute, model.StatusUrgent},
		{"exactly 24h left", 24 * time.Hour, model.StatusSoon},
		{"just under 72h", 72*time.Hour - time.Nanosecond, model.StatusSoon},
		{"exactly 72h left", 72 * time.Hour, model.StatusFresh},
		{"a month left", 30 * 24 * time.Hour, model.StatusFresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := exp.Add(-tt.remaining)
			assert.Equal(t, tt.want, ClassifyStatus(exp, now))
		})
	}
}

func TestTimeRemainingLabel(t *testing.T) {
	exp := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		remaining time.Duration
		want      string
	}{
		{"23.9h floors to 23", 23*time.Hour + 54*time.Minute, "23h remaining"},
		{"zero", 0, "0h remaining"},
		{"minutes left", 30 * time.Minute, "0h remaining"},
		{"exactly a day", 24 * time.Hour, "1d remaining"},
		{"47h", 47*time.Hour + 59*time.Minute, "1d remaining"},
		{"a week", 7 * 24 * time.Hour, "7d remaining"},
		{"one minute past", -time.Minute, "Expired today"},
		{"23h past", -23 * time.Hour, "Expired today"},
		{"24h past", -24 * time.Hour, "Expired 1d ago"},
		{"three days past", -3*24*time.Hour - time.Hour, "Expired 3d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := exp.Add(-tt.remaining)
			assert.Equal(t, tt.want, TimeRemainingLabel(exp, now))
		})
	}
}

func TestView(t *testing.T) {
	now := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	item := model.Item{
		ID:             "item-1",
		Name:           "Milk",
		Category:       model.CategoryDairy,
		PurchaseDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpirationDate: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
	}

	v := View(item, now)

	require.Equal(t, item, v.Item)
	assert.Equal(t, model.StatusFresh, v.Status)
	assert.Equal(t, "3d remaining", v.TimeRemaining)
}
