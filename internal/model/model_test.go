package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, ok := ParseCategory(string(c))
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}

	for _, s := range []string{"", "dairy", "Snacks", " Dairy"} {
		_, ok := ParseCategory(s)
		assert.False(t, ok, s)
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	cats := Categories()
	cats[0] = "Mutated"
	assert.Equal(t, CategoryProduce, Categories()[0])
}

func TestItemPatch_Apply(t *testing.T) {
	barcode := "123"
	item := Item{
		ID:             "id-1",
		UserID:         "alice",
		Name:           "Milk",
		Category:       CategoryDairy,
		PurchaseDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpirationDate: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		Barcode:        &barcode,
		CreatedAt:      time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, item, ItemPatch{}.Apply(item))
	assert.True(t, ItemPatch{}.Empty())

	name := "Oat milk"
	image := "https://img.example/oat.png"
	patch := ItemPatch{Name: &name, ImageURL: &image}
	assert.False(t, patch.Empty())

	got := patch.Apply(item)
	assert.Equal(t, "Oat milk", got.Name)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, image, *got.ImageURL)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, item.UserID, got.UserID)
	assert.Equal(t, item.CreatedAt, got.CreatedAt)
	assert.Equal(t, item.ExpirationDate, got.ExpirationDate)

	image = "changed"
	assert.NotEqual(t, "changed", *got.ImageURL)
}

func TestProfile_User(t *testing.T) {
	u := Profile{ID: "g-1", Email: "a@example.com"}.User()

	assert.Equal(t, "g-1", u.ID)
	require.NotNil(t, u.Email)
	assert.Equal(t, "a@example.com", *u.Email)
	assert.Nil(t, u.FirstName)
	assert.Nil(t, u.LastName)
	assert.Nil(t, u.ProfileImageURL)
}

func TestOwner(t *testing.T) {
	assert.False(t, Owner{}.Valid())
	o := NewOwner("alice")
	assert.True(t, o.Valid())
	assert.Equal(t, "alice", o.UserID())
}
