package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshguard-api/internal/model"
	"freshguard-api/pkg/apierror"
)

func requireAPIError(t *testing.T, err error, status int) *apierror.Error {
	t.Helper()
	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr), "expected *apierror.Error, got %v", err)
	require.Equal(t, status, apiErr.StatusCode)
	return apiErr
}

func detailFields(e *apierror.Error) []string {
	fields := make([]string, len(e.Details))
	for i, d := range e.Details {
		fields[i] = d.Field
	}
	return fields
}

func TestParseItemFields_ComputesMissingExpiration(t *testing.T) {
	fields, err := ParseItemFields([]byte(`{"name":"Milk","category":"Dairy","purchaseDate":"2025-01-01T00:00:00Z"}`))
	require.NoError(t, err)

	assert.Equal(t, "Milk", fields.Name)
	assert.Equal(t, model.CategoryDairy, fields.Category)
	assert.Equal(t, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), fields.ExpirationDate)
	assert.Nil(t, fields.Barcode)
	assert.Nil(t, fields.ImageURL)
}

func TestParseItemFields_KeepsSubmittedExpiration(t *testing.T) {
	fields, err := ParseItemFields([]byte(`{
		"name":"Steak","category":"Meat",
		"purchaseDate":"2025-01-01","expirationDate":"2025-01-10",
		"barcode":"123","imageUrl":null
	}`))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), fields.ExpirationDate)
	require.NotNil(t, fields.Barcode)
	assert.Equal(t, "123", *fields.Barcode)
	assert.Nil(t, fields.ImageURL)
}

func TestParseItemFields_IgnoresServerFields(t *testing.T) {
	fields, err := ParseItemFields([]byte(`{
		"id":"x","userId":"mallory","createdAt":"2020-01-01T00:00:00Z",
		"name":"Apple","category":"Produce","purchaseDate":"2025-03-01T00:00:00Z"
	}`))
	require.NoError(t, err)
	assert.Equal(t, "Apple", fields.Name)
}

func TestParseItemFields_AggregatesErrors(t *testing.T) {
	_, err := ParseItemFields([]byte(`{"name":"","category":"Snacks"}`))
	apiErr := requireAPIError(t, err, 400)

	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, []string{"name", "category", "purchaseDate"}, detailFields(apiErr))
	assert.Contains(t, apiErr.Message, "name: is required")
	assert.Contains(t, apiErr.Message, "category: must be one of Produce, Dairy, Meat, Pantry, Frozen, Other")
	assert.Contains(t, apiErr.Message, "purchaseDate: is required")
}

func TestParseItemFields_EmptyBody(t *testing.T) {
	_, err := ParseItemFields([]byte(`{}`))
	apiErr := requireAPIError(t, err, 400)
	assert.Equal(t, []string{"name", "category", "purchaseDate"}, detailFields(apiErr))
}

func TestParseItemFields_BadTypes(t *testing.T) {
	_, err := ParseItemFields([]byte(`{"name":5,"category":"Dairy","purchaseDate":"yesterday","barcode":true}`))
	apiErr := requireAPIError(t, err, 400)

	assert.Equal(t, []string{"name", "purchaseDate", "barcode"}, detailFields(apiErr))
	assert.Equal(t, "must be a string", apiErr.Details[0].Message)
	assert.Equal(t, "must be a valid date", apiErr.Details[1].Message)
}

func TestParseItemFields_NotAnObject(t *testing.T) {
	for _, body := range []string{``, `[]`, `"x"`, `null`, `{`} {
		_, err := ParseItemFields([]byte(body))
		apiErr := requireAPIError(t, err, 400)
		assert.Equal(t, "BAD_REQUEST", apiErr.Code, body)
	}
}

func TestCoerceDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{`"2025-01-01T00:00:00Z"`, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{`"2025-01-01T10:30:00+02:00"`, time.Date(2025, 1, 1, 8, 30, 0, 0, time.UTC), true},
		{`"2025-01-01T10:30:00.123Z"`, time.Date(2025, 1, 1, 10, 30, 0, 123000000, time.UTC), true},
		{`"2025-01-01T10:30:00"`, time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC), true},
		{`"2025-01-01"`, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{`1735689600000`, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{`"0001-01-01T00:00:00Z"`, time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{`"9999-12-31T23:00:00-05:00"`, time.Time{}, false},
		{`300000000000000`, time.Time{}, false},
		{`1e300`, time.Time{}, false},
		{`-1e300`, time.Time{}, false},
		{`"01/02/2025"`, time.Time{}, false},
		{`true`, time.Time{}, false},
		{`{}`, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := coerceDate([]byte(tt.in))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v", got)
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestParseItemFields_RejectsOutOfRangeDates(t *testing.T) {
	_, err := ParseItemFields([]byte(`{"name":"X","category":"Meat","purchaseDate":300000000000000}`))
	apiErr := requireAPIError(t, err, 400)
	require.Len(t, apiErr.Details, 1)
	assert.Equal(t, "purchaseDate", apiErr.Details[0].Field)
	assert.Equal(t, "must be a valid date", apiErr.Details[0].Message)

	_, err = ParseItemFields([]byte(`{"name":"X","category":"Meat","purchaseDate":"2025-01-01","expirationDate":1e300}`))
	apiErr = requireAPIError(t, err, 400)
	assert.Equal(t, []string{"expirationDate"}, detailFields(apiErr))
}

func TestParseItemFields_ComputedExpirationOutOfRange(t *testing.T) {
	_, err := ParseItemFields([]byte(`{"name":"Rice","category":"Pantry","purchaseDate":"9999-12-01"}`))
	apiErr := requireAPIError(t, err, 400)
	require.Len(t, apiErr.Details, 1)
	assert.Equal(t, "purchaseDate", apiErr.Details[0].Field)
	assert.Equal(t, "is too far in the future", apiErr.Details[0].Message)

	_, err = ParsePreviewRequest([]byte(`{"purchaseDate":"9999-12-01","category":"Pantry"}`))
	apiErr = requireAPIError(t, err, 400)
	assert.Equal(t, []string{"purchaseDate"}, detailFields(apiErr))
}

func TestParseItemPatch(t *testing.T) {
	patch, err := ParseItemPatch([]byte(`{"name":"Oat milk"}`))
	require.NoError(t, err)

	require.NotNil(t, patch.Name)
	assert.Equal(t, "Oat milk", *patch.Name)
	assert.Nil(t, patch.Category)
	assert.Nil(t, patch.PurchaseDate)
	assert.Nil(t, patch.ExpirationDate)
	assert.Nil(t, patch.Barcode)
	assert.Nil(t, patch.ImageURL)
}

func TestParseItemPatch_NoRecompute(t *testing.T) {
	patch, err := ParseItemPatch([]byte(`{"category":"Meat","purchaseDate":"2025-01-01"}`))
	require.NoError(t, err)
	assert.Nil(t, patch.ExpirationDate)
	require.NotNil(t, patch.Category)
	assert.Equal(t, model.CategoryMeat, *patch.Category)
}

func TestParseItemPatch_Invalid(t *testing.T) {
	_, err := ParseItemPatch([]byte(`{"name":"","category":"Candy","expirationDate":"soon"}`))
	apiErr := requireAPIError(t, err, 400)
	assert.Equal(t, []string{"name", "category", "expirationDate"}, detailFields(apiErr))
}

func TestParseItemPatch_Empty(t *testing.T) {
	patch, err := ParseItemPatch([]byte(`{}`))
	require.NoError(t, err)
	assert.True(t, patch.Empty())
}
