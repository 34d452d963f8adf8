package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"freshguard-api/internal/expiry"
	"freshguard-api/internal/model"
	"freshguard-api/pkg/apierror"
)

// Wire names of item fields, in the order errors are reported.
const (
	fieldName           = "name"
	fieldCategory       = "category"
	fieldPurchaseDate   = "purchaseDate"
	fieldExpirationDate = "expirationDate"
	fieldBarcode        = "barcode"
	fieldImageURL       = "imageUrl"
)

var fieldOrder = []string{
	fieldName,
	fieldCategory,
	fieldPurchaseDate,
	fieldExpirationDate,
	fieldBarcode,
	fieldImageURL,
}

var structFieldNames = map[string]string{
	"Name":           fieldName,
	"Category":       fieldCategory,
	"PurchaseDate":   fieldPurchaseDate,
	"ExpirationDate": fieldExpirationDate,
	"Barcode":        fieldBarcode,
	"ImageURL":       fieldImageURL,
}

// Accepted date layouts for string input. Strings without a zone are UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Dates outside this range cannot be stored by every backend or written
// back as JSON.
var (
	minDate = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	maxDate = time.Date(9999, 12, 31, 23, 59, 59, 999999000, time.UTC)
)

func dateInRange(t time.Time) bool {
	return !t.Before(minDate) && !t.After(maxDate)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseCategory(fl.Field().String())
		return ok
	})
	return v
}

// fieldErrors collects at most one message per field.
type fieldErrors map[string]string

func (e fieldErrors) add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

func (e fieldErrors) addValidation(err error) {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return
	}
	for _, fe := range verrs {
		name, known := structFieldNames[fe.StructField()]
		if !known {
			name = fe.StructField()
		}
		e.add(name, tagMessage(fe.Tag()))
	}
}

func (e fieldErrors) toAPIError() error {
	if len(e) == 0 {
		return nil
	}
	details := make([]apierror.FieldError, 0, len(e))
	for _, f := range fieldOrder {
		if msg, ok := e[f]; ok {
			details = append(details, apierror.FieldError{Field: f, Message: msg})
		}
	}
	return apierror.ValidationFailed(details)
}

func tagMessage(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	case "category":
		return "must be one of " + categoryList()
	default:
		return "is invalid"
	}
}

func categoryList() string {
	cats := model.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// rawObject splits a JSON object body into its members. JSON null members
// are dropped so they read as absent.
func rawObject(body []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return nil, apierror.BadRequest("Request body must be a JSON object")
	}
	for k, v := range obj {
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			delete(obj, k)
		}
	}
	return obj, nil
}

func decodeString(obj map[string]json.RawMessage, field string, errs fieldErrors) *string {
	raw, ok := obj[field]
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		errs.add(field, "must be a string")
		return nil
	}
	return &s
}

func decodeDate(obj map[string]json.RawMessage, field string, errs fieldErrors) *time.Time {
	raw, ok := obj[field]
	if !ok {
		return nil
	}
	t, ok := coerceDate(raw)
	if !ok {
		errs.add(field, "must be a valid date")
		return nil
	}
	return &t
}

// coerceDate accepts an RFC 3339 or zone-less date string, or a number of
// milliseconds since the Unix epoch. The result is in UTC with microsecond
// precision, the finest every storage backend keeps. Years outside 1-9999
// are rejected.
func coerceDate(raw json.RawMessage) (time.Time, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				t = t.UTC().Truncate(time.Microsecond)
				return t, dateInRange(t)
			}
		}
		return time.Time{}, false
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		if math.IsNaN(ms) || math.IsInf(ms, 0) ||
			ms < float64(minDate.UnixMilli()) || ms > float64(maxDate.UnixMilli()) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(ms)).UTC(), true
	}
	return time.Time{}, false
}

// computeExpiration derives the default expiration, reporting purchaseDate
// when the result would fall past the last representable date.
func computeExpiration(purchase time.Time, category model.Category, errs fieldErrors) (time.Time, bool) {
	exp := expiry.ComputeExpiration(purchase, category)
	if !dateInRange(exp) {
		errs.add(fieldPurchaseDate, "is too far in the future")
		return time.Time{}, false
	}
	return exp, true
}

// ParseItemFields validates a create payload. A missing expirationDate is
// derived from purchaseDate and category. All field errors are reported
// together in a single *apierror.Error.
func ParseItemFields(body []byte) (model.ItemFields, error) {
	obj, err := rawObject(body)
	if err != nil {
		return model.ItemFields{}, err
	}

	errs := fieldErrors{}
	var fields model.ItemFields

	if name := decodeString(obj, fieldName, errs); name != nil {
		fields.Name = *name
	}
	if cat := decodeString(obj, fieldCategory, errs); cat != nil {
		fields.Category = model.Category(*cat)
	}
	if t := decodeDate(obj, fieldPurchaseDate, errs); t != nil {
		fields.PurchaseDate = *t
	}
	if t := decodeDate(obj, fieldExpirationDate, errs); t != nil {
		fields.ExpirationDate = *t
	}
	fields.Barcode = decodeString(obj, fieldBarcode, errs)
	fields.ImageURL = decodeString(obj, fieldImageURL, errs)

	_, expirationSent := obj[fieldExpirationDate]
	if !expirationSent && !fields.PurchaseDate.IsZero() && fields.Category.Valid() {
		if exp, ok := computeExpiration(fields.PurchaseDate, fields.Category, errs); ok {
			fields.ExpirationDate = exp
		}
	}

	if err := validate.Struct(fields); err != nil {
		errs.addValidation(err)
	}

	// A purchaseDate problem already explains the missing default.
	if _, bad := errs[fieldPurchaseDate]; bad && !expirationSent {
		delete(errs, fieldExpirationDate)
	}
	if _, bad := errs[fieldCategory]; bad && !expirationSent {
		delete(errs, fieldExpirationDate)
	}

	if err := errs.toAPIError(); err != nil {
		return model.ItemFields{}, err
	}
	return fields, nil
}

// ParseItemPatch validates a partial update payload. Only fields present in
// the body are set; nothing is defaulted or recomputed.
func ParseItemPatch(body []byte) (model.ItemPatch, error) {
	obj, err := rawObject(body)
	if err != nil {
		return model.ItemPatch{}, err
	}

	errs := fieldErrors{}
	var patch model.ItemPatch

	patch.Name = decodeString(obj, fieldName, errs)
	if cat := decodeString(obj, fieldCategory, errs); cat != nil {
		c := model.Category(*cat)
		patch.Category = &c
	}
	patch.PurchaseDate = decodeDate(obj, fieldPurchaseDate, errs)
	patch.ExpirationDate = decodeDate(obj, fieldExpirationDate, errs)
	patch.Barcode = decodeString(obj, fieldBarcode, errs)
	patch.ImageURL = decodeString(obj, fieldImageURL, errs)

	if err := validate.Struct(patch); err != nil {
		errs.addValidation(err)
	}

	if err := errs.toAPIError(); err != nil {
		return model.ItemPatch{}, err
	}
	return patch, nil
}

// PreviewRequest asks what the server would compute for a new item.
type PreviewRequest struct {
	PurchaseDate time.Time      `validate:"required"`
	Category     model.Category `validate:"required,category"`
}

// ParsePreviewRequest validates an expiration preview payload.
func ParsePreviewRequest(body []byte) (PreviewRequest, error) {
	obj, err := rawObject(body)
	if err != nil {
		return PreviewRequest{}, err
	}

	errs := fieldErrors{}
	var req PreviewRequest

	if t := decodeDate(obj, fieldPurchaseDate, errs); t != nil {
		req.PurchaseDate = *t
	}
	if cat := decodeString(obj, fieldCategory, errs); cat != nil {
		req.Category = model.Category(*cat)
	}

	if err := validate.Struct(req); err != nil {
		errs.addValidation(err)
	}
	if !req.PurchaseDate.IsZero() && req.Category.Valid() {
		computeExpiration(req.PurchaseDate, req.Category, errs)
	}

	if err := errs.toAPIError(); err != nil {
		return PreviewRequest{}, err
	}
	return req, nil
}
