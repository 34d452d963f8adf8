package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"freshguard-api/internal/barcode"
	"freshguard-api/pkg/response"
)

// BarcodeHandler serves product lookups for scanned barcodes.
type BarcodeHandler struct {
	client *barcode.Client
}

// NewBarcodeHandler creates a new barcode handler.
func NewBarcodeHandler(client *barcode.Client) *BarcodeHandler {
	return &BarcodeHandler{client: client}
}

// Lookup handles GET /api/barcode/{code}
func (h *BarcodeHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	product, err := h.client.Lookup(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, product)
}
