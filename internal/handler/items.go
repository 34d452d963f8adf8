package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"freshguard-api/internal/middleware"
	"freshguard-api/internal/model"
	"freshguard-api/internal/service"
	"freshguard-api/pkg/apierror"
	"freshguard-api/pkg/response"
)

const maxBodyBytes = 1 << 20

// ItemHandler handles item-related HTTP requests.
type ItemHandler struct {
	items *service.ItemService
}

// NewItemHandler creates a new item handler.
func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, apierror.BadRequest("failed to read request body")
	}
	return body, nil
}

// requireOwner returns the authenticated owner, writing a 401 when the
// request did not pass through the auth middleware.
func requireOwner(w http.ResponseWriter, r *http.Request) (model.Owner, bool) {
	owner, ok := middleware.GetOwner(r.Context())
	if !ok {
		writeError(w, r, apierror.Unauthorized(""))
	}
	return owner, ok
}

// List handles GET /api/items
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	views, err := h.items.List(r.Context(), owner, service.ListOptions{
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, views)
}

// Get handles GET /api/items/{id}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	view, err := h.items.Get(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, view)
}

// Create handles POST /api/items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := h.items.Create(r.Context(), owner, body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, view)
}

// Update handles PATCH /api/items/{id}
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := h.items.Update(r.Context(), owner, chi.URLParam(r, "id"), body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, view)
}

// Delete handles DELETE /api/items/{id}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	if err := h.items.Delete(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	response.NoContent(w)
}

// Categories handles GET /api/categories
func (h *ItemHandler) Categories(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.items.Categories())
}

// PreviewExpiration handles POST /api/expiration/preview
func (h *ItemHandler) PreviewExpiration(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	preview, err := h.items.PreviewExpiration(body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, preview)
}
