package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/portfoliokit/media-content/pkg/mediacontent"
)

// CategoriesHandler handles HTTP requests for categories.
type CategoriesHandler struct {
	service mediacontent.Service
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(service mediacontent.Service) *CategoriesHandler {
	return &CategoriesHandler{service: service}
}

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// Create creates a category in one kind's namespace.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	kind := mediacontent.ContentKind(req.Kind)
	if !kind.IsValid() {
		respondBadRequest(w, r, "kind must be photo, video or press")
		return
	}

	category, err := h.service.CreateCategory(r.Context(), mediacontent.CreateCategoryRequest{
		Kind: kind,
		Name: req.Name,
	})
	if err != nil {
		slog.Error("Failed to create category", "kind", kind, "name", req.Name, "error", err)
		respondError(w, r, err, "failed to create category")
		return
	}

	respondData(w, r, http.StatusCreated, "category", category)
}

// List lists categories, optionally scoped to one kind.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := mediacontent.ContentKind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.IsValid() {
		respondBadRequest(w, r, "kind must be photo, video or press")
		return
	}

	categories, err := h.service.ListCategories(r.Context(), kind)
	if err != nil {
		slog.Error("Failed to list categories", "kind", kind, "error", err)
		respondError(w, r, err, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []*mediacontent.Category{}
	}

	respondData(w, r, http.StatusOK, "categories", categories)
}

// Delete removes an unreferenced category.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid category ID")
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		slog.Error("Failed to delete category", "category_id", id, "error", err)
		respondError(w, r, err, "failed to delete category")
		return
	}

	respondMessage(w, r, http.StatusOK, "category deleted")
}
