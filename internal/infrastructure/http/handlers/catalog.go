package handlers

import (
	"net/http"

	"github.com/foodgram/platform/internal/infrastructure/http/middleware"
)

// ListIngredients lists catalog ingredients, optionally by name prefix
func (h *Handlers) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.catalog.ListIngredients(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, ingredients)
}

type ingredientRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=50"`
}

// CreateIngredient registers an ingredient. When the (name, unit) pair
// already exists the existing row is returned with 200.
func (h *Handlers) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req ingredientRequest
	if err := h.decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	ingredient, created, err := h.catalog.RegisterIngredient(r.Context(), req.Name, req.MeasurementUnit)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	middleware.WriteJSON(w, status, ingredient)
}

// ListTags lists all tags
func (h *Handlers) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.catalog.ListTags(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, tags)
}

type tagRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"max=7"`
	Slug  string `json:"slug" validate:"required,max=200"`
}

// CreateTag registers a tag; duplicate slugs conflict
func (h *Handlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := h.decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	tag, err := h.catalog.CreateTag(r.Context(), req.Name, req.Color, req.Slug)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, tag)
}
