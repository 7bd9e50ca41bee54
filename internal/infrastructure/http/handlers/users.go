package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/foodgram/platform/internal/infrastructure/http/middleware"
)

// Profile returns an author page with recipes and audience stats
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	var viewerID *uuid.UUID
	if id, ok := middleware.UserID(r.Context()); ok {
		viewerID = &id
	}
	profile, err := h.users.Profile(r.Context(), username, viewerID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, profile)
}

// Subscribe follows an author; self-follow is a validation error
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := h.users.Subscribe(r.Context(), userID, chi.URLParam(r, "username")); err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Unsubscribe removes a follow
func (h *Handlers) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := h.users.Unsubscribe(r.Context(), userID, chi.URLParam(r, "username")); err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
