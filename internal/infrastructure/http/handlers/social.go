package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/foodgram/platform/internal/infrastructure/http/middleware"
)

func (h *Handlers) recipePairAction(w http.ResponseWriter, r *http.Request, action func(userID, recipeID uuid.UUID) error, status int) {
	userID, err := actor(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	recipeID, err := pathID(r, "id")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := action(userID, recipeID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.WriteHeader(status)
}

// Favorite marks a recipe as the user's favorite; repeats conflict
func (h *Handlers) Favorite(w http.ResponseWriter, r *http.Request) {
	h.recipePairAction(w, r, func(userID, recipeID uuid.UUID) error {
		return h.recipes.Favorite(r.Context(), userID, recipeID)
	}, http.StatusCreated)
}

// Unfavorite removes a favorite mark
func (h *Handlers) Unfavorite(w http.ResponseWriter, r *http.Request) {
	h.recipePairAction(w, r, func(userID, recipeID uuid.UUID) error {
		return h.recipes.Unfavorite(r.Context(), userID, recipeID)
	}, http.StatusNoContent)
}

// AddToCart puts a recipe into the user's shopping cart; repeats conflict
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.recipePairAction(w, r, func(userID, recipeID uuid.UUID) error {
		return h.recipes.AddToCart(r.Context(), userID, recipeID)
	}, http.StatusCreated)
}

// RemoveFromCart takes a recipe out of the shopping cart
func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.recipePairAction(w, r, func(userID, recipeID uuid.UUID) error {
		return h.recipes.RemoveFromCart(r.Context(), userID, recipeID)
	}, http.StatusNoContent)
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

// AddComment attaches a comment to a recipe
func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	recipeID, err := pathID(r, "id")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	var req commentRequest
	if err := h.decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	comment, err := h.recipes.AddComment(r.Context(), recipeID, userID, req.Text)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, comment)
}

// ListComments returns a recipe's comments, newest first
func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	recipeID, err := pathID(r, "id")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	comments, err := h.recipes.ListComments(r.Context(), recipeID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, comments)
}

// DeleteComment removes a comment; only its author may call it
func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	commentID, err := pathID(r, "commentID")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := h.recipes.DeleteComment(r.Context(), commentID, userID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
