package handlers

import (
	"net/http"

	"github.com/foodgram/platform/internal/infrastructure/http/middleware"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=150"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates a new user account
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	id, err := h.users.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":       id,
		"email":    req.Email,
		"username": req.Username,
	})
}

type tokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Token exchanges credentials for an access token
func (h *Handlers) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := h.decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"auth_token": token})
}

// Logout acknowledges the client discarding its token. Tokens are
// stateless and expire on their own.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
