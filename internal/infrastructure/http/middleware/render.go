package middleware

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/foodgram/platform/pkg/errors"
)

// WriteJSON writes v as a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError renders err as a JSON error response. Unknown errors are
// reported as internal errors without leaking their message.
func WriteError(w http.ResponseWriter, err error) {
	appErr := apperrors.AsAppError(err)
	WriteJSON(w, appErr.StatusCode(), map[string]any{"error": appErr})
}
