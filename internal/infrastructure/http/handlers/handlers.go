// Package handlers contains the REST handlers of the main backend
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foodgram/platform/internal/application/shopping"
	"github.com/foodgram/platform/internal/infrastructure/http/middleware"
	"github.com/foodgram/platform/internal/ports/inbound"
	"github.com/foodgram/platform/internal/ports/outbound"
	apperrors "github.com/foodgram/platform/pkg/errors"
)

// Handlers bundles the application services behind the REST surface
type Handlers struct {
	recipes  inbound.RecipeService
	catalog  inbound.CatalogService
	users    inbound.UserService
	shopping *shopping.Service
	cache    outbound.CacheRepository
	cacheTTL time.Duration
	validate *validator.Validate
	logger   *zap.Logger
}

// New creates the handler set
func New(
	recipes inbound.RecipeService,
	catalog inbound.CatalogService,
	users inbound.UserService,
	shoppingSvc *shopping.Service,
	cache outbound.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		recipes:  recipes,
		catalog:  catalog,
		users:    users,
		shopping: shoppingSvc,
		cache:    cache,
		cacheTTL: cacheTTL,
		validate: validator.New(),
		logger:   logger.Named("http"),
	}
}

// decode parses the JSON body into v and runs struct validation
func (h *Handlers) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewBadRequestError("invalid JSON body")
	}
	if err := h.validate.Struct(v); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return nil
}

func badQueryParam(name string) error {
	return apperrors.NewBadRequestError("invalid query parameter: " + name)
}

// pathID parses the named chi URL parameter as a uuid
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperrors.NewBadRequestError("invalid " + name)
	}
	return id, nil
}

// actor returns the authenticated user id; the auth middleware guarantees
// it is present on protected routes.
func actor(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		return uuid.Nil, apperrors.NewUnauthorizedError("")
	}
	return id, nil
}
