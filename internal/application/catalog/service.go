// Package catalog provides the application layer for the ingredient and
// tag catalogs.
package catalog

import (
	"context"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/foodgram/platform/pkg/errors"
	"github.com/foodgram/platform/internal/domain/recipe"
	"github.com/foodgram/platform/internal/ports/inbound"
	"github.com/foodgram/platform/internal/ports/outbound"
)

// Service implements inbound.CatalogService
type Service struct {
	ingredients outbound.IngredientRepository
	tags        outbound.TagRepository
	logger      *zap.Logger
}

// NewService creates a new catalog service
func NewService(ingredients outbound.IngredientRepository, tags outbound.TagRepository, logger *zap.Logger) inbound.CatalogService {
	return &Service{
		ingredients: ingredients,
		tags:        tags,
		logger:      logger.Named("catalog-service"),
	}
}

const searchLimit = 50

// ListIngredients returns catalog ingredients, optionally narrowed by a
// name prefix.
func (s *Service) ListIngredients(ctx context.Context, namePrefix string) ([]*recipe.Ingredient, error) {
	return s.ingredients.Search(ctx, strings.TrimSpace(namePrefix), searchLimit)
}

// RegisterIngredient adds an ingredient to the catalog. When the
// (name, unit) pair already exists the stored entry is returned instead
// and created is false.
func (s *Service) RegisterIngredient(ctx context.Context, name, unit string) (*recipe.Ingredient, bool, error) {
	ing := &recipe.Ingredient{
		Name:            strings.ToLower(strings.TrimSpace(name)),
		MeasurementUnit: strings.TrimSpace(unit),
	}
	if err := ing.Validate(); err != nil {
		return nil, false, apperrors.NewValidationError(err.Error())
	}

	if existing, err := s.ingredients.FindByNameAndUnit(ctx, ing.Name, ing.MeasurementUnit); err == nil {
		return existing, false, nil
	}

	if err := s.ingredients.Create(ctx, ing); err != nil {
		// Lost a race against a concurrent insert of the same pair
		if apperrors.IsCode(err, apperrors.CodeConflict) {
			existing, ferr := s.ingredients.FindByNameAndUnit(ctx, ing.Name, ing.MeasurementUnit)
			if ferr == nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	return ing, true, nil
}

// ListTags returns the full tag catalog
func (s *Service) ListTags(ctx context.Context) ([]*recipe.Tag, error) {
	return s.tags.List(ctx)
}

// CreateTag adds a tag with a unique slug
func (s *Service) CreateTag(ctx context.Context, name, color, slug string) (*recipe.Tag, error) {
	tag := &recipe.Tag{
		Name:  strings.TrimSpace(name),
		Color: strings.TrimSpace(color),
		Slug:  strings.ToLower(strings.TrimSpace(slug)),
	}
	if err := tag.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}
