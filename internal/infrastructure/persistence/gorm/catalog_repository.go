package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/foodgram/platform/pkg/errors"
	"github.com/foodgram/platform/internal/domain/recipe"
	"github.com/foodgram/platform/internal/ports/outbound"
)

// IngredientRepository implements outbound.IngredientRepository using GORM
type IngredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates a new ingredient repository
func NewIngredientRepository(db *gorm.DB) outbound.IngredientRepository {
	return &IngredientRepository{db: db}
}

// Create persists a new catalog ingredient
func (r *IngredientRepository) Create(ctx context.Context, ing *recipe.Ingredient) error {
	model := IngredientToModel(ing)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflictError("ingredient already exists")
		}
		return apperrors.NewDatabaseError(err)
	}
	ing.ID = model.ID
	return nil
}

// FindByID finds an ingredient by ID
func (r *IngredientRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Ingredient, error) {
	var model IngredientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("ingredient")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return ModelToIngredient(&model), nil
}

// FindByNameAndUnit looks up an ingredient by its unique (name, unit) pair
func (r *IngredientRepository) FindByNameAndUnit(ctx context.Context, name, unit string) (*recipe.Ingredient, error) {
	var model IngredientModel
	err := r.db.WithContext(ctx).
		Where("name = ? AND measurement_unit = ?", name, unit).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("ingredient")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return ModelToIngredient(&model), nil
}

// Search returns ingredients whose name starts with the given prefix
func (r *IngredientRepository) Search(ctx context.Context, namePrefix string, limit int) ([]*recipe.Ingredient, error) {
	q := r.db.WithContext(ctx).Model(&IngredientModel{}).Order("name")
	if namePrefix != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", namePrefix+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var models []IngredientModel
	if err := q.Find(&models).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	out := make([]*recipe.Ingredient, len(models))
	for i := range models {
		out[i] = ModelToIngredient(&models[i])
	}
	return out, nil
}

// List returns the full ingredient catalog ordered by name
func (r *IngredientRepository) List(ctx context.Context) ([]*recipe.Ingredient, error) {
	return r.Search(ctx, "", 0)
}

// TagRepository implements outbound.TagRepository using GORM
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) outbound.TagRepository {
	return &TagRepository{db: db}
}

// Create persists a new tag
func (r *TagRepository) Create(ctx context.Context, tag *recipe.Tag) error {
	model := TagToModel(tag)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflictError("tag slug already exists")
		}
		return apperrors.NewDatabaseError(err)
	}
	tag.ID = model.ID
	return nil
}

// FindByID finds a tag by ID
func (r *TagRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Tag, error) {
	var model TagModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("tag")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return ModelToTag(&model), nil
}

// FindBySlug finds a tag by its unique slug
func (r *TagRepository) FindBySlug(ctx context.Context, slug string) (*recipe.Tag, error) {
	var model TagModel
	if err := r.db.WithContext(ctx).First(&model, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("tag")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return ModelToTag(&model), nil
}

// List returns all tags ordered by name
func (r *TagRepository) List(ctx context.Context) ([]*recipe.Tag, error) {
	var models []TagModel
	if err := r.db.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	out := make([]*recipe.Tag, len(models))
	for i := range models {
		out[i] = ModelToTag(&models[i])
	}
	return out, nil
}
