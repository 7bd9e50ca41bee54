package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/foodgram/platform/pkg/errors"
	"github.com/foodgram/platform/internal/ports/outbound"
)

// GeneratedRecipeRepository implements outbound.GeneratedRecipeRepository
// using GORM. The fingerprint column carries a unique index, so saving a
// payload the model has produced before fails with a conflict.
type GeneratedRecipeRepository struct {
	db *gorm.DB
}

// NewGeneratedRecipeRepository creates a new generated-recipe repository
func NewGeneratedRecipeRepository(db *gorm.DB) outbound.GeneratedRecipeRepository {
	return &GeneratedRecipeRepository{db: db}
}

// Save persists a generated recipe
func (r *GeneratedRecipeRepository) Save(ctx context.Context, rec *outbound.GeneratedRecipe) error {
	model, err := GeneratedToModel(rec)
	if err != nil {
		return apperrors.NewInternalError("failed to encode generated recipe")
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflictError("recipe with this fingerprint already stored")
		}
		return apperrors.NewDatabaseError(err)
	}
	rec.ID = model.ID
	rec.CreatedAt = model.CreatedAt
	return nil
}

// FindByFingerprint looks up a generated recipe by its content fingerprint
func (r *GeneratedRecipeRepository) FindByFingerprint(ctx context.Context, fingerprint string) (*outbound.GeneratedRecipe, error) {
	var model GeneratedRecipeModel
	err := r.db.WithContext(ctx).First(&model, "fingerprint = ?", fingerprint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("generated recipe")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return ModelToGenerated(&model)
}

// RecentNames returns the names of the most recently generated recipes,
// newest first.
func (r *GeneratedRecipeRepository) RecentNames(ctx context.Context, limit int) ([]string, error) {
	var models []GeneratedRecipeModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	names := make([]string, 0, len(models))
	for i := range models {
		rec, err := ModelToGenerated(&models[i])
		if err != nil {
			continue
		}
		names = append(names, rec.Payload.Name)
	}
	return names, nil
}

// FindEligibleDaily picks a random stored recipe that was never shown or
// was last shown before the cutoff.
func (r *GeneratedRecipeRepository) FindEligibleDaily(ctx context.Context, cutoff time.Time) (*outbound.GeneratedRecipe, error) {
	var model GeneratedRecipeModel
	err := r.db.WithContext(ctx).
		Where("last_shown_at IS NULL OR last_shown_at < ?", cutoff).
		Order("RANDOM()").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("eligible daily recipe")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return ModelToGenerated(&model)
}

// TouchLastShown stamps the time a recipe was served as recipe of the day
func (r *GeneratedRecipeRepository) TouchLastShown(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&GeneratedRecipeModel{}).
		Where("id = ?", id).
		UpdateColumn("last_shown_at", at)
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("generated recipe")
	}
	return nil
}
