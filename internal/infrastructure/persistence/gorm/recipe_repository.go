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

// RecipeRepository implements outbound.RecipeRepository using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create persists a new recipe together with its ingredient links and tags
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	rec.ID = model.ID
	rec.CreatedAt = model.CreatedAt
	rec.UpdatedAt = model.UpdatedAt
	return nil
}

// Update replaces a recipe's fields, ingredient links and tag set
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&RecipeModel{ID: rec.ID}).Updates(map[string]interface{}{
			"name":         model.Name,
			"text":         model.Text,
			"steps":        model.Steps,
			"cooking_time": model.CookingTime,
			"difficulty":   model.Difficulty,
			"image_url":    model.ImageURL,
			"image_prompt": model.ImagePrompt,
		})
		if result.Error != nil {
			return apperrors.NewDatabaseError(result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NewNotFoundError("recipe")
		}
		if err := tx.Where("recipe_id = ?", rec.ID).Delete(&RecipeIngredientModel{}).Error; err != nil {
			return apperrors.NewDatabaseError(err)
		}
		if len(model.Ingredients) > 0 {
			if err := tx.Create(&model.Ingredients).Error; err != nil {
				return apperrors.NewDatabaseError(err)
			}
		}
		if err := tx.Model(&RecipeModel{ID: rec.ID}).Association("Tags").Replace(model.Tags); err != nil {
			return apperrors.NewDatabaseError(err)
		}
		return nil
	})
}

// Delete removes a recipe and its dependent rows
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&RecipeIngredientModel{}, &FavoriteModel{}, &CartItemModel{}, &CommentModel{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(m).Error; err != nil {
				return apperrors.NewDatabaseError(err)
			}
		}
		if err := tx.Model(&RecipeModel{ID: id}).Association("Tags").Clear(); err != nil {
			return apperrors.NewDatabaseError(err)
		}
		result := tx.Delete(&RecipeModel{}, "id = ?", id)
		if result.Error != nil {
			return apperrors.NewDatabaseError(result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NewNotFoundError("recipe")
		}
		return nil
	})
}

// FindByID loads a recipe with its author, ingredients and tags
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Ingredients.Ingredient").
		Preload("Tags").
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("recipe")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	rec := ModelToRecipe(&model)
	if err := r.attachFavoriteCounts(ctx, []*recipe.Recipe{rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns recipes matching the filter, newest first, with the total
// count before pagination.
func (r *RecipeRepository) List(ctx context.Context, filter outbound.RecipeFilter) ([]*recipe.Recipe, int, error) {
	q := r.db.WithContext(ctx).Model(&RecipeModel{})

	if filter.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(r.db.
			Where("LOWER(recipes.name) LIKE LOWER(?)", pattern).
			Or("LOWER(recipes.text) LIKE LOWER(?)", pattern).
			Or("recipes.author_id IN (?)", r.db.Table("users").
				Select("id").Where("LOWER(username) LIKE LOWER(?)", pattern)).
			Or("recipes.id IN (?)", r.db.Table("recipe_ingredients").
				Select("recipe_ingredients.recipe_id").
				Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
				Where("LOWER(ingredients.name) LIKE LOWER(?)", pattern)).
			Or("recipes.id IN (?)", r.db.Table("recipe_tags").
				Select("recipe_tags.recipe_model_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_model_id").
				Where("LOWER(tags.name) LIKE LOWER(?)", pattern)))
	}
	if len(filter.TagSlugs) > 0 {
		q = q.Where("recipes.id IN (?)", r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_model_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_model_id").
			Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.FavoritedBy != nil {
		q = q.Where("recipes.id IN (?)", r.db.Table("favorites").
			Select("recipe_id").Where("user_id = ?", *filter.FavoritedBy))
	}
	if filter.InCartOf != nil {
		q = q.Where("recipes.id IN (?)", r.db.Table("cart_items").
			Select("recipe_id").Where("user_id = ?", *filter.InCartOf))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabaseError(err)
	}

	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var models []RecipeModel
	err := q.Preload("Author").
		Preload("Ingredients.Ingredient").
		Preload("Tags").
		Order("recipes.created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.NewDatabaseError(err)
	}

	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}
	if err := r.attachFavoriteCounts(ctx, recipes); err != nil {
		return nil, 0, err
	}
	return recipes, int(total), nil
}

// IncrementViews bumps the view counter atomically
func (r *RecipeRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&RecipeModel{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

func (r *RecipeRepository) attachFavoriteCounts(ctx context.Context, recipes []*recipe.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(recipes))
	for i, rec := range recipes {
		ids[i] = rec.ID
	}
	type row struct {
		RecipeID uuid.UUID
		Count    int
	}
	var rows []row
	err := r.db.WithContext(ctx).Table("favorites").
		Select("recipe_id, COUNT(*) as count").
		Where("recipe_id IN ?", ids).
		Group("recipe_id").
		Scan(&rows).Error
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	counts := make(map[uuid.UUID]int, len(rows))
	for _, rw := range rows {
		counts[rw.RecipeID] = rw.Count
	}
	for _, rec := range recipes {
		rec.FavoritesCount = counts[rec.ID]
	}
	return nil
}
