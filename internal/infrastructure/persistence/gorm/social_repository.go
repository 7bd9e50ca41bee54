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

// SocialRepository implements outbound.SocialRepository using GORM.
// Duplicate favorite, cart and follow rows are rejected by primary key
// constraints and surface as conflict errors.
type SocialRepository struct {
	db *gorm.DB
}

// NewSocialRepository creates a new social repository
func NewSocialRepository(db *gorm.DB) outbound.SocialRepository {
	return &SocialRepository{db: db}
}

// AddFavorite marks a recipe as favorited by a user
func (r *SocialRepository) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	err := r.db.WithContext(ctx).Create(&FavoriteModel{UserID: userID, RecipeID: recipeID}).Error
	return translateInsert(err, "recipe already in favorites")
}

// RemoveFavorite removes a favorite mark
func (r *SocialRepository) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&FavoriteModel{})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewBadRequestError("recipe is not in favorites")
	}
	return nil
}

// IsFavorite reports whether the user favorited the recipe
func (r *SocialRepository) IsFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return r.exists(ctx, &FavoriteModel{}, userID, recipeID)
}

// AddToCart adds a recipe to the user's shopping cart
func (r *SocialRepository) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	err := r.db.WithContext(ctx).Create(&CartItemModel{UserID: userID, RecipeID: recipeID}).Error
	return translateInsert(err, "recipe already in shopping cart")
}

// RemoveFromCart removes a recipe from the user's shopping cart
func (r *SocialRepository) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&CartItemModel{})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewBadRequestError("recipe is not in shopping cart")
	}
	return nil
}

// CartRecipes loads all recipes in the user's cart with their ingredients
func (r *SocialRepository) CartRecipes(ctx context.Context, userID uuid.UUID) ([]*recipe.Recipe, error) {
	var models []RecipeModel
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Ingredients.Ingredient").
		Preload("Tags").
		Where("id IN (?)", r.db.Table("cart_items").Select("recipe_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	out := make([]*recipe.Recipe, len(models))
	for i := range models {
		out[i] = ModelToRecipe(&models[i])
	}
	return out, nil
}

// CreateComment persists a new comment
func (r *SocialRepository) CreateComment(ctx context.Context, c *recipe.Comment) error {
	model := CommentToModel(c)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	return nil
}

// DeleteComment removes a comment by ID
func (r *SocialRepository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&CommentModel{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("comment")
	}
	return nil
}

// FindCommentByID finds a comment by ID
func (r *SocialRepository) FindCommentByID(ctx context.Context, id uuid.UUID) (*recipe.Comment, error) {
	var model CommentModel
	err := r.db.WithContext(ctx).Preload("Author").First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("comment")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return ModelToComment(&model), nil
}

// ListComments returns a recipe's comments, newest first
func (r *SocialRepository) ListComments(ctx context.Context, recipeID uuid.UUID) ([]*recipe.Comment, error) {
	var models []CommentModel
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	out := make([]*recipe.Comment, len(models))
	for i := range models {
		out[i] = ModelToComment(&models[i])
	}
	return out, nil
}

// Follow subscribes a follower to an author
func (r *SocialRepository) Follow(ctx context.Context, followerID, authorID uuid.UUID) error {
	err := r.db.WithContext(ctx).Create(&FollowModel{FollowerID: followerID, AuthorID: authorID}).Error
	return translateInsert(err, "already subscribed to this author")
}

// Unfollow removes a subscription
func (r *SocialRepository) Unfollow(ctx context.Context, followerID, authorID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&FollowModel{})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewBadRequestError("not subscribed to this author")
	}
	return nil
}

// IsFollowing reports whether the follower is subscribed to the author
func (r *SocialRepository) IsFollowing(ctx context.Context, followerID, authorID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&FollowModel{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.NewDatabaseError(err)
	}
	return count > 0, nil
}

// CountFollowers returns the author's follower count
func (r *SocialRepository) CountFollowers(ctx context.Context, authorID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&FollowModel{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.NewDatabaseError(err)
	}
	return int(count), nil
}

func (r *SocialRepository) exists(ctx context.Context, model interface{}, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.NewDatabaseError(err)
	}
	return count > 0, nil
}

func translateInsert(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.NewConflictError(conflictMsg)
	}
	return apperrors.NewDatabaseError(err)
}
