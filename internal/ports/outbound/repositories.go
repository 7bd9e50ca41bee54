// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/foodgram/platform/internal/domain/aigen"
	"github.com/foodgram/platform/internal/domain/recipe"
	"github.com/foodgram/platform/internal/domain/user"
)

// RecipeFilter narrows listing queries. Zero values mean "no constraint".
type RecipeFilter struct {
	AuthorID *uuid.UUID
	TagSlugs []string
	// Search matches recipe name, description, author username,
	// ingredient name and tag name, case-insensitively.
	Search      string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Limit       int
	Offset      int
}

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	Create(ctx context.Context, r *recipe.Recipe) error
	Update(ctx context.Context, r *recipe.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	List(ctx context.Context, filter RecipeFilter) ([]*recipe.Recipe, int, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

// IngredientRepository defines the interface for the ingredient catalog
type IngredientRepository interface {
	Create(ctx context.Context, ing *recipe.Ingredient) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Ingredient, error)
	FindByNameAndUnit(ctx context.Context, name, unit string) (*recipe.Ingredient, error)
	Search(ctx context.Context, namePrefix string, limit int) ([]*recipe.Ingredient, error)
	List(ctx context.Context) ([]*recipe.Ingredient, error)
}

// TagRepository defines the interface for the tag catalog
type TagRepository interface {
	Create(ctx context.Context, tag *recipe.Tag) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Tag, error)
	FindBySlug(ctx context.Context, slug string) (*recipe.Tag, error)
	List(ctx context.Context) ([]*recipe.Tag, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
}

// SocialRepository covers favorites, shopping carts, comments and follows.
// Duplicate favorite/cart/follow rows must surface as a conflict error.
type SocialRepository interface {
	AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	IsFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)

	AddToCart(ctx context.Context, userID, recipeID uuid.UUID) error
	RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error
	CartRecipes(ctx context.Context, userID uuid.UUID) ([]*recipe.Recipe, error)

	CreateComment(ctx context.Context, c *recipe.Comment) error
	DeleteComment(ctx context.Context, id uuid.UUID) error
	FindCommentByID(ctx context.Context, id uuid.UUID) (*recipe.Comment, error)
	ListComments(ctx context.Context, recipeID uuid.UUID) ([]*recipe.Comment, error)

	Follow(ctx context.Context, followerID, authorID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, authorID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, authorID uuid.UUID) (bool, error)
	CountFollowers(ctx context.Context, authorID uuid.UUID) (int, error)
}

// GeneratedRecipe is a stored model-produced recipe keyed by its fingerprint
type GeneratedRecipe struct {
	ID          uuid.UUID
	Fingerprint string
	Payload     aigen.RecipePayload
	Prompt      string
	ImageURL    string
	LastShownAt *time.Time
	CreatedAt   time.Time
}

// GeneratedRecipeRepository stores model output for novelty tracking and
// the daily-recipe rotation.
type GeneratedRecipeRepository interface {
	Save(ctx context.Context, rec *GeneratedRecipe) error
	FindByFingerprint(ctx context.Context, fingerprint string) (*GeneratedRecipe, error)
	// RecentNames returns the names of the most recently generated
	// recipes, newest first.
	RecentNames(ctx context.Context, limit int) ([]string, error)
	// FindEligibleDaily picks a random recipe never shown, or last shown
	// before the cutoff.
	FindEligibleDaily(ctx context.Context, cutoff time.Time) (*GeneratedRecipe, error)
	TouchLastShown(ctx context.Context, id uuid.UUID, at time.Time) error
}

// CacheRepository is a byte-level cache with per-key TTL. Entries expire
// on their own; writers never invalidate.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
