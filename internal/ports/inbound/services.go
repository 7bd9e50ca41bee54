// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the use cases exposed to the HTTP layer.
package inbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/foodgram/platform/internal/domain/recipe"
	"github.com/foodgram/platform/internal/ports/outbound"
)

// IngredientInput is one ingredient line of a create/update command
type IngredientInput struct {
	IngredientID uuid.UUID
	Amount       float64
}

// CreateRecipeCommand carries the fields for creating a recipe
type CreateRecipeCommand struct {
	AuthorID    uuid.UUID
	Name        string
	Text        string
	Steps       []string
	CookingTime int
	Difficulty  string
	TagIDs      []uuid.UUID
	Ingredients []IngredientInput
	ImageURL    string
}

// UpdateRecipeCommand carries the fields for updating a recipe. Only the
// recipe's author may update it.
type UpdateRecipeCommand struct {
	RecipeID    uuid.UUID
	ActorID     uuid.UUID
	Name        string
	Text        string
	Steps       []string
	CookingTime int
	Difficulty  string
	TagIDs      []uuid.UUID
	Ingredients []IngredientInput
	ImageURL    string
}

// RecipeService exposes recipe CRUD and the social operations around it
type RecipeService interface {
	Create(ctx context.Context, cmd CreateRecipeCommand) (*recipe.Recipe, error)
	Update(ctx context.Context, cmd UpdateRecipeCommand) (*recipe.Recipe, error)
	Delete(ctx context.Context, recipeID, actorID uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	List(ctx context.Context, filter outbound.RecipeFilter) ([]*recipe.Recipe, int, error)

	Favorite(ctx context.Context, userID, recipeID uuid.UUID) error
	Unfavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	AddToCart(ctx context.Context, userID, recipeID uuid.UUID) error
	RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error

	AddComment(ctx context.Context, recipeID, authorID uuid.UUID, text string) (*recipe.Comment, error)
	DeleteComment(ctx context.Context, commentID, actorID uuid.UUID) error
	ListComments(ctx context.Context, recipeID uuid.UUID) ([]*recipe.Comment, error)
}

// CatalogService exposes the ingredient and tag catalogs
type CatalogService interface {
	ListIngredients(ctx context.Context, namePrefix string) ([]*recipe.Ingredient, error)
	// RegisterIngredient returns the existing catalog entry when the
	// (name, unit) pair is already present.
	RegisterIngredient(ctx context.Context, name, unit string) (*recipe.Ingredient, bool, error)
	ListTags(ctx context.Context) ([]*recipe.Tag, error)
	CreateTag(ctx context.Context, name, color, slug string) (*recipe.Tag, error)
}

// Profile is an author page: the user, their recipes and audience stats
type Profile struct {
	UserID         uuid.UUID        `json:"user_id"`
	Username       string           `json:"username"`
	Recipes        []*recipe.Recipe `json:"recipes"`
	RecipesCount   int              `json:"recipes_count"`
	Subscribers    int              `json:"subscribers"`
	TotalFavorites int              `json:"total_favorites"`
	TotalViews     int              `json:"total_views"`
	IsSubscribed   bool             `json:"is_subscribed"`
}

// UserService exposes registration, login and the social graph
type UserService interface {
	Register(ctx context.Context, email, username, password string) (*uuid.UUID, error)
	// Login verifies credentials and returns a signed access token.
	Login(ctx context.Context, email, password string) (string, error)
	Profile(ctx context.Context, username string, viewerID *uuid.UUID) (*Profile, error)
	Subscribe(ctx context.Context, followerID uuid.UUID, username string) error
	Unsubscribe(ctx context.Context, followerID uuid.UUID, username string) error
}
