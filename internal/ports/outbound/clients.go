package outbound

import (
	"context"

	"github.com/foodgram/platform/internal/domain/recipe"
)

// Validatable is implemented by generated-content schemas that can check
// their own required fields after decoding.
type Validatable interface {
	Validate() error
}

// AIClient talks to the generative model provider
type AIClient interface {
	// GenerateText runs a plain-text completion.
	GenerateText(ctx context.Context, model, prompt string) (string, error)
	// GenerateJSON runs a completion constrained to JSON and decodes the
	// result into out, validating it afterwards.
	GenerateJSON(ctx context.Context, model, prompt string, out Validatable) error
	// GenerateImage returns raw PNG bytes for the prompt.
	GenerateImage(ctx context.Context, model, prompt string) ([]byte, error)
}

// RecipeDoc is the indexed representation of a recipe in the vector store
type RecipeDoc struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Text        string   `json:"text"`
	Ingredients []string `json:"ingredients"`
	Amounts     []string `json:"amounts"`
	Units       []string `json:"units"`
	Tags        []string `json:"tags"`
}

// SearchHit is one scored vector-search result
type SearchHit struct {
	Doc   RecipeDoc
	Score float64
}

// VectorIndex performs semantic search over indexed recipes
type VectorIndex interface {
	Search(ctx context.Context, query string, limit int, threshold float64) ([]SearchHit, error)
	Upsert(ctx context.Context, docs []RecipeDoc) error
}

// BackendClient is the AI service's view of the main backend API
type BackendClient interface {
	AuthToken(ctx context.Context, email, password string) (string, error)
	ListTags(ctx context.Context) ([]recipe.Tag, error)
	ListIngredients(ctx context.Context) ([]recipe.Ingredient, error)
	CreateIngredient(ctx context.Context, token, name, unit string) (*recipe.Ingredient, error)
	ListRecipes(ctx context.Context, limit int) ([]recipe.Recipe, error)
	ListComments(ctx context.Context, recipeID string) ([]recipe.Comment, error)
	CreateRecipe(ctx context.Context, token string, r *recipe.Recipe) (*recipe.Recipe, error)
}
