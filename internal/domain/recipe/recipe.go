// Package recipe contains the core domain model for recipes and their
// catalog entities (ingredients, tags) together with the invariants a
// persisted recipe must satisfy.
package recipe

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty is an enumerated recipe attribute
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty validates and normalizes a difficulty value
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	}
	return "", ErrInvalidDifficulty
}

// Ingredient is a catalog entry identified by its (name, unit) pair
type Ingredient struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

// Validate checks the ingredient's required fields
func (i Ingredient) Validate() error {
	if i.Name == "" || i.MeasurementUnit == "" {
		return ErrInvalidIngredient
	}
	return nil
}

// Tag categorizes recipes and carries a display color and unique slug
type Tag struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

// Validate checks the tag's required fields
func (t Tag) Validate() error {
	if t.Name == "" || t.Slug == "" {
		return ErrInvalidTag
	}
	return nil
}

// RecipeIngredient associates an ingredient with a recipe and an amount
type RecipeIngredient struct {
	Ingredient Ingredient `json:"ingredient"`
	Amount     float64    `json:"amount"`
}

// Recipe is the aggregate root of the catalog
type Recipe struct {
	ID             uuid.UUID          `json:"id"`
	AuthorID       uuid.UUID          `json:"author_id"`
	AuthorName     string             `json:"author"`
	Name           string             `json:"name"`
	Text           string             `json:"text"`
	Steps          []string           `json:"steps"`
	CookingTime    int                `json:"cooking_time"`
	Difficulty     Difficulty         `json:"difficulty"`
	Tags           []Tag              `json:"tags"`
	Ingredients    []RecipeIngredient `json:"ingredients"`
	ImageURL       string             `json:"image,omitempty"`
	ImagePrompt    string             `json:"image_generation_prompt,omitempty"`
	ViewsCount     int                `json:"views_count"`
	FavoritesCount int                `json:"favorites_count"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// Validate enforces the persistence invariants: at least one ingredient,
// at least one tag, non-negative cooking time and amounts, and a known
// difficulty level.
func (r *Recipe) Validate() error {
	if r.Name == "" {
		return ErrEmptyName
	}
	if r.CookingTime < 0 {
		return ErrNegativeCookingTime
	}
	if _, err := ParseDifficulty(string(r.Difficulty)); err != nil {
		return err
	}
	if len(r.Ingredients) == 0 {
		return ErrNoIngredients
	}
	if len(r.Tags) == 0 {
		return ErrNoTags
	}
	for _, ri := range r.Ingredients {
		if ri.Amount < 0 {
			return ErrNegativeAmount
		}
		if err := ri.Ingredient.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Comment belongs to exactly one recipe and one author
type Comment struct {
	ID         uuid.UUID `json:"id"`
	RecipeID   uuid.UUID `json:"recipe_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}
