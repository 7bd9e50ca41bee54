// Package aigen defines the structured payloads exchanged with the
// generative model: the recipe schema, the auxiliary response schemas, and
// the content fingerprint used as an identity key for generated recipes.
//
// Every schema carries an explicit Validate method; raw model output is
// deserialized and then validated so that missing or mistyped required
// fields surface as parse errors instead of propagating half-built objects.
package aigen

import (
	"errors"
	"fmt"
)

// Schema validation errors
var (
	ErrMissingField = errors.New("required field missing in model response")
)

// PayloadIngredient is one ingredient line of a generated recipe
type PayloadIngredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// RecipePayload is the fixed output schema of recipe generation
type RecipePayload struct {
	Name                  string              `json:"name"`
	Description           string              `json:"description"`
	Ingredients           []PayloadIngredient `json:"ingredients"`
	Steps                 []string            `json:"steps"`
	CookingTime           int                 `json:"cooking_time"`
	Difficulty            string              `json:"difficulty"`
	ImageGenerationPrompt string              `json:"image_generation_prompt"`
}

// Validate checks the schema's required fields
func (r *RecipePayload) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if len(r.Ingredients) == 0 {
		return fmt.Errorf("%w: ingredients", ErrMissingField)
	}
	for i, ing := range r.Ingredients {
		if ing.Name == "" {
			return fmt.Errorf("%w: ingredients[%d].name", ErrMissingField, i)
		}
	}
	if len(r.Steps) == 0 {
		return fmt.Errorf("%w: steps", ErrMissingField)
	}
	if r.CookingTime < 0 {
		return errors.New("model response: cooking_time must not be negative")
	}
	switch r.Difficulty {
	case "easy", "medium", "hard":
	default:
		return fmt.Errorf("model response: unknown difficulty %q", r.Difficulty)
	}
	return nil
}

// RecipeBatch wraps a multi-recipe generation response
type RecipeBatch struct {
	Recipes []RecipePayload `json:"recipes"`
}

// Validate checks every recipe of the batch
func (b *RecipeBatch) Validate() error {
	if len(b.Recipes) == 0 {
		return fmt.Errorf("%w: recipes", ErrMissingField)
	}
	for i := range b.Recipes {
		if err := b.Recipes[i].Validate(); err != nil {
			return fmt.Errorf("recipes[%d]: %w", i, err)
		}
	}
	return nil
}
