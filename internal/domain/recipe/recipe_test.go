package recipe

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validRecipe() *Recipe {
	return &Recipe{
		ID:          uuid.New(),
		AuthorID:    uuid.New(),
		Name:        "Shakshuka",
		CookingTime: 25,
		Difficulty:  DifficultyEasy,
		Tags:        []Tag{{ID: uuid.New(), Name: "breakfast", Slug: "breakfast"}},
		Ingredients: []RecipeIngredient{
			{Ingredient: Ingredient{ID: uuid.New(), Name: "eggs", MeasurementUnit: "pcs"}, Amount: 4},
			{Ingredient: Ingredient{ID: uuid.New(), Name: "tomato", MeasurementUnit: "g"}, Amount: 400},
		},
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, s := range []string{"easy", "medium", "hard"} {
		d, err := ParseDifficulty(s)
		assert.NoError(t, err)
		assert.Equal(t, Difficulty(s), d)
	}

	_, err := ParseDifficulty("extreme")
	assert.ErrorIs(t, err, ErrInvalidDifficulty)
	_, err = ParseDifficulty("")
	assert.ErrorIs(t, err, ErrInvalidDifficulty)
}

func TestRecipeValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validRecipe().Validate())
	})

	t.Run("empty name", func(t *testing.T) {
		r := validRecipe()
		r.Name = ""
		assert.ErrorIs(t, r.Validate(), ErrEmptyName)
	})

	t.Run("negative cooking time", func(t *testing.T) {
		r := validRecipe()
		r.CookingTime = -5
		assert.ErrorIs(t, r.Validate(), ErrNegativeCookingTime)
	})

	t.Run("no ingredients", func(t *testing.T) {
		r := validRecipe()
		r.Ingredients = nil
		assert.ErrorIs(t, r.Validate(), ErrNoIngredients)
	})

	t.Run("no tags", func(t *testing.T) {
		r := validRecipe()
		r.Tags = nil
		assert.ErrorIs(t, r.Validate(), ErrNoTags)
	})

	t.Run("negative amount", func(t *testing.T) {
		r := validRecipe()
		r.Ingredients[0].Amount = -1
		assert.ErrorIs(t, r.Validate(), ErrNegativeAmount)
	})

	t.Run("ingredient without unit", func(t *testing.T) {
		r := validRecipe()
		r.Ingredients[1].Ingredient.MeasurementUnit = ""
		assert.ErrorIs(t, r.Validate(), ErrInvalidIngredient)
	})
}
