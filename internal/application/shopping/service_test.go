package shopping

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foodgram/platform/internal/domain/recipe"
	"github.com/foodgram/platform/internal/infrastructure/cache"
	"github.com/foodgram/platform/internal/ports/outbound"
)

type stubSocial struct {
	outbound.SocialRepository
	recipes []*recipe.Recipe
	calls   int
}

func (s *stubSocial) CartRecipes(ctx context.Context, userID uuid.UUID) ([]*recipe.Recipe, error) {
	s.calls++
	return s.recipes, nil
}

func recipeWith(lines ...recipe.RecipeIngredient) *recipe.Recipe {
	return &recipe.Recipe{ID: uuid.New(), Ingredients: lines}
}

func line(name, unit string, amount float64) recipe.RecipeIngredient {
	return recipe.RecipeIngredient{
		Ingredient: recipe.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: unit},
		Amount:     amount,
	}
}

func TestAggregate(t *testing.T) {
	t.Run("sums amounts per name and unit", func(t *testing.T) {
		items := Aggregate([]*recipe.Recipe{
			recipeWith(line("flour", "g", 500), line("eggs", "pcs", 2)),
			recipeWith(line("flour", "g", 200), line("milk", "cup", 1)),
		})

		require.Len(t, items, 3)
		assert.Equal(t, Item{Name: "flour", MeasurementUnit: "g", Amount: 700}, items[0])
		assert.Equal(t, Item{Name: "eggs", MeasurementUnit: "pcs", Amount: 2}, items[1])
		assert.Equal(t, Item{Name: "milk", MeasurementUnit: "cup", Amount: 1}, items[2])
	})

	t.Run("never merges different units", func(t *testing.T) {
		items := Aggregate([]*recipe.Recipe{
			recipeWith(line("milk", "ml", 250)),
			recipeWith(line("milk", "cup", 1)),
		})

		require.Len(t, items, 2)
		assert.Equal(t, "ml", items[0].MeasurementUnit)
		assert.Equal(t, "cup", items[1].MeasurementUnit)
	})

	t.Run("keeps first-seen order", func(t *testing.T) {
		items := Aggregate([]*recipe.Recipe{
			recipeWith(line("salt", "g", 5), line("butter", "g", 100)),
			recipeWith(line("apple", "pcs", 3), line("salt", "g", 2)),
		})

		require.Len(t, items, 3)
		assert.Equal(t, "salt", items[0].Name)
		assert.Equal(t, "butter", items[1].Name)
		assert.Equal(t, "apple", items[2].Name)
	})

	t.Run("empty cart", func(t *testing.T) {
		assert.Empty(t, Aggregate(nil))
	})
}

func TestListUsesCache(t *testing.T) {
	social := &stubSocial{recipes: []*recipe.Recipe{recipeWith(line("rice", "g", 300))}}
	svc := NewService(social, cache.NewMemoryCache(), time.Minute, zap.NewNop())
	userID := uuid.New()

	first, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	second, err := svc.List(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, social.calls)
}

func TestRenderPDF(t *testing.T) {
	social := &stubSocial{recipes: []*recipe.Recipe{recipeWith(line("flour", "g", 500.5))}}
	svc := NewService(social, cache.NewMemoryCache(), time.Minute, zap.NewNop())

	pdf, err := svc.RenderPDF(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, len(pdf) > 0)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "2", formatAmount(2))
	assert.Equal(t, "0.50", formatAmount(0.5))
}
