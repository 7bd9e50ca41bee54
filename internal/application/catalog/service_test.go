package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"github.com/glebarez/sqlite"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormrepo "github.com/foodgram/platform/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/platform/internal/ports/inbound"
	apperrors "github.com/foodgram/platform/pkg/errors"
)

func newTestService(t *testing.T) inbound.CatalogService {
	t.Helper()
	db, err := gormlib.Open(sqlite.Open(":memory:"), &gormlib.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gormrepo.Migrate(db))
	return NewService(gormrepo.NewIngredientRepository(db), gormrepo.NewTagRepository(db), zap.NewNop())
}

func TestRegisterIngredient(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("creates and normalizes the name", func(t *testing.T) {
		ing, created, err := svc.RegisterIngredient(ctx, "  Olive Oil ", "ml")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "olive oil", ing.Name)
	})

	t.Run("returns the existing pair", func(t *testing.T) {
		first, _, err := svc.RegisterIngredient(ctx, "salt", "g")
		require.NoError(t, err)

		again, created, err := svc.RegisterIngredient(ctx, "Salt", "g")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, again.ID)
	})

	t.Run("same name under a new unit is a new entry", func(t *testing.T) {
		_, created, err := svc.RegisterIngredient(ctx, "salt", "pinch")
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("rejects blank input", func(t *testing.T) {
		_, _, err := svc.RegisterIngredient(ctx, "  ", "g")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
	})
}

func TestListIngredients(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"carrot", "cabbage", "potato"} {
		_, _, err := svc.RegisterIngredient(ctx, name, "g")
		require.NoError(t, err)
	}

	all, err := svc.ListIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	matched, err := svc.ListIngredients(ctx, "ca")
	require.NoError(t, err)
	assert.Len(t, matched, 2)
}

func TestCreateTag(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, "Breakfast", "#FFAA00", "Breakfast")
	require.NoError(t, err)
	assert.Equal(t, "breakfast", tag.Slug)

	_, err = svc.CreateTag(ctx, "Morning meal", "#FFAA00", "breakfast")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}
