package recipe

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"github.com/glebarez/sqlite"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/foodgram/platform/internal/domain/recipe"
	"github.com/foodgram/platform/internal/domain/user"
	gormrepo "github.com/foodgram/platform/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/platform/internal/ports/inbound"
	apperrors "github.com/foodgram/platform/pkg/errors"
)

type fixture struct {
	svc    inbound.RecipeService
	author *user.User
	other  *user.User
	ing    *domain.Ingredient
	tag    *domain.Tag
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gormlib.Open(sqlite.Open(":memory:"), &gormlib.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gormrepo.Migrate(db))

	ctx := context.Background()
	users := gormrepo.NewUserRepository(db)
	author := &user.User{Email: "author@example.com", Username: "author", PasswordHash: "x", IsActive: true}
	require.NoError(t, users.Create(ctx, author))
	other := &user.User{Email: "other@example.com", Username: "other", PasswordHash: "x", IsActive: true}
	require.NoError(t, users.Create(ctx, other))

	ingredients := gormrepo.NewIngredientRepository(db)
	ing := &domain.Ingredient{Name: "potato", MeasurementUnit: "g"}
	require.NoError(t, ingredients.Create(ctx, ing))

	tags := gormrepo.NewTagRepository(db)
	tag := &domain.Tag{Name: "dinner", Color: "#112233", Slug: "dinner"}
	require.NoError(t, tags.Create(ctx, tag))

	svc := NewService(
		gormrepo.NewRecipeRepository(db),
		ingredients,
		tags,
		gormrepo.NewSocialRepository(db),
		users,
		zap.NewNop(),
	)
	return &fixture{svc: svc, author: author, other: other, ing: ing, tag: tag}
}

func (f *fixture) createCommand() inbound.CreateRecipeCommand {
	return inbound.CreateRecipeCommand{
		AuthorID:    f.author.ID,
		Name:        "Baked potatoes",
		Text:        "Crispy outside, fluffy inside",
		Steps:       []string{"wash", "bake"},
		CookingTime: 60,
		Difficulty:  "easy",
		TagIDs:      []uuid.UUID{f.tag.ID},
		Ingredients: []inbound.IngredientInput{{IngredientID: f.ing.ID, Amount: 800}},
	}
}

func TestCreate(t *testing.T) {
	t.Run("resolves references and author name", func(t *testing.T) {
		f := newFixture(t)
		rec, err := f.svc.Create(context.Background(), f.createCommand())
		require.NoError(t, err)
		assert.Equal(t, "author", rec.AuthorName)
		require.Len(t, rec.Ingredients, 1)
		assert.Equal(t, "potato", rec.Ingredients[0].Ingredient.Name)
	})

	t.Run("unknown tag", func(t *testing.T) {
		f := newFixture(t)
		cmd := f.createCommand()
		cmd.TagIDs = []uuid.UUID{uuid.New()}
		_, err := f.svc.Create(context.Background(), cmd)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})

	t.Run("unknown ingredient", func(t *testing.T) {
		f := newFixture(t)
		cmd := f.createCommand()
		cmd.Ingredients = []inbound.IngredientInput{{IngredientID: uuid.New(), Amount: 10}}
		_, err := f.svc.Create(context.Background(), cmd)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})

	t.Run("duplicate ingredient line", func(t *testing.T) {
		f := newFixture(t)
		cmd := f.createCommand()
		cmd.Ingredients = append(cmd.Ingredients, cmd.Ingredients[0])
		_, err := f.svc.Create(context.Background(), cmd)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
	})

	t.Run("bad difficulty", func(t *testing.T) {
		f := newFixture(t)
		cmd := f.createCommand()
		cmd.Difficulty = "brutal"
		_, err := f.svc.Create(context.Background(), cmd)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
	})
}

func TestUpdateAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Create(ctx, f.createCommand())
	require.NoError(t, err)

	cmd := inbound.UpdateRecipeCommand{
		RecipeID:    rec.ID,
		ActorID:     f.other.ID,
		Name:        "Stolen potatoes",
		Steps:       rec.Steps,
		CookingTime: rec.CookingTime,
		Difficulty:  string(rec.Difficulty),
		TagIDs:      []uuid.UUID{f.tag.ID},
		Ingredients: []inbound.IngredientInput{{IngredientID: f.ing.ID, Amount: 500}},
	}
	_, err = f.svc.Update(ctx, cmd)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	cmd.ActorID = f.author.ID
	cmd.Name = "Roasted potatoes"
	updated, err := f.svc.Update(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, "Roasted potatoes", updated.Name)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, float64(500), updated.Ingredients[0].Amount)
}

func TestDeleteAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Create(ctx, f.createCommand())
	require.NoError(t, err)

	err = f.svc.Delete(ctx, rec.ID, f.other.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	require.NoError(t, f.svc.Delete(ctx, rec.ID, f.author.ID))

	_, err = f.svc.Get(ctx, rec.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestGetCountsViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Create(ctx, f.createCommand())
	require.NoError(t, err)

	first, err := f.svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ViewsCount)

	second, err := f.svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.ViewsCount)
}

func TestComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Create(ctx, f.createCommand())
	require.NoError(t, err)

	t.Run("blank comment", func(t *testing.T) {
		_, err := f.svc.AddComment(ctx, rec.ID, f.other.ID, "   ")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
	})

	comment, err := f.svc.AddComment(ctx, rec.ID, f.other.ID, "tried it, great")
	require.NoError(t, err)
	assert.Equal(t, "other", comment.AuthorName)

	t.Run("only the author deletes", func(t *testing.T) {
		err := f.svc.DeleteComment(ctx, comment.ID, f.author.ID)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
		require.NoError(t, f.svc.DeleteComment(ctx, comment.ID, f.other.ID))
	})
}

func TestFavoriteMissingRecipe(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Favorite(context.Background(), f.other.ID, uuid.New())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}
