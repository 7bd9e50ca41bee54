package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"github.com/glebarez/sqlite"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/platform/internal/infrastructure/config"
	gormrepo "github.com/foodgram/platform/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/platform/internal/infrastructure/security"
	"github.com/foodgram/platform/internal/ports/inbound"
	apperrors "github.com/foodgram/platform/pkg/errors"
)

func newTestService(t *testing.T) inbound.UserService {
	t.Helper()
	db, err := gormlib.Open(sqlite.Open(":memory:"), &gormlib.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gormrepo.Migrate(db))

	cfg := &config.Config{
		App: config.AppConfig{Name: "foodgram-test"},
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret-key-for-testing-only-32b",
			JWTExpiration: time.Hour,
			BCryptCost:    4,
		},
	}
	auth := security.NewAuthService(cfg, zap.NewNop())
	return NewService(
		gormrepo.NewUserRepository(db),
		gormrepo.NewRecipeRepository(db),
		gormrepo.NewSocialRepository(db),
		auth,
		cfg.Auth.BCryptCost,
		zap.NewNop(),
	)
}

func TestRegister(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("normalizes the email", func(t *testing.T) {
		id, err := svc.Register(ctx, "  Chef@Example.COM ", "chef", "longenough")
		require.NoError(t, err)
		require.NotNil(t, id)

		_, err = svc.Login(ctx, "chef@example.com", "longenough")
		assert.NoError(t, err)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		_, err := svc.Register(ctx, "short@example.com", "short", "seven77")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := svc.Register(ctx, "chef@example.com", "anotherchef", "longenough")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	})
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "cook@example.com", "cook", "longenough")
	require.NoError(t, err)

	t.Run("valid credentials return a token", func(t *testing.T) {
		token, err := svc.Login(ctx, "cook@example.com", "longenough")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "cook@example.com", "wrong-pass")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	})

	t.Run("unknown account reads as invalid credentials", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost@example.com", "longenough")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	})
}

func TestSubscribe(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	followerID, err := svc.Register(ctx, "reader@example.com", "reader", "longenough")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "author@example.com", "author", "longenough")
	require.NoError(t, err)

	t.Run("self-follow is a validation error", func(t *testing.T) {
		err := svc.Subscribe(ctx, *followerID, "reader")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
	})

	t.Run("follow and repeat", func(t *testing.T) {
		require.NoError(t, svc.Subscribe(ctx, *followerID, "author"))
		err := svc.Subscribe(ctx, *followerID, "author")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	})

	t.Run("profile reflects the subscription", func(t *testing.T) {
		profile, err := svc.Profile(ctx, "author", followerID)
		require.NoError(t, err)
		assert.Equal(t, 1, profile.Subscribers)
		assert.True(t, profile.IsSubscribed)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		require.NoError(t, svc.Unsubscribe(ctx, *followerID, "author"))
		profile, err := svc.Profile(ctx, "author", followerID)
		require.NoError(t, err)
		assert.Equal(t, 0, profile.Subscribers)
		assert.False(t, profile.IsSubscribed)
	})
}
