package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foodgram/platform/internal/infrastructure/config"
)

func newTestAuth(expiration time.Duration) *AuthService {
	cfg := &config.Config{
		App: config.AppConfig{Name: "foodgram-test"},
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret-key-for-testing-only-32b",
			JWTExpiration: expiration,
		},
	}
	return NewAuthService(cfg, zap.NewNop())
}

func TestTokenRoundTrip(t *testing.T) {
	auth := newTestAuth(time.Hour)
	userID := uuid.New()

	token, err := auth.GenerateAccessToken(userID, "chef@example.com", "chef")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "chef@example.com", claims.Email)
	assert.Equal(t, "chef", claims.Username)
	assert.Equal(t, "foodgram-test", claims.Issuer)
}

func TestValidateTokenFailures(t *testing.T) {
	auth := newTestAuth(time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		_, err := auth.ValidateToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		shortLived := newTestAuth(-time.Minute)
		token, err := shortLived.GenerateAccessToken(uuid.New(), "a@b.c", "a")
		require.NoError(t, err)

		_, err = auth.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: uuid.New().String()})
		signed, err := foreign.SignedString([]byte("some-other-secret"))
		require.NoError(t, err)

		_, err = auth.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("unsigned token", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: uuid.New().String()})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = auth.ValidateToken(raw)
		assert.Error(t, err)
	})
}
