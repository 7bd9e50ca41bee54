package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"github.com/glebarez/sqlite"
	gormlib "gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/foodgram/platform/internal/application/catalog"
	recipeapp "github.com/foodgram/platform/internal/application/recipe"
	"github.com/foodgram/platform/internal/application/shopping"
	userapp "github.com/foodgram/platform/internal/application/user"
	"github.com/foodgram/platform/internal/infrastructure/cache"
	"github.com/foodgram/platform/internal/infrastructure/config"
	"github.com/foodgram/platform/internal/infrastructure/http/handlers"
	gormrepo "github.com/foodgram/platform/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/platform/internal/infrastructure/security"
)

type testEnv struct {
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gormlib.Open(sqlite.Open(":memory:"), &gormlib.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
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
		Cache: config.CacheConfig{TTL: time.Minute},
	}
	log := zap.NewNop()
	auth := security.NewAuthService(cfg, log)

	users := gormrepo.NewUserRepository(db)
	recipes := gormrepo.NewRecipeRepository(db)
	ingredients := gormrepo.NewIngredientRepository(db)
	tags := gormrepo.NewTagRepository(db)
	social := gormrepo.NewSocialRepository(db)
	mem := cache.NewMemoryCache()

	h := handlers.New(
		recipeapp.NewService(recipes, ingredients, tags, social, users, log),
		catalog.NewService(ingredients, tags, log),
		userapp.NewService(users, recipes, social, auth, cfg.Auth.BCryptCost, log),
		shopping.NewService(social, mem, cfg.Cache.TTL, log),
		mem,
		cfg.Cache.TTL,
		log,
	)
	srv := NewServer(cfg, log, h, auth)
	return &testEnv{handler: srv.Handler()}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) registerAndLogin(t *testing.T, email, username string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/v1/users", "", map[string]string{
		"email": email, "username": username, "password": "longenough",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = e.do(t, http.MethodPost, "/api/v1/auth/token", "", map[string]string{
		"email": email, "password": "longenough",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out struct {
		AuthToken string `json:"auth_token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.NotEmpty(t, out.AuthToken)
	return out.AuthToken
}

func (e *testEnv) seedCatalog(t *testing.T, token string) (ingredientID, tagID uuid.UUID) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/v1/ingredients", token, map[string]string{
		"name": "potato", "measurement_unit": "g",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var ing struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &ing))

	resp = e.do(t, http.MethodPost, "/api/v1/tags", token, map[string]string{
		"name": "Dinner", "color": "#123456", "slug": "dinner",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var tag struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tag))
	return ing.ID, tag.ID
}

func recipeBody(ingredientID, tagID uuid.UUID) map[string]any {
	return map[string]any{
		"name":         "Baked potatoes",
		"text":         "Crispy outside",
		"steps":        []string{"wash", "bake"},
		"cooking_time": 60,
		"difficulty":   "easy",
		"tags":         []uuid.UUID{tagID},
		"ingredients":  []map[string]any{{"id": ingredientID, "amount": 500}},
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/v1/recipes", "", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestIngredientRegistration(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "chef@example.com", "chef")

	body := map[string]string{"name": "salt", "measurement_unit": "g"}
	resp := env.do(t, http.MethodPost, "/api/v1/ingredients", token, body)
	assert.Equal(t, http.StatusCreated, resp.Code)

	// the existing pair comes back with 200
	resp = env.do(t, http.MethodPost, "/api/v1/ingredients", token, body)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = env.do(t, http.MethodGet, "/api/v1/ingredients?name=sa", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "salt")
}

func TestRecipeLifecycle(t *testing.T) {
	env := newTestEnv(t)
	author := env.registerAndLogin(t, "author@example.com", "author")
	reader := env.registerAndLogin(t, "reader@example.com", "reader")
	ingID, tagID := env.seedCatalog(t, author)

	resp := env.do(t, http.MethodPost, "/api/v1/recipes", author, recipeBody(ingID, tagID))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	t.Run("detail get", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/recipes/%s", created.ID), "", nil)
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), "Baked potatoes")
	})

	t.Run("update by a stranger is forbidden", func(t *testing.T) {
		resp := env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/recipes/%s", created.ID), reader, recipeBody(ingID, tagID))
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("favorite conflicts on repeat", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/recipes/%s/favorite", created.ID)
		resp := env.do(t, http.MethodPost, path, reader, nil)
		assert.Equal(t, http.StatusCreated, resp.Code)
		resp = env.do(t, http.MethodPost, path, reader, nil)
		assert.Equal(t, http.StatusConflict, resp.Code)
		resp = env.do(t, http.MethodDelete, path, reader, nil)
		assert.Equal(t, http.StatusNoContent, resp.Code)
	})

	t.Run("shopping cart and PDF download", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/recipes/%s/shopping_cart", created.ID)
		resp := env.do(t, http.MethodPost, path, reader, nil)
		assert.Equal(t, http.StatusCreated, resp.Code)

		resp = env.do(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", reader, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
		assert.Equal(t, "%PDF", resp.Body.String()[:4])
	})

	t.Run("comments", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/recipes/%s/comments", created.ID)
		resp := env.do(t, http.MethodPost, path, reader, map[string]string{"text": "tasty"})
		require.Equal(t, http.StatusCreated, resp.Code)

		resp = env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), "tasty")
	})

	t.Run("delete by author", func(t *testing.T) {
		resp := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/recipes/%s", created.ID), author, nil)
		assert.Equal(t, http.StatusNoContent, resp.Code)
		resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/recipes/%s", created.ID), "", nil)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestRecipeListCaching(t *testing.T) {
	env := newTestEnv(t)
	author := env.registerAndLogin(t, "author@example.com", "author")
	ingID, tagID := env.seedCatalog(t, author)

	resp := env.do(t, http.MethodGet, "/api/v1/recipes?limit=10", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"count":0`)

	resp = env.do(t, http.MethodPost, "/api/v1/recipes", author, recipeBody(ingID, tagID))
	require.Equal(t, http.StatusCreated, resp.Code)

	// the cached page is served until the TTL expires
	resp = env.do(t, http.MethodGet, "/api/v1/recipes?limit=10", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"count":0`)

	// a different query string is a different cache entry
	resp = env.do(t, http.MethodGet, "/api/v1/recipes?limit=20", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"count":1`)
}

func TestProfileAndSubscriptions(t *testing.T) {
	env := newTestEnv(t)
	author := env.registerAndLogin(t, "author@example.com", "author")
	reader := env.registerAndLogin(t, "reader@example.com", "reader")
	_ = author

	t.Run("self subscription is rejected", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/v1/users/reader/subscribe", reader, nil)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("subscribe and view profile", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/v1/users/author/subscribe", reader, nil)
		assert.Equal(t, http.StatusCreated, resp.Code)

		resp = env.do(t, http.MethodGet, "/api/v1/users/author", reader, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"subscribers":1`)
		assert.Contains(t, resp.Body.String(), `"is_subscribed":true`)
	})

	t.Run("duplicate subscription conflicts", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/v1/users/author/subscribe", reader, nil)
		assert.Equal(t, http.StatusConflict, resp.Code)
	})
}
