package aiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"github.com/glebarez/sqlite"
	gormlib "gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/foodgram/platform/internal/application/ai"
	"github.com/foodgram/platform/internal/application/qa"
	"github.com/foodgram/platform/internal/infrastructure/config"
	gormrepo "github.com/foodgram/platform/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/platform/internal/ports/outbound"
)

const payloadJSON = `{
	"name": "Pumpkin soup",
	"description": "Silky autumn soup",
	"ingredients": [{"name": "pumpkin", "amount": 600, "unit": "g"}],
	"steps": ["roast", "blend"],
	"cooking_time": 45,
	"difficulty": "easy"
}`

type stubClient struct{}

func (stubClient) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	return "plain text reply", nil
}

func (stubClient) GenerateJSON(ctx context.Context, model, prompt string, out outbound.Validatable) error {
	if err := json.Unmarshal([]byte(payloadJSON), out); err != nil {
		// non-recipe schemas get an empty object, which fails validation
		return err
	}
	return nil
}

func (stubClient) GenerateImage(ctx context.Context, model, prompt string) ([]byte, error) {
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

type emptyIndex struct{}

func (emptyIndex) Search(ctx context.Context, query string, limit int, threshold float64) ([]outbound.SearchHit, error) {
	return nil, nil
}

func (emptyIndex) Upsert(ctx context.Context, docs []outbound.RecipeDoc) error {
	return nil
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	db, err := gormlib.Open(sqlite.Open(":memory:"), &gormlib.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gormrepo.Migrate(db))

	cfg := &config.Config{
		App:         config.AppConfig{Name: "foodgram-test"},
		AI:          config.AIConfig{TextModel: "t", RecipeModel: "r", ImageModel: "i"},
		AIService:   config.AIServiceConfig{APIKey: "secret-key", Port: 0},
		DailyRecipe: config.DailyRecipeConfig{NotShownDays: 7},
	}
	log := zap.NewNop()
	aiSvc := ai.NewService(stubClient{}, gormrepo.NewGeneratedRecipeRepository(db), nil, cfg, log)
	qaSvc := qa.NewService(stubClient{}, emptyIndex{}, cfg, log)
	srv := NewServer(cfg, log, NewHandlers(aiSvc, qaSvc, cfg, log))
	return srv.httpServer.Handler
}

func do(t *testing.T, h http.Handler, method, path, apiKey string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestOpenRoutes(t *testing.T) {
	h := newTestHandler(t)

	resp := do(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = do(t, h, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t)

	resp := do(t, h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = do(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "http_requests_total")
	assert.Contains(t, resp.Body.String(), "go_goroutines")
}

func TestAPIKeyGate(t *testing.T) {
	h := newTestHandler(t)
	body := map[string]string{"request": "pumpkin dish"}

	resp := do(t, h, http.MethodPost, "/api/v1/recipes/generate-by-text", "", body)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = do(t, h, http.MethodPost, "/api/v1/recipes/generate-by-text", "wrong-key", body)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = do(t, h, http.MethodPost, "/api/v1/recipes/generate-by-text", "secret-key", body)
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "Pumpkin soup")
}

func TestGenerateByText(t *testing.T) {
	h := newTestHandler(t)

	t.Run("missing request field", func(t *testing.T) {
		resp := do(t, h, http.MethodPost, "/api/v1/recipes/generate-by-text", "secret-key", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("bad difficulty", func(t *testing.T) {
		resp := do(t, h, http.MethodPost, "/api/v1/recipes/generate-by-text", "secret-key",
			map[string]string{"request": "soup", "difficulty": "brutal"})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestDailyThemed(t *testing.T) {
	h := newTestHandler(t)

	resp := do(t, h, http.MethodGet, "/api/v1/recipes/daily-themed?days_not_shown=abc", "secret-key", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = do(t, h, http.MethodGet, "/api/v1/recipes/daily-themed?days_not_shown=7", "secret-key", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "Pumpkin soup")
}

func TestGenerateImageRoute(t *testing.T) {
	h := newTestHandler(t)

	resp := do(t, h, http.MethodPost, "/generate-image", "secret-key", map[string]string{"prompt": "a pie"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))
}

func TestAskFallsBackWithoutHits(t *testing.T) {
	h := newTestHandler(t)

	resp := do(t, h, http.MethodPost, "/api/v1/recipes/ask", "secret-key", map[string]string{"question": "how to bake bread?"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), qa.FallbackAnswer)
}
