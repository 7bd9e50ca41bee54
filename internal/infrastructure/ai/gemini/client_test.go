package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foodgram/platform/internal/infrastructure/config"
	apperrors "github.com/foodgram/platform/pkg/errors"
)

func TestExtractJSON(t *testing.T) {
	t.Run("bare object", func(t *testing.T) {
		assert.Equal(t, `{"a":1}`, ExtractJSON(`{"a":1}`))
	})

	t.Run("markdown fence", func(t *testing.T) {
		text := "Here is the recipe:\n```json\n{\"name\": \"soup\"}\n```\nEnjoy!"
		assert.Equal(t, `{"name": "soup"}`, ExtractJSON(text))
	})

	t.Run("array", func(t *testing.T) {
		assert.Equal(t, `[1, 2, 3]`, ExtractJSON("result: [1, 2, 3] done"))
	})

	t.Run("nested braces", func(t *testing.T) {
		assert.Equal(t, `{"a":{"b":[{"c":2}]}}`, ExtractJSON(`{"a":{"b":[{"c":2}]}} trailing`))
	})

	t.Run("braces inside strings", func(t *testing.T) {
		assert.Equal(t, `{"text":"use } carefully"}`, ExtractJSON(`{"text":"use } carefully"}`))
	})

	t.Run("escaped quote inside string", func(t *testing.T) {
		assert.Equal(t, `{"text":"say \"hi\"}"}`, ExtractJSON(`{"text":"say \"hi\"}"}`))
	})

	t.Run("no JSON", func(t *testing.T) {
		assert.Equal(t, "", ExtractJSON("just prose"))
	})

	t.Run("unbalanced", func(t *testing.T) {
		assert.Equal(t, "", ExtractJSON(`{"a": 1`))
	})
}

func modelReply(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.AIConfig{
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		Timeout:        2 * time.Second,
		RequestsPerMin: 600,
	}, zap.NewNop())
}

func TestGenerateText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		_ = json.NewEncoder(w).Encode(modelReply("hello there"))
	})

	text, err := client.GenerateText(context.Background(), "test-model", "say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)
}

func TestGenerateTextServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	_, err := client.GenerateText(context.Background(), "test-model", "say hello")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeExternalService))
}

type namedThing struct {
	Name string `json:"name"`
}

func (n *namedThing) Validate() error {
	if n.Name == "" {
		return errors.New("missing name")
	}
	return nil
}

func TestGenerateJSON(t *testing.T) {
	t.Run("decodes fenced output", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(modelReply("```json\n{\"name\": \"borscht\"}\n```"))
		})

		var out namedThing
		require.NoError(t, client.GenerateJSON(context.Background(), "m", "p", &out))
		assert.Equal(t, "borscht", out.Name)
	})

	t.Run("fails validation on incomplete output", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(modelReply(`{"other": true}`))
		})

		var out namedThing
		err := client.GenerateJSON(context.Background(), "m", "p", &out)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeExternalService))
	})

	t.Run("fails on prose-only output", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(modelReply("I cannot answer that"))
		})

		var out namedThing
		err := client.GenerateJSON(context.Background(), "m", "p", &out)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeExternalService))
	})
}

func TestGenerateImage(t *testing.T) {
	t.Run("returns decoded bytes", func(t *testing.T) {
		png := []byte{0x89, 'P', 'N', 'G'}
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"candidates": []map[string]any{
					{"content": map[string]any{"parts": []map[string]any{
						{"inlineData": map[string]any{
							"mimeType": "image/png",
							"data":     base64.StdEncoding.EncodeToString(png),
						}},
					}}},
				},
			})
		})

		data, err := client.GenerateImage(context.Background(), "m", "a pie")
		require.NoError(t, err)
		assert.Equal(t, png, data)
	})

	t.Run("blocked prompt", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"promptFeedback": map[string]any{"blockReason": "SAFETY"},
			})
		})

		_, err := client.GenerateImage(context.Background(), "m", "a pie")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blocked")
	})

	t.Run("text-only reply", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(modelReply("no image for you"))
		})

		_, err := client.GenerateImage(context.Background(), "m", "a pie")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no image")
	})
}
