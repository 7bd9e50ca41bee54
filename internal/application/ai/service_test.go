package ai

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foodgram/platform/internal/domain/aigen"
	"github.com/foodgram/platform/internal/infrastructure/config"
	"github.com/foodgram/platform/internal/ports/outbound"
	apperrors "github.com/foodgram/platform/pkg/errors"
)

type stubClient struct {
	jsonReply string
	prompts   []string
}

func (c *stubClient) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return "some text", nil
}

func (c *stubClient) GenerateJSON(ctx context.Context, model, prompt string, out outbound.Validatable) error {
	c.prompts = append(c.prompts, prompt)
	if err := json.Unmarshal([]byte(c.jsonReply), out); err != nil {
		return apperrors.NewExternalServiceError("model", err)
	}
	return out.Validate()
}

func (c *stubClient) GenerateImage(ctx context.Context, model, prompt string) ([]byte, error) {
	c.prompts = append(c.prompts, prompt)
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

type memGenerated struct {
	recs []*outbound.GeneratedRecipe
}

func (m *memGenerated) Save(ctx context.Context, rec *outbound.GeneratedRecipe) error {
	for _, existing := range m.recs {
		if existing.Fingerprint == rec.Fingerprint {
			return apperrors.NewConflictError("recipe already stored")
		}
	}
	stored := *rec
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	m.recs = append(m.recs, &stored)
	return nil
}

func (m *memGenerated) FindByFingerprint(ctx context.Context, fp string) (*outbound.GeneratedRecipe, error) {
	for _, rec := range m.recs {
		if rec.Fingerprint == fp {
			return rec, nil
		}
	}
	return nil, apperrors.NewNotFoundError("generated recipe")
}

func (m *memGenerated) RecentNames(ctx context.Context, limit int) ([]string, error) {
	names := make([]string, 0, len(m.recs))
	for i := len(m.recs) - 1; i >= 0 && len(names) < limit; i-- {
		names = append(names, m.recs[i].Payload.Name)
	}
	return names, nil
}

func (m *memGenerated) FindEligibleDaily(ctx context.Context, cutoff time.Time) (*outbound.GeneratedRecipe, error) {
	for _, rec := range m.recs {
		if rec.LastShownAt == nil || rec.LastShownAt.Before(cutoff) {
			return rec, nil
		}
	}
	return nil, apperrors.NewNotFoundError("daily recipe")
}

func (m *memGenerated) TouchLastShown(ctx context.Context, id uuid.UUID, at time.Time) error {
	for _, rec := range m.recs {
		if rec.ID == id {
			rec.LastShownAt = &at
			return nil
		}
	}
	return apperrors.NewNotFoundError("generated recipe")
}

const payloadJSON = `{
	"name": "Pumpkin soup",
	"description": "Silky autumn soup",
	"ingredients": [{"name": "pumpkin", "amount": 600, "unit": "g"}],
	"steps": ["roast", "blend"],
	"cooking_time": 45,
	"difficulty": "easy",
	"image_generation_prompt": "a bowl of pumpkin soup"
}`

func testConfig() *config.Config {
	return &config.Config{
		AI: config.AIConfig{
			TextModel:   "text-model",
			RecipeModel: "recipe-model",
			ImageModel:  "image-model",
		},
		DailyRecipe: config.DailyRecipeConfig{NotShownDays: 7},
	}
}

func newTestService(client *stubClient, generated *memGenerated) *Service {
	return NewService(client, generated, nil, testConfig(), zap.NewNop())
}

func TestGenerateRecipe(t *testing.T) {
	t.Run("stores the result under its fingerprint", func(t *testing.T) {
		client := &stubClient{jsonReply: payloadJSON}
		generated := &memGenerated{}
		svc := newTestService(client, generated)

		payload, err := svc.GenerateRecipe(context.Background(), "something with pumpkin", nil, "")
		require.NoError(t, err)
		assert.Equal(t, "Pumpkin soup", payload.Name)
		assert.Equal(t, 45, payload.CookingTime)
		assert.Equal(t, "easy", payload.Difficulty)
		require.Len(t, generated.recs, 1)
		assert.Equal(t, "something with pumpkin", generated.recs[0].Prompt)
	})

	t.Run("rejects unknown difficulty before calling the model", func(t *testing.T) {
		client := &stubClient{jsonReply: payloadJSON}
		svc := newTestService(client, &memGenerated{})

		_, err := svc.GenerateRecipe(context.Background(), "anything", nil, "impossible")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
		assert.Empty(t, client.prompts)
	})

	t.Run("passes constraints and recent names into the prompt", func(t *testing.T) {
		client := &stubClient{jsonReply: payloadJSON}
		generated := &memGenerated{}
		svc := newTestService(client, generated)

		_, err := svc.GenerateRecipe(context.Background(), "first", nil, "")
		require.NoError(t, err)

		minutes := 20
		_, err = svc.GenerateRecipe(context.Background(), "second", &minutes, "easy")
		require.NoError(t, err)

		prompt := client.prompts[len(client.prompts)-1]
		assert.Contains(t, prompt, "second")
		assert.Contains(t, prompt, "20")
		assert.Contains(t, prompt, "easy")
		assert.Contains(t, prompt, "Pumpkin soup")
	})

	t.Run("a repeated recipe is not an error", func(t *testing.T) {
		client := &stubClient{jsonReply: payloadJSON}
		generated := &memGenerated{}
		svc := newTestService(client, generated)

		_, err := svc.GenerateRecipe(context.Background(), "soup", nil, "")
		require.NoError(t, err)
		_, err = svc.GenerateRecipe(context.Background(), "soup again", nil, "")
		require.NoError(t, err)
		assert.Len(t, generated.recs, 1)
	})
}

func TestGenerateByIngredients(t *testing.T) {
	batch := `{"recipes": [` + payloadJSON + `]}`

	t.Run("requires ingredients", func(t *testing.T) {
		svc := newTestService(&stubClient{jsonReply: batch}, &memGenerated{})
		_, err := svc.GenerateByIngredients(context.Background(), nil, 1, nil, "")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
	})

	t.Run("lowercases the ingredient list in the prompt", func(t *testing.T) {
		client := &stubClient{jsonReply: batch}
		generated := &memGenerated{}
		svc := newTestService(client, generated)

		recipes, err := svc.GenerateByIngredients(context.Background(),
			[]aigen.PayloadIngredient{{Name: "Pumpkin", Amount: 600, Unit: "g"}}, 0, nil, "")
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Contains(t, client.prompts[0], "pumpkin 600 g")
		assert.Len(t, generated.recs, 1)
	})
}

func TestDailyRecipe(t *testing.T) {
	t.Run("serves a stored recipe and stamps it", func(t *testing.T) {
		client := &stubClient{jsonReply: payloadJSON}
		generated := &memGenerated{}
		svc := newTestService(client, generated)

		// seed the store through a normal generation
		_, err := svc.GenerateRecipe(context.Background(), "seed", nil, "")
		require.NoError(t, err)
		client.prompts = nil

		payload, err := svc.DailyRecipe(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "Pumpkin soup", payload.Name)
		assert.Empty(t, client.prompts)
		require.NotNil(t, generated.recs[0].LastShownAt)
	})

	t.Run("recently shown recipes are skipped", func(t *testing.T) {
		client := &stubClient{jsonReply: payloadJSON}
		generated := &memGenerated{}
		svc := newTestService(client, generated)

		_, err := svc.GenerateRecipe(context.Background(), "seed", nil, "")
		require.NoError(t, err)
		now := time.Now()
		generated.recs[0].LastShownAt = &now
		client.prompts = nil

		// the only candidate was shown today, so a fresh one is generated
		payload, err := svc.DailyRecipe(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "Pumpkin soup", payload.Name)
		assert.NotEmpty(t, client.prompts)
	})
}

func TestAdjustPortions(t *testing.T) {
	client := &stubClient{jsonReply: payloadJSON}
	svc := newTestService(client, &memGenerated{})

	var src aigen.RecipePayload
	require.NoError(t, json.Unmarshal([]byte(payloadJSON), &src))

	t.Run("rejects non-positive portions", func(t *testing.T) {
		_, err := svc.AdjustPortions(context.Background(), &src, 0)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
	})

	t.Run("scales through the model", func(t *testing.T) {
		payload, err := svc.AdjustPortions(context.Background(), &src, 6)
		require.NoError(t, err)
		assert.Equal(t, "Pumpkin soup", payload.Name)
		assert.Contains(t, client.prompts[len(client.prompts)-1], "6")
	})
}

func TestGenerateText(t *testing.T) {
	client := &stubClient{}
	svc := newTestService(client, &memGenerated{})

	text, err := svc.GenerateText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "some text", text)
	assert.True(t, strings.Contains(client.prompts[0], "hello"))
}
