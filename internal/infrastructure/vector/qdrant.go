// Package vector provides semantic search over indexed recipes using a
// Qdrant collection and a Gemini embedding endpoint.
package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/foodgram/platform/pkg/errors"
	"github.com/foodgram/platform/internal/infrastructure/config"
	"github.com/foodgram/platform/internal/ports/outbound"
)

// Index implements outbound.VectorIndex. Each query is embedded and then
// searched against the recipe collection.
type Index struct {
	cfg    *config.VectorConfig
	client *http.Client
	logger *zap.Logger
}

// NewIndex creates a new vector index client
func NewIndex(cfg *config.VectorConfig, logger *zap.Logger) *Index {
	return &Index{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger.Named("vector"),
	}
}

type embedRequest struct {
	Model   string       `json:"model"`
	Content embedContent `json:"content"`
}

type embedContent struct {
	Parts []embedPart `json:"parts"`
}

type embedPart struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

type searchRequest struct {
	Vector         []float64 `json:"vector"`
	Limit          int       `json:"limit"`
	ScoreThreshold float64   `json:"score_threshold,omitempty"`
	WithPayload    bool      `json:"with_payload"`
}

type searchResponse struct {
	Result []struct {
		Score   float64            `json:"score"`
		Payload outbound.RecipeDoc `json:"payload"`
	} `json:"result"`
}

type upsertRequest struct {
	Points []upsertPoint `json:"points"`
}

type upsertPoint struct {
	ID      string             `json:"id"`
	Vector  []float64          `json:"vector"`
	Payload outbound.RecipeDoc `json:"payload"`
}

// Search embeds the query and returns scored hits above the threshold
func (x *Index) Search(ctx context.Context, query string, limit int, threshold float64) ([]outbound.SearchHit, error) {
	vec, err := x.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(searchRequest{
		Vector:         vec,
		Limit:          limit,
		ScoreThreshold: threshold,
		WithPayload:    true,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/collections/%s/points/search",
		strings.TrimRight(x.cfg.QdrantURL, "/"), x.cfg.Collection)
	respBody, err := x.post(ctx, url, body, true)
	if err != nil {
		return nil, err
	}

	var out searchResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, apperrors.NewExternalServiceError("qdrant", fmt.Errorf("malformed response: %w", err))
	}
	hits := make([]outbound.SearchHit, len(out.Result))
	for i, r := range out.Result {
		hits[i] = outbound.SearchHit{Doc: r.Payload, Score: r.Score}
	}
	return hits, nil
}

// Upsert embeds and stores recipe documents in the collection
func (x *Index) Upsert(ctx context.Context, docs []outbound.RecipeDoc) error {
	points := make([]upsertPoint, 0, len(docs))
	for _, doc := range docs {
		text := doc.Name + "\n" + doc.Text + "\n" + strings.Join(doc.Ingredients, ", ")
		vec, err := x.embed(ctx, text)
		if err != nil {
			x.logger.Warn("skipping document, embedding failed",
				zap.String("id", doc.ID),
				zap.Error(err),
			)
			continue
		}
		points = append(points, upsertPoint{ID: doc.ID, Vector: vec, Payload: doc})
	}
	if len(points) == 0 {
		return nil
	}

	body, err := json.Marshal(upsertRequest{Points: points})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/collections/%s/points",
		strings.TrimRight(x.cfg.QdrantURL, "/"), x.cfg.Collection)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if x.cfg.QdrantAPIKey != "" {
		req.Header.Set("api-key", x.cfg.QdrantAPIKey)
	}
	resp, err := x.client.Do(req)
	if err != nil {
		return apperrors.NewExternalServiceError("qdrant", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apperrors.NewExternalServiceError("qdrant", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return nil
}

func (x *Index) embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(embedRequest{
		Model:   "models/" + x.cfg.EmbeddingModel,
		Content: embedContent{Parts: []embedPart{{Text: text}}},
	})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/models/%s:embedContent",
		strings.TrimRight(x.cfg.EmbeddingURL, "/"), x.cfg.EmbeddingModel)
	respBody, err := x.post(ctx, url, body, false)
	if err != nil {
		return nil, err
	}
	var out embedResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, apperrors.NewExternalServiceError("embedding", fmt.Errorf("malformed response: %w", err))
	}
	if len(out.Embedding.Values) == 0 {
		return nil, apperrors.NewExternalServiceError("embedding", fmt.Errorf("empty embedding for text"))
	}
	return out.Embedding.Values, nil
}

func (x *Index) post(ctx context.Context, url string, body []byte, qdrant bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if qdrant {
		if x.cfg.QdrantAPIKey != "" {
			req.Header.Set("api-key", x.cfg.QdrantAPIKey)
		}
	} else if x.cfg.EmbeddingAPIKey != "" {
		req.Header.Set("x-goog-api-key", x.cfg.EmbeddingAPIKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		service := "embedding"
		if qdrant {
			service = "qdrant"
		}
		return nil, apperrors.NewExternalServiceError(service, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		service := "embedding"
		if qdrant {
			service = "qdrant"
		}
		return nil, apperrors.NewExternalServiceError(service, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return respBody, nil
}

var _ outbound.VectorIndex = (*Index)(nil)
