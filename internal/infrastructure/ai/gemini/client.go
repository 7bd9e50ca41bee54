// Package gemini provides the generative model client used for recipe
// text, structured JSON and image generation.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apperrors "github.com/foodgram/platform/pkg/errors"
	"github.com/foodgram/platform/internal/infrastructure/config"
	"github.com/foodgram/platform/internal/ports/outbound"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client implements outbound.AIClient against the Gemini REST API
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a new Gemini client. Requests are throttled to the
// configured per-minute budget.
func NewClient(cfg *config.AIConfig, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = 60
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm),
		logger:  logger.Named("gemini"),
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType   string   `json:"responseMimeType,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// GenerateText runs a plain-text completion
func (c *Client) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.generate(ctx, model, generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	text := firstText(resp)
	if text == "" {
		return "", apperrors.NewExternalServiceError("gemini", errors.New("empty completion"))
	}
	return text, nil
}

// GenerateJSON runs a completion constrained to JSON, decodes the result
// into out and validates it. Markdown fences and prose around the JSON
// document are tolerated.
func (c *Client) GenerateJSON(ctx context.Context, model, prompt string, out outbound.Validatable) error {
	resp, err := c.generate(ctx, model, generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return err
	}
	text := firstText(resp)
	if text == "" {
		return apperrors.NewExternalServiceError("gemini", errors.New("empty completion"))
	}
	raw := ExtractJSON(text)
	if raw == "" {
		return apperrors.NewExternalServiceError("gemini", errors.New("no JSON document in completion"))
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return apperrors.NewExternalServiceError("gemini", fmt.Errorf("malformed JSON in completion: %w", err))
	}
	if err := out.Validate(); err != nil {
		return apperrors.NewExternalServiceError("gemini", fmt.Errorf("incomplete completion: %w", err))
	}
	return nil
}

// GenerateImage returns the raw bytes of the first image part. A block
// verdict and a text-only reply are reported as distinct errors.
func (c *Client) GenerateImage(ctx context.Context, model, prompt string) ([]byte, error) {
	resp, err := c.generate(ctx, model, generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
	})
	if err != nil {
		return nil, err
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, apperrors.NewExternalServiceError("gemini",
			fmt.Errorf("image prompt blocked: %s", resp.PromptFeedback.BlockReason))
	}
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData == nil {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, apperrors.NewExternalServiceError("gemini", fmt.Errorf("corrupt image data: %w", err))
			}
			return data, nil
		}
	}
	return nil, apperrors.NewExternalServiceError("gemini", errors.New("model returned no image"))
}

func (c *Client) generate(ctx context.Context, model string, reqBody generateRequest) (*generateResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, apperrors.NewServiceNotRespondingError("gemini", err)
		}
		return nil, apperrors.NewExternalServiceError("gemini", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("gemini", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("model request failed",
			zap.String("model", model),
			zap.Int("status", resp.StatusCode),
		)
		return nil, apperrors.NewExternalServiceError("gemini",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(respBody), 200)))
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, apperrors.NewExternalServiceError("gemini", fmt.Errorf("malformed response: %w", err))
	}
	return &out, nil
}

func firstText(resp *generateResponse) string {
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				return p.Text
			}
		}
	}
	return ""
}

// ExtractJSON returns the first balanced JSON object or array embedded in
// the text, or the empty string.
func ExtractJSON(text string) string {
	start := -1
	var opener, closer byte
	for i := 0; i < len(text); i++ {
		if text[i] == '{' || text[i] == '[' {
			start = i
			opener = text[i]
			if opener == '{' {
				closer = '}'
			} else {
				closer = ']'
			}
			break
		}
	}
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			if ch == '\\' {
				i++
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ outbound.AIClient = (*Client)(nil)
