// Package backend provides the HTTP client the AI service uses to talk
// to the main platform API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/foodgram/platform/pkg/errors"
	"github.com/foodgram/platform/internal/domain/recipe"
	"github.com/foodgram/platform/internal/infrastructure/config"
	"github.com/foodgram/platform/internal/ports/outbound"
)

// Client implements outbound.BackendClient over the platform REST API
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new backend API client
func NewClient(cfg *config.BackendConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger.Named("backend-client"),
	}
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AuthToken string `json:"auth_token"`
}

// AuthToken exchanges credentials for a bearer token
func (c *Client) AuthToken(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/token", "", tokenRequest{Email: email, Password: password}, &out)
	if err != nil {
		return "", err
	}
	if out.AuthToken == "" {
		return "", apperrors.NewExternalServiceError("backend", fmt.Errorf("empty auth token"))
	}
	return out.AuthToken, nil
}

// ListTags fetches the tag catalog
func (c *Client) ListTags(ctx context.Context) ([]recipe.Tag, error) {
	var out []recipe.Tag
	if err := c.do(ctx, http.MethodGet, "/api/v1/tags", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListIngredients fetches the ingredient catalog
func (c *Client) ListIngredients(ctx context.Context) ([]recipe.Ingredient, error) {
	var out []recipe.Ingredient
	if err := c.do(ctx, http.MethodGet, "/api/v1/ingredients", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type createIngredientRequest struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// CreateIngredient registers an ingredient, returning the existing entry
// when the (name, unit) pair is already in the catalog.
func (c *Client) CreateIngredient(ctx context.Context, token, name, unit string) (*recipe.Ingredient, error) {
	var out recipe.Ingredient
	err := c.do(ctx, http.MethodPost, "/api/v1/ingredients", token,
		createIngredientRequest{Name: name, MeasurementUnit: unit}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type recipeListResponse struct {
	Count   int             `json:"count"`
	Results []recipe.Recipe `json:"results"`
}

// ListRecipes fetches up to limit recipes, newest first
func (c *Client) ListRecipes(ctx context.Context, limit int) ([]recipe.Recipe, error) {
	path := "/api/v1/recipes"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var out recipeListResponse
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// ListComments fetches a recipe's comments
func (c *Client) ListComments(ctx context.Context, recipeID string) ([]recipe.Comment, error) {
	var out []recipe.Comment
	path := fmt.Sprintf("/api/v1/recipes/%s/comments", recipeID)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateRecipe publishes a recipe on behalf of the token's user
func (c *Client) CreateRecipe(ctx context.Context, token string, r *recipe.Recipe) (*recipe.Recipe, error) {
	var out recipe.Recipe
	if err := c.do(ctx, http.MethodPost, "/api/v1/recipes", token, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.NewExternalServiceError("backend", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewExternalServiceError("backend", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return apperrors.NewExternalServiceError("backend",
			fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode))
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return apperrors.NewExternalServiceError("backend", fmt.Errorf("malformed response: %w", err))
		}
	}
	return nil
}

var _ outbound.BackendClient = (*Client)(nil)
