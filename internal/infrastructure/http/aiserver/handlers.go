package aiserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/foodgram/platform/internal/application/ai"
	"github.com/foodgram/platform/internal/domain/aigen"
	"github.com/foodgram/platform/internal/infrastructure/http/middleware"
	apperrors "github.com/foodgram/platform/pkg/errors"
)

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewBadRequestError("invalid JSON body")
	}
	return nil
}

// Root identifies the service
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"service": h.appName + "-ai",
		"status":  "running",
	})
}

// Health reports liveness
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

// Generate runs plain text generation
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if req.Prompt == "" {
		middleware.WriteError(w, apperrors.NewValidationError("prompt is required"))
		return
	}
	text, err := h.ai.GenerateText(r.Context(), req.Prompt)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"text": text})
}

// GenerateImage returns raw PNG bytes for a prompt
func (h *Handlers) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if req.Prompt == "" {
		middleware.WriteError(w, apperrors.NewValidationError("prompt is required"))
		return
	}
	img, err := h.ai.GenerateImage(r.Context(), req.Prompt)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

type generateByTextRequest struct {
	Request     string `json:"request"`
	CookingTime *int   `json:"cooking_time"`
	Difficulty  string `json:"difficulty"`
}

// GenerateByText generates one structured recipe from a free-form request
func (h *Handlers) GenerateByText(w http.ResponseWriter, r *http.Request) {
	var req generateByTextRequest
	if err := decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if req.Request == "" {
		middleware.WriteError(w, apperrors.NewValidationError("request is required"))
		return
	}
	payload, err := h.ai.GenerateRecipe(r.Context(), req.Request, req.CookingTime, req.Difficulty)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, payload)
}

type generateByIngredientsRequest struct {
	Ingredients []aigen.PayloadIngredient `json:"ingredients"`
	Count       int                       `json:"count"`
	CookingTime *int                      `json:"cooking_time"`
	Difficulty  string                    `json:"difficulty"`
}

// GenerateByIngredients generates N recipes built around given ingredients
func (h *Handlers) GenerateByIngredients(w http.ResponseWriter, r *http.Request) {
	var req generateByIngredientsRequest
	if err := decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if len(req.Ingredients) == 0 {
		middleware.WriteError(w, apperrors.NewValidationError("ingredients are required"))
		return
	}
	if req.Count <= 0 {
		req.Count = 1
	}
	payloads, err := h.ai.GenerateByIngredients(r.Context(), req.Ingredients, req.Count, req.CookingTime, req.Difficulty)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"recipes": payloads})
}

// DailyThemed returns the recipe of the day
func (h *Handlers) DailyThemed(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days_not_shown"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			middleware.WriteError(w, apperrors.NewBadRequestError("invalid days_not_shown"))
			return
		}
		days = parsed
	}
	payload, err := h.ai.DailyRecipe(r.Context(), days)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, payload)
}

type adaptRequest struct {
	Recipe       *aigen.RecipePayload `json:"recipe"`
	Restrictions []string             `json:"dietary_restrictions"`
	Notes        string               `json:"additional_notes"`
}

// Adapt rewrites a recipe for dietary restrictions
func (h *Handlers) Adapt(w http.ResponseWriter, r *http.Request) {
	var req adaptRequest
	if err := decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if req.Recipe == nil {
		middleware.WriteError(w, apperrors.NewValidationError("recipe is required"))
		return
	}
	payload, err := h.ai.AdaptForDiet(r.Context(), req.Recipe, req.Restrictions, req.Notes)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, payload)
}

type replaceRequest struct {
	Recipe       *aigen.RecipePayload `json:"recipe"`
	Replacements []ai.Replacement     `json:"replacements"`
	Notes        string               `json:"additional_notes"`
}

// ReplaceIngredients swaps ingredients while keeping the dish coherent
func (h *Handlers) ReplaceIngredients(w http.ResponseWriter, r *http.Request) {
	var req replaceRequest
	if err := decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if req.Recipe == nil {
		middleware.WriteError(w, apperrors.NewValidationError("recipe is required"))
		return
	}
	payload, err := h.ai.ReplaceIngredients(r.Context(), req.Recipe, req.Replacements, req.Notes)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, payload)
}

type portionsRequest struct {
	Recipe         *aigen.RecipePayload `json:"recipe"`
	TargetPortions int                  `json:"target_portions"`
}

// AdjustPortions scales ingredient amounts proportionally
func (h *Handlers) AdjustPortions(w http.ResponseWriter, r *http.Request) {
	var req portionsRequest
	if err := decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if req.Recipe == nil {
		middleware.WriteError(w, apperrors.NewValidationError("recipe is required"))
		return
	}
	payload, err := h.ai.AdjustPortions(r.Context(), req.Recipe, req.TargetPortions)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, payload)
}

type auxRequest struct {
	Recipe *aigen.RecipePayload `json:"recipe"`
	Notes  string               `json:"additional_notes"`
}

func (h *Handlers) auxOperation(w http.ResponseWriter, r *http.Request, call func(*aigen.RecipePayload, string) (any, error)) {
	var req auxRequest
	if err := decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if req.Recipe == nil {
		middleware.WriteError(w, apperrors.NewValidationError("recipe is required"))
		return
	}
	out, err := call(req.Recipe, req.Notes)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

// History tells the dish's background story
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	h.auxOperation(w, r, func(p *aigen.RecipePayload, notes string) (any, error) {
		return h.ai.RecipeHistory(r.Context(), p, notes)
	})
}

// DrinkPairings suggests drinks for the dish
func (h *Handlers) DrinkPairings(w http.ResponseWriter, r *http.Request) {
	h.auxOperation(w, r, func(p *aigen.RecipePayload, notes string) (any, error) {
		return h.ai.DrinkPairings(r.Context(), p, notes)
	})
}

// ChefAdvice collects preparation tips and common mistakes
func (h *Handlers) ChefAdvice(w http.ResponseWriter, r *http.Request) {
	h.auxOperation(w, r, func(p *aigen.RecipePayload, notes string) (any, error) {
		return h.ai.ChefAdvice(r.Context(), p, notes)
	})
}

// SEODescription writes search-friendly copy for the dish page
func (h *Handlers) SEODescription(w http.ResponseWriter, r *http.Request) {
	h.auxOperation(w, r, func(p *aigen.RecipePayload, notes string) (any, error) {
		return h.ai.SEODescription(r.Context(), p, notes)
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthToken proxies credentials to the main backend
func (h *Handlers) AuthToken(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		middleware.WriteError(w, apperrors.NewValidationError("email and password are required"))
		return
	}
	token, err := h.ai.AuthToken(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"auth_token": token})
}

// GenerateRandom invents a recipe and publishes it on the main backend
func (h *Handlers) GenerateRandom(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		middleware.WriteError(w, apperrors.NewValidationError("email and password are required"))
		return
	}
	payload, err := h.ai.GenerateRandom(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, payload)
}

type telegramRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Count           int    `json:"count"`
	IncludeRecipes  bool   `json:"include_recipes"`
	IncludeComments bool   `json:"include_comments"`
	MaxLength       int    `json:"max_length"`
}

// TelegramPosts builds a batch of channel posts from live site content
func (h *Handlers) TelegramPosts(w http.ResponseWriter, r *http.Request) {
	req := telegramRequest{Count: 3, IncludeRecipes: true, IncludeComments: true, MaxLength: 1024}
	if err := decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		middleware.WriteError(w, apperrors.NewValidationError("email and password are required"))
		return
	}
	posts, err := h.ai.TelegramPosts(r.Context(), req.Email, req.Password, req.Count, req.IncludeRecipes, req.IncludeComments, req.MaxLength)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask answers a question grounded on indexed recipes
func (h *Handlers) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if req.Question == "" {
		middleware.WriteError(w, apperrors.NewValidationError("question is required"))
		return
	}
	answer, err := h.qa.Ask(r.Context(), req.Question)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, answer)
}
