package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foodgram/platform/internal/infrastructure/http/middleware"
	"github.com/foodgram/platform/internal/ports/inbound"
	"github.com/foodgram/platform/internal/ports/outbound"
)

const defaultPageSize = 10

type ingredientAmount struct {
	ID     uuid.UUID `json:"id" validate:"required"`
	Amount float64   `json:"amount" validate:"gte=0"`
}

type recipeRequest struct {
	Name        string             `json:"name" validate:"required,max=255"`
	Text        string             `json:"text"`
	Steps       []string           `json:"steps"`
	CookingTime int                `json:"cooking_time" validate:"gte=0"`
	Difficulty  string             `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Tags        []uuid.UUID        `json:"tags" validate:"required,min=1"`
	Ingredients []ingredientAmount `json:"ingredients" validate:"required,min=1,dive"`
	Image       string             `json:"image"`
}

func (req recipeRequest) inputs() []inbound.IngredientInput {
	inputs := make([]inbound.IngredientInput, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		inputs = append(inputs, inbound.IngredientInput{IngredientID: ing.ID, Amount: ing.Amount})
	}
	return inputs
}

// CreateRecipe creates a recipe owned by the authenticated user
func (h *Handlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	var req recipeRequest
	if err := h.decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	rec, err := h.recipes.Create(r.Context(), inbound.CreateRecipeCommand{
		AuthorID:    userID,
		Name:        req.Name,
		Text:        req.Text,
		Steps:       req.Steps,
		CookingTime: req.CookingTime,
		Difficulty:  req.Difficulty,
		TagIDs:      req.Tags,
		Ingredients: req.inputs(),
		ImageURL:    req.Image,
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, rec)
}

// GetRecipe returns one recipe and counts the view
func (h *Handlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	rec, err := h.recipes.Get(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, rec)
}

// UpdateRecipe applies a full update; only the author may call it
func (h *Handlers) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	var req recipeRequest
	if err := h.decode(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	rec, err := h.recipes.Update(r.Context(), inbound.UpdateRecipeCommand{
		RecipeID:    id,
		ActorID:     userID,
		Name:        req.Name,
		Text:        req.Text,
		Steps:       req.Steps,
		CookingTime: req.CookingTime,
		Difficulty:  req.Difficulty,
		TagIDs:      req.Tags,
		Ingredients: req.inputs(),
		ImageURL:    req.Image,
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, rec)
}

// DeleteRecipe removes a recipe; only the author may call it
func (h *Handlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := h.recipes.Delete(r.Context(), id, userID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRecipes lists recipes with filters. Responses are cached by the raw
// query string; entries expire by TTL only.
func (h *Handlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	cacheKey := "recipes:" + r.URL.RawQuery
	if cached, err := h.cache.Get(r.Context(), cacheKey); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(cached)
		return
	}

	filter, err := h.listFilter(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	recipes, total, err := h.recipes.List(r.Context(), filter)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	body, err := json.Marshal(map[string]any{"count": total, "results": recipes})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := h.cache.Set(r.Context(), cacheKey, body, h.cacheTTL); err != nil {
		h.logger.Warn("recipe list cache write failed", zap.Error(err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handlers) listFilter(r *http.Request) (outbound.RecipeFilter, error) {
	q := r.URL.Query()
	filter := outbound.RecipeFilter{
		TagSlugs: q["tags"],
		Search:   q.Get("search"),
		Limit:    defaultPageSize,
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, badQueryParam("limit")
		}
		filter.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, badQueryParam("offset")
		}
		filter.Offset = offset
	}
	if raw := q.Get("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, badQueryParam("author")
		}
		filter.AuthorID = &id
	}
	userID, authed := middleware.UserID(r.Context())
	if q.Get("is_favorited") == "1" {
		if !authed {
			return filter, badQueryParam("is_favorited")
		}
		filter.FavoritedBy = &userID
	}
	if q.Get("is_in_shopping_cart") == "1" {
		if !authed {
			return filter, badQueryParam("is_in_shopping_cart")
		}
		filter.InCartOf = &userID
	}
	return filter, nil
}
