// Package ai provides the application layer of the AI backend: recipe
// and image generation, recipe transformations and cross-system flows
// against the main backend.
package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/foodgram/platform/pkg/errors"
	"github.com/foodgram/platform/internal/domain/aigen"
	"github.com/foodgram/platform/internal/domain/recipe"
	"github.com/foodgram/platform/internal/infrastructure/config"
	"github.com/foodgram/platform/internal/ports/outbound"
)

const recentContextSize = 50

// Service implements the AI backend use cases
type Service struct {
	client    outbound.AIClient
	generated outbound.GeneratedRecipeRepository
	backend   outbound.BackendClient
	cfg       *config.Config
	logger    *zap.Logger
}

// NewService creates a new AI service
func NewService(
	client outbound.AIClient,
	generated outbound.GeneratedRecipeRepository,
	backend outbound.BackendClient,
	cfg *config.Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		client:    client,
		generated: generated,
		backend:   backend,
		cfg:       cfg,
		logger:    logger.Named("ai-service"),
	}
}

// GenerateText runs a plain text completion
func (s *Service) GenerateText(ctx context.Context, prompt string) (string, error) {
	return s.client.GenerateText(ctx, s.cfg.AI.TextModel, prompt)
}

// GenerateImage returns PNG bytes for the prompt
func (s *Service) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	return s.client.GenerateImage(ctx, s.cfg.AI.ImageModel, prompt)
}

// GenerateRecipe generates a recipe for a free-form request. The most
// recently generated recipe names are embedded as context so the model
// avoids repeating itself; the result is stored under its fingerprint.
func (s *Service) GenerateRecipe(ctx context.Context, request string, cookingTime *int, difficulty string) (*aigen.RecipePayload, error) {
	if difficulty != "" {
		if _, err := recipe.ParseDifficulty(difficulty); err != nil {
			return nil, apperrors.NewValidationError("difficulty must be easy, medium or hard")
		}
	}

	recent, err := s.generated.RecentNames(ctx, recentContextSize)
	if err != nil {
		s.logger.Warn("failed to load recent recipes for context", zap.Error(err))
		recent = nil
	}

	prompt := recipePrompt(request, cookingTime, difficulty, recent)
	var payload aigen.RecipePayload
	if err := s.client.GenerateJSON(ctx, s.cfg.AI.RecipeModel, prompt, &payload); err != nil {
		return nil, err
	}

	s.store(ctx, &payload, request)
	return &payload, nil
}

// GenerateByIngredients generates count recipes from an ingredient list
// and stores each one under its fingerprint.
func (s *Service) GenerateByIngredients(ctx context.Context, ingredients []aigen.PayloadIngredient, count int, cookingTime *int, difficulty string) ([]aigen.RecipePayload, error) {
	if len(ingredients) == 0 {
		return nil, apperrors.NewValidationError("at least one ingredient is required")
	}
	if count <= 0 {
		count = 1
	}

	parts := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		p := strings.ToLower(ing.Name)
		if ing.Amount > 0 && ing.Unit != "" {
			p = fmt.Sprintf("%s %v %s", p, ing.Amount, ing.Unit)
		}
		parts = append(parts, p)
	}
	ingredientsStr := strings.Join(parts, ", ")

	prompt := byIngredientsPrompt(count, ingredientsStr, cookingTime, difficulty)
	var batch aigen.RecipeBatch
	if err := s.client.GenerateJSON(ctx, s.cfg.AI.RecipeModel, prompt, &batch); err != nil {
		return nil, err
	}

	for i := range batch.Recipes {
		s.store(ctx, &batch.Recipes[i], ingredientsStr)
	}
	return batch.Recipes, nil
}

// DailyRecipe serves a stored recipe that has not been shown within the
// window, generating a fresh one when the store has no candidate. The
// served recipe's last_shown_at is stamped either way.
func (s *Service) DailyRecipe(ctx context.Context, daysNotShown int) (*aigen.RecipePayload, error) {
	if daysNotShown <= 0 {
		daysNotShown = s.cfg.DailyRecipe.NotShownDays
	}
	cutoff := time.Now().AddDate(0, 0, -daysNotShown)

	stored, err := s.generated.FindEligibleDaily(ctx, cutoff)
	if err == nil {
		if terr := s.generated.TouchLastShown(ctx, stored.ID, time.Now()); terr != nil {
			s.logger.Warn("failed to stamp daily recipe", zap.Error(terr))
		}
		return &stored.Payload, nil
	}
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		return nil, err
	}

	recent, rerr := s.generated.RecentNames(ctx, recentContextSize)
	if rerr != nil {
		recent = nil
	}
	var payload aigen.RecipePayload
	if err := s.client.GenerateJSON(ctx, s.cfg.AI.RecipeModel,
		recipePrompt(dailyRecipePrompt, nil, "", recent), &payload); err != nil {
		return nil, err
	}
	s.store(ctx, &payload, dailyRecipePrompt)

	if fp, ferr := aigen.Fingerprint(&payload); ferr == nil {
		if saved, lerr := s.generated.FindByFingerprint(ctx, fp); lerr == nil {
			if terr := s.generated.TouchLastShown(ctx, saved.ID, time.Now()); terr != nil {
				s.logger.Warn("failed to stamp daily recipe", zap.Error(terr))
			}
		}
	}
	return &payload, nil
}

// AdaptForDiet rewrites a recipe under dietary restrictions
func (s *Service) AdaptForDiet(ctx context.Context, src *aigen.RecipePayload, restrictions []string, extra string) (*aigen.RecipePayload, error) {
	if err := src.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if len(restrictions) == 0 {
		return nil, apperrors.NewValidationError("at least one dietary restriction is required")
	}
	var payload aigen.RecipePayload
	if err := s.client.GenerateJSON(ctx, s.cfg.AI.RecipeModel, adaptPrompt(src, restrictions, extra), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ReplaceIngredients rewrites a recipe using the given substitutions
func (s *Service) ReplaceIngredients(ctx context.Context, src *aigen.RecipePayload, replacements []Replacement, notes string) (*aigen.RecipePayload, error) {
	if err := src.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if len(replacements) == 0 {
		return nil, apperrors.NewValidationError("at least one replacement is required")
	}
	var payload aigen.RecipePayload
	if err := s.client.GenerateJSON(ctx, s.cfg.AI.RecipeModel, replacePrompt(src, replacements, notes), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// AdjustPortions scales a recipe to the target number of portions
func (s *Service) AdjustPortions(ctx context.Context, src *aigen.RecipePayload, targetPortions int) (*aigen.RecipePayload, error) {
	if err := src.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if targetPortions <= 0 {
		return nil, apperrors.NewValidationError("target_portions must be positive")
	}
	var payload aigen.RecipePayload
	if err := s.client.GenerateJSON(ctx, s.cfg.AI.RecipeModel, portionsPrompt(src, targetPortions), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// RecipeHistory generates origin story and facts for a recipe
func (s *Service) RecipeHistory(ctx context.Context, src *aigen.RecipePayload, extra string) (*aigen.RecipeHistory, error) {
	var out aigen.RecipeHistory
	if err := s.client.GenerateJSON(ctx, s.cfg.AI.RecipeModel, historyPrompt(src, extra), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DrinkPairings generates drink recommendations for a recipe
func (s *Service) DrinkPairings(ctx context.Context, src *aigen.RecipePayload, extra string) (*aigen.DrinkPairings, error) {
	var out aigen.DrinkPairings
	if err := s.client.GenerateJSON(ctx, s.cfg.AI.RecipeModel, drinkPairingsPrompt(src, extra), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChefAdvice generates professional cooking advice for a recipe
func (s *Service) ChefAdvice(ctx context.Context, src *aigen.RecipePayload, extra string) (*aigen.ChefAdvice, error) {
	var out aigen.ChefAdvice
	if err := s.client.GenerateJSON(ctx, s.cfg.AI.RecipeModel, chefAdvicePrompt(src, extra), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SEODescription generates SEO content for a recipe
func (s *Service) SEODescription(ctx context.Context, src *aigen.RecipePayload, extra string) (*aigen.SEODescription, error) {
	var out aigen.SEODescription
	if err := s.client.GenerateJSON(ctx, s.cfg.AI.RecipeModel, seoPrompt(src, extra), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AuthToken proxies credentials to the main backend
func (s *Service) AuthToken(ctx context.Context, email, password string) (string, error) {
	return s.backend.AuthToken(ctx, email, password)
}

// GenerateRandom runs the full cross-system flow: authenticate against
// the main backend, invent a dish name, generate the recipe and its
// image, register missing ingredients and publish the recipe.
func (s *Service) GenerateRandom(ctx context.Context, email, password string) (*aigen.RecipePayload, error) {
	token, err := s.backend.AuthToken(ctx, email, password)
	if err != nil {
		return nil, err
	}

	tags, err := s.backend.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, apperrors.NewExternalServiceError("backend", fmt.Errorf("no tags available"))
	}
	existing, err := s.backend.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}

	name, err := s.client.GenerateText(ctx, s.cfg.AI.TextModel, dishNamePrompt)
	if err != nil {
		return nil, err
	}
	payload, err := s.GenerateRecipe(ctx, strings.TrimSpace(name), nil, "")
	if err != nil {
		return nil, err
	}
	image, err := s.client.GenerateImage(ctx, s.cfg.AI.ImageModel, payload.ImageGenerationPrompt)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]recipe.Ingredient, len(existing))
	for _, ing := range existing {
		byName[strings.ToLower(ing.Name)] = ing
	}

	rec := &recipe.Recipe{
		Name:        payload.Name,
		Text:        payload.Description,
		Steps:       payload.Steps,
		CookingTime: payload.CookingTime,
		Difficulty:  recipe.Difficulty(payload.Difficulty),
		Tags:        []recipe.Tag{tags[0]},
		ImageURL:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(image),
	}
	for _, ing := range payload.Ingredients {
		catalogIng, ok := byName[strings.ToLower(ing.Name)]
		if !ok {
			created, err := s.backend.CreateIngredient(ctx, token, strings.ToLower(ing.Name), ing.Unit)
			if err != nil {
				return nil, err
			}
			catalogIng = *created
		}
		rec.Ingredients = append(rec.Ingredients, recipe.RecipeIngredient{
			Ingredient: catalogIng,
			Amount:     ing.Amount,
		})
	}

	if _, err := s.backend.CreateRecipe(ctx, token, rec); err != nil {
		return nil, err
	}
	s.logger.Info("random recipe published", zap.String("name", payload.Name))
	return payload, nil
}

// TelegramPosts generates channel posts from fetched recipes and comments
func (s *Service) TelegramPosts(ctx context.Context, email, password string, count int, includeRecipes, includeComments bool, maxLength int) ([]aigen.TelegramPost, error) {
	if count <= 0 {
		count = 1
	}
	if maxLength <= 0 {
		maxLength = 2500
	}

	if _, err := s.backend.AuthToken(ctx, email, password); err != nil {
		return nil, err
	}

	var recipesContext, commentsContext string
	if includeRecipes {
		recipes, err := s.backend.ListRecipes(ctx, 5)
		if err != nil {
			s.logger.Warn("failed to fetch recipes for posts", zap.Error(err))
		}
		lines := make([]string, 0, len(recipes))
		for _, r := range recipes {
			lines = append(lines, fmt.Sprintf("[%s] %s: %s", r.ID, r.Name, r.Text))
		}
		recipesContext = strings.Join(lines, "\n")

		if includeComments {
			var commentLines []string
			for _, r := range recipes {
				comments, err := s.backend.ListComments(ctx, r.ID.String())
				if err != nil {
					continue
				}
				for _, c := range comments {
					commentLines = append(commentLines, fmt.Sprintf("[%s] %s: %s", c.ID, c.AuthorName, c.Text))
				}
			}
			if len(commentLines) > 5 {
				commentLines = commentLines[:5]
			}
			commentsContext = strings.Join(commentLines, "\n")
		}
	}

	var batch aigen.TelegramPostBatch
	if err := s.client.GenerateJSON(ctx, s.cfg.AI.RecipeModel,
		telegramPrompt(count, maxLength, recipesContext, commentsContext), &batch); err != nil {
		return nil, err
	}
	return batch.Posts, nil
}

// store persists a generated payload under its fingerprint. A repeated
// fingerprint is not an error: the model reproduced a known recipe.
func (s *Service) store(ctx context.Context, payload *aigen.RecipePayload, prompt string) {
	fp, err := aigen.Fingerprint(payload)
	if err != nil {
		s.logger.Warn("failed to fingerprint generated recipe", zap.Error(err))
		return
	}
	rec := &outbound.GeneratedRecipe{
		Fingerprint: fp,
		Payload:     *payload,
		Prompt:      prompt,
	}
	if err := s.generated.Save(ctx, rec); err != nil {
		if apperrors.IsCode(err, apperrors.CodeConflict) {
			s.logger.Debug("generated recipe already stored", zap.String("fingerprint", rec.Fingerprint))
			return
		}
		s.logger.Warn("failed to store generated recipe", zap.Error(err))
	}
}
