// Package recipe provides the application layer for recipe management
package recipe

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/foodgram/platform/pkg/errors"
	"github.com/foodgram/platform/internal/domain/recipe"
	"github.com/foodgram/platform/internal/ports/inbound"
	"github.com/foodgram/platform/internal/ports/outbound"
)

// Service implements inbound.RecipeService
type Service struct {
	recipes     outbound.RecipeRepository
	ingredients outbound.IngredientRepository
	tags        outbound.TagRepository
	social      outbound.SocialRepository
	users       outbound.UserRepository
	logger      *zap.Logger
}

// NewService creates a new recipe service
func NewService(
	recipes outbound.RecipeRepository,
	ingredients outbound.IngredientRepository,
	tags outbound.TagRepository,
	social outbound.SocialRepository,
	users outbound.UserRepository,
	logger *zap.Logger,
) inbound.RecipeService {
	return &Service{
		recipes:     recipes,
		ingredients: ingredients,
		tags:        tags,
		social:      social,
		users:       users,
		logger:      logger.Named("recipe-service"),
	}
}

// Create validates and persists a new recipe
func (s *Service) Create(ctx context.Context, cmd inbound.CreateRecipeCommand) (*recipe.Recipe, error) {
	rec, err := s.assemble(ctx, cmd.Name, cmd.Text, cmd.Steps, cmd.CookingTime,
		cmd.Difficulty, cmd.TagIDs, cmd.Ingredients, cmd.ImageURL)
	if err != nil {
		return nil, err
	}
	rec.AuthorID = cmd.AuthorID

	author, err := s.users.FindByID(ctx, cmd.AuthorID)
	if err != nil {
		return nil, err
	}
	rec.AuthorName = author.Username

	if err := s.recipes.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.logger.Info("recipe created",
		zap.String("recipe_id", rec.ID.String()),
		zap.String("author", rec.AuthorName),
	)
	return rec, nil
}

// Update replaces a recipe's content. Only the author may update it.
func (s *Service) Update(ctx context.Context, cmd inbound.UpdateRecipeCommand) (*recipe.Recipe, error) {
	existing, err := s.recipes.FindByID(ctx, cmd.RecipeID)
	if err != nil {
		return nil, err
	}
	if existing.AuthorID != cmd.ActorID {
		return nil, apperrors.NewForbiddenError("only the author can update a recipe")
	}

	rec, err := s.assemble(ctx, cmd.Name, cmd.Text, cmd.Steps, cmd.CookingTime,
		cmd.Difficulty, cmd.TagIDs, cmd.Ingredients, cmd.ImageURL)
	if err != nil {
		return nil, err
	}
	rec.ID = cmd.RecipeID
	rec.AuthorID = existing.AuthorID
	rec.AuthorName = existing.AuthorName

	if err := s.recipes.Update(ctx, rec); err != nil {
		return nil, err
	}
	return s.recipes.FindByID(ctx, cmd.RecipeID)
}

// Delete removes a recipe. Only the author may delete it.
func (s *Service) Delete(ctx context.Context, recipeID, actorID uuid.UUID) error {
	existing, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if existing.AuthorID != actorID {
		return apperrors.NewForbiddenError("only the author can delete a recipe")
	}
	return s.recipes.Delete(ctx, recipeID)
}

// Get loads a recipe and counts the view
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	rec, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.recipes.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("failed to count view", zap.String("recipe_id", id.String()), zap.Error(err))
	} else {
		rec.ViewsCount++
	}
	return rec, nil
}

// List returns recipes matching the filter with the total count
func (s *Service) List(ctx context.Context, filter outbound.RecipeFilter) ([]*recipe.Recipe, int, error) {
	return s.recipes.List(ctx, filter)
}

// Favorite marks a recipe as favorited. Repeating the same pair conflicts.
func (s *Service) Favorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.recipes.FindByID(ctx, recipeID); err != nil {
		return err
	}
	return s.social.AddFavorite(ctx, userID, recipeID)
}

// Unfavorite removes a favorite mark
func (s *Service) Unfavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.social.RemoveFavorite(ctx, userID, recipeID)
}

// AddToCart puts a recipe in the user's shopping cart
func (s *Service) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.recipes.FindByID(ctx, recipeID); err != nil {
		return err
	}
	return s.social.AddToCart(ctx, userID, recipeID)
}

// RemoveFromCart takes a recipe out of the user's shopping cart
func (s *Service) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.social.RemoveFromCart(ctx, userID, recipeID)
}

// AddComment attaches a comment to a recipe
func (s *Service) AddComment(ctx context.Context, recipeID, authorID uuid.UUID, text string) (*recipe.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment text must not be empty")
	}
	if _, err := s.recipes.FindByID(ctx, recipeID); err != nil {
		return nil, err
	}
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	comment := &recipe.Comment{
		RecipeID:   recipeID,
		AuthorID:   authorID,
		AuthorName: author.Username,
		Text:       text,
		CreatedAt:  time.Now(),
	}
	if err := s.social.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment. Only its author may delete it.
func (s *Service) DeleteComment(ctx context.Context, commentID, actorID uuid.UUID) error {
	comment, err := s.social.FindCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != actorID {
		return apperrors.NewForbiddenError("only the author can delete a comment")
	}
	return s.social.DeleteComment(ctx, commentID)
}

// ListComments returns a recipe's comments, oldest first
func (s *Service) ListComments(ctx context.Context, recipeID uuid.UUID) ([]*recipe.Comment, error) {
	if _, err := s.recipes.FindByID(ctx, recipeID); err != nil {
		return nil, err
	}
	return s.social.ListComments(ctx, recipeID)
}

// assemble resolves tag and ingredient references and validates the
// resulting recipe.
func (s *Service) assemble(
	ctx context.Context,
	name, text string,
	steps []string,
	cookingTime int,
	difficulty string,
	tagIDs []uuid.UUID,
	ingredients []inbound.IngredientInput,
	imageURL string,
) (*recipe.Recipe, error) {
	diff, err := recipe.ParseDifficulty(difficulty)
	if err != nil {
		return nil, apperrors.NewValidationError("difficulty must be easy, medium or hard")
	}

	rec := &recipe.Recipe{
		Name:        strings.TrimSpace(name),
		Text:        text,
		Steps:       steps,
		CookingTime: cookingTime,
		Difficulty:  diff,
		ImageURL:    imageURL,
	}

	seen := make(map[uuid.UUID]bool, len(ingredients))
	for _, in := range ingredients {
		if seen[in.IngredientID] {
			return nil, apperrors.NewValidationError("duplicate ingredient in recipe")
		}
		seen[in.IngredientID] = true
		ing, err := s.ingredients.FindByID(ctx, in.IngredientID)
		if err != nil {
			return nil, err
		}
		rec.Ingredients = append(rec.Ingredients, recipe.RecipeIngredient{
			Ingredient: *ing,
			Amount:     in.Amount,
		})
	}
	for _, id := range tagIDs {
		tag, err := s.tags.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		rec.Tags = append(rec.Tags, *tag)
	}

	if err := rec.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	return rec, nil
}
