// Package user provides the application layer for accounts, login and the
// social graph.
package user

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/foodgram/platform/pkg/errors"
	"github.com/foodgram/platform/internal/domain/user"
	"github.com/foodgram/platform/internal/infrastructure/security"
	"github.com/foodgram/platform/internal/ports/inbound"
	"github.com/foodgram/platform/internal/ports/outbound"
)

// Service implements inbound.UserService
type Service struct {
	users      outbound.UserRepository
	recipes    outbound.RecipeRepository
	social     outbound.SocialRepository
	auth       *security.AuthService
	bcryptCost int
	logger     *zap.Logger
}

// NewService creates a new user service
func NewService(
	users outbound.UserRepository,
	recipes outbound.RecipeRepository,
	social outbound.SocialRepository,
	auth *security.AuthService,
	bcryptCost int,
	logger *zap.Logger,
) inbound.UserService {
	return &Service{
		users:      users,
		recipes:    recipes,
		social:     social,
		auth:       auth,
		bcryptCost: bcryptCost,
		logger:     logger.Named("user-service"),
	}
}

// Register creates an account. Email and username must be unique.
func (s *Service) Register(ctx context.Context, email, username, password string) (*uuid.UUID, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if email == "" || username == "" {
		return nil, apperrors.NewValidationError("email and username are required")
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters")
	}

	u := &user.User{
		Email:     email,
		Username:  username,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := u.SetPassword(password, s.bcryptCost); err != nil {
		return nil, apperrors.NewInternalError("failed to hash password")
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("username", username))
	return &u.ID, nil
}

// Login verifies credentials and returns a signed access token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return "", apperrors.NewUnauthorizedError("invalid credentials")
		}
		return "", err
	}
	if !u.IsActive {
		return "", apperrors.NewUnauthorizedError("account is disabled")
	}
	if !u.CheckPassword(password) {
		return "", apperrors.NewUnauthorizedError("invalid credentials")
	}
	return s.auth.GenerateAccessToken(u.ID, u.Email, u.Username)
}

// Profile loads an author page with recipes and audience stats
func (s *Service) Profile(ctx context.Context, username string, viewerID *uuid.UUID) (*inbound.Profile, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	recipes, total, err := s.recipes.List(ctx, outbound.RecipeFilter{AuthorID: &u.ID})
	if err != nil {
		return nil, err
	}
	subscribers, err := s.social.CountFollowers(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	profile := &inbound.Profile{
		UserID:       u.ID,
		Username:     u.Username,
		Recipes:      recipes,
		RecipesCount: total,
		Subscribers:  subscribers,
	}
	for _, r := range recipes {
		profile.TotalFavorites += r.FavoritesCount
		profile.TotalViews += r.ViewsCount
	}
	if viewerID != nil {
		subscribed, err := s.social.IsFollowing(ctx, *viewerID, u.ID)
		if err != nil {
			return nil, err
		}
		profile.IsSubscribed = subscribed
	}
	return profile, nil
}

// Subscribe follows an author. Self-follow is a validation error and a
// repeated pair is a conflict.
func (s *Service) Subscribe(ctx context.Context, followerID uuid.UUID, username string) error {
	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	follow := user.Follow{FollowerID: followerID, AuthorID: author.ID}
	if err := follow.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return s.social.Follow(ctx, followerID, author.ID)
}

// Unsubscribe removes a follow
func (s *Service) Unsubscribe(ctx context.Context, followerID uuid.UUID, username string) error {
	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.social.Unfollow(ctx, followerID, author.ID)
}
