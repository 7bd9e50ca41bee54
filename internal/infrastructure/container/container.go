// Package container wires the dependency graph with Uber FX
package container

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	aiapp "github.com/foodgram/platform/internal/application/ai"
	"github.com/foodgram/platform/internal/application/catalog"
	"github.com/foodgram/platform/internal/application/qa"
	recipeapp "github.com/foodgram/platform/internal/application/recipe"
	"github.com/foodgram/platform/internal/application/shopping"
	userapp "github.com/foodgram/platform/internal/application/user"
	"github.com/foodgram/platform/internal/infrastructure/ai/gemini"
	"github.com/foodgram/platform/internal/infrastructure/backend"
	"github.com/foodgram/platform/internal/infrastructure/cache"
	"github.com/foodgram/platform/internal/infrastructure/config"
	"github.com/foodgram/platform/internal/infrastructure/http/aiserver"
	"github.com/foodgram/platform/internal/infrastructure/http/handlers"
	"github.com/foodgram/platform/internal/infrastructure/http/server"
	gormrepo "github.com/foodgram/platform/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/platform/internal/infrastructure/security"
	"github.com/foodgram/platform/internal/infrastructure/vector"
	"github.com/foodgram/platform/internal/ports/inbound"
	"github.com/foodgram/platform/internal/ports/outbound"
	"github.com/foodgram/platform/pkg/logger"
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides the zap logger
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the gorm connection
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		return gormrepo.Open(cfg, log)
	},
)

// CacheModule provides the Redis-backed byte cache
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
		return cache.NewRedisCache(&cfg.Redis, log)
	},
)

// RepositoryModule provides the gorm repositories
var RepositoryModule = fx.Provide(
	gormrepo.NewRecipeRepository,
	gormrepo.NewIngredientRepository,
	gormrepo.NewTagRepository,
	gormrepo.NewUserRepository,
	gormrepo.NewSocialRepository,
	gormrepo.NewGeneratedRecipeRepository,
)

// ServiceModule provides the application services of the main backend
var ServiceModule = fx.Provide(
	security.NewAuthService,
	recipeapp.NewService,
	catalog.NewService,
	func(
		users outbound.UserRepository,
		recipes outbound.RecipeRepository,
		social outbound.SocialRepository,
		auth *security.AuthService,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.UserService {
		return userapp.NewService(users, recipes, social, auth, cfg.Auth.BCryptCost, log)
	},
	func(social outbound.SocialRepository, c outbound.CacheRepository, cfg *config.Config, log *zap.Logger) *shopping.Service {
		return shopping.NewService(social, c, cfg.Cache.TTL, log)
	},
)

// HTTPModule provides the main backend's HTTP layer
var HTTPModule = fx.Provide(
	func(
		recipes inbound.RecipeService,
		cat inbound.CatalogService,
		users inbound.UserService,
		shoppingSvc *shopping.Service,
		c outbound.CacheRepository,
		cfg *config.Config,
		log *zap.Logger,
	) *handlers.Handlers {
		return handlers.New(recipes, cat, users, shoppingSvc, c, cfg.Cache.TTL, log)
	},
	server.NewServer,
)

// LifecycleModule starts and stops the main HTTP server
var LifecycleModule = fx.Invoke(
	func(lc fx.Lifecycle, srv *server.Server, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := srv.Start(); err != nil {
						log.Error("http server stopped", zap.Error(err))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
		})
	},
)

// Module is the dependency graph of the main backend
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// AIClientModule provides the Gemini client, vector index and the main
// backend client used by the AI service
var AIClientModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.AIClient {
		return gemini.NewClient(&cfg.AI, log)
	},
	func(cfg *config.Config, log *zap.Logger) outbound.VectorIndex {
		return vector.NewIndex(&cfg.Vector, log)
	},
	func(cfg *config.Config, log *zap.Logger) outbound.BackendClient {
		return backend.NewClient(&cfg.Backend, log)
	},
)

// AIServiceModule provides the AI application services
var AIServiceModule = fx.Provide(
	aiapp.NewService,
	qa.NewService,
)

// AIHTTPModule provides the AI backend's HTTP layer
var AIHTTPModule = fx.Provide(
	aiserver.NewHandlers,
	aiserver.NewServer,
)

// AILifecycleModule starts and stops the AI HTTP server
var AILifecycleModule = fx.Invoke(
	func(lc fx.Lifecycle, srv *aiserver.Server, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := srv.Start(); err != nil {
						log.Error("ai http server stopped", zap.Error(err))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
		})
	},
)

// AIModule is the dependency graph of the AI backend
var AIModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	AIClientModule,
	fx.Provide(gormrepo.NewGeneratedRecipeRepository),
	AIServiceModule,
	AIHTTPModule,
	AILifecycleModule,
)
