// Package aiserver exposes the AI companion service over HTTP
package aiserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/foodgram/platform/internal/application/ai"
	"github.com/foodgram/platform/internal/application/qa"
	"github.com/foodgram/platform/internal/infrastructure/config"
	"github.com/foodgram/platform/internal/infrastructure/http/middleware"
)

// Server is the AI backend HTTP server
type Server struct {
	config     *config.Config
	logger     *zap.Logger
	httpServer *http.Server
}

// NewServer builds the AI router and the underlying http.Server
func NewServer(cfg *config.Config, logger *zap.Logger, h *Handlers) *Server {
	s := &Server{
		config: cfg,
		logger: logger.Named("aiserver"),
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.AIService.Port),
		Handler:      s.router(h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

func (s *Server) router(h *Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)
	r.Use(metrics.Handler)

	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Cross-system routes stay open: the main backend's credentials are
	// their own gate.
	r.Post("/api/v1/auth/token", h.AuthToken)
	r.Post("/api/v1/recipes/generate-random", h.GenerateRandom)

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKey(s.config.AIService.APIKey))

		r.Post("/generate", h.Generate)
		r.Post("/generate-image", h.GenerateImage)

		r.Route("/api/v1", func(r chi.Router) {
			r.Post("/recipes/generate-by-text", h.GenerateByText)
			r.Post("/recipes/generate-by-ingredients", h.GenerateByIngredients)
			r.Get("/recipes/daily-themed", h.DailyThemed)
			r.Post("/recipes/adapt", h.Adapt)
			r.Post("/recipes/replace-ingredients", h.ReplaceIngredients)
			r.Post("/recipes/adjust-portions", h.AdjustPortions)
			r.Post("/recipes/history", h.History)
			r.Post("/recipes/drink-pairings", h.DrinkPairings)
			r.Post("/recipes/chef-advice", h.ChefAdvice)
			r.Post("/recipes/seo-description", h.SEODescription)
			r.Post("/recipes/ask", h.Ask)
			r.Post("/telegram/generate-posts", h.TelegramPosts)
		})
	})

	return r
}

// Start begins serving requests. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting AI HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("ai http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down AI HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handlers bundles the AI and QA services behind the AI REST surface
type Handlers struct {
	ai      *ai.Service
	qa      *qa.Service
	appName string
	logger  *zap.Logger
}

// NewHandlers creates the AI handler set
func NewHandlers(aiSvc *ai.Service, qaSvc *qa.Service, cfg *config.Config, logger *zap.Logger) *Handlers {
	return &Handlers{
		ai:      aiSvc,
		qa:      qaSvc,
		appName: cfg.App.Name,
		logger:  logger.Named("ai-http"),
	}
}
