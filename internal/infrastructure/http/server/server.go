// Package server wires the main backend's HTTP router and server
package server

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

	"github.com/foodgram/platform/internal/infrastructure/config"
	"github.com/foodgram/platform/internal/infrastructure/http/handlers"
	"github.com/foodgram/platform/internal/infrastructure/http/middleware"
	"github.com/foodgram/platform/internal/infrastructure/security"
)

// Server is the main backend HTTP server
type Server struct {
	config     *config.Config
	logger     *zap.Logger
	httpServer *http.Server
}

// NewServer builds the router and the underlying http.Server
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	h *handlers.Handlers,
	auth *security.AuthService,
) *Server {
	s := &Server{
		config: cfg,
		logger: logger.Named("server"),
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router(h, auth),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

func (s *Server) router(h *handlers.Handlers, auth *security.AuthService) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)
	r.Use(metrics.Handler)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", h.Register)
		r.Post("/auth/token", h.Token)
		r.Post("/auth/logout", h.Logout)

		r.Get("/tags", h.ListTags)
		r.Get("/ingredients", h.ListIngredients)

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(auth))
			r.Get("/recipes", h.ListRecipes)
			r.Get("/recipes/{id}", h.GetRecipe)
			r.Get("/recipes/{id}/comments", h.ListComments)
			r.Get("/users/{username}", h.Profile)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(auth))

			r.Post("/tags", h.CreateTag)
			r.Post("/ingredients", h.CreateIngredient)

			r.Post("/recipes", h.CreateRecipe)
			r.Patch("/recipes/{id}", h.UpdateRecipe)
			r.Delete("/recipes/{id}", h.DeleteRecipe)
			r.Get("/recipes/download_shopping_cart", h.DownloadShoppingCart)

			r.Post("/recipes/{id}/comments", h.AddComment)
			r.Delete("/recipes/{id}/comments/{commentID}", h.DeleteComment)

			r.Post("/recipes/{id}/favorite", h.Favorite)
			r.Delete("/recipes/{id}/favorite", h.Unfavorite)
			r.Post("/recipes/{id}/shopping_cart", h.AddToCart)
			r.Delete("/recipes/{id}/shopping_cart", h.RemoveFromCart)

			r.Post("/users/{username}/subscribe", h.Subscribe)
			r.Delete("/users/{username}/subscribe", h.Unsubscribe)
		})
	})

	return r
}

// Handler exposes the configured router
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving requests. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
