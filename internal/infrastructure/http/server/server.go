// Package server provides the JSON API HTTP server.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/photodish/v1/internal/application/persist"
	"github.com/photodish/v1/internal/application/session"
	"github.com/photodish/v1/internal/infrastructure/auth"
	"github.com/photodish/v1/internal/infrastructure/config"
	"github.com/photodish/v1/internal/infrastructure/http/handlers"
	"github.com/photodish/v1/internal/infrastructure/http/middleware"
	"github.com/photodish/v1/internal/infrastructure/monitoring"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server represents the API HTTP server.
type Server struct {
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server
	router    *chi.Mux
	sessions  *session.Service
	persister *persist.Gateway
	verifier  *auth.Verifier
	metrics   *monitoring.Metrics
}

// New creates a new API server instance.
func New(
	cfg *config.Config,
	log *zap.Logger,
	sessions *session.Service,
	persister *persist.Gateway,
	verifier *auth.Verifier,
	metrics *monitoring.Metrics,
) *Server {
	s := &Server{
		config:    cfg,
		logger:    log,
		sessions:  sessions,
		persister: persister,
		verifier:  verifier,
		metrics:   metrics,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// setupRoutes configures the JSON API routes.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.Metrics(s.metrics))
	r.Use(middleware.MaxBody(s.config.Server.MaxBodyBytes))

	// The write timeout is the outer bound; AI transforms get most of it.
	r.Use(chimiddleware.Timeout(s.config.Server.WriteTimeout))

	systemH := handlers.NewSystemAPIHandlers(s.config, s.logger)

	r.Get("/health", systemH.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		s.setupAPIV1Routes(r, systemH)
	})

	return r
}

// setupAPIV1Routes configures API v1 endpoints.
func (s *Server) setupAPIV1Routes(r chi.Router, systemH *handlers.SystemAPIHandlers) {
	sessionH := handlers.NewSessionAPIHandlers(s.sessions, s.logger)
	recipeH := handlers.NewRecipeAPIHandlers(s.persister, s.logger)

	r.Use(middleware.Identity(s.verifier, s.logger))

	r.Get("/features", systemH.Features)

	// Upload/generate session routes. Creating a session and generating a
	// recipe work signed-out; only saving requires an identity.
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", sessionH.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sessionH.GetSession)
			r.Put("/photo", sessionH.AttachPhoto)
			r.Post("/generate", sessionH.Generate)
			r.Post("/simplify", sessionH.Simplify)
			r.Post("/remix", sessionH.Remix)
			r.Get("/clipboard", sessionH.ClipboardText)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireIdentity())
				r.Post("/save", sessionH.SaveRecipe)
			})
		})
	})

	// Saved recipe routes.
	r.Route("/recipes", func(r chi.Router) {
		r.Use(middleware.RequireIdentity())
		r.Get("/", recipeH.ListRecipes)
	})

	// Navigation stubs for planned features.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireIdentity())
		r.Get("/pantry", systemH.ComingSoon("pantry"))
		r.Get("/flavor-profile", systemH.ComingSoon("flavor-profile"))
		r.Get("/tutor", systemH.ComingSoon("tutor"))
	})
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("Starting API server",
		zap.String("addr", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}
