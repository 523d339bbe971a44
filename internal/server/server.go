// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer. It connects handlers, middleware, and routes,
// and decides how the server starts and stops gracefully.
//
// DEPENDENCY INJECTION FLOW:
// main.go creates:
//
//	config.Config + *slog.Logger + repository.Store (sqlite or postgres)
//
// Server.New() then builds:
//
//	query.Builder (from the store's live columns) → service.NewsService → handler.NewsHandler
//
// This is the "composition root" pattern. Every dependency is wired in one
// place (New/setupRoutes) rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/news-api/internal/config"
	"github.com/sakif/news-api/internal/endpoints"
	"github.com/sakif/news-api/internal/handler"
	"github.com/sakif/news-api/internal/middleware"
	"github.com/sakif/news-api/internal/repository"
	"github.com/sakif/news-api/internal/service"
	"github.com/sakif/news-api/internal/validate"
)

var _ handler.NewsService = (*service.NewsService)(nil)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the store. When the server shuts down it closes the store,
// which flushes SQLite's WAL or drains the PostgreSQL pool.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	store  repository.Store
}

// New creates a Server around store.
//
// The sort allow-lists are read from the store's schema here, once. If the
// schema cannot be read the server refuses to start rather than serve
// listings it cannot validate.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, store repository.Store) (*Server, error) {
	builder, err := service.NewBuilder(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("building query allow-lists: %w", err)
	}

	source, err := endpoints.NewSource(cfg.EndpointsFile)
	if err != nil {
		return nil, fmt.Errorf("loading endpoints document: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	newsService := service.NewNewsService(store, builder, validate.New(), source, logger)
	s.setupRoutes(newsService)

	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET    /api                                   → endpoints document
// GET    /api/topics                            → list topics
// GET    /api/articles                          → list articles (?topic, sort_by, order)
// POST   /api/articles                          → post article
// GET    /api/articles/{article_id}             → one article with comment_count
// PATCH  /api/articles/{article_id}             → vote on article
// GET    /api/articles/{article_id}/comments    → list comments (?sort_by, order)
// POST   /api/articles/{article_id}/comments    → post comment
// PATCH  /api/comments/{comment_id}             → vote on comment
// DELETE /api/comments/{comment_id}             → delete comment
// GET    /api/users                             → list users
// GET    /api/users/{username}                  → one user
// GET    /healthz                               → database ping
// GET    /metrics                               → Prometheus scrape
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: assigns a unique ID to each request (for tracing)
// 2. RealIP: extracts the real client IP from proxy headers
// 3. Logger: logs each request with timing info and the request id
// 4. Metrics: counts requests per route pattern
// 5. Recoverer: catches panics and returns 500 instead of crashing
// 6. MaxBodyBytes: caps request bodies so oversized posts become 413
func (s *Server) setupRoutes(newsService *service.NewsService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Metrics)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.MaxBodyBytes(s.config.MaxBodyBytes))

	s.router.NotFound(handler.NotFound(s.logger))
	s.router.MethodNotAllowed(handler.MethodNotAllowed(s.logger))

	healthHandler := handler.NewHealthHandler(s.store, s.config.HealthTimeout, s.logger)
	s.router.Get("/healthz", healthHandler.HandleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	h := handler.NewNewsHandler(newsService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/", h.HandleEndpoints)
		r.Get("/topics", h.HandleListTopics)

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", h.HandleListArticles)
			r.Post("/", h.HandleAddArticle)
			r.Get("/{article_id}", h.HandleGetArticle)
			r.Patch("/{article_id}", h.HandleVoteArticle)
			r.Get("/{article_id}/comments", h.HandleListComments)
			r.Post("/{article_id}/comments", h.HandleAddComment)
		})

		r.Patch("/comments/{comment_id}", h.HandleVoteComment)
		r.Delete("/comments/{comment_id}", h.HandleDeleteComment)

		r.Get("/users", h.HandleListUsers)
		r.Get("/users/{username}", h.HandleGetUser)
	})
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (ShutdownTimeout)
// 3. Close the store
//
// The `defer s.store.Close()` ensures step 3 happens on every return path.
func (s *Server) Start() error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d/api", s.config.Port)),
			slog.String("driver", s.config.DBDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
