// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

/*
Package api is the composition root of the Critika HTTP server.

It wires repositories, services, and handlers together, assembles the
middleware chain, and mounts every route under /api/v1.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/critikahq/critika/internal/catalog/category"
	"github.com/critikahq/critika/internal/catalog/genre"
	"github.com/critikahq/critika/internal/catalog/title"
	"github.com/critikahq/critika/internal/platform/config"
	"github.com/critikahq/critika/internal/platform/constants"
	"github.com/critikahq/critika/internal/platform/email"
	"github.com/critikahq/critika/internal/platform/middleware"
	"github.com/critikahq/critika/internal/platform/sec"
	"github.com/critikahq/critika/internal/review"
	"github.com/critikahq/critika/internal/users/account"
	"github.com/critikahq/critika/internal/users/auth"
)

// Server bundles everything the HTTP entrypoint needs.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	router chi.Router

	db    *pgxpool.Pool
	redis *redis.Client
}

// NewServer wires the full application graph and returns a ready server.
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger,
	db *pgxpool.Pool, redisClient *redis.Client,
	tokens *sec.TokenService, mailer email.Mailer) *Server {

	// Repositories
	categoryRepo := category.NewPostgresRepository(db)
	genreRepo := genre.NewPostgresRepository(db)
	titleRepo := title.NewPostgresRepository(db)
	reviewRepo := review.NewPostgresRepository(db)
	accountRepo := account.NewPostgresRepository(db)
	codeRepo := auth.NewRedisCodeRepository(redisClient)

	// Services
	categoryService := category.NewService(categoryRepo)
	genreService := genre.NewService(genreRepo)
	titleService := title.NewService(titleRepo, categoryService, genreService)
	reviewService := review.NewService(reviewRepo)
	accountService := account.NewService(accountRepo)
	authService := auth.NewService(accountRepo, codeRepo, tokens, mailer, logger)

	// Handlers
	categoryHandler := category.NewHandler(categoryService)
	genreHandler := genre.NewHandler(genreService)
	titleHandler := title.NewHandler(titleService)
	reviewHandler := review.NewHandler(reviewService)
	accountHandler := account.NewHandler(accountService)
	authHandler := auth.NewHandler(authService)

	server := &Server{cfg: cfg, logger: logger, db: db, redis: redisClient}

	router := chi.NewRouter()

	// Middleware chain: ordering matters. Request identity and logging come
	// first so every later failure is correlated; authentication precedes
	// routing so route guards can read the claims.
	router.Use(chimiddleware.CleanPath)
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(logger))
	router.Use(chimiddleware.Timeout(constants.GlobalRequestTimeout))
	router.Use(middleware.RateLimit(ctx))
	router.Use(middleware.PanicRecovery(logger))
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.Authenticate(tokens))

	router.Get("/health", server.health)
	router.Get("/ready", server.ready)

	router.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", authHandler.Routes())
		api.Mount("/categories", categoryHandler.Routes())
		api.Mount("/genres", genreHandler.Routes())
		api.Mount("/users", accountHandler.Routes())

		api.Route("/titles", func(r chi.Router) {
			titleHandler.Register(r)
			r.Route("/{titleID}/reviews", reviewHandler.Register)
		})
	})

	server.router = router
	return server
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}
