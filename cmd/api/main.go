// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

// Command api runs the Critika HTTP API server.
//
// Startup order: logger, config, postgres, redis, migrations, token keys,
// mailer, then the HTTP server. Any failure before the listener starts is
// fatal. SIGINT/SIGTERM trigger a graceful drain.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/critikahq/critika/internal/api"
	"github.com/critikahq/critika/internal/platform/config"
	"github.com/critikahq/critika/internal/platform/constants"
	"github.com/critikahq/critika/internal/platform/email"
	"github.com/critikahq/critika/internal/platform/migration"
	"github.com/critikahq/critika/internal/platform/postgres"
	"github.com/critikahq/critika/internal/platform/redis"
	"github.com/critikahq/critika/internal/platform/sec"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Structured JSON logging from the first line onward.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With(slog.String("app", constants.AppName))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	must(logger, "load config", err)

	if cfg.Debug {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})).With(slog.String("app", constants.AppName))
		slog.SetDefault(logger)
	}

	db, err := postgres.NewPool(ctx, cfg.DatabaseURL, logger)
	must(logger, "connect postgres", err)
	defer db.Close()

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, logger)
	must(logger, "connect redis", err)
	defer redisClient.Close()

	must(logger, "run migrations", migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger))

	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(logger, "load token keys", err)

	var mailer email.Mailer
	if cfg.SMTPConfigured() {
		mailer = email.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	} else {
		if cfg.IsProduction() {
			must(logger, "configure mailer", errors.New("SMTP_HOST is required in production"))
		}
		logger.Warn("smtp not configured, logging confirmation codes instead")
		mailer = email.NewLogMailer(logger)
	}

	server := api.NewServer(ctx, cfg, logger, db, redisClient, tokens, mailer)

	httpServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           server.Handler(),
		ReadTimeout:       constants.DefaultReadTimeout,
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		WriteTimeout:      constants.DefaultWriteTimeout,
		IdleTimeout:       constants.DefaultIdleTimeout,
	}

	go func() {
		logger.Info("server listening",
			slog.String("addr", httpServer.Addr),
			slog.String("environment", cfg.Environment))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("shutdown requested, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown incomplete", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}

// must aborts startup on an unrecoverable initialization error.
func must(logger *slog.Logger, step string, err error) {
	if err != nil {
		logger.Error("startup failed", slog.String("step", step), slog.String("error", err.Error()))
		os.Exit(1)
	}
}
