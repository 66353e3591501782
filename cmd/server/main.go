package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ayusharma/vitaltrack/internal/auth"
	"github.com/ayusharma/vitaltrack/internal/config"
	"github.com/ayusharma/vitaltrack/internal/logging"
	"github.com/ayusharma/vitaltrack/internal/repository"
	"github.com/ayusharma/vitaltrack/internal/server"
	"github.com/ayusharma/vitaltrack/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	db, err := repository.Open(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err, "path", cfg.DB.Path)
		os.Exit(1)
	}

	repo := repository.New(db)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	accounts := service.NewAccountService(repo, tokens, cfg.Auth.BcryptCost)
	tracker := service.NewTrackerService(repo)
	insights := service.NewInsightService(repo)
	analytics := service.NewAnalyticsService(repo)

	apiHandlers := server.NewAPIHandlers(logger, accounts, tracker, insights, analytics)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.DatabaseHealthService{DB: repo},
		API:              apiHandlers,
		Tokens:           tokens,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
