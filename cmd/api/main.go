// Command api serves the synchronized results over HTTP.
//
// Usage:
//
//	gdtracker-api
//	API_PORT=8080 DATA_DIR=/var/lib/gdtracker gdtracker-api

// @title Goal Difference Tracker API
// @version 1.0.0
// @description Serves Manchester United results since 2013-07-01 with the manager in charge, goal difference per match and running totals per tenure.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name albapepper
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/gdtracker/internal/api"
	"github.com/albapepper/gdtracker/internal/cache"
	"github.com/albapepper/gdtracker/internal/config"
	"github.com/albapepper/gdtracker/internal/dataset"
	"github.com/albapepper/gdtracker/internal/db"
	"github.com/albapepper/gdtracker/internal/tenure"

	_ "github.com/albapepper/gdtracker/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	roster := tenure.Default()
	if err := roster.Validate(cfg.Cutoff); err != nil {
		logger.Error("Invalid tenure roster", "error", err)
		os.Exit(1)
	}

	deps := api.Deps{
		Store:  dataset.NewFileStore(cfg.DataDir, cfg.DatasetName),
		Roster: roster,
		Logger: logger,
	}

	// The database only backs /health/db; results are served from files.
	if cfg.DatabaseURL != "" {
		logger.Info("Connecting to database...")
		pool, err := db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		deps.DB = pool
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
	}

	appCache := cache.New(cfg.CacheEnabled)
	defer appCache.Close()
	deps.Cache = appCache
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	router := api.NewRouter(deps, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting Goal Difference Tracker API",
			"addr", addr,
			"environment", cfg.Environment,
			"data_dir", cfg.DataDir,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
