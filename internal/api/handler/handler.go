// Package handler provides HTTP handlers for all API endpoints.
// Handlers read the latest dataset from disk, render JSON once and serve it
// from the in-memory cache until the TTL expires.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/gdtracker/internal/api/respond"
	"github.com/albapepper/gdtracker/internal/cache"
	"github.com/albapepper/gdtracker/internal/config"
	"github.com/albapepper/gdtracker/internal/dataset"
	"github.com/albapepper/gdtracker/internal/tenure"
)

// DatasetLoader reads the latest synchronized dataset. Modified reports
// when that dataset was last rewritten and versions the cache keys.
type DatasetLoader interface {
	Load() (*dataset.Dataset, error)
	Modified() (time.Time, error)
}

// Pinger reports database reachability.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	store  DatasetLoader
	roster tenure.Roster
	db     Pinger
	cache  *cache.Cache
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a Handler with shared dependencies. db may be nil when no
// database is configured.
func New(store DatasetLoader, roster tenure.Roster, db Pinger, c *cache.Cache, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  store,
		roster: roster,
		db:     db,
		cache:  c,
		cfg:    cfg,
		logger: logger,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status and the tracked club.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.Object(w, http.StatusOK, map[string]interface{}{
		"name":    "Goal Difference Tracker API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"team":    h.cfg.TeamName,
		"since":   h.cfg.Cutoff.Format(time.DateOnly),
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.Object(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity when DATABASE_URL is set.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.Object(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "not_configured",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.Object(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.Object(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.Object(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// serveCached answers from the cache when possible, otherwise renders via
// build and caches the result. Keys carry the latest file's modification
// time so a sync run from another process retires older entries.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, build func() (interface{}, error)) {
	modified, err := h.store.Modified()
	if err != nil {
		h.writeBuildError(w, r, key, err)
		return
	}
	key = fmt.Sprintf("%s@%d", key, modified.UnixNano())

	if data, etag, ok := h.cache.Get(key); ok {
		respond.Cached(w, r, respond.Payload{Data: data, ETag: etag, TTL: ttl, Hit: true})
		return
	}

	v, err := build()
	if err != nil {
		h.writeBuildError(w, r, key, err)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		h.writeBuildError(w, r, key, err)
		return
	}

	etag := h.cache.Set(key, data, ttl)
	respond.Cached(w, r, respond.Payload{Data: data, ETag: etag, TTL: ttl})
}

func (h *Handler) writeBuildError(w http.ResponseWriter, r *http.Request, key string, err error) {
	if errors.Is(err, dataset.ErrNotFound) {
		respond.Error(w, r, http.StatusNotFound, "NO_DATASET", "No results have been synchronized yet")
		return
	}
	h.logger.Error("Failed to build response", "key", key, "error", err)
	respond.ErrorDetail(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build response", err.Error())
}
