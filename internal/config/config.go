// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// --------------------------------------------------------------------------
// Deployment constants, fixed for this club
// --------------------------------------------------------------------------

const (
	// TeamID is the FotMob identifier for Manchester United.
	TeamID = "10260"
	// TeamName is how FotMob labels the club in fixture payloads.
	TeamName = "Man United"

	BaseURL   = "https://www.fotmob.com/api/data/"
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:147.0) Gecko/20100101 Firefox/147.0"

	// DatasetName prefixes every file written to DataDir.
	DatasetName = "united_results_post_ferguson"
	// CompetitiveDatasetFile is the output of the cleaning step.
	CompetitiveDatasetFile = "united_competitive_results_post_ferguson.csv"
)

// CutoffDate is the first day of the post-Ferguson era. Nothing earlier is
// collected.
var CutoffDate = time.Date(2013, time.July, 1, 0, 0, 0, 0, time.UTC)

// --------------------------------------------------------------------------
// Table names, matching internal/db/migrations
// --------------------------------------------------------------------------

const (
	ResultsTable        = "match_results"
	ManagerSummaryView  = "mv_manager_goal_difference"
	DefaultRequestDelay = time.Second
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Upstream
	TeamID       string `validate:"required,numeric"`
	TeamName     string `validate:"required"`
	BaseURL      string `validate:"required,url"`
	UserAgent    string `validate:"required"`
	Cutoff       time.Time
	RequestDelay time.Duration
	HTTPTimeout  time.Duration

	// Storage
	DataDir     string `validate:"required"`
	DatasetName string `validate:"required"`

	// Database (optional, export only)
	DatabaseURL    string `validate:"omitempty,url"`
	DBPoolMinConns int    `validate:"gte=0"`
	DBPoolMaxConns int    `validate:"gte=1,gtefield=DBPoolMinConns"`
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int    `validate:"min=1,max=65535"`
	Environment string `validate:"oneof=development staging production"`

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int `validate:"gte=1"`
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	delay := envDuration("REQUEST_DELAY_MS", DefaultRequestDelay, time.Millisecond)
	if delay < 0 {
		return nil, fmt.Errorf("REQUEST_DELAY_MS must not be negative")
	}

	cfg := &Config{
		TeamID:       TeamID,
		TeamName:     TeamName,
		BaseURL:      envOr("FOTMOB_BASE_URL", BaseURL),
		UserAgent:    UserAgent,
		Cutoff:       CutoffDate,
		RequestDelay: delay,
		HTTPTimeout:  envDuration("HTTP_TIMEOUT_SECONDS", 30*time.Second, time.Second),

		DataDir:     envOr("DATA_DIR", "./data"),
		DatasetName: DatasetName,

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8080",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

// envDuration reads an integer count of unit.
func envDuration(key string, fallback, unit time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * unit
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
