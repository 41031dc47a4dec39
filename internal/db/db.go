// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/gdtracker/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// statements lists every named statement the export path uses.
func statements() map[string]string {
	return map[string]string{
		"health_check": "SELECT 1",

		"upsert_match_result": `
			INSERT INTO ` + config.ResultsTable + ` (
				match_id, competition, match_date, manager, manager_type,
				opponent, h_a, gf, ga, gd
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			ON CONFLICT (match_id) DO UPDATE SET
				competition = EXCLUDED.competition,
				match_date = EXCLUDED.match_date,
				manager = EXCLUDED.manager,
				manager_type = EXCLUDED.manager_type,
				opponent = EXCLUDED.opponent,
				h_a = EXCLUDED.h_a,
				gf = EXCLUDED.gf,
				ga = EXCLUDED.ga,
				gd = EXCLUDED.gd,
				updated_at = NOW()`,

		"count_match_results": "SELECT count(*) FROM " + config.ResultsTable,

		"manager_summary": `
			SELECT manager, manager_type, first_match, last_match, played, gf, ga, gd
			FROM ` + config.ManagerSummaryView + `
			ORDER BY first_match`,
	}
}

func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	for name, sql := range statements() {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
