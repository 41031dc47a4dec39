package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/albapepper/gdtracker/internal/config"
)

// Execer is the subset of pgxpool.Pool the hooks need.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Views lists the materialized views built on the results table.
var Views = []string{
	config.ManagerSummaryView,
}

// RefreshMaterializedViews refreshes all materialized views after an export.
// Uses CONCURRENTLY so reads are not blocked during refresh.
func RefreshMaterializedViews(ctx context.Context, db Execer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for _, v := range Views {
		start := time.Now()
		_, err := db.Exec(ctx, fmt.Sprintf("REFRESH MATERIALIZED VIEW CONCURRENTLY %s", v))
		dur := time.Since(start).Round(time.Millisecond)

		if err != nil {
			logger.Warn("Failed to refresh materialized view",
				"view", v, "duration", dur, "error", err)
			return fmt.Errorf("refresh %s: %w", v, err)
		}
		logger.Info("Refreshed materialized view", "view", v, "duration", dur)
	}
	return nil
}
