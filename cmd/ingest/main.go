// Command ingest is the results synchronization CLI.
//
// Usage:
//
//	gdtracker sync
//	gdtracker sync --every 24h
//	gdtracker clean
//	gdtracker migrate up
//	gdtracker export
//	gdtracker tenures
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/gdtracker/internal/clean"
	"github.com/albapepper/gdtracker/internal/config"
	"github.com/albapepper/gdtracker/internal/dataset"
	"github.com/albapepper/gdtracker/internal/db"
	"github.com/albapepper/gdtracker/internal/ingest"
	"github.com/albapepper/gdtracker/internal/maintenance"
	"github.com/albapepper/gdtracker/internal/provider/fotmob"
	"github.com/albapepper/gdtracker/internal/tenure"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "gdtracker",
		Short:         "Manchester United post-Ferguson results tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(syncCmd())
	root.AddCommand(cleanCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(tenuresCmd())

	if err := root.Execute(); err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// sync command
// --------------------------------------------------------------------------

func syncCmd() *cobra.Command {
	var every time.Duration
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch new results from FotMob into the dataset",
		Long: "Bootstraps the dataset back to the cutoff when none exists, " +
			"otherwise appends matches played since the newest stored one.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				roster := tenure.Default()
				if err := roster.Validate(cfg.Cutoff); err != nil {
					return fmt.Errorf("tenure roster: %w", err)
				}

				h := fotmob.NewHandler(fotmob.Config{
					BaseURL:      cfg.BaseURL,
					UserAgent:    cfg.UserAgent,
					TeamID:       cfg.TeamID,
					TeamName:     cfg.TeamName,
					Cutoff:       cfg.Cutoff,
					RequestDelay: cfg.RequestDelay,
					Timeout:      cfg.HTTPTimeout,
				}, logger)
				store := dataset.NewFileStore(cfg.DataDir, cfg.DatasetName)
				syncer := ingest.NewSyncer(h, h, roster, store, logger)

				logger.Info("Starting sync",
					"team_id", cfg.TeamID,
					"cutoff", cfg.Cutoff.Format(time.DateOnly),
					"data_dir", cfg.DataDir,
					"delay", cfg.RequestDelay)

				return maintenance.Every(ctx, every, "sync", func(ctx context.Context) error {
					_, err := syncer.Run(ctx)
					logUpstreamRejection(logger, err)
					return err
				}, logger)
			})
		},
	}
	cmd.Flags().DurationVar(&every, "every", 0, "Repeat the sync on this interval until interrupted (0 runs once)")
	return cmd
}

// --------------------------------------------------------------------------
// clean command
// --------------------------------------------------------------------------

func cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Write the competitive results table with running goal difference",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				store := dataset.NewFileStore(cfg.DataDir, cfg.DatasetName)
				ds, err := store.Load()
				if err != nil {
					return err
				}

				rows, err := clean.Clean(ds)
				if err != nil {
					return err
				}

				path := filepath.Join(cfg.DataDir, config.CompetitiveDatasetFile)
				if err := clean.WriteFile(path, rows); err != nil {
					return err
				}
				logger.Info("Competitive results written",
					"path", path, "rows", len(rows), "dropped", ds.Len()-len(rows))
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrator(func(m *db.Migrator) error { return m.Up() })
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrator(func(m *db.Migrator) error { return m.Down(steps) })
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrator(func(m *db.Migrator) error {
				version, dirty, ok, err := m.Version()
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "version: none")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d\ndirty: %t\n", version, dirty)
				return nil
			})
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// export command
// --------------------------------------------------------------------------

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Mirror the latest dataset into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				store := dataset.NewFileStore(cfg.DataDir, cfg.DatasetName)
				ds, err := store.Load()
				if err != nil {
					return err
				}

				start := time.Now()
				n, err := pool.UpsertResults(ctx, ds.Rows())
				if err != nil {
					return err
				}
				total, err := pool.CountResults(ctx)
				if err != nil {
					return err
				}
				logger.Info("Results exported",
					"upserted", n, "table_rows", total,
					"duration", time.Since(start).Round(time.Millisecond))

				if err := maintenance.RefreshMaterializedViews(ctx, pool, logger); err != nil {
					return err
				}

				summaries, err := pool.ManagerSummaries(ctx)
				if err != nil {
					return err
				}
				for _, s := range summaries {
					logger.Info("Manager summary",
						"manager", s.Manager, "type", s.ManagerType,
						"played", s.Played, "gd", s.GoalDiff)
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// tenures command
// --------------------------------------------------------------------------

func tenuresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tenures",
		Short: "Print and validate the manager roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			roster := tenure.Default()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MANAGER\tTYPE\tFROM\tTO")
			for _, t := range roster.Sorted() {
				to := "-"
				if !t.Open() {
					to = t.To.Format(time.DateOnly)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Name, t.Type, t.From.Format(time.DateOnly), to)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			return roster.Validate(config.CutoffDate)
		},
	}
}

// --------------------------------------------------------------------------
// Shared helpers
// --------------------------------------------------------------------------

// run sets up signal handling and config, then calls fn.
func run(fn func(ctx context.Context, cfg *config.Config) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	return fn(ctx, cfg)
}

// runMigrator is run plus a schema migrator.
func runMigrator(fn func(m *db.Migrator) error) error {
	return run(func(ctx context.Context, cfg *config.Config) error {
		m, err := db.NewMigrator(cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer m.Close()

		return fn(m)
	})
}

// runWithDB is run plus a database pool.
func runWithDB(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	return run(func(ctx context.Context, cfg *config.Config) error {
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		return fn(ctx, cfg, pool)
	})
}

// logUpstreamRejection records which FotMob path refused a sync run and
// with what status, when err carries one.
func logUpstreamRejection(logger *slog.Logger, err error) bool {
	sErr, ok := fotmob.AsStatusError(err)
	if !ok {
		return false
	}
	logger.Error("FotMob request rejected", "path", sErr.Path, "status", sErr.StatusCode)
	return true
}
