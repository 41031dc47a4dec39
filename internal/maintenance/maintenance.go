// Package maintenance holds the post-export database hooks and the ticker
// that repeats synchronization when the ingest command runs as a daemon.
package maintenance

import (
	"context"
	"log/slog"
	"time"
)

// Task is one unit of scheduled work. Its error is logged, never fatal.
type Task func(ctx context.Context) error

// Every runs task once immediately, then on every tick of interval until
// ctx is cancelled. A zero interval runs the task once and returns its
// error.
func Every(ctx context.Context, interval time.Duration, name string, task Task, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		return task(ctx)
	}

	logger.Info("Scheduled task started", "task", name, "interval", interval)
	run(ctx, name, task, logger)

	t := time.NewTicker(interval)
	defer t.Stop()
	runLoop(ctx, t.C, func() { run(ctx, name, task, logger) })

	logger.Info("Scheduled task stopped", "task", name)
	return nil
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

func run(ctx context.Context, name string, task Task, logger *slog.Logger) {
	start := time.Now()
	err := task(ctx)
	dur := time.Since(start).Round(time.Millisecond)
	if err != nil {
		logger.Warn("Scheduled task failed", "task", name, "duration", dur, "error", err)
		return
	}
	logger.Info("Scheduled task finished", "task", name, "duration", dur)
}
