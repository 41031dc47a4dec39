// Package ingest synchronizes the club's match results from the upstream
// fixture feed into the persisted dataset.
package ingest

import (
	"fmt"
	"time"
)

// Mode is how a run walked the fixture list.
type Mode string

const (
	ModeBootstrap   Mode = "bootstrap"
	ModeIncremental Mode = "incremental"
)

// Result tracks counts from a synchronization run.
type Result struct {
	Mode              Mode
	PagesFetched      int
	FixturesSeen      int
	RowsAdded         int
	DuplicatesSkipped int
	TotalRows         int
	Persisted         bool
	SnapshotPath      string
	Duration          time.Duration
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"mode=%s pages=%d fixtures=%d added=%d skipped=%d total=%d persisted=%v dur=%s",
		r.Mode, r.PagesFetched, r.FixturesSeen, r.RowsAdded,
		r.DuplicatesSkipped, r.TotalRows, r.Persisted,
		r.Duration.Round(time.Millisecond),
	)
}
