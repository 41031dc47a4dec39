package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/gdtracker/internal/dataset"
	"github.com/albapepper/gdtracker/internal/provider"
	"github.com/albapepper/gdtracker/internal/tenure"
)

var (
	// ErrNoAnchor means the current season had no played fixture to page
	// backward from.
	ErrNoAnchor = errors.New("no played fixture in current season")
	// ErrUnattributed means a match date fell outside every tenure.
	ErrUnattributed = errors.New("no manager tenure covers match date")
	// ErrBackfillIncomplete means backward paging ran out before reaching
	// the cutoff.
	ErrBackfillIncomplete = errors.New("backward paging ended before cutoff")
)

// FixtureSource pages through the club's fixture list.
type FixtureSource interface {
	CurrentSeason(ctx context.Context) (provider.Page, error)
	Before(ctx context.Context, cursor provider.MatchID) (provider.Page, error)
	After(ctx context.Context, cursor provider.MatchID) (provider.Page, error)
}

// GoalSource fetches goal detail for a single match.
type GoalSource interface {
	MatchGoals(ctx context.Context, id provider.MatchID) (provider.MatchGoals, error)
}

// Resolver attributes a date to a manager tenure.
type Resolver interface {
	Resolve(date time.Time) (tenure.Tenure, bool)
}

// Store loads and persists the dataset.
type Store interface {
	Load() (*dataset.Dataset, error)
	Save(ds *dataset.Dataset, at time.Time) (string, error)
}

// Syncer drives a synchronization run. It is not safe for concurrent use;
// one run owns its dataset until it persists or fails.
type Syncer struct {
	fixtures FixtureSource
	goals    GoalSource
	resolver Resolver
	store    Store
	now      func() time.Time
	logger   *slog.Logger
}

// NewSyncer wires the run's collaborators.
func NewSyncer(fixtures FixtureSource, goals GoalSource, resolver Resolver, store Store, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		fixtures: fixtures,
		goals:    goals,
		resolver: resolver,
		store:    store,
		now:      time.Now,
		logger:   logger,
	}
}

// Run bootstraps when no dataset exists yet, otherwise appends what is new
// since the newest stored match. Any error aborts the run before anything
// is written.
func (s *Syncer) Run(ctx context.Context) (Result, error) {
	start := time.Now()

	ds, err := s.store.Load()
	var result Result
	switch {
	case errors.Is(err, dataset.ErrNotFound):
		result, err = s.Bootstrap(ctx)
	case err != nil:
		return Result{}, fmt.Errorf("load latest dataset: %w", err)
	default:
		result, err = s.Incremental(ctx, ds)
	}
	result.Duration = time.Since(start)
	if err != nil {
		return result, err
	}

	s.logger.Info("Sync complete", "summary", result.Summary())
	return result, nil
}

// Bootstrap walks backward from the current season to the cutoff and
// persists the complete dataset. Nothing is persisted unless the cutoff is
// reached.
func (s *Syncer) Bootstrap(ctx context.Context) (Result, error) {
	result := Result{Mode: ModeBootstrap}
	ds, _ := dataset.New()

	s.logger.Info("Phase 1/2: Fetching current season...")
	page, err := s.fixtures.CurrentSeason(ctx)
	if err != nil {
		return result, err
	}
	result.PagesFetched++
	if err := s.enrich(ctx, ds, page, &result); err != nil {
		return result, err
	}
	cursor, ok := page.Oldest()
	if !ok {
		return result, ErrNoAnchor
	}
	s.logger.Info("Current season done", "count", len(page.Fixtures), "oldest", cursor)

	s.logger.Info("Phase 2/2: Paging back to cutoff...", "cursor", cursor)
	for {
		page, err := s.fixtures.Before(ctx, cursor)
		if err != nil {
			return result, err
		}
		result.PagesFetched++
		if err := s.enrich(ctx, ds, page, &result); err != nil {
			return result, err
		}
		next, more, err := continueBackward(page, cursor)
		if err != nil {
			s.logger.Error("Backward paging stopped before cutoff", "cursor", cursor, "rows", ds.Len())
			return result, err
		}
		if !more {
			break
		}
		cursor = next
		if result.PagesFetched%10 == 0 {
			s.logger.Info("Backward progress", "pages", result.PagesFetched, "rows", ds.Len(), "cursor", cursor)
		}
	}

	return result, s.persist(ds, &result)
}

// Incremental walks forward from the newest stored match and persists only
// when new rows were added.
func (s *Syncer) Incremental(ctx context.Context, ds *dataset.Dataset) (Result, error) {
	result := Result{Mode: ModeIncremental, TotalRows: ds.Len()}

	newest, ok := ds.Newest()
	if !ok {
		return s.Bootstrap(ctx)
	}
	cursor := newest.MatchID
	s.logger.Info("Fetching fixtures after newest stored match",
		"cursor", cursor, "date", newest.Date.Format(time.DateOnly), "rows", ds.Len())

	for {
		page, err := s.fixtures.After(ctx, cursor)
		if err != nil {
			return result, err
		}
		result.PagesFetched++
		if err := s.enrich(ctx, ds, page, &result); err != nil {
			return result, err
		}
		next, more := continueForward(page, cursor)
		if !more {
			break
		}
		cursor = next
	}

	if result.RowsAdded == 0 {
		result.TotalRows = ds.Len()
		s.logger.Info("No new data. Data files not updated.")
		return result, nil
	}
	return result, s.persist(ds, &result)
}

// enrich turns every unseen fixture of a page into a row.
func (s *Syncer) enrich(ctx context.Context, ds *dataset.Dataset, page provider.Page, result *Result) error {
	for _, f := range page.Fixtures {
		result.FixturesSeen++
		if ds.Contains(f.ID) {
			result.DuplicatesSkipped++
			continue
		}
		row, err := s.buildRow(ctx, f)
		if err != nil {
			return err
		}
		if err := ds.Append(row); err != nil {
			return err
		}
		result.RowsAdded++
	}
	return nil
}

// buildRow fetches goal detail, orients the score and attributes the
// manager.
func (s *Syncer) buildRow(ctx context.Context, f provider.Fixture) (dataset.Row, error) {
	goals, err := s.goals.MatchGoals(ctx, f.ID)
	if err != nil {
		return dataset.Row{}, err
	}
	gf, ga := goals.Score(f.Side)

	t, ok := s.resolver.Resolve(f.Date)
	if !ok {
		s.logger.Error("Match outside every tenure", "match_id", f.ID, "date", f.Date.Format(time.DateOnly))
		return dataset.Row{}, fmt.Errorf("match %s on %s: %w", f.ID, f.Date.Format(time.DateOnly), ErrUnattributed)
	}

	return dataset.Row{
		MatchID:      f.ID,
		Competition:  f.Competition,
		Date:         f.Date,
		Manager:      t.Name,
		ManagerType:  string(t.Type),
		Opponent:     f.Opponent,
		Side:         f.Side,
		GoalsFor:     gf,
		GoalsAgainst: ga,
		GoalDiff:     gf - ga,
	}, nil
}

func (s *Syncer) persist(ds *dataset.Dataset, result *Result) error {
	path, err := s.store.Save(ds, s.now())
	if err != nil {
		return fmt.Errorf("persist dataset: %w", err)
	}
	result.Persisted = true
	result.SnapshotPath = path
	result.TotalRows = ds.Len()
	s.logger.Info("Dataset written", "snapshot", path, "rows", ds.Len())
	return nil
}
