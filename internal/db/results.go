package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/gdtracker/internal/dataset"
)

// ManagerSummary is one row of the per-tenure goal difference view.
type ManagerSummary struct {
	Manager      string
	ManagerType  string
	FirstMatch   time.Time
	LastMatch    time.Time
	Played       int
	GoalsFor     int
	GoalsAgainst int
	GoalDiff     int
}

// UpsertResults writes every row in a single transaction. Either all rows
// land or none do.
func (p *Pool) UpsertResults(ctx context.Context, rows []dataset.Row) (int, error) {
	tx, err := p.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue("upsert_match_result", resultArgs(r)...)
	}
	br := tx.SendBatch(ctx, batch)
	for _, r := range rows {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("upsert match %s: %w", r.MatchID, err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(rows), nil
}

// CountResults returns how many rows the results table holds.
func (p *Pool) CountResults(ctx context.Context) (int, error) {
	var n int
	if err := p.QueryRow(ctx, "count_match_results").Scan(&n); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

// ManagerSummaries reads the per-tenure view, oldest tenure first.
func (p *Pool) ManagerSummaries(ctx context.Context) ([]ManagerSummary, error) {
	rows, err := p.Query(ctx, "manager_summary")
	if err != nil {
		return nil, fmt.Errorf("query manager summary: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (ManagerSummary, error) {
		var s ManagerSummary
		err := row.Scan(&s.Manager, &s.ManagerType, &s.FirstMatch, &s.LastMatch,
			&s.Played, &s.GoalsFor, &s.GoalsAgainst, &s.GoalDiff)
		return s, err
	})
}

// resultArgs orders a row's values for upsert_match_result.
func resultArgs(r dataset.Row) []any {
	return []any{
		string(r.MatchID),
		r.Competition,
		r.Date,
		r.Manager,
		r.ManagerType,
		r.Opponent,
		string(r.Side),
		r.GoalsFor,
		r.GoalsAgainst,
		r.GoalDiff,
	}
}
