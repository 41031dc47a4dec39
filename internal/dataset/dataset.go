// Package dataset holds the persisted result rows and their storage.
package dataset

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/albapepper/gdtracker/internal/provider"
)

var (
	// ErrNotFound is returned when no latest file exists yet.
	ErrNotFound = errors.New("dataset not found")
	// ErrDuplicate is returned when a match id is appended twice.
	ErrDuplicate = errors.New("duplicate match id")
)

// Row is one match result. Rows are values and are never changed after
// being appended.
type Row struct {
	MatchID      provider.MatchID `json:"match_id"`
	Competition  string           `json:"competition"`
	Date         time.Time        `json:"date"`
	Manager      string           `json:"manager"`
	ManagerType  string           `json:"manager_type"`
	Opponent     string           `json:"opponent"`
	Side         provider.Side    `json:"h_a"`
	GoalsFor     int              `json:"gf"`
	GoalsAgainst int              `json:"ga"`
	GoalDiff     int              `json:"gd"`
}

// Dataset is an append-only collection of rows keyed by match id.
type Dataset struct {
	rows  []Row
	index map[provider.MatchID]struct{}
}

// New returns a dataset seeded with rows. Duplicate ids are rejected.
func New(rows ...Row) (*Dataset, error) {
	d := &Dataset{index: make(map[provider.MatchID]struct{}, len(rows))}
	for _, r := range rows {
		if err := d.Append(r); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Append adds a row unless its match id is already present.
func (d *Dataset) Append(r Row) error {
	if d.index == nil {
		d.index = make(map[provider.MatchID]struct{})
	}
	if r.MatchID == "" {
		return fmt.Errorf("append row: empty match id")
	}
	if _, exists := d.index[r.MatchID]; exists {
		return fmt.Errorf("append match %s: %w", r.MatchID, ErrDuplicate)
	}
	d.index[r.MatchID] = struct{}{}
	d.rows = append(d.rows, r)
	return nil
}

// Contains reports whether id has been appended.
func (d *Dataset) Contains(id provider.MatchID) bool {
	_, ok := d.index[id]
	return ok
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Rows returns a copy sorted ascending by date. Rows sharing a date keep
// their append order.
func (d *Dataset) Rows() []Row {
	out := make([]Row, len(d.rows))
	copy(out, d.rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Newest returns the most recent row by date.
func (d *Dataset) Newest() (Row, bool) {
	if len(d.rows) == 0 {
		return Row{}, false
	}
	rows := d.Rows()
	return rows[len(rows)-1], true
}
