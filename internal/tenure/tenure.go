// Package tenure attributes match dates to the manager in charge.
//
// The roster is a hand-maintained list of non-overlapping date ranges.
// Lookups scan it in order and the first range containing the date wins,
// so Validate should pass before the roster is used for a sync.
package tenure

import (
	"fmt"
	"sort"
	"time"
)

// Type describes how formal an appointment was.
type Type string

const (
	Permanent Type = "Permanent"
	Interim   Type = "Interim"
	Caretaker Type = "Caretaker"
)

// Tenure is one manager's continuous spell. From is inclusive, To is
// exclusive; a zero To marks the current, open-ended tenure.
type Tenure struct {
	Name string    `json:"name"`
	Type Type      `json:"type"`
	From time.Time `json:"from"`
	To   time.Time `json:"to,omitempty"`
}

// Contains reports whether date falls inside the tenure.
func (t Tenure) Contains(date time.Time) bool {
	if date.Before(t.From) {
		return false
	}
	return t.To.IsZero() || date.Before(t.To)
}

// Open reports whether the tenure has no end date yet.
func (t Tenure) Open() bool { return t.To.IsZero() }

// Roster is the ordered tenure list.
type Roster []Tenure

// Resolve returns the tenure active on date. ok is false when no tenure
// covers the date; callers decide what a miss means.
func (r Roster) Resolve(date time.Time) (Tenure, bool) {
	for _, t := range r {
		if t.Contains(date) {
			return t, true
		}
	}
	return Tenure{}, false
}

// Sorted returns a copy ordered by start date.
func (r Roster) Sorted() Roster {
	out := make(Roster, len(r))
	copy(out, r)
	sort.SliceStable(out, func(i, j int) bool { return out[i].From.Before(out[j].From) })
	return out
}

// Validate checks that the roster starts at start, has no gaps or
// overlaps, and ends with exactly one open tenure.
func (r Roster) Validate(start time.Time) error {
	if len(r) == 0 {
		return fmt.Errorf("tenure roster is empty")
	}
	sorted := r.Sorted()
	if !sorted[0].From.Equal(start) {
		return fmt.Errorf("first tenure (%s) starts %s, want %s",
			sorted[0].Name, sorted[0].From.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	for i, t := range sorted {
		if t.Name == "" {
			return fmt.Errorf("tenure %d has no manager name", i)
		}
		switch t.Type {
		case Permanent, Interim, Caretaker:
		default:
			return fmt.Errorf("tenure %s has unknown type %q", t.Name, t.Type)
		}
		last := i == len(sorted)-1
		if t.Open() {
			if !last {
				return fmt.Errorf("tenure %s is open-ended but is not the latest", t.Name)
			}
			continue
		}
		if !t.To.After(t.From) {
			return fmt.Errorf("tenure %s ends on or before it starts", t.Name)
		}
		if last {
			return fmt.Errorf("latest tenure %s must be open-ended", t.Name)
		}
		next := sorted[i+1]
		switch {
		case next.From.Before(t.To):
			return fmt.Errorf("tenures %s and %s overlap at %s",
				t.Name, next.Name, next.From.Format(time.DateOnly))
		case next.From.After(t.To):
			return fmt.Errorf("gap between %s (ends %s) and %s (starts %s)",
				t.Name, t.To.Format(time.DateOnly), next.Name, next.From.Format(time.DateOnly))
		}
	}
	return nil
}
