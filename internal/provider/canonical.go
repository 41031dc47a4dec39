// Package provider defines canonical data types that the upstream client
// normalizes into. These structs are the contract between the FotMob
// handlers and the ingest driver: handlers output these, the driver turns
// them into dataset rows.
package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MatchID is an opaque upstream identifier. It is built once at the JSON
// boundary and passed around as-is; FotMob emits ids as numbers but the
// pagination cursor is sent back as text.
type MatchID string

// TeamID uses the same representation as MatchID.
type TeamID = MatchID

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (id *MatchID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode match id: %w", err)
		}
		*id = MatchID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode match id: %w", err)
	}
	*id = MatchID(n.String())
	return nil
}

func (id MatchID) String() string { return string(id) }

// Side is where the club played a fixture.
type Side string

const (
	Home Side = "h"
	Away Side = "a"
)

// ParseSide accepts the persisted h/a labels.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case Home:
		return Home, nil
	case Away:
		return Away, nil
	default:
		return "", fmt.Errorf("unknown side %q", s)
	}
}

// Fixture is one match from the club's schedule. Date is UTC midnight.
type Fixture struct {
	ID          MatchID   `json:"match_id"`
	Competition string    `json:"competition"`
	Date        time.Time `json:"date"`
	Opponent    string    `json:"opponent"`
	Side        Side      `json:"h_a"`
}

// Minute is a goal time as published upstream: "45" or with stoppage time
// "45+2".
type Minute string

// NewMinute builds a Minute from the regular-time value and any added time.
func NewMinute(base, added int) Minute {
	if added > 0 {
		return Minute(fmt.Sprintf("%d+%d", base, added))
	}
	return Minute(strconv.Itoa(base))
}

// Split returns the regular-time part and the added-time part. Unparseable
// values report 0.
func (m Minute) Split() (base, added int) {
	s := string(m)
	if i := strings.IndexByte(s, '+'); i >= 0 {
		added, _ = strconv.Atoi(strings.TrimSpace(s[i+1:]))
		s = s[:i]
	}
	base, _ = strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, "'")))
	return base, added
}

// GoalEvent is a single goal. Own goals are listed under the side that
// upstream credits them to and count toward that side's tally.
type GoalEvent struct {
	Scorer  string `json:"scorer"`
	Minute  Minute `json:"time"`
	OwnGoal bool   `json:"own_goal"`
}

// MatchGoals holds the flattened goal events of one match.
type MatchGoals struct {
	Home []GoalEvent `json:"home"`
	Away []GoalEvent `json:"away"`
}

// Score orients the goal counts to the club's side.
func (g MatchGoals) Score(side Side) (goalsFor, goalsAgainst int) {
	if side == Away {
		return len(g.Away), len(g.Home)
	}
	return len(g.Home), len(g.Away)
}

// Page is one fetched slice of the fixture list after date filtering.
// Fixtures are ascending by date.
type Page struct {
	Fixtures []Fixture
	// CrossedCutoff is set when at least one fixture predated the cutoff.
	CrossedCutoff bool
	// UpToDate is set when a fixture dated after today was reached.
	UpToDate bool
}

// Oldest returns the id of the earliest fixture in the page.
func (p Page) Oldest() (MatchID, bool) {
	if len(p.Fixtures) == 0 {
		return "", false
	}
	return p.Fixtures[0].ID, true
}

// Newest returns the id of the latest fixture in the page.
func (p Page) Newest() (MatchID, bool) {
	if len(p.Fixtures) == 0 {
		return "", false
	}
	return p.Fixtures[len(p.Fixtures)-1].ID, true
}
