// Package clean derives the competitive results table from the raw
// dataset: friendlies dropped, competitions normalized into trophy and
// stage, and running goal difference per manager and overall.
package clean

import (
	"fmt"
	"strings"

	"github.com/albapepper/gdtracker/internal/dataset"
)

// Stage is the phase of a competition a match belongs to.
type Stage string

const (
	StageQualification Stage = "qualification"
	StageLeague        Stage = "league"
	StageKnockout      Stage = "knockout"
)

// Competition is the normalized trophy and stage for an upstream label.
type Competition struct {
	Trophy string
	Stage  Stage
}

// Competitions maps the labels FotMob has used for the club's competitive
// fixtures. FotMob renamed some of them over the years, so several labels
// share a trophy.
var Competitions = map[string]Competition{
	"Community Shield":               {"Community Shield", StageKnockout},
	"Premier League":                 {"Premier League", StageLeague},
	"Champions League":               {"Champions League", StageLeague},
	"Champions League Qualification": {"Champions League", StageQualification},
	"Champions League Final Stage":   {"Champions League", StageKnockout},
	"League Cup":                     {"League Cup", StageKnockout},
	"EFL Cup":                        {"League Cup", StageKnockout},
	"FA Cup":                         {"FA Cup", StageKnockout},
	"Europa League":                  {"Europa League", StageLeague},
	"Europa League Final Stage":      {"Europa League", StageKnockout},
	"UEFA Super Cup":                 {"UEFA Super Cup", StageKnockout},
}

// Row is a competitive match with running goal difference.
type Row struct {
	dataset.Row
	Trophy    string
	Stage     Stage
	ManagerGD int
	CumGD     int
}

// IsCompetitive reports whether a competition label counts. Friendlies and
// pre-season tournaments do not.
func IsCompetitive(label string) bool {
	return label != "Club Friendlies" && !strings.Contains(label, "Champions Cup")
}

// Clean sorts rows by date, drops non-competitive matches, normalizes
// competitions and computes running sums in date order. An unmapped
// competition label is an error.
func Clean(ds *dataset.Dataset) ([]Row, error) {
	var (
		out       []Row
		byManager = make(map[string]int)
		cum       int
	)
	for _, r := range ds.Rows() {
		if !IsCompetitive(r.Competition) {
			continue
		}
		comp, ok := Competitions[r.Competition]
		if !ok {
			return nil, fmt.Errorf("match %s: unknown competition %q", r.MatchID, r.Competition)
		}
		byManager[r.Manager] += r.GoalDiff
		cum += r.GoalDiff
		out = append(out, Row{
			Row:       r,
			Trophy:    comp.Trophy,
			Stage:     comp.Stage,
			ManagerGD: byManager[r.Manager],
			CumGD:     cum,
		})
	}
	return out, nil
}
