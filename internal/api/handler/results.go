package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/albapepper/gdtracker/internal/cache"
	"github.com/albapepper/gdtracker/internal/clean"
	"github.com/albapepper/gdtracker/internal/dataset"
)

// ResultJSON is one synchronized match.
type ResultJSON struct {
	MatchID      string `json:"match_id"`
	Competition  string `json:"competition"`
	Date         string `json:"date"`
	Manager      string `json:"manager"`
	ManagerType  string `json:"manager_type"`
	Opponent     string `json:"opponent"`
	Side         string `json:"h_a"`
	GoalsFor     int    `json:"gf"`
	GoalsAgainst int    `json:"ga"`
	GoalDiff     int    `json:"gd"`
}

// CompetitiveJSON is a cleaned match with running goal difference.
// Competition holds the normalized trophy.
type CompetitiveJSON struct {
	ResultJSON
	Stage     string `json:"stage"`
	ManagerGD int    `json:"manager_gd"`
	CumGD     int    `json:"cum_gd"`
}

// ResultsResponse wraps a list with its length.
type ResultsResponse[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

func toResultJSON(r dataset.Row) ResultJSON {
	return ResultJSON{
		MatchID:      string(r.MatchID),
		Competition:  r.Competition,
		Date:         r.Date.Format(time.DateOnly),
		Manager:      r.Manager,
		ManagerType:  r.ManagerType,
		Opponent:     r.Opponent,
		Side:         string(r.Side),
		GoalsFor:     r.GoalsFor,
		GoalsAgainst: r.GoalsAgainst,
		GoalDiff:     r.GoalDiff,
	}
}

// GetResults returns every synchronized match, oldest first.
// @Summary List results
// @Description Returns all synchronized matches since the cutoff, optionally filtered by manager and competition (case-insensitive exact match).
// @Tags results
// @Produce json
// @Param manager query string false "Manager name"
// @Param competition query string false "Competition as labelled upstream"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /results [get]
func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	manager := strings.TrimSpace(r.URL.Query().Get("manager"))
	competition := strings.TrimSpace(r.URL.Query().Get("competition"))
	key := fmt.Sprintf("results:%s:%s", strings.ToLower(manager), strings.ToLower(competition))

	h.serveCached(w, r, key, cache.TTLResults, func() (interface{}, error) {
		ds, err := h.store.Load()
		if err != nil {
			return nil, err
		}
		out := ResultsResponse[ResultJSON]{Results: []ResultJSON{}}
		for _, row := range ds.Rows() {
			if manager != "" && !strings.EqualFold(row.Manager, manager) {
				continue
			}
			if competition != "" && !strings.EqualFold(row.Competition, competition) {
				continue
			}
			out.Results = append(out.Results, toResultJSON(row))
		}
		out.Count = len(out.Results)
		return out, nil
	})
}

// GetCompetitive returns competitive matches with running goal difference.
// @Summary List competitive results
// @Description Returns matches with friendlies removed, competitions normalized into trophy and stage, and running goal difference per manager and overall.
// @Tags results
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /results/competitive [get]
func (h *Handler) GetCompetitive(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "results:competitive", cache.TTLResults, func() (interface{}, error) {
		rows, err := h.competitiveRows()
		if err != nil {
			return nil, err
		}
		out := ResultsResponse[CompetitiveJSON]{Count: len(rows), Results: make([]CompetitiveJSON, 0, len(rows))}
		for _, row := range rows {
			base := toResultJSON(row.Row)
			base.Competition = row.Trophy
			out.Results = append(out.Results, CompetitiveJSON{
				ResultJSON: base,
				Stage:      string(row.Stage),
				ManagerGD:  row.ManagerGD,
				CumGD:      row.CumGD,
			})
		}
		return out, nil
	})
}

func (h *Handler) competitiveRows() ([]clean.Row, error) {
	ds, err := h.store.Load()
	if err != nil {
		return nil, err
	}
	return clean.Clean(ds)
}
