package handler

import (
	"net/http"
	"time"

	"github.com/albapepper/gdtracker/internal/cache"
)

// ManagerJSON is one tenure with its competitive record.
type ManagerJSON struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	From         string `json:"from"`
	To           string `json:"to,omitempty"`
	Played       int    `json:"played"`
	GoalsFor     int    `json:"gf"`
	GoalsAgainst int    `json:"ga"`
	GoalDiff     int    `json:"gd"`
}

// GetManagers returns the tenure roster, oldest first, with competitive
// totals per tenure.
// @Summary List manager tenures
// @Description Returns every post-cutoff manager tenure with played, goals for, goals against and goal difference across competitive matches.
// @Tags managers
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /managers [get]
func (h *Handler) GetManagers(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "results:managers", cache.TTLManagers, func() (interface{}, error) {
		rows, err := h.competitiveRows()
		if err != nil {
			return nil, err
		}

		sorted := h.roster.Sorted()
		out := make([]ManagerJSON, len(sorted))
		for i, t := range sorted {
			m := ManagerJSON{Name: t.Name, Type: string(t.Type), From: t.From.Format(time.DateOnly)}
			if !t.Open() {
				m.To = t.To.Format(time.DateOnly)
			}
			for _, row := range rows {
				if row.Manager != t.Name || row.ManagerType != string(t.Type) || !t.Contains(row.Date) {
					continue
				}
				m.Played++
				m.GoalsFor += row.GoalsFor
				m.GoalsAgainst += row.GoalsAgainst
				m.GoalDiff += row.GoalDiff
			}
			out[i] = m
		}
		return map[string]interface{}{"count": len(out), "managers": out}, nil
	})
}
