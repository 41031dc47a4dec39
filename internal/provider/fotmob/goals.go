package fotmob

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"

	"github.com/albapepper/gdtracker/internal/provider"
)

type fmGoalRaw struct {
	Time         interface{} `json:"time"`
	OverloadTime *int        `json:"overloadTime"`
	OwnGoal      *bool       `json:"ownGoal"`
}

// fmEventsRaw maps scorer name to that player's goals.
type fmEventsRaw struct {
	HomeTeamGoals map[string][]fmGoalRaw `json:"homeTeamGoals"`
	AwayTeamGoals map[string][]fmGoalRaw `json:"awayTeamGoals"`
}

type fmMatchDetailsResponse struct {
	Header struct {
		Events *fmEventsRaw `json:"events"`
	} `json:"header"`
}

// MatchGoals fetches the scorer, time and own-goal flag of every goal in a
// match. Matches without event data yield empty lists.
func (h *Handler) MatchGoals(ctx context.Context, id provider.MatchID) (provider.MatchGoals, error) {
	body, err := h.client.get(ctx, "matchDetails", url.Values{"matchId": {string(id)}})
	if err != nil {
		h.logger.Error("Error requesting details", "match_id", id, "error", err)
		return provider.MatchGoals{}, fmt.Errorf("fetch match details %s: %w", id, err)
	}

	var resp fmMatchDetailsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return provider.MatchGoals{}, fmt.Errorf("decode match details %s: %w", id, err)
	}

	goals := provider.MatchGoals{Home: []provider.GoalEvent{}, Away: []provider.GoalEvent{}}
	if resp.Header.Events == nil {
		h.logger.Debug("No event data for match", "match_id", id)
		return goals, nil
	}
	goals.Home = flattenGoals(resp.Header.Events.HomeTeamGoals)
	goals.Away = flattenGoals(resp.Header.Events.AwayTeamGoals)
	return goals, nil
}

// flattenGoals turns the scorer-keyed map into a list ordered by minute.
func flattenGoals(byScorer map[string][]fmGoalRaw) []provider.GoalEvent {
	events := []provider.GoalEvent{}
	for scorer, raws := range byScorer {
		for _, g := range raws {
			added := 0
			if g.OverloadTime != nil {
				added = *g.OverloadTime
			}
			minute, _ := provider.ExtractMinute(g.Time, added)
			events = append(events, provider.GoalEvent{
				Scorer:  scorer,
				Minute:  minute,
				OwnGoal: g.OwnGoal != nil && *g.OwnGoal,
			})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		bi, ai := events[i].Minute.Split()
		bj, aj := events[j].Minute.Split()
		if bi != bj {
			return bi < bj
		}
		if ai != aj {
			return ai < aj
		}
		return events[i].Scorer < events[j].Scorer
	})
	return events
}
