package fotmob

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/albapepper/gdtracker/internal/provider"
)

// Config describes which club to follow and how to reach FotMob.
type Config struct {
	BaseURL      string
	UserAgent    string
	TeamID       string
	TeamName     string
	Cutoff       time.Time
	RequestDelay time.Duration
	Timeout      time.Duration
}

// Handler fetches and normalizes fixtures and goal details for one club.
type Handler struct {
	client   *Client
	teamID   provider.TeamID
	teamName string
	window   provider.Window
	logger   *slog.Logger
}

// NewHandler creates a Handler with its own paced client.
func NewHandler(cfg Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		client:   NewClient(cfg.BaseURL, cfg.UserAgent, cfg.RequestDelay, cfg.Timeout, logger),
		teamID:   provider.TeamID(cfg.TeamID),
		teamName: cfg.TeamName,
		window:   provider.Window{Cutoff: cfg.Cutoff},
		logger:   logger,
	}
}

// --------------------------------------------------------------------------
// Raw payloads
// --------------------------------------------------------------------------

type fmTeamRaw struct {
	ID   provider.TeamID `json:"id"`
	Name string          `json:"name"`
}

type fmFixtureRaw struct {
	ID         provider.MatchID `json:"id"`
	Tournament struct {
		Name string `json:"name"`
	} `json:"tournament"`
	Status struct {
		UTCTime string `json:"utcTime"`
	} `json:"status"`
	Home     fmTeamRaw  `json:"home"`
	Away     fmTeamRaw  `json:"away"`
	Opponent *fmTeamRaw `json:"opponent"`
}

type fmTeamResponse struct {
	Fixtures struct {
		AllFixtures struct {
			Fixtures []fmFixtureRaw `json:"fixtures"`
		} `json:"allFixtures"`
	} `json:"fixtures"`
}

type fmPageableResponse struct {
	Matches []fmFixtureRaw `json:"matches"`
}

// --------------------------------------------------------------------------
// Fixtures
// --------------------------------------------------------------------------

// CurrentSeason fetches the club's active season up to today.
func (h *Handler) CurrentSeason(ctx context.Context) (provider.Page, error) {
	body, err := h.client.get(ctx, "teams", url.Values{"id": {string(h.teamID)}})
	if err != nil {
		h.logger.Error("Error requesting team endpoint", "team_id", h.teamID, "error", err)
		return provider.Page{}, fmt.Errorf("fetch current season for team %s: %w", h.teamID, err)
	}

	var resp fmTeamResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return provider.Page{}, fmt.Errorf("decode current season for team %s: %w", h.teamID, err)
	}

	raw, err := h.normalizeFixtures(resp.Fixtures.AllFixtures.Fixtures)
	if err != nil {
		return provider.Page{}, fmt.Errorf("team %s current season: %w", h.teamID, err)
	}
	return h.window.CurrentSeason(raw), nil
}

// Before fetches the page of fixtures preceding cursor.
func (h *Handler) Before(ctx context.Context, cursor provider.MatchID) (provider.Page, error) {
	raw, err := h.pageable(ctx, "before", cursor)
	if err != nil {
		return provider.Page{}, err
	}
	return h.window.Backward(raw), nil
}

// After fetches the page of fixtures following cursor.
func (h *Handler) After(ctx context.Context, cursor provider.MatchID) (provider.Page, error) {
	raw, err := h.pageable(ctx, "after", cursor)
	if err != nil {
		return provider.Page{}, err
	}
	return h.window.Forward(raw), nil
}

func (h *Handler) pageable(ctx context.Context, direction string, cursor provider.MatchID) ([]provider.Fixture, error) {
	if cursor == "" {
		return nil, fmt.Errorf("fixtures %s: empty cursor for team %s", direction, h.teamID)
	}
	body, err := h.client.get(ctx, "pageableFixtures", url.Values{
		"teamId":  {string(h.teamID)},
		direction: {string(cursor)},
	})
	if err != nil {
		h.logger.Error("Error requesting fixtures",
			"team_id", h.teamID, "direction", direction, "cursor", cursor, "error", err)
		return nil, fmt.Errorf("fetch fixtures for team %s %s %s: %w", h.teamID, direction, cursor, err)
	}

	var resp fmPageableResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode fixtures for team %s %s %s: %w", h.teamID, direction, cursor, err)
	}

	raw, err := h.normalizeFixtures(resp.Matches)
	if err != nil {
		return nil, fmt.Errorf("team %s %s %s: %w", h.teamID, direction, cursor, err)
	}
	return raw, nil
}

func (h *Handler) normalizeFixtures(raw []fmFixtureRaw) ([]provider.Fixture, error) {
	fixtures := make([]provider.Fixture, 0, len(raw))
	for _, r := range raw {
		f, err := h.normalizeFixture(r)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, nil
}

func (h *Handler) normalizeFixture(raw fmFixtureRaw) (provider.Fixture, error) {
	date, err := provider.ParseDate(raw.Status.UTCTime)
	if err != nil {
		return provider.Fixture{}, fmt.Errorf("match %s: bad utcTime %q: %w", raw.ID, raw.Status.UTCTime, err)
	}

	side := provider.Away
	if h.isClub(raw.Home) {
		side = provider.Home
	}

	opponent := raw.Home.Name
	if side == provider.Home {
		opponent = raw.Away.Name
	}
	if raw.Opponent != nil && raw.Opponent.Name != "" {
		opponent = raw.Opponent.Name
	}

	return provider.Fixture{
		ID:          raw.ID,
		Competition: raw.Tournament.Name,
		Date:        date,
		Opponent:    opponent,
		Side:        side,
	}, nil
}

// isClub matches on team id when upstream sends one, else on name.
func (h *Handler) isClub(t fmTeamRaw) bool {
	if t.ID != "" && h.teamID != "" {
		return t.ID == h.teamID
	}
	return strings.EqualFold(strings.TrimSpace(t.Name), h.teamName)
}
