package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/gdtracker/internal/cache"
	"github.com/albapepper/gdtracker/internal/config"
	"github.com/albapepper/gdtracker/internal/dataset"
	"github.com/albapepper/gdtracker/internal/provider"
	"github.com/albapepper/gdtracker/internal/tenure"
)

func row(id, date, comp, manager, mtype string, side provider.Side, gf, ga int) dataset.Row {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return dataset.Row{
		MatchID: provider.MatchID(id), Competition: comp, Date: d,
		Manager: manager, ManagerType: mtype, Opponent: "Opp " + id, Side: side,
		GoalsFor: gf, GoalsAgainst: ga, GoalDiff: gf - ga,
	}
}

func seededStore(t *testing.T) *dataset.FileStore {
	t.Helper()
	ds, err := dataset.New(
		row("1", "2013-07-20", "Club Friendlies", "David Moyes", "Permanent", provider.Away, 0, 1),
		row("2", "2013-08-11", "Community Shield", "David Moyes", "Permanent", provider.Home, 2, 0),
		row("3", "2013-08-17", "Premier League", "David Moyes", "Permanent", provider.Away, 4, 1),
		row("4", "2014-05-06", "Premier League", "Ryan Giggs", "Caretaker", provider.Home, 3, 1),
		row("5", "2014-08-16", "Premier League", "Louis van Gaal", "Permanent", provider.Home, 1, 2),
	)
	require.NoError(t, err)
	store := dataset.NewFileStore(t.TempDir(), "results")
	_, err = store.Save(ds, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return store
}

func newTestHandler(store DatasetLoader, db Pinger) *Handler {
	cfg := &config.Config{TeamName: config.TeamName, Cutoff: config.CutoffDate}
	return New(store, tenure.Default(), db, cache.New(true), cfg, nil)
}

func get(t *testing.T, fn http.HandlerFunc, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func TestGetResultsFiltersAndCaches(t *testing.T) {
	h := newTestHandler(seededStore(t), nil)

	rec := get(t, h.GetResults, "/api/v1/results?manager=david%20moyes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	var body ResultsResponse[ResultJSON]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, "1", body.Results[0].MatchID)
	assert.Equal(t, "a", body.Results[0].Side)
	assert.Equal(t, "2013-07-20", body.Results[0].Date)

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	rec = get(t, h.GetResults, "/api/v1/results?manager=David%20Moyes", nil)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	rec = get(t, h.GetResults, "/api/v1/results?manager=David%20Moyes", http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestCacheFollowsDatasetRewrites(t *testing.T) {
	store := seededStore(t)
	h := newTestHandler(store, nil)

	rec := get(t, h.GetResults, "/api/v1/results", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body ResultsResponse[ResultJSON]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 5, body.Count)
	etag := rec.Header().Get("ETag")

	ds, err := store.Load()
	require.NoError(t, err)
	grown, err := dataset.New(append(ds.Rows(), row("6", "2014-08-24", "Premier League", "Louis van Gaal", "Permanent", provider.Away, 1, 1))...)
	require.NoError(t, err)
	_, err = store.Save(grown, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(store.LatestPath(), later, later))

	rec = get(t, h.GetResults, "/api/v1/results", http.Header{"If-None-Match": {etag}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 6, body.Count)
	assert.NotEqual(t, etag, rec.Header().Get("ETag"))
}

func TestGetResultsCompetitionFilter(t *testing.T) {
	h := newTestHandler(seededStore(t), nil)

	rec := get(t, h.GetResults, "/api/v1/results?competition=premier%20league", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body ResultsResponse[ResultJSON]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Count)
}

func TestMissingDatasetIs404(t *testing.T) {
	h := newTestHandler(dataset.NewFileStore(t.TempDir(), "results"), nil)

	for _, fn := range []http.HandlerFunc{h.GetResults, h.GetCompetitive, h.GetManagers} {
		rec := get(t, fn, "/", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "NO_DATASET")
	}
}

func TestGetCompetitive(t *testing.T) {
	h := newTestHandler(seededStore(t), nil)

	rec := get(t, h.GetCompetitive, "/api/v1/results/competitive", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body ResultsResponse[CompetitiveJSON]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 4, body.Count)

	first := body.Results[0]
	assert.Equal(t, "2", first.MatchID)
	assert.Equal(t, "Community Shield", first.Competition)
	assert.Equal(t, "knockout", first.Stage)

	last := body.Results[3]
	assert.Equal(t, -1, last.ManagerGD)
	assert.Equal(t, 6, last.CumGD)
}

func TestGetManagers(t *testing.T) {
	h := newTestHandler(seededStore(t), nil)

	rec := get(t, h.GetManagers, "/api/v1/managers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count    int           `json:"count"`
		Managers []ManagerJSON `json:"managers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, len(tenure.Default()), body.Count)

	moyes := body.Managers[0]
	assert.Equal(t, "David Moyes", moyes.Name)
	assert.Equal(t, "2013-07-01", moyes.From)
	assert.Equal(t, "2014-04-23", moyes.To)
	assert.Equal(t, 2, moyes.Played)
	assert.Equal(t, 5, moyes.GoalDiff)

	current := body.Managers[len(body.Managers)-1]
	assert.Empty(t, current.To)
	assert.Zero(t, current.Played)
}

type fakePinger struct{ err error }

func (p fakePinger) HealthCheck(context.Context) error { return p.err }

func TestHealthCheckDB(t *testing.T) {
	h := newTestHandler(nil, nil)
	rec := get(t, h.HealthCheckDB, "/health/db", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_configured")

	h = newTestHandler(nil, fakePinger{})
	rec = get(t, h.HealthCheckDB, "/health/db", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "connected")

	h = newTestHandler(nil, fakePinger{err: errors.New("down")})
	rec = get(t, h.HealthCheckDB, "/health/db", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRoot(t *testing.T) {
	h := newTestHandler(nil, nil)
	rec := get(t, h.Root, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"since":"2013-07-01"`)
}
