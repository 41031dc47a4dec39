package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/gdtracker/internal/cache"
	"github.com/albapepper/gdtracker/internal/config"
	"github.com/albapepper/gdtracker/internal/dataset"
	"github.com/albapepper/gdtracker/internal/tenure"
)

func newTestServer(t *testing.T, rateLimit bool) *httptest.Server {
	t.Helper()
	appCache := cache.New(true)
	t.Cleanup(appCache.Close)

	cfg := &config.Config{
		TeamName:          config.TeamName,
		Cutoff:            config.CutoffDate,
		CORSAllowOrigins:  []string{"http://localhost:5173"},
		RateLimitEnabled:  rateLimit,
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
	}
	router := NewRouter(Deps{
		Store:  dataset.NewFileStore(t.TempDir(), "results"),
		Roster: tenure.Default(),
		Cache:  appCache,
	}, cfg)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t, false)

	cases := map[string]int{
		"/":                           http.StatusOK,
		"/health":                     http.StatusOK,
		"/health/db":                  http.StatusOK,
		"/health/cache":               http.StatusOK,
		"/api/v1/results":             http.StatusNotFound,
		"/api/v1/results/competitive": http.StatusNotFound,
		"/api/v1/managers":            http.StatusNotFound,
		"/api/v1/does-not-exist":      http.StatusNotFound,
	}
	for path, want := range cases {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode, path)
		assert.NotEmpty(t, resp.Header.Get("X-Process-Time"), path)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, false)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/results", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, true)

	var last int
	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		resp.Body.Close()
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
