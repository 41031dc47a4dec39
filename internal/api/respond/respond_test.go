package respond

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/gdtracker/internal/cache"
)

func TestCachedWritesBodyAndHeaders(t *testing.T) {
	data := []byte(`{"count":0}`)
	p := Payload{Data: data, ETag: cache.ComputeETag(data), TTL: 10 * time.Minute}

	rec := httptest.NewRecorder()
	Cached(rec, httptest.NewRequest(http.MethodGet, "/", nil), p)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(data), rec.Body.String())
	assert.Equal(t, p.ETag, rec.Header().Get("ETag"))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "public, max-age=600, stale-while-revalidate=300", rec.Header().Get("Cache-Control"))
}

func TestCachedNotModified(t *testing.T) {
	data := []byte(`{"count":0}`)
	p := Payload{Data: data, ETag: cache.ComputeETag(data), TTL: time.Minute, Hit: true}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", p.ETag)
	rec := httptest.NewRecorder()
	Cached(rec, req, p)

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, p.ETag, rec.Header().Get("ETag"))
}

func TestErrorCarriesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-42"))
	rec := httptest.NewRecorder()

	ErrorDetail(rec, req, http.StatusNotFound, "NO_DATASET", "nothing yet", "run sync")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorBody{Code: "NO_DATASET", Message: "nothing yet", Detail: "run sync", RequestID: "req-42"}, body.Error)
}
