// Package respond writes the API's JSON bodies: cached payloads with
// conditional-request handling, and the shared error envelope.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/albapepper/gdtracker/internal/cache"
)

// ErrorBody is the payload of every API error.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse is the standard error shape for all API errors.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Payload is a rendered response body with its validator.
type Payload struct {
	Data []byte
	ETag string
	TTL  time.Duration
	Hit  bool
}

// Cached writes p, or 304 when the request's If-None-Match already holds
// its ETag.
func Cached(w http.ResponseWriter, r *http.Request, p Payload) {
	w.Header().Set("ETag", p.ETag)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), p.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Set("X-Cache", cacheStatus(p.Hit))
	maxAge := int(p.TTL.Seconds())
	w.Header().Set("Cache-Control",
		fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", maxAge, maxAge/2))
	w.WriteHeader(http.StatusOK)
	w.Write(p.Data)
}

// Error sends the error envelope tagged with the request id, if any.
func Error(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	ErrorDetail(w, r, status, code, message, "")
}

// ErrorDetail is Error with a detail line.
func ErrorDetail(w http.ResponseWriter, r *http.Request, status int, code, message, detail string) {
	body := ErrorResponse{Error: ErrorBody{
		Code:      code,
		Message:   message,
		Detail:    detail,
		RequestID: middleware.GetReqID(r.Context()),
	}}
	w.Header().Set("Cache-Control", "no-store")
	Object(w, status, body)
}

// Object marshals v uncached. Used for health and info endpoints.
func Object(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
