package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/resume-matcher/internal/server/ratelimit"
)

func TestWithRequestID(t *testing.T) {
	s := newTestServer(Deps{})

	rec := do(t, s, http.MethodGet, "/health", "")
	id := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "generated id %q", id)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36, "oversized ids are replaced")
}

func TestRequestID_Context(t *testing.T) {
	s := newTestServer(Deps{})
	var seen string
	h := s.withRequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "req-1", seen)
}

func TestWithCORS(t *testing.T) {
	s := newTestServer(Deps{})

	rec := do(t, s, http.MethodOptions, "/api/evaluate", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")

	rec = do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWithLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := New(Config{RateLimit: &ratelimit.Config{Enabled: false}}, Deps{}, zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "log-me")
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/health", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "log-me", fields["request_id"])
	assert.Equal(t, "server", fields["component"])
}

func TestWithRateLimit(t *testing.T) {
	s := New(Config{RateLimit: &ratelimit.Config{
		Enabled: true,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/api/skill-gaps", Method: "POST", Limit: 2, Window: time.Minute, Burst: 2},
			{Path: "/health", Method: "GET", Limit: 0},
		},
	}}, Deps{Analyzer: &fakeAnalyzer{}}, zap.NewNop())
	defer s.rateLimiter.Stop()

	for i := 0; i < 2; i++ {
		rec := do(t, s, http.MethodPost, "/api/skill-gaps", `{}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := do(t, s, http.MethodPost, "/api/skill-gaps", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	body := decodeBody(t, rec)
	assert.Equal(t, "rate_limit_exceeded", body["error"])
	assert.Equal(t, float64(2), body["limit"])

	for i := 0; i < 10; i++ {
		rec = do(t, s, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestExtractClientID(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.0.2.1:1234", "192.0.2.1"},
		{"[::1]:8080", "::1"},
		{"no-port", "no-port"},
	}
	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			assert.Equal(t, tt.want, extractClientID(req))
		})
	}
}
