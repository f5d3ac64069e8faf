package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvasshub/canvasshub-backend/pkg/config"
	"github.com/canvasshub/canvasshub-backend/pkg/enums"
)

func TestClientRateLimiterBurst(t *testing.T) {
	limiter := NewClientRateLimiter(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 2, IdleTTL: time.Minute})
	frozen := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return frozen }

	assert.True(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("b"), "buckets are per client")

	frozen = frozen.Add(time.Second)
	assert.True(t, limiter.Allow("a"), "bucket refills over time")
}

func TestClientRateLimiterSweep(t *testing.T) {
	limiter := NewClientRateLimiter(config.RateLimitConfig{RequestsPerSecond: 5, Burst: 5, IdleTTL: time.Minute})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Allow("stale")
	now = now.Add(50 * time.Second)
	limiter.Allow("fresh")
	now = now.Add(20 * time.Second)

	assert.Equal(t, 1, limiter.Sweep())
	require.Len(t, limiter.clients, 1)
	_, ok := limiter.clients["fresh"]
	assert.True(t, ok)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewClientRateLimiter(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})
	handler := RateLimit(limiter, nil)(okHandler())

	userCtx := WithIdentity(httptest.NewRequest(http.MethodGet, "/", nil).Context(), uuid.New(), enums.RoleUser, "jti")

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(userCtx))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(userCtx))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))

	anon := httptest.NewRecorder()
	handler.ServeHTTP(anon, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, anon.Code, "anonymous clients are keyed by ip")
}

func TestRateLimitDisabled(t *testing.T) {
	limiter := NewClientRateLimiter(config.RateLimitConfig{})
	handler := RateLimit(limiter, nil)(okHandler())
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestSanitizeRequestID(t *testing.T) {
	assert.Equal(t, "abc-123", sanitizeRequestID("  abc-123 "))
	assert.Empty(t, sanitizeRequestID(""))
	assert.Empty(t, sanitizeRequestID("has space"))
	assert.Empty(t, sanitizeRequestID(strings.Repeat("a", maxRequestIDLen+1)))
}

func TestRequestIDEchoesHeader(t *testing.T) {
	var seen string
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get(requestIDHeader)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", seen)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
	assert.NoError(t, err)
}

func TestRecovererReturns500(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
