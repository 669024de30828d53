package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitOKHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	h := RateLimit(client, 3, time.Minute, false, zerolog.Nop())(rateLimitOKHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:5000").Code)
	}

	w := doRequest(h, "10.0.0.1:5001")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")

	// Other clients have their own budget.
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.2:5000").Code)

	ttl := mr.TTL(rateLimitKeyPrefix + "10.0.0.1")
	assert.Greater(t, ttl, time.Duration(0))

	// The window resets.
	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:5000").Code)
}

func TestRateLimit_ForwardedFor(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		forwarded  string
		wantKey    string
	}{
		{name: "ignored by default", forwarded: "203.0.113.7", wantKey: "192.0.2.1"},
		{name: "trusted proxy hop", trustProxy: true, forwarded: "198.51.100.9, 203.0.113.7", wantKey: "203.0.113.7"},
		{name: "trusted proxy without header", trustProxy: true, wantKey: "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			defer client.Close()

			h := RateLimit(client, 1, time.Minute, tt.trustProxy, zerolog.Nop())(rateLimitOKHandler())

			req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
			req.RemoteAddr = "192.0.2.1:1234"
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)

			assert.Equal(t, []string{rateLimitKeyPrefix + tt.wantKey}, mr.Keys())
		})
	}
}

func TestRateLimit_RotatingForwardedForIsStillLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	h := RateLimit(client, 2, time.Minute, false, zerolog.Nop())(rateLimitOKHandler())

	codes := make([]int, 0, 3)
	for _, fwd := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		req.Header.Set("X-Forwarded-For", fwd)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_WindowAlwaysExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	key := rateLimitKeyPrefix + "10.0.0.1"
	h := RateLimit(client, 5, time.Minute, false, zerolog.Nop())(rateLimitOKHandler())

	t.Run("later hits keep the original window", func(t *testing.T) {
		require.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:5000").Code)
		mr.FastForward(40 * time.Second)
		require.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:5000").Code)

		ttl := mr.TTL(key)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, 20*time.Second)
	})

	t.Run("counter without a TTL gets one", func(t *testing.T) {
		mr.FlushAll()
		require.NoError(t, mr.Set(key, "3"))
		require.Equal(t, time.Duration(0), mr.TTL(key))

		require.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:5000").Code)

		assert.Equal(t, time.Minute, mr.TTL(key))
		got, err := mr.Get(key)
		require.NoError(t, err)
		assert.Equal(t, "4", got)
	})
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	h := RateLimit(client, 1, time.Minute, false, zerolog.Nop())(rateLimitOKHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:5000").Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	next := rateLimitOKHandler()

	h := RateLimit(nil, 5, time.Minute, false, zerolog.Nop())(next)
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:5000").Code)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	h = RateLimit(client, 0, time.Minute, false, zerolog.Nop())(next)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:5000").Code)
	}
	assert.False(t, mr.Exists(rateLimitKeyPrefix+"10.0.0.1"))
}
