package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"resinstore/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const rateLimitKeyPrefix = "rate_limit:"

// RateLimit allows limit requests per client IP in each fixed window. Counters live in
// Redis so every replica shares them. Redis failures let the request through.
// X-Forwarded-For is only consulted when trustProxy is set.
func RateLimit(client redis.Cmdable, limit int, window time.Duration, trustProxy bool, logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("middleware", "rate-limit").Logger()

	return func(next http.Handler) http.Handler {
		if client == nil || limit <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := rateLimitKeyPrefix + clientIP(r, trustProxy)

			// EXPIRE NX only starts the clock when the key has none, so a counter can
			// never be left without a TTL.
			var incr *redis.IntCmd
			_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				incr = pipe.Incr(ctx, key)
				pipe.ExpireNX(ctx, key, window)
				return nil
			})
			if err != nil {
				logger.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			count := incr.Val()

			if count > int64(limit) {
				logger.Warn().Str("key", key).Int64("count", count).Msg("rate limit exceeded")
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				writeError(w, http.StatusTooManyRequests, model.ErrCodeRateLimited, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP takes the last X-Forwarded-For hop, the one the trusted proxy appended.
// Earlier hops are client-controlled.
func clientIP(r *http.Request, trustProxy bool) string {
	if fwd := r.Header.Get("X-Forwarded-For"); trustProxy && fwd != "" {
		hops := strings.Split(fwd, ",")
		if last := strings.TrimSpace(hops[len(hops)-1]); last != "" {
			return last
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
