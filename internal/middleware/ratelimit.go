package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window Redis counter, grounded on the teacher's
// internal/ratelimit.Limiter sliding-window-via-Lua-script idiom. Scoped
// down to a single global (rate, window) pair per spec.md's non-goal of
// fine-grained per-endpoint policy — this rebuild only needs to blunt
// brute-force login attempts.
type RateLimiter struct {
	client *redis.Client
	rate   int
	window time.Duration
	script *redis.Script
}

func NewRateLimiter(client *redis.Client, rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		rate:   rate,
		window: window,
		script: redis.NewScript(`
			local current = redis.call("INCR", KEYS[1])
			if tonumber(current) == 1 then
				redis.call("PEXPIRE", KEYS[1], ARGV[1])
			end
			return current
		`),
	}
}

func (rl *RateLimiter) allow(ctx context.Context, key string) bool {
	count, err := rl.script.Run(ctx, rl.client, []string{"ratelimit:" + key}, rl.window.Milliseconds()).Int()
	if err != nil {
		// Fail open: a Redis outage should not take the login endpoint down.
		return true
	}
	return count <= rl.rate
}

// Limit rejects with 429 once the per-client-IP rate is exceeded.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !rl.allow(r.Context(), host) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
