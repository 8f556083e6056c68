package http

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"sewa-backend/internal/config"
	"sewa-backend/internal/logger"
)

// tokenBucketScript refills the bucket in whole intervals and takes one
// token if available. It returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

type rateDecision struct {
	allowed      bool
	remaining    int64
	retryAfterMs int64
}

// RateLimiter is a per-user token bucket kept in Redis. When Redis is not
// configured or fails, requests pass through.
type RateLimiter struct {
	cfg config.RateLimitConfig
	rdb redis.Scripter
	now func() time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig, rdb redis.Scripter) *RateLimiter {
	return &RateLimiter{cfg: cfg, rdb: rdb, now: time.Now}
}

func (l *RateLimiter) enabled() bool {
	return l != nil && l.cfg.Enabled && l.rdb != nil
}

func (l *RateLimiter) take(ctx context.Context, key string) (*rateDecision, error) {
	interval := l.cfg.RefillInterval()
	// Keep idle buckets long enough to refill completely.
	ttl := int64(math.Ceil(interval.Seconds() * float64(l.cfg.Capacity) / float64(max(l.cfg.RefillTokens, 1))))
	if ttl < 1 {
		ttl = 1
	}

	vals, err := tokenBucketScript.Run(ctx, l.rdb, []string{key},
		l.now().UnixMilli(),
		l.cfg.Capacity,
		l.cfg.RefillTokens,
		interval.Milliseconds(),
		ttl,
	).Int64Slice()
	if err != nil {
		return nil, err
	}
	if len(vals) != 3 {
		return nil, fmt.Errorf("unexpected rate limit script result %v", vals)
	}
	return &rateDecision{allowed: vals[0] == 1, remaining: vals[1], retryAfterMs: vals[2]}, nil
}

func (l *RateLimiter) key(r *http.Request) string {
	user := "anon"
	if id, ok := ActorFromContext(r.Context()); ok {
		user = strconv.Itoa(int(id))
	}
	route := r.URL.Path
	if cr := mux.CurrentRoute(r); cr != nil && cr.GetName() != "" {
		route = cr.GetName()
	}
	return strings.Join([]string{l.cfg.Prefix, "user", user, "route", route}, ":")
}

// Limit wraps a handler with the token bucket.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	if !l.enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.key(r)
		d, err := l.take(r.Context(), key)
		if err != nil {
			logger.WarnContext(r.Context(), "Rate limiter unavailable, allowing request", "key", key, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Capacity))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))

		if !d.allowed {
			secs := int(math.Ceil(float64(d.retryAfterMs) / 1000.0))
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			logger.InfoContext(r.Context(), "Rate limit exceeded", "key", key, "retry_after_ms", d.retryAfterMs)
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":       "rate limit exceeded",
				"retry_after": secs,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
