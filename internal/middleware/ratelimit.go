// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/agrourbano/farmdash/internal/core"
)

const keyPrefix = "farmdash:ratelimit:"

// KeyFunc names the bucket a request is charged to.
type KeyFunc func(*http.Request) string

// RateLimitConfig describes one limiter. Scope keeps limiters that key the
// same client apart, so the login limit never spends the global one.
type RateLimitConfig struct {
	Scope string
	Limit redis_rate.Limit
	Key   KeyFunc
}

// RateLimiter enforces a GCRA limit in Redis and falls back to an
// in-process token bucket while Redis is unreachable.
type RateLimiter struct {
	scope    string
	limit    redis_rate.Limit
	key      KeyFunc
	redis    *redis_rate.Limiter
	fallback *localBuckets
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.Key == nil {
		cfg.Key = KeyByIP
	}
	if cfg.Scope == "" {
		cfg.Scope = "global"
	}

	return &RateLimiter{
		scope:    cfg.Scope,
		limit:    cfg.Limit,
		key:      cfg.Key,
		redis:    redis_rate.NewLimiter(rdb),
		fallback: newLocalBuckets(cfg.Limit),
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := keyPrefix + rl.scope + ":" + rl.key(r)

		res := rl.allow(r.Context(), key)
		writeLimitHeaders(w, rl.limit, res)

		if res.Allowed == 0 {
			retry := max(int(res.RetryAfter.Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			core.JSONError(w, core.NewAppError(
				"RATE_LIMITED",
				fmt.Sprintf("too many requests, retry in %d seconds", retry),
				http.StatusTooManyRequests,
				nil,
			))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(ctx context.Context, key string) *redis_rate.Result {
	res, err := rl.redis.Allow(ctx, key, rl.limit)
	if err == nil {
		return res
	}

	slog.Warn("rate limiter using local buckets", "scope", rl.scope, "error", err)
	return rl.fallback.allow(key, time.Now())
}

func writeLimitHeaders(w http.ResponseWriter, limit redis_rate.Limit, res *redis_rate.Result) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
}

// ClientIP prefers the address appended by the closest proxy.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[len(ips)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func KeyByIP(r *http.Request) string {
	return "ip:" + ClientIP(r)
}

// KeyByUser charges signed-in staff per account and everyone else per IP.
func KeyByUser(r *http.Request) string {
	if id := GetUserID(r.Context()); id != 0 {
		return "user:" + strconv.FormatInt(id, 10)
	}
	return KeyByIP(r)
}

// KeyByUserAndEndpoint adds the matched chi route, so /mediciones/export
// is one bucket whatever its query string. It must run after routing, for
// example through r.With on the endpoint.
func KeyByUserAndEndpoint(r *http.Request) string {
	return KeyByUser(r) + ":" + r.Method + ":" + routePattern(r)
}

// PerMinute allows rate requests a minute with bursts up to burst.
func PerMinute(rate, burst int) redis_rate.Limit {
	return redis_rate.Limit{Rate: rate, Burst: burst, Period: time.Minute}
}

const bucketIdle = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type localBuckets struct {
	mu        sync.Mutex
	limit     redis_rate.Limit
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newLocalBuckets(limit redis_rate.Limit) *localBuckets {
	return &localBuckets{
		limit:   limit,
		buckets: make(map[string]*bucket),
	}
}

func (l *localBuckets) allow(key string, now time.Time) *redis_rate.Result {
	perToken := time.Duration(float64(l.limit.Period) / float64(l.limit.Rate))

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > bucketIdle {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > bucketIdle {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(perToken), l.limit.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	res := &redis_rate.Result{Limit: l.limit, RetryAfter: -1, ResetAfter: perToken}
	if b.limiter.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		res.RetryAfter = perToken
	}
	res.Remaining = max(int(b.limiter.TokensAt(now)), 0)

	return res
}
