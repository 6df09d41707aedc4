package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const (
	// Default per-IP budgets: reads are cheap cache-backed lookups, writes
	// invalidate caches and fan out broadcasts, so they get half the budget.
	DefaultReadRateLimitPerMin  = 120
	DefaultWriteRateLimitPerMin = 60

	// Per-IP limiters kept per tier. Oldest IPs are evicted first, which
	// resets their bucket; acceptable for keeping rogue scans from growing
	// the maps without bound.
	limiterCacheSize = 10_000
)

type rateLimitTier int

const (
	tierRead rateLimitTier = iota
	tierWrite
)

// apiRateLimiter holds per-IP limiters per tier.
type apiRateLimiter struct {
	read        *lru.Cache[string, *rate.Limiter]
	write       *lru.Cache[string, *rate.Limiter]
	readPerMin  int
	writePerMin int
}

func newAPIRateLimiter(readPerMin, writePerMin int) *apiRateLimiter {
	if readPerMin <= 0 {
		readPerMin = DefaultReadRateLimitPerMin
	}
	if writePerMin <= 0 {
		writePerMin = DefaultWriteRateLimitPerMin
	}
	readCache, _ := lru.New[string, *rate.Limiter](limiterCacheSize)
	writeCache, _ := lru.New[string, *rate.Limiter](limiterCacheSize)
	return &apiRateLimiter{
		read:        readCache,
		write:       writeCache,
		readPerMin:  readPerMin,
		writePerMin: writePerMin,
	}
}

func (l *apiRateLimiter) limiter(ip string, t rateLimitTier) *rate.Limiter {
	cache, perMin := l.read, l.readPerMin
	if t == tierWrite {
		cache, perMin = l.write, l.writePerMin
	}
	if lim, ok := cache.Get(ip); ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Limit(float64(perMin)/60.0), perMin)
	cache.Add(ip, lim)
	return lim
}

func (l *apiRateLimiter) limitHeader(t rateLimitTier) int {
	if t == tierWrite {
		return l.writePerMin
	}
	return l.readPerMin
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx >= 0 {
		addr = addr[:idx]
	}
	return addr
}

func tierForRequest(r *http.Request) rateLimitTier {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return tierRead
	}
	return tierWrite
}

// RateLimit returns middleware that limits requests per IP with a token
// bucket per tier: readPerMin for GET/HEAD, writePerMin for mutations.
// /health, /metrics, and the websocket endpoint are exempt. Rejected
// requests get 429 with Retry-After and X-RateLimit-* headers.
func RateLimit(readPerMin, writePerMin int) func(http.Handler) http.Handler {
	limiters := newAPIRateLimiter(readPerMin, writePerMin)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path == "/health" || path == "/metrics" || path == "/ws" {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)
			tier := tierForRequest(r)
			limiter := limiters.limiter(ip, tier)

			reservation := limiter.Reserve()
			if !reservation.OK() {
				writeRateLimited(w, limiters.limitHeader(tier), 60)
				return
			}
			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()
				retryAfter := int(delay.Seconds()) + 1
				if retryAfter > 60 {
					retryAfter = 60
				}
				writeRateLimited(w, limiters.limitHeader(tier), retryAfter)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeRateLimited(w http.ResponseWriter, limit, retryAfter int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Duration(retryAfter)*time.Second).Unix(), 10))
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"too many requests"}`))
}
