package httpmiddleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the per-client token bucket limiter.
type RateLimitConfig struct {
	// RPS is the sustained request rate allowed per client.
	RPS float64
	// Burst is the number of requests a client may issue at once.
	Burst int
	// KeyFunc derives the limiter key from a request. Defaults to the
	// client IP (X-Forwarded-For aware).
	KeyFunc func(*http.Request) string
	// IdleTTL is how long an inactive client's bucket is kept before
	// eviction. Defaults to 3 minutes.
	IdleTTL time.Duration
}

type clientBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimit enforces a per-client token bucket. Over-limit requests get 429
// with the gateway's JSON error shape and a Retry-After hint. Buckets of
// clients idle longer than IdleTTL are evicted lazily on lookup.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 3 * time.Minute
	}

	var (
		mu        sync.Mutex
		buckets   = make(map[string]*clientBucket)
		lastSweep = time.Now()
	)

	get := func(key string, now time.Time) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		if now.Sub(lastSweep) > cfg.IdleTTL {
			for k, b := range buckets {
				if now.Sub(b.lastSeen) > cfg.IdleTTL {
					delete(buckets, k)
				}
			}
			lastSweep = now
		}

		b, ok := buckets[key]
		if !ok {
			b = &clientBucket{lim: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)}
			buckets[key] = b
		}
		b.lastSeen = now
		return b.lim
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !get(cfg.KeyFunc(r), time.Now()).Allow() {
				w.Header().Set("Retry-After", strconv.Itoa(int(1/cfg.RPS)+1))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP resolves the calling client's address, honouring the first entry
// of X-Forwarded-For when the gateway sits behind a proxy.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
