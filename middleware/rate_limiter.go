package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"PageSchedulerAPI/utils"

	"github.com/gorilla/mux"
)

// bucket holds token-bucket state for one client IP.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP with a token bucket. Buckets
// refill at rate tokens per second up to burst; an empty bucket yields 429.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64
	burst   float64
}

// NewRateLimiter allows rps sustained requests per second per IP with the
// given burst capacity. Idle buckets are evicted in the background.
func NewRateLimiter(rps, burst float64) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    rps,
		burst:   burst,
	}
	go rl.evictIdle()
	return rl
}

func (rl *RateLimiter) evictIdle() {
	ticker := time.NewTicker(3 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		for ip, b := range rl.buckets {
			if time.Since(b.lastSeen) > 5*time.Minute {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[ip]
	if !ok {
		rl.buckets[ip] = &bucket{tokens: rl.burst - 1, lastSeen: now}
		return true
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// clientIP prefers proxy headers over the raw remote address.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First entry in the chain is the originating client.
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// Limit enforces the rate limit on every request passing through the router.
func (rl *RateLimiter) Limit() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(clientIP(r)) {
				w.Header().Set("Retry-After", "1")
				utils.RespondWithError(w, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LimitHandler applies a (typically stricter) limiter to a single route, such
// as the OAuth login entry point.
func (rl *RateLimiter) LimitHandler(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "5")
			utils.RespondWithError(w, http.StatusTooManyRequests, "Too many attempts. Please slow down.")
			return
		}
		next(w, r)
	}
}
