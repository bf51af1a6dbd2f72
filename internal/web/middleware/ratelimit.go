package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// cleanupInterval bounds how often the idle sweep runs
	cleanupInterval = time.Minute
	// idleEviction is how long a client may stay quiet before its
	// limiter state is dropped
	idleEviction = 10 * time.Minute
)

// RateLimit returns middleware that limits requests per client IP.
// Used on the credential endpoints to slow down guessing; everything
// else is unthrottled.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	limiter := newIPLimiter(perMinute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.allow(clientIP(r)) {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type ipLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*ipEntry
	rate        rate.Limit
	burst       int
	lastCleanup time.Time

	now func() time.Time
}

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(perMinute int) *ipLimiter {
	return &ipLimiter{
		limiters:    make(map[string]*ipEntry),
		rate:        rate.Limit(float64(perMinute) / 60.0),
		burst:       perMinute,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Sweeping inline keeps the limiter goroutine-free; the map only
	// grows while requests keep arriving, so this is the natural place.
	now := l.now()
	if now.Sub(l.lastCleanup) >= cleanupInterval {
		for key, entry := range l.limiters {
			if now.Sub(entry.lastSeen) > idleEviction {
				delete(l.limiters, key)
			}
		}
		l.lastCleanup = now
	}

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.Allow()
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
