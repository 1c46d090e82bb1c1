package fixture

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// tokenBucket: per-client bucket (max tokens = burst, refill rate per second).
type tokenBucket struct {
	tokens float64
	last   time.Time
}

// zone is one limit shared by every host it is attached to, keyed by client
// address only, so a client draining it on one port is limited on the others.
type zone struct {
	rate  float64 // tokens per second
	burst float64
	now   func() time.Time

	mu sync.Mutex
	m  map[string]*tokenBucket
}

func newZone(rps float64, burst int) *zone {
	return &zone{
		rate:  rps,
		burst: float64(burst),
		now:   time.Now,
		m:     make(map[string]*tokenBucket),
	}
}

func (z *zone) allow(key string) bool {
	now := z.now()
	z.mu.Lock()
	defer z.mu.Unlock()

	tb := z.m[key]
	if tb == nil {
		tb = &tokenBucket{tokens: z.burst, last: now}
		z.m[key] = tb
	}
	elapsed := now.Sub(tb.last).Seconds()
	tb.tokens = min(z.burst, tb.tokens+elapsed*z.rate)
	tb.last = now

	if tb.tokens < 1.0 {
		return false
	}
	tb.tokens--
	return true
}

func (z *zone) reset() {
	z.mu.Lock()
	clear(z.m)
	z.mu.Unlock()
}

// limit rejects requests over the zone's rate with status.
func (z *zone) limit(status int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !z.allow(clientIP(r)) {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(status)
				_, _ = w.Write([]byte("<html><body><h1>Too Many Requests</h1></body></html>\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP ignores X-Forwarded-For: the zone keys on the peer address the
// way a proxy's own limiter does.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
