package httpserver

import (
	"net"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// clientLimiter keeps a token bucket per client IP. Buckets idle for
// limiterIdle are dropped.
type clientLimiter struct {
	limit    rate.Limit
	burst    int
	limiters *gocache.Cache
}

const limiterIdle = 10 * time.Minute

// newClientLimiter returns nil (no limiting) when rps is zero.
func newClientLimiter(rps float64, burst int) *clientLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 5
	}
	return &clientLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		limiters: gocache.New(limiterIdle, limiterIdle),
	}
}

// allow takes one token from the client's bucket.
func (l *clientLimiter) allow(client string) bool {
	if v, ok := l.limiters.Get(client); ok {
		lim := v.(*rate.Limiter)
		l.limiters.SetDefault(client, lim) // refresh idle timer
		return lim.Allow()
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	if err := l.limiters.Add(client, lim, gocache.DefaultExpiration); err != nil {
		// Lost a race with another request from the same client.
		if v, ok := l.limiters.Get(client); ok {
			lim = v.(*rate.Limiter)
		}
	}
	return lim.Allow()
}

// middleware answers 429 once a client runs out of tokens.
func (l *clientLimiter) middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientKey(r)) {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate_limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey is the request's IP without port.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
