/*
ratelimit.go - Per-client request rate limiting

PURPOSE:
  Keeps one token bucket per client IP so a single misbehaving client
  (typically a stamp widget stuck in a retry loop) cannot starve the
  server for everyone else.

CLEANUP:
  The limiter map grows with distinct client IPs. For the intended
  deployment (a handful of devices on a private network) that is
  bounded in practice, so no eviction is implemented.

SEE ALSO:
  - server.go: Middleware registration
*/
package api

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// ipRateLimiter stores a rate limiter for each client IP address.
type ipRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.RWMutex
	r   rate.Limit
	b   int
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	return &ipRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

// limiterFor returns the rate limiter for an IP, creating it on first use.
func (i *ipRateLimiter) limiterFor(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.ips[ip]
	i.mu.RUnlock()
	if exists {
		return limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if limiter, exists := i.ips[ip]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(i.r, i.b)
	i.ips[ip] = limiter
	return limiter
}

// RateLimit is a middleware enforcing a per-client-IP token bucket.
func RateLimit(r rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := newIPRateLimiter(r, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ip, _, err := net.SplitHostPort(req.RemoteAddr)
			if err != nil {
				ip = req.RemoteAddr
			}
			if !limiter.limiterFor(ip).Allow() {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
