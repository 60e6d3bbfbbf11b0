package httpadapter

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const adminKeyHeader = "X-Admin-Key"

// rateLimitMiddleware applies a process-wide token bucket. rps <= 0
// disables the gate.
func rateLimitMiddleware(next http.Handler, rps, burst int) http.Handler {
	if rps <= 0 {
		return next
	}
	if burst < rps {
		burst = rps
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			w.Header().Set("Retry-After", strconv.Itoa(1))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// backpressureMiddleware bounds in-flight requests with a semaphore.
// A request that cannot take a slot within wait is shed with 503 so
// the caller can fail fast instead of queueing behind slow searches.
func backpressureMiddleware(next http.Handler, maxInFlight int, wait time.Duration) http.Handler {
	if maxInFlight <= 0 {
		return next
	}
	if wait <= 0 {
		wait = 100 * time.Millisecond
	}
	slots := make(chan struct{}, maxInFlight)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case slots <- struct{}{}:
			defer func() { <-slots }()
			next.ServeHTTP(w, r)
		case <-timer.C:
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "server overloaded, try again later"})
		case <-r.Context().Done():
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "request cancelled while queued"})
		}
	})
}

// requireAdmin gates the partner management endpoints. An empty
// configured key disables the check for local development.
func (rt *Router) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if rt.cfg.AdminAPIKey == "" {
		return true
	}
	provided := r.Header.Get(adminKeyHeader)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(rt.cfg.AdminAPIKey)) != 1 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid admin key"})
		return false
	}
	return true
}
