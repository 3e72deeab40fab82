package handlers

import (
	"log"
	"net/http"
	"time"

	"kidtutor/internal/security"
)

// GateTokenHeader carries the parent-gate token on gated requests.
const GateTokenHeader = "X-Parent-Token"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	gate    *security.GateTokens
	limiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(gate *security.GateTokens, limiter *security.RateLimiter) *Middleware {
	return &Middleware{gate: gate, limiter: limiter}
}

// RequireParentGate guards destructive and profile-creating actions. The
// caller must present a token obtained from the verify endpoint; failure is
// a clean rejection, never a crash.
func (m *Middleware) RequireParentGate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(GateTokenHeader)
		if token == "" {
			respondWithError(w, http.StatusForbidden, "Ask a parent to enter the parent code first", nil)
			return
		}
		if err := m.gate.Validate(token); err != nil {
			respondWithError(w, http.StatusForbidden, "The parent code check has expired, please enter it again", err)
			return
		}
		next(w, r)
	}
}

// RateLimit throttles question traffic per client
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(security.ClientKey(r, "")) {
			respondWithError(w, http.StatusTooManyRequests, "Whoa, slow down! Try again in a minute", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Call next handler
		next.ServeHTTP(w, r)

		// Log request
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
