package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"
)

// rateLimiter tracks failed bearer-token attempts per IP.
type rateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
}

var tokenLimiter = &rateLimiter{
	attempts: make(map[string][]time.Time),
}

const (
	rateLimitWindow  = 1 * time.Minute
	rateLimitMaxFail = 10
)

// recordFailure records a failed attempt and returns true if rate limited.
func (rl *rateLimiter) recordFailure(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rateLimitWindow)

	// Prune old entries
	valid := rl.attempts[ip][:0]
	for _, t := range rl.attempts[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	valid = append(valid, now)
	rl.attempts[ip] = valid

	return len(valid) > rateLimitMaxFail
}

// RequireToken is middleware that validates Bearer tokens on every
// /api/visitors path. Login and health endpoints pass through. Returns
// 401 JSON for missing/invalid tokens, 429 for rate-limited IPs.
func RequireToken(issuer *TokenIssuer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/visitors") {
			next.ServeHTTP(w, r)
			return
		}

		ip := r.RemoteAddr

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(w, "Authorization required")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")

		if _, err := issuer.Verify(token); err != nil {
			if tokenLimiter.recordFailure(ip) {
				jsonError(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			unauthorized(w, "Invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	jsonError(w, msg, http.StatusUnauthorized)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}
