package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func tokenFor(t *testing.T, issuer *TokenIssuer) string {
	t.Helper()
	token, err := issuer.Issue(&User{ID: 1, Username: "admin"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return token
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireTokenGuardsVisitorPaths(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"))
	handler := RequireToken(issuer, okHandler())
	valid := tokenFor(t, issuer)

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "/api/visitors", "", http.StatusUnauthorized},
		{"wrong scheme", "/api/visitors", "Basic abc", http.StatusUnauthorized},
		{"invalid token", "/api/visitors/stats", "Bearer garbage", http.StatusUnauthorized},
		{"valid token", "/api/visitors", "Bearer " + valid, http.StatusOK},
		{"valid token subpath", "/api/visitors/chart-data", "Bearer " + valid, http.StatusOK},
		{"login is public", "/api/auth/login", "", http.StatusOK},
		{"health is public", "/api/health", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
					t.Errorf("content type = %q, want application/json", ct)
				}
			}
		})
	}
}

func TestRateLimiterPrunesOldAttempts(t *testing.T) {
	rl := &rateLimiter{attempts: make(map[string][]time.Time)}

	for i := 0; i < rateLimitMaxFail; i++ {
		if rl.recordFailure("1.2.3.4") {
			t.Fatalf("limited after %d failures, limit is %d", i+1, rateLimitMaxFail)
		}
	}
	if !rl.recordFailure("1.2.3.4") {
		t.Error("expected rate limit after exceeding max failures")
	}

	// A different IP is unaffected.
	if rl.recordFailure("5.6.7.8") {
		t.Error("unrelated IP should not be limited")
	}
}
