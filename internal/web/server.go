// Package web provides the HTTP JSON API for the visitor dashboard.
package web

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/frontdesk/visitor-dashboard/internal/auth"
	"github.com/frontdesk/visitor-dashboard/internal/logging"
	"github.com/frontdesk/visitor-dashboard/internal/visitor"
)

// Server is the dashboard API server.
type Server struct {
	service *visitor.Service
	repo    *visitor.Repository
	users   *auth.UserStore
	tokens  *auth.TokenIssuer
	cfg     Config
	handler http.Handler
}

// NewServer creates an API server with the given database.
func NewServer(db *sql.DB, cfg Config) (*Server, error) {
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		// No configured secret: issued tokens won't survive a restart.
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generating signing secret: %w", err)
		}
		slog.Warn("VD_JWT_SECRET not set, using an ephemeral signing secret")
	}

	repo := visitor.NewRepository(db)
	s := &Server{
		service: visitor.NewService(repo),
		repo:    repo,
		users:   auth.NewUserStore(db),
		tokens:  auth.NewTokenIssuer(secret),
		cfg:     cfg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/visitors", s.handleListVisitors)
	mux.HandleFunc("/api/visitors/", s.handleVisitorRoute)

	// Preflight requests carry no Authorization header, so CORS sits
	// outside the auth check.
	s.handler = logging.RequestLogger(s.cors(auth.RequireToken(s.tokens, mux)))

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	slog.Info("starting visitor dashboard API", "addr", addr)
	return http.ListenAndServe(addr, s)
}

// cors allows the configured dashboard origin to call the API.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.CORSOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.cfg.CORSOrigin)
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
