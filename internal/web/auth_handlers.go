package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frontdesk/visitor-dashboard/internal/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin serves POST /api/auth/login and returns a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		apiError(w, "Username and password required.", http.StatusBadRequest)
		return
	}

	user, err := s.users.Authenticate(req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		apiError(w, "Invalid credentials.", http.StatusUnauthorized)
		return
	}
	if err != nil {
		apiFailure(w, "Login failed.", err)
		return
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		apiFailure(w, "Login failed.", err)
		return
	}

	slog.Info("admin login", "username", user.Username)
	apiJSON(w, map[string]string{"token": token}, http.StatusOK)
}
