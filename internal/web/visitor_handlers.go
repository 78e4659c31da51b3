package web

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/frontdesk/visitor-dashboard/internal/visitor"
)

// listingPageSize is the page size the listing endpoint uses when the
// client sends no limit; the table view fetches generous pages.
const listingPageSize = 50

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	apiJSON(w, map[string]string{"error": msg}, code)
}

// apiFailure writes a 500 response carrying the failure detail.
// Store failures never produce partial results, only this envelope.
func apiFailure(w http.ResponseWriter, msg string, err error) {
	apiJSON(w, map[string]string{"error": msg, "message": err.Error()}, http.StatusInternalServerError)
}

// intParam reads a positive integer query parameter, falling back to
// def for missing, malformed or non-positive values.
func intParam(q url.Values, key string, def int) int {
	v := q.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// handleListVisitors serves GET /api/visitors.
func (s *Server) handleListVisitors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	page := intParam(q, "page", 1)
	limit := intParam(q, "limit", listingPageSize)

	res, err := s.service.List(visitor.ParamsFromQuery(q), page, limit)
	if err != nil {
		apiFailure(w, "Failed to fetch visitors", err)
		return
	}
	apiJSON(w, res, http.StatusOK)
}

// handleVisitorRoute routes /api/visitors/{operation} requests.
func (s *Server) handleVisitorRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	op := strings.TrimPrefix(r.URL.Path, "/api/visitors/")
	switch op {
	case "stats":
		s.handleStats(w, r)
	case "chart-data":
		s.handleChartData(w, r)
	case "export":
		s.handleExport(w, r)
	case "unique-hosts":
		s.handleDistinct(w, "host", "Failed to fetch hosts")
	case "unique-types":
		s.handleDistinct(w, "type", "Failed to fetch types")
	default:
		apiError(w, "not found", http.StatusNotFound)
	}
}

// handleStats serves GET /api/visitors/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats()
	if err != nil {
		apiFailure(w, "Failed to fetch statistics", err)
		return
	}
	apiJSON(w, stats, http.StatusOK)
}

// handleChartData serves GET /api/visitors/chart-data.
func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	days := intParam(r.URL.Query(), "days", 0)

	series, err := s.service.ChartSeries(days)
	if err != nil {
		apiFailure(w, "Failed to fetch chart data", err)
		return
	}
	apiJSON(w, series, http.StatusOK)
}

// handleExport serves GET /api/visitors/export: the full filtered set
// for client-side CSV serialization.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.Export(visitor.ParamsFromQuery(r.URL.Query()))
	if err != nil {
		apiFailure(w, "Failed to export visitors", err)
		return
	}
	apiJSON(w, res, http.StatusOK)
}

// handleDistinct serves the filter-dropdown value endpoints.
func (s *Server) handleDistinct(w http.ResponseWriter, column, failMsg string) {
	values, err := s.repo.Distinct(column)
	if err != nil {
		apiFailure(w, failMsg, err)
		return
	}
	apiJSON(w, values, http.StatusOK)
}

// handleHealth serves GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{
		"status":    "OK",
		"message":   "Visitor dashboard API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}
