package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/frontdesk/visitor-dashboard/internal/db"
	"github.com/frontdesk/visitor-dashboard/internal/visitor"
)

// testServer creates an API server over a temp database and returns it
// with a repository on the same database and a valid bearer token.
func testServer(t *testing.T) (*Server, *visitor.Repository, string) {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if cerr := d.Close(); cerr != nil {
			t.Errorf("close db: %v", cerr)
		}
	})

	cfg := Config{
		JWTSecret:  "test-secret",
		CORSOrigin: "http://localhost:3000",
		DevMode:    true,
	}
	srv, err := NewServer(d, cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	user, err := srv.users.Create("admin", "s3cret")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	token, err := srv.tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	return srv, visitor.NewRepository(d), token
}

// apiGet performs an authenticated GET and decodes the JSON body into out.
func apiGet(t *testing.T, srv *Server, path, token string, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if out != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v\nbody: %s", path, err, rec.Body.String())
		}
	}
	return rec
}

func seedVisitor(t *testing.T, repo *visitor.Repository, rec *visitor.Record) {
	t.Helper()
	if _, err := repo.Insert(rec); err != nil {
		t.Fatalf("seed visitor: %v", err)
	}
}

func TestHealthIsPublic(t *testing.T) {
	srv, _, _ := testServer(t)

	var body map[string]string
	rec := apiGet(t, srv, "/api/health", "", &body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["status"] != "OK" {
		t.Errorf("status field = %q, want OK", body["status"])
	}
}

func TestVisitorEndpointsRequireAuth(t *testing.T) {
	srv, _, _ := testServer(t)

	paths := []string{
		"/api/visitors",
		"/api/visitors/stats",
		"/api/visitors/chart-data",
		"/api/visitors/export",
		"/api/visitors/unique-hosts",
		"/api/visitors/unique-types",
	}
	for _, path := range paths {
		rec := apiGet(t, srv, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", path, rec.Code)
		}
	}
}

func TestListVisitors(t *testing.T) {
	srv, repo, token := testServer(t)

	older := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	seedVisitor(t, repo, &visitor.Record{Type: "vendor", Host: "Alice", Purpose: "Delivery", EntryTime: &older})
	seedVisitor(t, repo, &visitor.Record{Type: "guest", Host: "Bob", Purpose: "Meeting", Timestamp: &newer})

	var res visitor.ListResult
	rec := apiGet(t, srv, "/api/visitors?page=1&limit=20", token, &res)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	if len(res.Visitors) != 2 {
		t.Fatalf("got %d visitors, want 2", len(res.Visitors))
	}
	// Bob's record is more recent (via the fallback timestamp field).
	if res.Visitors[0].Host != "Bob" || res.Visitors[1].Host != "Alice" {
		t.Errorf("order = %s, %s; want Bob, Alice", res.Visitors[0].Host, res.Visitors[1].Host)
	}
	// Missing display fields render sentinels, never empty strings.
	if res.Visitors[0].Name != "Unknown" || res.Visitors[0].Phone != "Not provided" {
		t.Errorf("sentinels missing: %+v", res.Visitors[0])
	}
	p := res.Pagination
	if p.Current != 1 || p.Pages != 1 || p.Total != 2 || p.HasNext || p.HasPrev {
		t.Errorf("pagination = %+v", p)
	}
}

func TestListVisitorsCoercesBadPaging(t *testing.T) {
	srv, repo, token := testServer(t)
	seedVisitor(t, repo, &visitor.Record{Type: "guest", Host: "Alice", Purpose: "x"})

	var res visitor.ListResult
	rec := apiGet(t, srv, "/api/visitors?page=abc&limit=-5", token, &res)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (bad params coerce, not error)", rec.Code)
	}
	if res.Pagination.Current != 1 {
		t.Errorf("page = %d, want 1", res.Pagination.Current)
	}
}

func TestListVisitorsFiltered(t *testing.T) {
	srv, repo, token := testServer(t)
	seedVisitor(t, repo, &visitor.Record{Type: "vendor", Host: "Acme Corp", Purpose: "Delivery"})
	seedVisitor(t, repo, &visitor.Record{Type: "guest", Host: "Bob", Purpose: "Meeting"})

	var res visitor.ListResult
	apiGet(t, srv, "/api/visitors?search=acme", token, &res)
	if res.Pagination.Total != 1 || res.Visitors[0].Host != "Acme Corp" {
		t.Errorf("filtered result = %+v", res)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, repo, token := testServer(t)

	now := time.Now()
	seedVisitor(t, repo, &visitor.Record{Type: "guest", Host: "Alice", Purpose: "x", EntryTime: &now})
	seedVisitor(t, repo, &visitor.Record{Type: "guest", Host: "Alice", Purpose: "x", EntryTime: &now})
	seedVisitor(t, repo, &visitor.Record{Type: "vendor", Host: "Bob", Purpose: "x", EntryTime: &now})

	var stats visitor.StatsResult
	rec := apiGet(t, srv, "/api/visitors/stats", token, &stats)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	if stats.TotalVisitors != 3 || stats.TodayVisitors != 3 {
		t.Errorf("counts = %+v", stats)
	}
	if len(stats.TypeStats) != 2 || stats.TypeStats[0].ID != "guest" || stats.TypeStats[0].Count != 2 {
		t.Errorf("typeStats = %+v", stats.TypeStats)
	}
	if len(stats.TopHosts) != 2 || stats.TopHosts[0].ID != "Alice" {
		t.Errorf("topHosts = %+v", stats.TopHosts)
	}
}

func TestChartDataEndpoint(t *testing.T) {
	srv, repo, token := testServer(t)

	now := time.Now()
	seedVisitor(t, repo, &visitor.Record{Type: "guest", Host: "A", Purpose: "x", EntryTime: &now})
	seedVisitor(t, repo, &visitor.Record{Type: "guest", Host: "B", Purpose: "x", EntryTime: &now})

	var series []visitor.GroupCount
	rec := apiGet(t, srv, "/api/visitors/chart-data?days=7", token, &series)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if len(series) != 1 || series[0].Count != 2 {
		t.Errorf("series = %+v, want one bucket of 2", series)
	}
	if series[0].ID != now.UTC().Format("2006-01-02") {
		t.Errorf("bucket date = %s, want today (UTC)", series[0].ID)
	}
}

func TestExportEndpoint(t *testing.T) {
	srv, repo, token := testServer(t)
	seedVisitor(t, repo, &visitor.Record{Type: "vendor", Host: "Acme", Purpose: "x"})
	seedVisitor(t, repo, &visitor.Record{Type: "guest", Host: "Bob", Purpose: "x"})

	var res visitor.ExportResult
	rec := apiGet(t, srv, "/api/visitors/export?type=vendor", token, &res)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if res.Total != 1 || len(res.Visitors) != 1 || res.Visitors[0].Host != "Acme" {
		t.Errorf("export = %+v", res)
	}
}

func TestUniqueValueEndpoints(t *testing.T) {
	srv, repo, token := testServer(t)
	seedVisitor(t, repo, &visitor.Record{Type: "vendor", Host: "Bob", Purpose: "x"})
	seedVisitor(t, repo, &visitor.Record{Type: "guest", Host: "Alice", Purpose: "x"})
	seedVisitor(t, repo, &visitor.Record{Type: "guest", Host: "Alice", Purpose: "x"})

	var hosts []string
	apiGet(t, srv, "/api/visitors/unique-hosts", token, &hosts)
	if len(hosts) != 2 || hosts[0] != "Alice" || hosts[1] != "Bob" {
		t.Errorf("hosts = %v", hosts)
	}

	var types []string
	apiGet(t, srv, "/api/visitors/unique-types", token, &types)
	if len(types) != 2 || types[0] != "guest" || types[1] != "vendor" {
		t.Errorf("types = %v", types)
	}
}

func TestUnknownVisitorOperation(t *testing.T) {
	srv, _, token := testServer(t)

	rec := apiGet(t, srv, "/api/visitors/bogus", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestEmptyStoreListsEmpty(t *testing.T) {
	srv, _, token := testServer(t)

	var res visitor.ListResult
	rec := apiGet(t, srv, "/api/visitors", token, &res)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (no matches is success)", rec.Code)
	}
	if res.Pagination.Total != 0 || len(res.Visitors) != 0 {
		t.Errorf("expected empty listing, got %+v", res)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _, _ := testServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/visitors", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow-origin = %q", got)
	}
}
