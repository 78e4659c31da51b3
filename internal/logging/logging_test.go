package logging

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// captureLogs replaces the default logger with a buffer-backed text
// handler for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestSetup(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	// Both modes must install a working default logger.
	Setup(true)
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug level enabled in dev mode")
	}

	Setup(false)
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug level suppressed in prod mode")
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info level enabled in prod mode")
	}
}

func serveLogged(t *testing.T, target string, status int) *bytes.Buffer {
	t.Helper()
	buf := captureLogs(t)

	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	req := httptest.NewRequest("GET", target, nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return buf
}

func TestRequestLogger(t *testing.T) {
	buf := serveLogged(t, "/api/visitors", http.StatusOK)

	out := buf.String()
	if out == "" {
		t.Fatal("expected log output")
	}
	for _, want := range []string{"GET", "/api/visitors", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}

func TestRequestLoggerIncludesQuery(t *testing.T) {
	buf := serveLogged(t, "/api/visitors?search=acme&page=2", http.StatusOK)

	if !strings.Contains(buf.String(), "search=acme") {
		t.Error("expected query string in log")
	}
}

func TestRequestLoggerSkipsHealth(t *testing.T) {
	buf := serveLogged(t, "/api/health", http.StatusOK)

	if buf.Len() > 0 {
		t.Error("expected no log for health path")
	}
}

func TestRequestLoggerCapturesStatus(t *testing.T) {
	buf := serveLogged(t, "/missing", http.StatusNotFound)

	if !strings.Contains(buf.String(), "404") {
		t.Error("expected 404 status in log")
	}
}
