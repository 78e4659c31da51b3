// Package logging provides structured logging setup for the visitor
// dashboard server.
package logging

import (
	"log/slog"
	"os"
)

// Setup installs the default slog logger. Dev mode logs readable text
// at debug level; production logs JSON at info level so entries can
// be shipped to a collector as-is.
func Setup(devMode bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if devMode {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
