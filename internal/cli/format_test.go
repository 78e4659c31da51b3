package cli

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world!", 8, "hello..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncate(tt.input, tt.max)
			if result != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, result, tt.expected)
			}
		})
	}
}

func TestFormatEntryTime(t *testing.T) {
	if got := formatEntryTime(nil); got != "-" {
		t.Errorf("formatEntryTime(nil) = %q, want -", got)
	}

	ts := time.Date(2025, 6, 18, 14, 30, 0, 0, time.Local)
	if got := formatEntryTime(&ts); got != "2025-06-18 14:30" {
		t.Errorf("formatEntryTime = %q, want 2025-06-18 14:30", got)
	}
}
