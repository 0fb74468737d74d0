package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// TestLevelFiltering verifies messages below the level are dropped
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(WARN, false)
	log.SetOutput(&buf)

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("Expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("Expected warn/error to pass, got %q", out)
	}
}

// TestJSONFormat verifies entries are valid JSON with fields merged
func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(INFO, true)
	log.SetOutput(&buf)

	log.WithField("component", "bootstrap").Info("Database is up", map[string]interface{}{
		"attempt": 3,
	})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected valid JSON, got %q: %v", buf.String(), err)
	}
	if entry.Level != "INFO" {
		t.Errorf("Expected INFO level, got %q", entry.Level)
	}
	if entry.Message != "Database is up" {
		t.Errorf("Expected message, got %q", entry.Message)
	}
	if entry.Fields["component"] != "bootstrap" {
		t.Errorf("Expected logger field to be merged, got %v", entry.Fields)
	}
}

// TestParseLevel covers the accepted spellings
func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DEBUG,
		"INFO":    INFO,
		"warning": WARN,
		"ERROR":   ERROR,
		"bogus":   INFO,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}
