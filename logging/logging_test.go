package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in, zapcore.InfoLevel); got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "warn", Console: &buf})
	logger.Info("hidden")
	logger.Warn("shown", zap.String("style", "basic"))
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info entry should be filtered: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "basic") {
		t.Fatalf("expected warn entry with field: %s", out)
	}
}

func TestNewTeesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stickers.log")
	var buf bytes.Buffer
	logger := New(Options{Development: true, File: path, Console: &buf})
	logger.Debug("template compiled", zap.Int("inputs", 2))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log file is not JSON: %v (%s)", err, data)
	}
	if entry["message"] != "template compiled" || entry["level"] != "debug" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if !strings.Contains(buf.String(), "template compiled") {
		t.Fatalf("expected console output too")
	}
}
