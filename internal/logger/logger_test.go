package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/palantir/palantir-compute-module-pipeline-clean/internal/logger"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := logger.ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q)=%v want=%v", in, got, want)
		}
	}
}

func TestJSONFormatCarriesAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "info", Format: "json", Output: &buf})
	log.With("dataset", "orders").Info("dataset cleaned", "rows_read", 2, "rows_kept", 1)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["dataset"] != "orders" || rec["msg"] != "dataset cleaned" || rec["rows_kept"] != float64(1) {
		t.Fatalf("unexpected record: %#v", rec)
	}
}

func TestLevelFiltersChildren(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "warn", Output: &buf})
	child := log.With("dataset", "targets")

	if child.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should be disabled at warn")
	}
	child.Info("hidden")
	child.Warn("every row dropped")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered at warn: %q", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "dataset=targets") {
		t.Fatalf("unexpected output: %q", out)
	}
}
