package app_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/palantir/palantir-compute-module-pipeline-clean/internal/app"
)

func TestSummaryRender(t *testing.T) {
	s := app.Summary{
		RunID: "run-1",
		Results: []app.Result{
			{Dataset: "orders", Status: app.StatusOK, RowsRead: 10, RowsKept: 8, Output: "data_clean/orders_clean.csv"},
			{Dataset: "customers", Status: app.StatusFailed, Class: app.ClassSchema, Reason: "missing customer_id"},
			{Dataset: "targets", Status: app.StatusSkipped},
		},
	}
	if s.OK() {
		t.Fatalf("summary with failures must not be OK")
	}

	var buf bytes.Buffer
	if err := s.Render(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), buf.String())
	}

	want := []string{
		"DATASET    STATUS           READ  KEPT  DETAIL",
		"orders     ok               10    8     data_clean/orders_clean.csv",
		"customers  failed (schema)  -     -     missing customer_id",
		"targets    skipped          -     -     not attempted",
		"run run-1: 1 ok, 1 failed, 1 skipped",
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d=%q want=%q", i, lines[i], want[i])
		}
	}
}

func TestSummaryOK(t *testing.T) {
	s := app.Summary{Results: []app.Result{{Status: app.StatusOK}, {Status: app.StatusOK}}}
	if !s.OK() || len(s.Succeeded()) != 2 || len(s.Failed()) != 0 {
		t.Fatalf("unexpected summary state: %#v", s)
	}
	if !(app.Summary{}).OK() {
		t.Fatalf("empty summary should be OK")
	}
}
