package datasets_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/palantir/palantir-compute-module-pipeline-clean/internal/datasets"
	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/normalize"
	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/schema"
	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/table"
)

const validYAML = `
datasets:
  - name: events
    input: events.csv
    output: events_clean.csv
    fields:
      - column: region
        kind: text
      - column: event_date
        kind: date
      - column: count
        kind: number
        numeric_default: 0
    required: [event_date, region]
  - name: targets
    input: targets.csv
    output: targets_clean.csv
    fields:
      - column: month
        kind: date
    required: [month]
    post_process:
      month_truncate: month
`

func TestParseValid(t *testing.T) {
	defs, err := datasets.Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(defs))
	}

	region, ok := defs[0].Rule("region")
	if !ok || region.Kind != schema.KindString {
		t.Fatalf("kind alias not normalized: %#v", region)
	}
	count, ok := defs[0].Rule("count")
	if !ok || count.Kind != schema.KindNumeric || count.NumericDefault == nil || *count.NumericDefault != 0 {
		t.Fatalf("unexpected count rule: %#v", count)
	}
	got := count.Normalizer().Normalize(table.Text("n/a"))
	if !got.Value.Equal(table.Number(0)) || got.Reason != normalize.ReasonUnparsable {
		t.Fatalf("count default not applied: %#v", got)
	}
	if defs[1].PostProcess.MonthTruncate != "month" {
		t.Fatalf("post_process not decoded: %#v", defs[1].PostProcess)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
		wantMsg string
	}{
		{
			name:    "empty registry",
			yaml:    "datasets: []\n",
			wantErr: datasets.ErrNoDatasets,
		},
		{
			name:    "missing input",
			yaml:    "datasets:\n  - name: a\n    output: a_clean.csv\n    required: [x]\n",
			wantErr: datasets.ErrInvalidDefinition,
			wantMsg: "Input",
		},
		{
			name:    "missing required set",
			yaml:    "datasets:\n  - name: a\n    input: a.csv\n    output: a_clean.csv\n",
			wantErr: datasets.ErrInvalidDefinition,
			wantMsg: "Required",
		},
		{
			name:    "duplicate name",
			yaml:    "datasets:\n  - {name: a, input: a.csv, output: a1.csv, required: [x]}\n  - {name: a, input: b.csv, output: a2.csv, required: [x]}\n",
			wantErr: datasets.ErrDuplicateName,
		},
		{
			name:    "duplicate output",
			yaml:    "datasets:\n  - {name: a, input: a.csv, output: o.csv, required: [x]}\n  - {name: b, input: b.csv, output: o.csv, required: [x]}\n",
			wantErr: datasets.ErrDuplicateOutput,
		},
		{
			name:    "duplicate rule",
			yaml:    "datasets:\n  - name: a\n    input: a.csv\n    output: a_clean.csv\n    required: [x]\n    fields:\n      - {column: x, kind: string}\n      - {column: x, kind: date}\n",
			wantErr: datasets.ErrDuplicateRule,
		},
		{
			name:    "default on non-numeric",
			yaml:    "datasets:\n  - name: a\n    input: a.csv\n    output: a_clean.csv\n    required: [x]\n    fields:\n      - {column: x, kind: string, numeric_default: 1}\n",
			wantErr: datasets.ErrDefaultNotNumeric,
		},
		{
			name:    "truncate non-date",
			yaml:    "datasets:\n  - name: a\n    input: a.csv\n    output: a_clean.csv\n    required: [x]\n    fields:\n      - {column: x, kind: string}\n    post_process: {month_truncate: x}\n",
			wantErr: datasets.ErrTruncateNotDate,
		},
		{
			name:    "unknown kind",
			yaml:    "datasets:\n  - name: a\n    input: a.csv\n    output: a_clean.csv\n    required: [x]\n    fields:\n      - {column: x, kind: boolean}\n",
			wantMsg: "unknown kind",
		},
		{
			name:    "unknown key",
			yaml:    "datasets:\n  - name: a\n    input: a.csv\n    output: a_clean.csv\n    required: [x]\n    extra: true\n",
			wantMsg: "extra",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := datasets.Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("expected %q in %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestMarshalRoundTripsDefaults(t *testing.T) {
	data, err := datasets.Marshal(datasets.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defs, err := datasets.Parse(data)
	if err != nil {
		t.Fatalf("default registry does not re-parse: %v\n%s", err, data)
	}
	if len(defs) != len(datasets.Default()) {
		t.Fatalf("expected %d datasets, got %d", len(datasets.Default()), len(defs))
	}
	events := defs[3]
	count, ok := events.Rule("count")
	if events.Name != "web_events" || !ok || count.NumericDefault == nil {
		t.Fatalf("web_events count default lost: %#v", events)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasets.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defs, err := datasets.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if defs[0].Name != "events" {
		t.Fatalf("unexpected first dataset: %q", defs[0].Name)
	}

	if _, err := datasets.Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
