package pipeline_test

import (
	"testing"

	"github.com/palantir/palantir-compute-module-pipeline-clean/internal/pipeline"
)

func TestDropIncomplete(t *testing.T) {
	raw := rawTable(t,
		[]string{"id", "region", "note"},
		[]string{"1", "North", ""},
		[]string{"2", "", "x"},
		[]string{"", "South", "y"},
		[]string{"4", "East", ""},
	)

	kept, dropped := pipeline.DropIncomplete(raw, []string{"id", "region"})
	if dropped != 2 || kept.Len() != 2 {
		t.Fatalf("expected 2 kept and 2 dropped, got %d/%d", kept.Len(), dropped)
	}
	if kept.Get(0, "id").String() != "1" || kept.Get(1, "id").String() != "4" {
		t.Fatalf("order not preserved: %v %v", kept.Record(0), kept.Record(1))
	}
	if !kept.Get(0, "note").IsNull() {
		t.Fatalf("non-required nulls should be kept")
	}
}

func TestDropIncompleteNoRequired(t *testing.T) {
	raw := rawTable(t, []string{"a"}, []string{""}, []string{"x"})
	kept, dropped := pipeline.DropIncomplete(raw, nil)
	if dropped != 0 || kept.Len() != 2 {
		t.Fatalf("expected every row kept, got %d/%d", kept.Len(), dropped)
	}
}
