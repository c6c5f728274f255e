package pipeline

import "github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/table"

// DropIncomplete keeps the rows whose required columns are all non-null, in
// their original order, and returns how many rows were dropped. A required
// column the table does not have counts as null.
func DropIncomplete(t *table.Table, required []string) (*table.Table, int) {
	kept := t.Filter(func(i int) bool {
		for _, col := range required {
			if t.Get(i, col).IsNull() {
				return false
			}
		}
		return true
	})
	return kept, t.Len() - kept.Len()
}
