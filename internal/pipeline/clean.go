// Package pipeline cleans one raw dataset according to its definition.
package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/palantir/palantir-compute-module-pipeline-clean/internal/datasets"
	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/normalize"
	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/table"
)

// Stats summarizes one Clean call.
type Stats struct {
	RowsRead    int
	RowsKept    int
	RowsDropped int
	// Coerced counts, per rule column, the cells that did not coerce cleanly.
	Coerced map[string]normalize.Counts
}

type columnResult struct {
	column string
	values []table.Value
	counts normalize.Counts
}

// Clean normalizes raw per def, drops incomplete rows and applies
// post-processing. raw is not modified.
//
// A raw header lacking any column the definition names fails with a
// *schema.MismatchError; dirty cells never fail.
func Clean(ctx context.Context, def datasets.Definition, raw *table.Table) (*table.Table, Stats, error) {
	stats := Stats{RowsRead: raw.Len(), Coerced: make(map[string]normalize.Counts, len(def.Fields))}

	if err := def.Contract().Check(raw.Columns()); err != nil {
		return nil, stats, err
	}

	// Columns are independent; normalize them concurrently and join before
	// looking at whole rows.
	results := make([]columnResult, len(def.Fields))
	g, gctx := errgroup.WithContext(ctx)
	for i, rule := range def.Fields {
		i, rule := i, rule
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			vals, _ := raw.Column(rule.Column)
			out, counts := normalize.Column(rule.Normalizer(), vals)
			results[i] = columnResult{column: rule.Column, values: out, counts: counts}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	work := raw.Filter(func(int) bool { return true })
	for _, res := range results {
		if err := work.SetColumn(res.column, res.values); err != nil {
			return nil, stats, fmt.Errorf("dataset %q: %w", def.Name, err)
		}
		stats.Coerced[res.column] = res.counts
	}

	clean, dropped := DropIncomplete(work, def.Required)
	stats.RowsKept = clean.Len()
	stats.RowsDropped = dropped

	if err := postProcess(def, clean); err != nil {
		return nil, stats, err
	}
	return clean, stats, nil
}

func postProcess(def datasets.Definition, t *table.Table) error {
	col := def.PostProcess.MonthTruncate
	if col == "" {
		return nil
	}
	vals, ok := t.Column(col)
	if !ok {
		return fmt.Errorf("dataset %q: post-process column %q not found", def.Name, col)
	}
	for i, v := range vals {
		vals[i] = normalize.TruncateMonth(v)
	}
	return t.SetColumn(col, vals)
}
