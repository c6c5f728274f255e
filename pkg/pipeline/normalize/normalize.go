// Package normalize implements the per-cell coercions applied to raw columns:
// free-text canonicalization, day-first date parsing and numeric coercion.
//
// Coercion failures are data-quality signals, not errors. Every normalizer
// returns an Outcome carrying the coerced value and, when the input could not
// be coerced cleanly, the reason why.
package normalize

import "github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/table"

// Reason explains why a cell did not coerce cleanly.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonMissing    Reason = "missing"
	ReasonUnparsable Reason = "unparsable"
)

// Outcome is the result of normalizing one cell.
type Outcome struct {
	Value  table.Value
	Reason Reason
}

// OK reports whether the input coerced cleanly.
func (o Outcome) OK() bool { return o.Reason == ReasonNone }

func ok(v table.Value) Outcome { return Outcome{Value: v} }

func failed(v table.Value, r Reason) Outcome { return Outcome{Value: v, Reason: r} }

// Normalizer coerces a single cell.
type Normalizer interface {
	Normalize(v table.Value) Outcome
}

// Func adapts a plain function to the Normalizer interface.
type Func func(v table.Value) Outcome

func (f Func) Normalize(v table.Value) Outcome { return f(v) }

// Counts tallies non-clean outcomes over a column.
type Counts struct {
	Missing    int
	Unparsable int
}

// Total returns the number of cells that did not coerce cleanly.
func (c Counts) Total() int { return c.Missing + c.Unparsable }

// Column applies n to every value, preserving length and order.
func Column(n Normalizer, vals []table.Value) ([]table.Value, Counts) {
	out := make([]table.Value, len(vals))
	var counts Counts
	for i, v := range vals {
		res := n.Normalize(v)
		out[i] = res.Value
		switch res.Reason {
		case ReasonMissing:
			counts.Missing++
		case ReasonUnparsable:
			counts.Unparsable++
		}
	}
	return out, counts
}
