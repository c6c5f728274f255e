// Package table holds the in-memory tabular model shared by the cleaning
// pipeline: an ordered header and rows of dynamically typed values.
package table

import (
	"fmt"
	"slices"
)

// Table is an ordered sequence of rows that all share the same columns.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New creates an empty table. Column names must be unique.
func New(columns []string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
	}
	return &Table{
		columns: slices.Clone(columns),
		index:   index,
	}, nil
}

// Columns returns a copy of the header in order.
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// Has reports whether the table has the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Append adds a row. It must carry exactly one value per column.
func (t *Table) Append(row []Value) error {
	if len(row) != len(t.columns) {
		return fmt.Errorf("row has %d values, want %d", len(row), len(t.columns))
	}
	t.rows = append(t.rows, slices.Clone(row))
	return nil
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Value { return slices.Clone(t.rows[i]) }

// Get returns the value of column name in row i; unknown columns read as null.
func (t *Table) Get(i int, name string) Value {
	c, ok := t.index[name]
	if !ok {
		return Null()
	}
	return t.rows[i][c]
}

// Record returns row i as a column name to value mapping.
func (t *Table) Record(i int) map[string]Value {
	out := make(map[string]Value, len(t.columns))
	for c, name := range t.columns {
		out[name] = t.rows[i][c]
	}
	return out
}

// Column returns a copy of the named column's values in row order.
func (t *Table) Column(name string) ([]Value, bool) {
	c, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[c]
	}
	return out, true
}

// SetColumn replaces the named column. vals must have one entry per row.
func (t *Table) SetColumn(name string, vals []Value) error {
	c, ok := t.index[name]
	if !ok {
		return fmt.Errorf("unknown column %q", name)
	}
	if len(vals) != len(t.rows) {
		return fmt.Errorf("column %q: got %d values for %d rows", name, len(vals), len(t.rows))
	}
	for i := range t.rows {
		t.rows[i][c] = vals[i]
	}
	return nil
}

// Filter returns a new table with the rows for which keep returns true, in
// their original order.
func (t *Table) Filter(keep func(i int) bool) *Table {
	out := &Table{columns: t.columns, index: t.index}
	for i, row := range t.rows {
		if keep(i) {
			out.rows = append(out.rows, slices.Clone(row))
		}
	}
	return out
}
