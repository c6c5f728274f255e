// Package datasets describes the tables the cleaner knows how to process:
// where each one is read from and written to, which normalizer runs on which
// column, which columns a row must have, and any post-processing.
package datasets

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/normalize"
	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/schema"
)

// FieldRule binds a column to a normalizer.
type FieldRule struct {
	Column string      `yaml:"column" validate:"required"`
	Kind   schema.Kind `yaml:"kind" validate:"required,oneof=string date numeric"`
	// NumericDefault replaces missing or unparsable numeric cells. Unset
	// means null.
	NumericDefault *float64 `yaml:"numeric_default,omitempty"`
}

// UnmarshalYAML accepts kind aliases such as "text" or "number".
func (r *FieldRule) UnmarshalYAML(node *yaml.Node) error {
	type plain FieldRule
	var raw plain
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Kind != "" {
		kind, ok := schema.NormalizeKind(string(raw.Kind))
		if !ok {
			return fmt.Errorf("line %d: column %q: unknown kind %q", node.Line, raw.Column, raw.Kind)
		}
		raw.Kind = kind
	}
	*r = FieldRule(raw)
	return nil
}

// Normalizer returns the cell normalizer for the rule.
func (r FieldRule) Normalizer() normalize.Normalizer {
	switch r.Kind {
	case schema.KindDate:
		return normalize.Date{}
	case schema.KindNumeric:
		if r.NumericDefault != nil {
			return normalize.NumericWithDefault(*r.NumericDefault)
		}
		return normalize.Numeric{}
	default:
		return normalize.String{}
	}
}

// PostProcess holds optional rules applied after row validation.
type PostProcess struct {
	// MonthTruncate names a date column to truncate to the first of its month.
	MonthTruncate string `yaml:"month_truncate,omitempty"`
}

// Definition describes one dataset. Definitions are built once at startup
// and are not modified afterwards.
type Definition struct {
	Name        string      `yaml:"name" validate:"required"`
	Input       string      `yaml:"input" validate:"required"`
	Output      string      `yaml:"output" validate:"required"`
	Fields      []FieldRule `yaml:"fields" validate:"dive"`
	Required    []string    `yaml:"required" validate:"required,min=1,dive,required"`
	PostProcess PostProcess `yaml:"post_process,omitempty"`
}

// Rule returns the field rule for column, if any.
func (d Definition) Rule(column string) (FieldRule, bool) {
	for _, f := range d.Fields {
		if f.Column == column {
			return f, true
		}
	}
	return FieldRule{}, false
}

// Contract lists every column the dataset's raw input must provide: rule
// columns, required columns and post-processing columns. Only required
// columns are non-nullable.
func (d Definition) Contract() schema.DatasetContract {
	c := schema.DatasetContract{Dataset: d.Name}
	seen := make(map[string]bool)
	add := func(name string, kind schema.Kind) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		c.Fields = append(c.Fields, schema.Field{
			Name:     name,
			Type:     kind,
			Nullable: !slices.Contains(d.Required, name),
		})
	}
	for _, f := range d.Fields {
		add(f.Column, f.Kind)
	}
	for _, name := range d.Required {
		add(name, "")
	}
	add(d.PostProcess.MonthTruncate, schema.KindDate)
	return c
}
