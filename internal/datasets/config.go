package datasets

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/schema"
)

// Registry validation errors.
var (
	ErrNoDatasets        = errors.New("at least one dataset is required")
	ErrDuplicateName     = errors.New("duplicate dataset name")
	ErrDuplicateOutput   = errors.New("duplicate dataset output")
	ErrDuplicateRule     = errors.New("column has more than one field rule")
	ErrDefaultNotNumeric = errors.New("numeric_default is only valid on numeric fields")
	ErrTruncateNotDate   = errors.New("post_process.month_truncate must name a date field")
	ErrUnknownDataset    = errors.New("unknown dataset")
	ErrInvalidDefinition = errors.New("invalid dataset definition")
)

// File is the on-disk registry format.
type File struct {
	Datasets []Definition `yaml:"datasets" validate:"required,min=1,dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates a registry file.
func Load(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates registry YAML. Unknown keys are rejected.
func Parse(data []byte) ([]Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse dataset config: %w", err)
	}
	if err := Validate(f.Datasets); err != nil {
		return nil, err
	}
	return f.Datasets, nil
}

// Marshal renders definitions in the registry file format.
func Marshal(defs []Definition) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(File{Datasets: defs}); err != nil {
		return nil, fmt.Errorf("marshal dataset config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks struct constraints and the cross-field rules of a registry.
func Validate(defs []Definition) error {
	if len(defs) == 0 {
		return ErrNoDatasets
	}

	names := make(map[string]bool, len(defs))
	outputs := make(map[string]bool, len(defs))
	for i, d := range defs {
		if err := validate.Struct(d); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				return fmt.Errorf("%w: datasets[%d]: %s", ErrInvalidDefinition, i, describe(verrs))
			}
			return fmt.Errorf("%w: datasets[%d]: %v", ErrInvalidDefinition, i, err)
		}
		if names[d.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, d.Name)
		}
		names[d.Name] = true
		if outputs[d.Output] {
			return fmt.Errorf("%w: %q", ErrDuplicateOutput, d.Output)
		}
		outputs[d.Output] = true

		if err := checkRules(d); err != nil {
			return fmt.Errorf("dataset %q: %w", d.Name, err)
		}
	}
	return nil
}

func checkRules(d Definition) error {
	seen := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		if seen[f.Column] {
			return fmt.Errorf("%w: %q", ErrDuplicateRule, f.Column)
		}
		seen[f.Column] = true
		if f.NumericDefault != nil && f.Kind != schema.KindNumeric {
			return fmt.Errorf("%w: %q", ErrDefaultNotNumeric, f.Column)
		}
	}
	if col := d.PostProcess.MonthTruncate; col != "" {
		if r, ok := d.Rule(col); !ok || r.Kind != schema.KindDate {
			return fmt.Errorf("%w: %q", ErrTruncateNotDate, col)
		}
	}
	return nil
}

func describe(errs validator.ValidationErrors) string {
	var buf bytes.Buffer
	for i, e := range errs {
		if i > 0 {
			buf.WriteString("; ")
		}
		fmt.Fprintf(&buf, "%s failed %q", e.Namespace(), e.Tag())
		if e.Param() != "" {
			fmt.Fprintf(&buf, " (%s)", e.Param())
		}
	}
	return buf.String()
}
