package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names the normalizer applied to a column.
type Kind string

const (
	KindString  Kind = "string"
	KindDate    Kind = "date"
	KindNumeric Kind = "numeric"
)

// ErrMissingColumn is wrapped by MismatchError.
var ErrMissingColumn = errors.New("missing required column")

// Field captures the minimal behavior-relevant schema fields.
type Field struct {
	Name     string
	Type     Kind
	Nullable bool
}

// DatasetContract lists the columns a raw input must provide.
type DatasetContract struct {
	Dataset string
	Fields  []Field
}

// NormalizeKind maps a config spelling to a Kind. Unknown spellings return
// false.
func NormalizeKind(raw string) (Kind, bool) {
	s := strings.TrimSpace(strings.ToLower(raw))
	switch s {
	case "string", "str", "text":
		return KindString, true
	case "date", "datetime":
		return KindDate, true
	case "numeric", "number", "float":
		return KindNumeric, true
	default:
		return "", false
	}
}

// MismatchError reports columns absent from a raw input header.
type MismatchError struct {
	Dataset string
	Missing []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("dataset %q: %s(s) %s", e.Dataset, ErrMissingColumn, strings.Join(quoteAll(e.Missing), ", "))
}

func (e *MismatchError) Unwrap() error { return ErrMissingColumn }

// Check verifies that every contract field is present in header.
func (c DatasetContract) Check(header []string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	var missing []string
	for _, f := range c.Fields {
		if !have[f.Name] {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return &MismatchError{Dataset: c.Dataset, Missing: missing}
	}
	return nil
}

// Required returns the names of the non-nullable fields.
func (c DatasetContract) Required() []string {
	var out []string
	for _, f := range c.Fields {
		if !f.Nullable {
			out = append(out, f.Name)
		}
	}
	return out
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
