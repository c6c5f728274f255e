package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/table"
)

// Numeric coerces number-like values to floats. Missing or unparsable input
// becomes Default, which is null unless set.
type Numeric struct {
	Default table.Value
}

// NumericWithDefault returns a Numeric that substitutes f on failure.
func NumericWithDefault(f float64) Numeric {
	return Numeric{Default: table.Number(f)}
}

func (n Numeric) Normalize(v table.Value) Outcome {
	switch v.Kind() {
	case table.KindNull:
		return failed(n.Default, ReasonMissing)
	case table.KindNumber:
		return ok(v)
	case table.KindDate:
		return failed(n.Default, ReasonUnparsable)
	}
	s, _ := v.Str()
	f, parsed := ParseNumber(s)
	if !parsed {
		return failed(n.Default, ReasonUnparsable)
	}
	return ok(table.Number(f))
}

// ParseNumber parses a decimal float. Hex literals, digit separators and NaN
// are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "_xXpP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
