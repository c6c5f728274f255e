package sku

import (
	"strings"

	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/normalize"
	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/table"
)

// Normalizer upper-cases product codes and drops inner whitespace.
type Normalizer struct{}

func (Normalizer) Normalize(v table.Value) normalize.Outcome {
	if v.IsNull() {
		return normalize.Outcome{Value: v, Reason: normalize.ReasonMissing}
	}
	code := strings.ToUpper(strings.Join(strings.Fields(v.String()), ""))
	if code == "" {
		return normalize.Outcome{Value: table.Null(), Reason: normalize.ReasonMissing}
	}
	return normalize.Outcome{Value: table.Text(code)}
}
