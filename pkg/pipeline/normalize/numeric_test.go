package normalize_test

import (
	"math"
	"testing"

	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/normalize"
	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/table"
)

func TestNumericNormalize(t *testing.T) {
	tests := []struct {
		name   string
		n      normalize.Numeric
		in     table.Value
		want   table.Value
		reason normalize.Reason
	}{
		{name: "decimal", in: table.Text("12.5"), want: table.Number(12.5)},
		{name: "padded integer", in: table.Text(" 100 "), want: table.Number(100)},
		{name: "signed exponent", in: table.Text("-1e3"), want: table.Number(-1000)},
		{name: "infinity", in: table.Text("inf"), want: table.Number(math.Inf(1))},
		{name: "number passes through", in: table.Number(7), want: table.Number(7)},
		{name: "garbage is null", in: table.Text("abc"), want: table.Null(), reason: normalize.ReasonUnparsable},
		{name: "thousands separator is null", in: table.Text("1,000"), want: table.Null(), reason: normalize.ReasonUnparsable},
		{name: "hex is null", in: table.Text("0x1p4"), want: table.Null(), reason: normalize.ReasonUnparsable},
		{name: "nan is null", in: table.Text("NaN"), want: table.Null(), reason: normalize.ReasonUnparsable},
		{name: "null stays null", in: table.Null(), want: table.Null(), reason: normalize.ReasonMissing},
		{name: "default on garbage", n: normalize.NumericWithDefault(0), in: table.Text("abc"), want: table.Number(0), reason: normalize.ReasonUnparsable},
		{name: "default on null", n: normalize.NumericWithDefault(0), in: table.Null(), want: table.Number(0), reason: normalize.ReasonMissing},
		{name: "default unused on success", n: normalize.NumericWithDefault(0), in: table.Text("3"), want: table.Number(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.n.Normalize(tt.in)
			if !got.Value.Equal(tt.want) || got.Reason != tt.reason {
				t.Fatalf("Normalize(%v)=%v (%q) want=%v (%q)", tt.in, got.Value, got.Reason, tt.want, tt.reason)
			}
		})
	}
}
