package datasets

import (
	"fmt"
	"slices"
	"strings"

	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/schema"
)

func str(column string) FieldRule  { return FieldRule{Column: column, Kind: schema.KindString} }
func date(column string) FieldRule { return FieldRule{Column: column, Kind: schema.KindDate} }
func num(column string) FieldRule  { return FieldRule{Column: column, Kind: schema.KindNumeric} }

func numOr(column string, def float64) FieldRule {
	r := num(column)
	r.NumericDefault = &def
	return r
}

func named(name string) (input, output string) {
	return name + ".csv", name + "_clean.csv"
}

// Default returns the built-in registry. Each call returns fresh values.
func Default() []Definition {
	defs := []Definition{
		{
			Name:     "orders",
			Fields:   []FieldRule{str("region"), date("order_date"), num("order_value"), num("discount_pct")},
			Required: []string{"order_date", "region", "order_value"},
		},
		{
			Name:     "customers",
			Fields:   []FieldRule{str("region"), str("segment"), date("signup_date")},
			Required: []string{"customer_id", "region"},
		},
		{
			Name:     "products",
			Fields:   []FieldRule{str("category"), num("base_price"), num("margin_pct")},
			Required: []string{"product_id", "category"},
		},
		{
			Name: "web_events",
			// A missing event count means nothing happened.
			Fields:   []FieldRule{str("region"), str("event_type"), date("event_date"), numOr("count", 0)},
			Required: []string{"event_date", "region"},
		},
		{
			Name:     "operations",
			Fields:   []FieldRule{str("region"), date("date"), num("sku_availability_pct"), num("avg_delivery_days")},
			Required: []string{"date", "region"},
		},
		{
			Name:        "targets",
			Fields:      []FieldRule{str("region"), date("month"), num("target_revenue")},
			Required:    []string{"region", "month", "target_revenue"},
			PostProcess: PostProcess{MonthTruncate: "month"},
		},
	}
	for i := range defs {
		defs[i].Input, defs[i].Output = named(defs[i].Name)
	}
	return defs
}

// Select returns the definitions named in names, in registry order. An empty
// names list selects everything.
func Select(defs []Definition, names []string) ([]Definition, error) {
	if len(names) == 0 {
		return defs, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			want[n] = true
		}
	}
	var out []Definition
	for _, d := range defs {
		if want[d.Name] {
			out = append(out, d)
			delete(want, d.Name)
		}
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for n := range want {
			unknown = append(unknown, n)
		}
		slices.Sort(unknown)
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, strings.Join(unknown, ", "))
	}
	return out, nil
}
