package main

import (
	"fmt"
	"os"

	localio "github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/io/local"
	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/normalize"
	"github.com/palantir/palantir-compute-module-pipeline-clean/test/template/sku"
)

// Reads a CSV with a "sku" column on stdin and writes it back normalized.
func main() {
	tbl, err := localio.ReadTable(os.Stdin)
	if err != nil {
		panic(err)
	}
	vals, ok := tbl.Column("sku")
	if !ok {
		panic("input has no sku column")
	}
	clean, counts := normalize.Column(sku.Normalizer{}, vals)
	if err := tbl.SetColumn("sku", clean); err != nil {
		panic(err)
	}
	if err := localio.WriteTable(os.Stdout, tbl); err != nil {
		panic(err)
	}
	_, _ = fmt.Fprintf(os.Stderr, "%d missing sku(s)\n", counts.Missing)
}
