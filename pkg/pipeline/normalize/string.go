package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/table"
)

// nullLiterals are the title-cased spellings of stringified missing values.
var nullLiterals = map[string]bool{
	"":     true,
	"Nan":  true,
	"None": true,
}

// String canonicalizes free-text labels: whitespace is trimmed and collapsed,
// each word is title-cased, and empty or null-looking results become null.
//
// Applying String to its own output returns it unchanged.
type String struct{}

func (String) Normalize(v table.Value) Outcome {
	if v.IsNull() {
		return failed(table.Null(), ReasonMissing)
	}
	s := CleanText(v.String())
	if nullLiterals[s] {
		return failed(table.Null(), ReasonMissing)
	}
	return ok(table.Text(s))
}

// CleanText trims s, collapses whitespace runs to one space and title-cases
// every word. Words follow Unicode word segmentation: apostrophes, dots and
// underscores between letters do not start a new word ("o'neil" becomes
// "O'neil"), hyphens do ("north-west" becomes "North-West").
func CleanText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	// Casers keep state between calls, so each call gets its own.
	return cases.Title(language.Und).String(s)
}
