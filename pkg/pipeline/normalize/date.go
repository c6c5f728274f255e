package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/table"
)

// dateLayouts are tried in order. Year-first forms are unambiguous and come
// first, with or without zero padding; every other numeric form that starts
// with a short component reads it as the day of month.
var dateLayouts = buildDateLayouts()

func buildDateLayouts() []string {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05Z07:00",
		"20060102",
	}
	for _, sep := range []string{"-", "/", "."} {
		ymd := "2006" + sep + "1" + sep + "2"
		layouts = append(layouts,
			ymd,
			ymd+" 15:04:05",
			ymd+" 15:04",
		)
	}
	for _, sep := range []string{"/", "-", "."} {
		d := "2" + sep + "1" + sep
		layouts = append(layouts,
			d+"2006",
			d+"2006 15:04",
			d+"2006 15:04:05",
			d+"06",
		)
	}
	layouts = append(layouts,
		"2 January 2006",
		"2 Jan 2006",
		"January 2, 2006",
		"Jan 2, 2006",
		"January 2 2006",
		"Jan 2 2006",
		"2-Jan-2006",
		"2-Jan-06",
		"Mon, 2 Jan 2006",
		// Month-only forms resolve to the first of the month.
		"2006-01",
		"2006/01",
		"1/2006",
		"January 2006",
		"Jan 2006",
	)
	return layouts
}

// Date parses date-like values day-first into canonical dates (midnight UTC).
// Values that cannot be parsed become null.
type Date struct{}

func (Date) Normalize(v table.Value) Outcome {
	switch v.Kind() {
	case table.KindNull:
		return failed(table.Null(), ReasonMissing)
	case table.KindDate:
		return ok(v)
	case table.KindNumber:
		f, _ := v.Float()
		if t, parsed := ParseDate(strconv.FormatFloat(f, 'f', -1, 64)); parsed {
			return ok(table.Date(t))
		}
		return failed(table.Null(), ReasonUnparsable)
	}
	s, _ := v.Str()
	t, parsed := ParseDate(s)
	if !parsed {
		return failed(table.Null(), ReasonUnparsable)
	}
	return ok(table.Date(t))
}

// ParseDate parses s under day-first rules. "03/04/2024" is 3 April 2024.
func ParseDate(s string) (time.Time, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TruncateMonth replaces a date with the first day of its month. Other kinds
// are returned unchanged.
func TruncateMonth(v table.Value) table.Value {
	t, isDate := v.Time()
	if !isDate {
		return v
	}
	return table.Date(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC))
}
