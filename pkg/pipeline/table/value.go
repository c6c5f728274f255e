package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical text form of a date value.
const DateLayout = "2006-01-02"

// Kind tags the dynamic type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "null"
	}
}

// Value is one cell. The zero Value is null.
type Value struct {
	kind Kind
	text string
	num  float64
	date time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number wraps a float. NaN is stored as null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// Date wraps a calendar date. The time of day and location are discarded.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the text payload and whether v holds text.
func (v Value) Str() (string, bool) { return v.text, v.kind == KindText }

// Float returns the numeric payload and whether v holds a number.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// Time returns the date payload and whether v holds a date.
func (v Value) Time() (time.Time, bool) { return v.date, v.kind == KindDate }

// String renders v the way it is written to clean output. Null renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return FormatFloat(v.num)
	case KindDate:
		return v.date.Format(DateLayout)
	default:
		return ""
	}
}

// Equal reports whether v and o hold the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindDate:
		return v.date.Equal(o.date)
	default:
		return true
	}
}

// FormatFloat uses the shortest round-trip form. Integral values keep a
// ".0" suffix, e.g. 100 renders as "100.0".
func FormatFloat(f float64) string {
	if math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
