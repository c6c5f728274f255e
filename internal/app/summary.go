package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// FailureClass groups failures for reporting.
type FailureClass string

const (
	ClassSchema   FailureClass = "schema"
	ClassIO       FailureClass = "io"
	ClassCanceled FailureClass = "canceled"
	ClassInternal FailureClass = "internal"
)

// Result is the outcome of one dataset in a run.
type Result struct {
	Dataset  string
	Status   Status
	Class    FailureClass
	RowsRead int
	RowsKept int
	Output   string
	Reason   string
	Elapsed  time.Duration
}

// Summary reports every dataset of a run in registry order.
type Summary struct {
	RunID   string
	Results []Result
}

// Succeeded returns the results with StatusOK.
func (s Summary) Succeeded() []Result { return s.filter(StatusOK) }

// Failed returns the results with StatusFailed.
func (s Summary) Failed() []Result { return s.filter(StatusFailed) }

// OK reports whether every dataset succeeded.
func (s Summary) OK() bool { return len(s.Succeeded()) == len(s.Results) }

func (s Summary) filter(st Status) []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Status == st {
			out = append(out, r)
		}
	}
	return out
}

var summaryHeader = []string{"DATASET", "STATUS", "READ", "KEPT", "DETAIL"}

// Render writes the summary as an aligned text table.
func (s Summary) Render(w io.Writer) error {
	rows := [][]string{summaryHeader}
	for _, r := range s.Results {
		detail := r.Output
		status := string(r.Status)
		read, kept := "-", "-"
		switch r.Status {
		case StatusOK:
			read, kept = strconv.Itoa(r.RowsRead), strconv.Itoa(r.RowsKept)
		case StatusFailed:
			status += " (" + string(r.Class) + ")"
			detail = r.Reason
		case StatusSkipped:
			detail = "not attempted"
		}
		rows = append(rows, []string{r.Dataset, status, read, kept, detail})
	}

	widths := make([]int, len(summaryHeader))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i == len(row)-1 {
				sb.WriteString(cell)
				break
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			sb.WriteString("  ")
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "run %s: %d ok, %d failed, %d skipped\n",
		s.RunID, len(s.Succeeded()), len(s.Failed()), len(s.filter(StatusSkipped)))

	_, err := io.WriteString(w, sb.String())
	return err
}
