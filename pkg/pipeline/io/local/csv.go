package local

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/core"
	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/table"
)

// missingMarkers are the cell spellings read as null.
var missingMarkers = map[string]bool{
	"":         true,
	"NA":       true,
	"N/A":      true,
	"n/a":      true,
	"NaN":      true,
	"nan":      true,
	"-NaN":     true,
	"-nan":     true,
	"NULL":     true,
	"null":     true,
	"None":     true,
	"<NA>":     true,
	"#N/A":     true,
	"#NA":      true,
	"#N/A N/A": true,
	"-1.#IND":  true,
	"1.#IND":   true,
	"-1.#QNAN": true,
	"1.#QNAN":  true,
}

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(cell string) bool {
	return missingMarkers[strings.TrimSpace(cell)]
}

// ReadTable reads a CSV with a header row. Cells are read as text, except
// missing markers which are read as null. Short rows are padded with nulls.
func ReadTable(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("read header: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, col := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
	}
	t, err := table.New(header)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return t, nil
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("row %d has %d columns, want at most %d", line, len(rec), len(header))
		}
		row := make([]table.Value, len(header))
		for i, cell := range rec {
			if !IsMissing(cell) {
				row[i] = table.Text(cell)
			}
		}
		if err := t.Append(row); err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
	}
}

// WriteTable writes t as CSV with its header. Nulls are written as empty cells.
func WriteTable(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return err
	}
	rec := make([]string, len(t.Columns()))
	for i := 0; i < t.Len(); i++ {
		for c, v := range t.Row(i) {
			rec[c] = v.String()
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadFile opens path and reads it with ReadTable.
func ReadFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, markTransient(err)
	}
	defer func() {
		_ = f.Close()
	}()
	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, markTransient(err))
	}
	return t, nil
}

// WriteFile writes t to path atomically: the table goes to a temporary file
// in the same directory which is renamed over path once fully written. On
// failure path is left untouched.
func WriteFile(path string, t *table.Table) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return markTransient(err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return markTransient(err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := WriteTable(tmp, t); err != nil {
		return fmt.Errorf("write %s: %w", path, markTransient(err))
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, markTransient(err))
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return markTransient(err)
	}
	return nil
}

// markTransient wraps errors worth retrying. An interrupted call gets a
// single extra attempt; a busy or unavailable resource gets the caller's
// full retry budget.
func markTransient(err error) error {
	switch {
	case errors.Is(err, syscall.EINTR):
		return &core.LimitedTransientError{Err: err, ExtraRetries: 1}
	case errors.Is(err, syscall.EAGAIN), errors.Is(err, syscall.EBUSY):
		return &core.TransientError{Err: err}
	default:
		return err
	}
}
