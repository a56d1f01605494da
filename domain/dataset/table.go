package dataset

import (
	"math"
	"strconv"
	"strings"

	"assaystat/internal/errors"
)

// Table is an in-memory table: a header row plus string records. It is
// loaded once per invocation and never mutated after construction.
type Table struct {
	headers []string
	records [][]string
	index   map[string]int
}

// NewTable builds a table, trimming header names. Short records are
// padded with empty cells; long records and duplicate headers are
// rejected.
func NewTable(headers []string, records [][]string) (*Table, error) {
	if len(headers) == 0 {
		return nil, errors.InvalidInput("table has no header row")
	}

	t := &Table{
		headers: make([]string, len(headers)),
		records: make([][]string, 0, len(records)),
		index:   make(map[string]int, len(headers)),
	}
	for i, h := range headers {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			return nil, errors.Newf(errors.CodeInvalidInput, "header column %d is empty", i+1)
		}
		if _, dup := t.index[name]; dup {
			return nil, errors.Newf(errors.CodeInvalidInput, "duplicate header %q", name)
		}
		t.headers[i] = name
		t.index[name] = i
	}

	for i, rec := range records {
		if len(rec) > len(headers) {
			return nil, errors.Newf(errors.CodeInvalidInput,
				"row %d has %d fields, header has %d", i+2, len(rec), len(headers))
		}
		row := make([]string, len(headers))
		for j, cell := range rec {
			row[j] = strings.TrimSpace(cell)
		}
		t.records = append(t.records, row)
	}

	return t, nil
}

// Headers returns a copy of the column names
func (t *Table) Headers() []string {
	out := make([]string, len(t.headers))
	copy(out, t.headers)
	return out
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.records)
}

// Record returns row i. The slice must not be modified.
func (t *Table) Record(i int) []string {
	return t.records[i]
}

// HasColumn reports whether the table has a column named name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the cells of the named column
func (t *Table) Column(name string) ([]string, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, errors.InvalidColumn(name)
	}
	out := make([]string, len(t.records))
	for i, rec := range t.records {
		out[i] = rec[j]
	}
	return out, nil
}

// Numeric parses the named column as float64. Empty, unparsable and
// non-finite cells are NonNumericResponse errors.
func (t *Table) Numeric(name string) ([]float64, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.NonNumericResponse(name, i+2, cell)
		}
		out[i] = v
	}
	return out, nil
}

// Select returns a table with only the named columns, in that order
func (t *Table) Select(names ...string) (*Table, error) {
	idx := make([]int, len(names))
	for k, name := range names {
		j, ok := t.index[name]
		if !ok {
			return nil, errors.InvalidColumn(name)
		}
		idx[k] = j
	}

	records := make([][]string, len(t.records))
	for i, rec := range t.records {
		row := make([]string, len(idx))
		for k, j := range idx {
			row[k] = rec[j]
		}
		records[i] = row
	}
	return NewTable(names, records)
}

// Filter returns a table holding the rows for which keep returns true
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := &Table{
		headers: t.headers,
		index:   t.index,
	}
	for i, rec := range t.records {
		if keep(i) {
			out.records = append(out.records, rec)
		}
	}
	return out
}

// Records returns the header followed by all rows, ready for export
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.records)+1)
	out = append(out, t.Headers())
	for _, rec := range t.records {
		row := make([]string, len(rec))
		copy(row, rec)
		out = append(out, row)
	}
	return out
}
