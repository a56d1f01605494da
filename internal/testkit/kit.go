package testkit

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"assaystat/domain/dataset"
)

// Fixture is a header row plus string records
type Fixture struct {
	Headers []string
	Records [][]string
}

// Table builds the in-memory table of the fixture
func (f Fixture) Table() (*dataset.Table, error) {
	return dataset.NewTable(f.Headers, f.Records)
}

// MustTable builds the table or fails the test
func (f Fixture) MustTable(t testing.TB) *dataset.Table {
	t.Helper()
	tbl, err := f.Table()
	if err != nil {
		t.Fatalf("fixture table: %v", err)
	}
	return tbl
}

// WriteDelimited writes the fixture with the given field separator
func (f Fixture) WriteDelimited(path string, sep rune) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Comma = sep
	if err := w.Write(f.Headers); err != nil {
		return err
	}
	if err := w.WriteAll(f.Records); err != nil {
		return err
	}
	return file.Close()
}

// WriteFile writes the fixture into dir and returns its path
func (f Fixture) WriteFile(t testing.TB, dir, name string, sep rune) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := f.WriteDelimited(path, sep); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// BalancedTwoByTwo is a 2x2 design with three replicates per cell:
//
//	a1/b1: 4 5 6    a1/b2: 6 7 8
//	a2/b1: 7 8 9    a2/b2: 12 13 14
//
// Its sums of squares are A=60.75, B=36.75, AxB=6.75, residual 8.
func BalancedTwoByTwo() Fixture {
	cells := []struct {
		a, b   string
		values []float64
	}{
		{"a1", "b1", []float64{4, 5, 6}},
		{"a1", "b2", []float64{6, 7, 8}},
		{"a2", "b1", []float64{7, 8, 9}},
		{"a2", "b2", []float64{12, 13, 14}},
	}

	f := Fixture{Headers: []string{"genotype", "treatment", "value"}}
	for _, c := range cells {
		for _, v := range c.values {
			f.Records = append(f.Records, []string{c.a, c.b, formatValue(v)})
		}
	}
	return f
}

// TwoGroups holds ctrl = {2, 1, 3, 4} and drug = {6, 5, 7, 9}
func TwoGroups() Fixture {
	f := Fixture{Headers: []string{"group", "value"}}
	for _, v := range []float64{2, 1, 3, 4} {
		f.Records = append(f.Records, []string{"ctrl", formatValue(v)})
	}
	for _, v := range []float64{6, 5, 7, 9} {
		f.Records = append(f.Records, []string{"drug", formatValue(v)})
	}
	return f
}

// OutlierProbe is one group holding 1..8 and extreme. With the default
// fence the upper bound is 19.
func OutlierProbe(extreme float64) Fixture {
	f := Fixture{Headers: []string{"group", "value"}}
	for v := 1; v <= 8; v++ {
		f.Records = append(f.Records, []string{"probe", strconv.Itoa(v)})
	}
	f.Records = append(f.Records, []string{"probe", formatValue(extreme)})
	return f
}
