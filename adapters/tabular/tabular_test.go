package tabular

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"assaystat/internal"
	"assaystat/internal/errors"
	"assaystat/internal/testkit"
	"assaystat/ports"
)

func quietLogger() *internal.Logger {
	return internal.NewLoggerTo(&bytes.Buffer{}, internal.LogLevelError)
}

func TestSniffDelimiter(t *testing.T) {
	cases := []struct {
		name   string
		sample string
		want   rune
	}{
		{"tab", "genotype\ttreatment\tvalue\nWT\tctrl\t1.5\n", '\t'},
		{"comma", "group,value\nctrl,1\ndrug,2\n", ','},
		{"semicolon", "group;value\nctrl;1,5\ndrug;2,5\n", ';'},
		{"pipe", "group|value\nctrl|1\n", '|'},
		{"quoted comma inside tab file", "name\tvalue\n\"a, b\"\t1\n", '\t'},
		{"single column", "value\n1\n2\n", ','},
		{"empty", "", ','},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SniffDelimiter([]byte(tc.sample)))
		})
	}
}

func TestDataReader_Delimited(t *testing.T) {
	dir := t.TempDir()
	reader := NewDataReader(quietLogger())

	for i, sep := range []rune{'\t', ',', ';'} {
		path := testkit.BalancedTwoByTwo().WriteFile(t, dir, fmt.Sprintf("assay%d.txt", i), sep)

		tbl, err := reader.ReadTable(context.Background(), path, ports.ReadOptions{})
		require.NoError(t, err, "sep %q", sep)
		assert.Equal(t, []string{"genotype", "treatment", "value"}, tbl.Headers())
		assert.Equal(t, 12, tbl.Len())
	}
}

func TestDataReader_ExplicitDelimiter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.tsv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffg\tv\r\na\t1\r\n\r\nb\t2\r\n"), 0o644))

	tbl, err := NewDataReader(quietLogger()).ReadTable(context.Background(), path, ports.ReadOptions{Delimiter: '\t'})
	require.NoError(t, err)
	assert.Equal(t, []string{"g", "v"}, tbl.Headers())
	assert.Equal(t, 2, tbl.Len())
}

func TestDataReader_Errors(t *testing.T) {
	dir := t.TempDir()
	reader := NewDataReader(quietLogger())

	_, err := reader.ReadTable(context.Background(), filepath.Join(dir, "missing.csv"), ports.ReadOptions{})
	assert.True(t, errors.Is(err, errors.CodeIOError))

	headerOnly := filepath.Join(dir, "header.csv")
	require.NoError(t, os.WriteFile(headerOnly, []byte("group,value\n"), 0o644))
	_, err = reader.ReadTable(context.Background(), headerOnly, ports.ReadOptions{})
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = reader.ReadTable(ctx, headerOnly, ports.ReadOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResultWriter_RecordsAndWorkbookRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writer := NewResultWriter(quietLogger())
	ctx := context.Background()

	records := [][]string{{"", "SS", "df"}, {"genotype", "60.75", "1"}, {"Residual", "8", "8"}}

	csvPath := filepath.Join(dir, "out", "assay_anova.csv")
	require.NoError(t, writer.WriteRecords(ctx, csvPath, records))
	raw, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, ",SS,df\ngenotype,60.75,1\nResidual,8,8\n", string(raw))

	xlsxPath := filepath.Join(dir, "assay_results.xlsx")
	require.NoError(t, writer.WriteWorkbook(ctx, xlsxPath, []ports.Sheet{
		{Name: "anova", Records: records},
		{Name: "tukey", Records: [][]string{{"group1", "group2"}, {"a", "b"}}},
	}))

	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"anova", "tukey"}, f.GetSheetList())

	tbl, err := NewDataReader(quietLogger()).ReadTable(ctx, xlsxPath, ports.ReadOptions{Sheet: "tukey"})
	require.NoError(t, err)
	assert.Equal(t, []string{"group1", "group2"}, tbl.Headers())
	assert.Equal(t, []string{"a", "b"}, tbl.Record(0))

	err = writer.WriteWorkbook(ctx, xlsxPath, nil)
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
}

func TestDataReader_WorkbookFirstSheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "groups.xlsx")
	fx := testkit.TwoGroups()
	records := append([][]string{fx.Headers}, fx.Records...)
	require.NoError(t, NewResultWriter(quietLogger()).WriteWorkbook(context.Background(), path,
		[]ports.Sheet{{Name: "data", Records: records}}))

	tbl, err := NewDataReader(quietLogger()).ReadTable(context.Background(), path, ports.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 8, tbl.Len())

	values, err := tbl.Numeric("value")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1, 3, 4, 6, 5, 7, 9}, values)
}
