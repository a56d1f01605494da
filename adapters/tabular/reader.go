package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"assaystat/domain/dataset"
	"assaystat/internal"
	"assaystat/internal/errors"
	"assaystat/ports"
)

const sniffBytes = 16 * 1024

// DataReader reads delimited text and Excel workbooks into tables
type DataReader struct {
	logger *internal.Logger
}

var _ ports.TableReader = (*DataReader)(nil)

// NewDataReader creates a reader logging through logger
func NewDataReader(logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{logger: logger}
}

// IsWorkbook reports whether path names an Excel workbook
func IsWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// ReadTable loads path into a table. Workbooks are read from
// opts.Sheet or their first sheet; other files are delimited text.
func (r *DataReader) ReadTable(ctx context.Context, path string, opts ports.ReadOptions) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.IOError("open "+path, err)
	}

	start := time.Now()
	var (
		rows [][]string
		err  error
	)
	if IsWorkbook(path) {
		rows, err = r.readWorkbook(path, opts.Sheet)
	} else {
		rows, err = r.readDelimited(path, opts.Delimiter)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, errors.Newf(errors.CodeInvalidInput,
			"%s must have a header row and at least one data row", path)
	}

	tbl, err := dataset.NewTable(rows[0], rows[1:])
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	r.logger.Debug("[DataReader] %s read in %.2fms (%d columns, %d rows)",
		path, float64(time.Since(start).Nanoseconds())/1e6, len(tbl.Headers()), tbl.Len())
	return tbl, nil
}

func (r *DataReader) readWorkbook(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.IOError("open workbook "+path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.Newf(errors.CodeInvalidInput, "%s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.IOError("read sheet "+sheet, err)
	}
	r.logger.Trace("[DataReader] sheet %s: %d rows", sheet, len(rows))
	return dropBlankRows(rows), nil
}

func (r *DataReader) readDelimited(path string, sep rune) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IOError("read "+path, err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	if sep == 0 {
		sample := data
		if len(sample) > sniffBytes {
			sample = sample[:sniffBytes]
		}
		sep = SniffDelimiter(sample)
		r.logger.Debug("[DataReader] %s: sniffed delimiter %q", path, sep)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(errors.WithCode(errors.CodeInvalidInput, err), "parse %s", path)
		}
		rows = append(rows, rec)
	}
	return dropBlankRows(rows), nil
}

// dropBlankRows removes rows whose cells are all empty
func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
