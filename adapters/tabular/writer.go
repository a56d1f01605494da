package tabular

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"assaystat/internal"
	"assaystat/internal/errors"
	"assaystat/ports"
)

// ResultWriter writes result tables as CSV files and xlsx workbooks
type ResultWriter struct {
	logger *internal.Logger
}

var _ ports.ResultWriter = (*ResultWriter)(nil)

// NewResultWriter creates a writer logging through logger
func NewResultWriter(logger *internal.Logger) *ResultWriter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ResultWriter{logger: logger}
}

// WriteRecords writes records to path, creating its directory
func (w *ResultWriter) WriteRecords(ctx context.Context, path string, records [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.IOError("create directory for "+path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.IOError("create "+path, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.WriteAll(records); err != nil {
		return errors.IOError("write "+path, err)
	}
	if err := file.Close(); err != nil {
		return errors.IOError("close "+path, err)
	}

	w.logger.Debug("[ResultWriter] wrote %s (%d rows)", path, len(records))
	return nil
}

// WriteWorkbook writes each sheet to its own worksheet. Numeric cells
// are stored as numbers.
func (w *ResultWriter) WriteWorkbook(ctx context.Context, path string, sheets []ports.Sheet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(sheets) == 0 {
		return errors.InvalidInput("workbook needs at least one sheet")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.IOError("create directory for "+path, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return errors.IOError("name sheet "+sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return errors.IOError("add sheet "+sheet.Name, err)
		}

		for r, row := range sheet.Records {
			for c, cell := range row {
				ref, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return errors.IOError("cell reference", err)
				}
				if err := f.SetCellValue(sheet.Name, ref, cellValue(cell)); err != nil {
					return errors.IOError("write cell "+ref, err)
				}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.IOError("save "+path, err)
	}
	w.logger.Debug("[ResultWriter] wrote workbook %s (%d sheets)", path, len(sheets))
	return nil
}

func cellValue(cell string) interface{} {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return cell
	}
	return v
}
