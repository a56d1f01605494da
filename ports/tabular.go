package ports

import (
	"context"

	"assaystat/domain/dataset"
)

// ReadOptions controls how a table file is parsed
type ReadOptions struct {
	// Delimiter of text input; zero sniffs it from the first lines
	Delimiter rune
	// Sheet of xlsx input; empty reads the first sheet
	Sheet string
}

// TableReader loads an input file fully into memory
type TableReader interface {
	ReadTable(ctx context.Context, path string, opts ReadOptions) (*dataset.Table, error)
}

// Sheet is one named table of a workbook
type Sheet struct {
	Name    string
	Records [][]string
}

// ResultWriter exports result tables
type ResultWriter interface {
	// WriteRecords writes records as a comma separated file
	WriteRecords(ctx context.Context, path string, records [][]string) error
	// WriteWorkbook writes one sheet per result table
	WriteWorkbook(ctx context.Context, path string, sheets []Sheet) error
}
