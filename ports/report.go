package ports

import (
	"context"
	"io"
)

// ReportSection is one headed block of a run report
type ReportSection struct {
	Heading string
	Notes   []string
	Records [][]string
}

// Report summarises a run for humans
type Report struct {
	Title    string
	Sections []ReportSection
}

// ReportWriter renders a report as markdown and, optionally, HTML
type ReportWriter interface {
	WriteReport(ctx context.Context, base string, report Report) ([]string, error)
}

// ResultPrinter shows result tables on a terminal
type ResultPrinter interface {
	PrintTable(w io.Writer, title string, records [][]string) error
}
