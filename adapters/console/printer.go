package console

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"assaystat/internal/errors"
	"assaystat/ports"
)

// TablePrinter renders result records as light box tables
type TablePrinter struct {
	// MaxRows truncates long tables; zero prints everything
	MaxRows int
}

var _ ports.ResultPrinter = (*TablePrinter)(nil)

// NewTablePrinter creates a printer that prints every row
func NewTablePrinter() *TablePrinter {
	return &TablePrinter{}
}

// PrintTable writes records, header first, under title
func (p *TablePrinter) PrintTable(w io.Writer, title string, records [][]string) error {
	if len(records) == 0 {
		return errors.InvalidInput("nothing to print")
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(title)
	tbl.Style().Title.Align = text.AlignLeft

	tbl.AppendHeader(row(records[0]))

	body := records[1:]
	if p.MaxRows > 0 && len(body) > p.MaxRows {
		tbl.AppendFooter(table.Row{fmt.Sprintf("%d more rows", len(body)-p.MaxRows)})
		body = body[:p.MaxRows]
	}
	for _, r := range body {
		tbl.AppendRow(row(r))
	}

	if _, err := fmt.Fprintln(w, tbl.Render()); err != nil {
		return errors.IOError("print table", err)
	}
	return nil
}

func row(cells []string) table.Row {
	out := make(table.Row, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
