package report

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"assaystat/internal"
	"assaystat/internal/errors"
	"assaystat/ports"
)

// Writer writes <base>_report.md and, when HTML is set, <base>_report.html
type Writer struct {
	HTML   bool
	logger *internal.Logger
}

var _ ports.ReportWriter = (*Writer)(nil)

// NewWriter creates a report writer
func NewWriter(withHTML bool, logger *internal.Logger) *Writer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Writer{HTML: withHTML, logger: logger}
}

// WriteReport writes the report files and returns their paths
func (w *Writer) WriteReport(ctx context.Context, base string, r ports.Report) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		return nil, errors.IOError("create report directory", err)
	}

	md := []byte(Markdown(r))
	mdPath := base + "_report.md"
	if err := os.WriteFile(mdPath, md, 0o644); err != nil {
		return nil, errors.IOError("write markdown report", err)
	}
	written := []string{mdPath}

	if w.HTML {
		htmlPath := base + "_report.html"
		if err := os.WriteFile(htmlPath, ToHTML(r.Title, md), 0o644); err != nil {
			return written, errors.IOError("write html report", err)
		}
		written = append(written, htmlPath)
	}

	w.logger.Debug("report written: %v", written)
	return written, nil
}

// ToHTML converts markdown to a complete HTML page
func ToHTML(title string, md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML(md, p, renderer)
}
