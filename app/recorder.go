package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"assaystat/domain/run"
	"assaystat/internal"
	"assaystat/internal/errors"
	"assaystat/ports"
)

// recorder collects the outputs of one run. Every table is written as
// CSV immediately and kept for the optional workbook and report; finish
// writes those and, last, the manifest.
type recorder struct {
	names    OutputNames
	writer   ports.ResultWriter
	reports  ports.ReportWriter
	manifest *run.Manifest
	logger   *internal.Logger

	sheets []ports.Sheet
	report ports.Report
}

func newRecorder(names OutputNames, writer ports.ResultWriter, reports ports.ReportWriter, manifest *run.Manifest, logger *internal.Logger) *recorder {
	return &recorder{
		names:    names,
		writer:   writer,
		reports:  reports,
		manifest: manifest,
		logger:   logger,
		report:   ports.Report{Title: filepath.Base(manifest.Input)},
	}
}

// table writes records to path and adds them to the workbook and report
func (r *recorder) table(ctx context.Context, path, sheet, heading string, records [][]string) error {
	if err := r.writer.WriteRecords(ctx, path, records); err != nil {
		return err
	}
	r.manifest.AddOutput(path)
	r.sheets = append(r.sheets, ports.Sheet{Name: sheet, Records: records})
	r.report.Sections = append(r.report.Sections, ports.ReportSection{Heading: heading, Records: records})
	r.logger.Debug("wrote %s (%d rows)", path, len(records)-1)
	return nil
}

// note adds a text-only section to the report
func (r *recorder) note(heading string, lines ...string) {
	r.report.Sections = append(r.report.Sections, ports.ReportSection{Heading: heading, Notes: lines})
}

// chart renders into memory first so a failed chart leaves no file behind
func (r *recorder) chart(ctx context.Context, path string, draw func(io.Writer) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := safeDraw(draw, &buf); err != nil {
		return errors.Wrapf(err, "render %s", filepath.Base(path))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.IOError("create output directory", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.IOError("write chart", err)
	}
	r.manifest.AddOutput(path)
	r.logger.Debug("wrote %s", path)
	return nil
}

// safeDraw turns a panic inside a chart library into an error so one
// chart cannot take down a multi-file run
func safeDraw(draw func(io.Writer) error, w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.CodeInternalError, "chart renderer panicked: %v", r)
		}
	}()
	return draw(w)
}

// finish writes the workbook and report when requested, then the manifest
func (r *recorder) finish(ctx context.Context, workbook bool) (string, error) {
	if workbook && len(r.sheets) > 0 {
		path := r.names.Workbook()
		if err := r.writer.WriteWorkbook(ctx, path, r.sheets); err != nil {
			return "", err
		}
		r.manifest.AddOutput(path)
	}

	if r.reports != nil {
		r.note("Outputs", r.manifest.Outputs...)
		written, err := r.reports.WriteReport(ctx, r.names.Base, r.report)
		if err != nil {
			return "", err
		}
		for _, p := range written {
			r.manifest.AddOutput(p)
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := r.names.Manifest()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.IOError("create output directory", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", errors.IOError("create manifest", err)
	}
	if err := r.manifest.WriteJSON(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errors.IOError("close manifest", err)
	}
	return path, nil
}
