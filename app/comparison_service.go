package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"assaystat/domain/core"
	"assaystat/domain/dataset"
	"assaystat/domain/run"
	"assaystat/domain/stats"
	"assaystat/internal"
	"assaystat/internal/analysis"
	"assaystat/internal/errors"
	"assaystat/ports"
)

// PlotStyle selects the comparison charts
type PlotStyle string

const (
	PlotBox  PlotStyle = "box"
	PlotBar  PlotStyle = "bar"
	PlotBoth PlotStyle = "both"
)

// ParsePlotStyle accepts box, bar and both; empty means both
func ParsePlotStyle(s string) (PlotStyle, error) {
	switch PlotStyle(strings.ToLower(strings.TrimSpace(s))) {
	case PlotBox:
		return PlotBox, nil
	case PlotBar:
		return PlotBar, nil
	case PlotBoth, "":
		return PlotBoth, nil
	}
	return "", errors.Newf(errors.CodeInvalidInput, "unknown plot style %q", s)
}

// Step is one stage of the comparison pipeline
type Step int

const (
	StepDescribe Step = 1 << iota
	StepTTest
	StepPlot
	StepClean
)

func (s Step) String() string {
	var parts []string
	for _, named := range []struct {
		step Step
		name string
	}{
		{StepDescribe, "describe"},
		{StepTTest, "ttest"},
		{StepPlot, "plot"},
		{StepClean, "clean"},
	} {
		if s&named.step != 0 {
			parts = append(parts, named.name)
		}
	}
	return strings.Join(parts, "+")
}

// ComparisonOptions parameterize the comparison of groups of one response
type ComparisonOptions struct {
	ExportDescriptive bool
	PlotStyle         PlotStyle
	Fence             analysis.FenceRule
	Variance          stats.VarianceAssumption
	// Order lists the groups to compare; empty takes every group in
	// Ordering
	Order    []string
	Ordering dataset.Ordering
}

// DefaultComparisonOptions exports descriptive statistics, draws both
// charts, uses the widened fence and a pooled t-test
func DefaultComparisonOptions() ComparisonOptions {
	return ComparisonOptions{
		ExportDescriptive: true,
		PlotStyle:         PlotBoth,
		Fence:             analysis.DefaultFenceRule(),
		Variance:          stats.VariancePooled,
		Ordering:          dataset.FirstSeen,
	}
}

// ComparisonRequest defines one comparison run
type ComparisonRequest struct {
	Input          string
	GroupColumn    string
	ResponseColumn string
	Delimiter      rune   // zero sniffs the delimiter
	Sheet          string // xlsx input only
	OutputDir      string
	Workbook       bool
	Options        ComparisonOptions
}

// ComparisonResult is everything a run computed and wrote
type ComparisonResult struct {
	RunID      core.RunID
	Groups     []dataset.Group
	Summaries  []stats.GroupSummary
	Histograms []stats.Histogram
	TTest      *stats.TTestResult
	Removed    int // rows dropped by outlier removal
	Outputs    []string
	Manifest   string
	RuntimeMs  int64
}

// ComparisonService compares the groups of one response column:
// descriptive statistics, a two-sample t-test, charts and outlier removal
type ComparisonService struct {
	reader   ports.TableReader
	writer   ports.ResultWriter
	renderer ports.PlotRenderer // nil: no charts
	reports  ports.ReportWriter // nil: no report
	logger   *internal.Logger
}

// NewComparisonService wires the comparison pipeline
func NewComparisonService(reader ports.TableReader, writer ports.ResultWriter, renderer ports.PlotRenderer, reports ports.ReportWriter, logger *internal.Logger) *ComparisonService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ComparisonService{
		reader:   reader,
		writer:   writer,
		renderer: renderer,
		reports:  reports,
		logger:   logger,
	}
}

// Describe exports per-group statistics and histograms
func (s *ComparisonService) Describe(ctx context.Context, req ComparisonRequest) (*ComparisonResult, error) {
	return s.Run(ctx, req, StepDescribe)
}

// TTest tests the two ordered groups against each other
func (s *ComparisonService) TTest(ctx context.Context, req ComparisonRequest) (*ComparisonResult, error) {
	return s.Run(ctx, req, StepTTest)
}

// Plot draws the comparison charts selected by the plot style
func (s *ComparisonService) Plot(ctx context.Context, req ComparisonRequest) (*ComparisonResult, error) {
	return s.Run(ctx, req, StepPlot)
}

// Clean writes the input without the outlier rows of every group
func (s *ComparisonService) Clean(ctx context.Context, req ComparisonRequest) (*ComparisonResult, error) {
	return s.Run(ctx, req, StepClean)
}

// Run executes the given steps in a fixed order: statistics, t-test,
// charts, outlier removal. The manifest is written last.
func (s *ComparisonService) Run(ctx context.Context, req ComparisonRequest, steps Step) (*ComparisonResult, error) {
	startTime := time.Now()
	if steps == 0 {
		return nil, errors.InvalidInput("no comparison step selected")
	}
	opts := req.Options
	if opts.Fence == (analysis.FenceRule{}) {
		opts.Fence = analysis.DefaultFenceRule()
	}
	if opts.Fence.Multiplier <= 0 || opts.Fence.Step <= 0 {
		return nil, errors.Newf(errors.CodeInvalidInput, "fence multiplier %g and step %g must be positive",
			opts.Fence.Multiplier, opts.Fence.Step)
	}
	style, err := ParsePlotStyle(string(opts.PlotStyle))
	if err != nil {
		return nil, err
	}

	var tt *analysis.TTest
	if steps&StepTTest != 0 && len(opts.Order) > 0 {
		// validate before any work is done
		if tt, err = analysis.NewTTest(opts.Order, opts.Variance); err != nil {
			return nil, err
		}
	}

	s.logger.Info("compare: reading %s (%s)", req.Input, steps)
	tbl, err := s.reader.ReadTable(ctx, req.Input, ports.ReadOptions{Delimiter: req.Delimiter, Sheet: req.Sheet})
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", req.Input)
	}
	inputHash, err := core.HashFile(req.Input)
	if err != nil {
		return nil, errors.IOError("hash input", err)
	}

	labels, err := tbl.Column(req.GroupColumn)
	if err != nil {
		return nil, err
	}
	order, err := dataset.ResolveOrder(labels, opts.Order, opts.Ordering)
	if err != nil {
		return nil, err
	}
	groups, err := tbl.Groups(req.GroupColumn, req.ResponseColumn, order)
	if err != nil {
		return nil, err
	}
	summaries, err := analysis.DescribeGroups(groups, opts.Fence)
	if err != nil {
		return nil, err
	}

	names := NewOutputNames(req.Input, req.OutputDir)
	kind := run.KindComparison
	if steps == StepClean {
		kind = run.KindClean
	}
	manifest := run.NewManifest(kind, req.Input, inputHash, []string{req.GroupColumn, req.ResponseColumn}, map[string]string{
		"steps":      steps.String(),
		"order":      strings.Join(order, ","),
		"fence":      strconv.FormatFloat(opts.Fence.Multiplier, 'g', -1, 64),
		"variance":   string(orDefault(opts.Variance, stats.VariancePooled)),
		"plot_style": string(style),
		"plot":       plotFormat(s.renderer),
	})
	rec := newRecorder(names, s.writer, s.reports, manifest, s.logger)
	rec.note("Groups", fmt.Sprintf("%s by %s: %s", req.ResponseColumn, req.GroupColumn, strings.Join(order, ", ")))

	result := &ComparisonResult{RunID: manifest.RunID, Groups: groups, Summaries: summaries}

	if steps&StepDescribe != 0 || opts.ExportDescriptive {
		if err := rec.table(ctx, names.Descriptive(), "descriptive", "Descriptive statistics", stats.SummaryRecords(summaries)); err != nil {
			return nil, err
		}
	}

	if steps&(StepDescribe|StepPlot) != 0 {
		if result.Histograms, err = analysis.Histograms(groups); err != nil {
			return nil, err
		}
	}
	if steps&StepDescribe != 0 {
		if err := rec.table(ctx, names.Histogram(), "histogram", "Histogram bins", stats.HistogramRecords(result.Histograms)); err != nil {
			return nil, err
		}
	}

	if steps&StepTTest != 0 {
		if tt == nil {
			if tt, err = analysis.NewTTest(order, opts.Variance); err != nil {
				return nil, errors.Wrap(err, "t-test needs an explicit order or exactly two groups")
			}
		}
		if result.TTest, err = tt.Run(groups); err != nil {
			return nil, err
		}
		s.logger.Debug("compare: t=%g df=%g p=%g", result.TTest.T, result.TTest.DF, result.TTest.PValue)
		if err := rec.table(ctx, names.TTest(), "ttest", "Two-sample t-test", result.TTest.Records()); err != nil {
			return nil, err
		}
	}

	if s.renderer != nil && steps&(StepDescribe|StepPlot) != 0 {
		if err := s.drawCharts(ctx, rec, names, req, steps, style, result); err != nil {
			return nil, err
		}
	}

	if steps&StepClean != 0 {
		cleaned, removed, err := analysis.FilterOutliers(tbl, req.GroupColumn, req.ResponseColumn, opts.Order, opts.Fence)
		if err != nil {
			return nil, err
		}
		result.Removed = removed
		s.logger.Info("compare: removed %d outlier rows of %d", removed, tbl.Len())
		if err := rec.table(ctx, names.NoOutliers(), "no_outliers", "Data without outliers", cleaned.Records()); err != nil {
			return nil, err
		}
	}

	if result.Manifest, err = rec.finish(ctx, req.Workbook); err != nil {
		return nil, err
	}
	result.Outputs = manifest.Outputs

	elapsed := time.Since(startTime)
	result.RuntimeMs = elapsed.Milliseconds()
	s.logger.Info("compare: %s done in %v, %d outputs", req.Input, elapsed, len(result.Outputs))
	return result, nil
}

func (s *ComparisonService) drawCharts(ctx context.Context, rec *recorder, names OutputNames, req ComparisonRequest, steps Step, style PlotStyle, result *ComparisonResult) error {
	ext := s.renderer.Format()
	title := names.Title()
	groupChart := ports.GroupChart{
		Title:     title,
		Response:  req.ResponseColumn,
		Groups:    result.Groups,
		Summaries: result.Summaries,
	}

	if steps&StepPlot != 0 && style != PlotBar {
		if err := rec.chart(ctx, names.BoxPlot(ext), func(w io.Writer) error {
			return s.renderer.RenderBoxPlot(w, groupChart)
		}); err != nil {
			return err
		}
	}
	if steps&StepPlot != 0 && style != PlotBox {
		if err := rec.chart(ctx, names.BarPlot(ext), func(w io.Writer) error {
			return s.renderer.RenderBarPlot(w, groupChart)
		}); err != nil {
			return err
		}
	}

	hist := ports.HistogramChart{Title: title, Response: req.ResponseColumn, Histograms: result.Histograms}
	return rec.chart(ctx, names.HistogramPlot(ext), func(w io.Writer) error {
		return s.renderer.RenderHistogram(w, hist)
	})
}

func orDefault(v, def stats.VarianceAssumption) stats.VarianceAssumption {
	if v == "" {
		return def
	}
	return v
}
