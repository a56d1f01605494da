package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"assaystat/domain/core"
	"assaystat/domain/run"
	"assaystat/domain/stats"
	"assaystat/internal"
	"assaystat/internal/analysis"
	"assaystat/internal/errors"
	"assaystat/ports"
)

// AnovaService runs the two-way ANOVA pipeline for one input file
type AnovaService struct {
	reader   ports.TableReader
	writer   ports.ResultWriter
	renderer ports.PlotRenderer // nil: no interaction plot
	reports  ports.ReportWriter // nil: no report
	logger   *internal.Logger
}

// AnovaRequest defines one two-way ANOVA run
type AnovaRequest struct {
	Input     string
	Design    analysis.AnovaDesign
	Delimiter rune   // zero reads tab separated input
	Sheet     string // xlsx input only
	Alpha     float64
	OutputDir string
	Workbook  bool
}

// AnovaResult is everything a run computed and wrote
type AnovaResult struct {
	RunID     core.RunID
	Anova     *stats.AnovaTable
	Tukey     *stats.TukeyResult
	Outputs   []string
	Manifest  string
	RuntimeMs int64
}

// NewAnovaService wires the ANOVA pipeline
func NewAnovaService(reader ports.TableReader, writer ports.ResultWriter, renderer ports.PlotRenderer, reports ports.ReportWriter, logger *internal.Logger) *AnovaService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnovaService{
		reader:   reader,
		writer:   writer,
		renderer: renderer,
		reports:  reports,
		logger:   logger,
	}
}

// Run reads the input, decomposes the variance, runs Tukey HSD over the
// combined factor label and writes every result
func (s *AnovaService) Run(ctx context.Context, req AnovaRequest) (*AnovaResult, error) {
	startTime := time.Now()

	if req.Alpha == 0 {
		req.Alpha = analysis.DefaultAlpha
	}
	if req.Delimiter == 0 {
		req.Delimiter = '\t'
	}

	s.logger.Info("anova: reading %s", req.Input)
	tbl, err := s.reader.ReadTable(ctx, req.Input, ports.ReadOptions{Delimiter: req.Delimiter, Sheet: req.Sheet})
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", req.Input)
	}
	inputHash, err := core.HashFile(req.Input)
	if err != nil {
		return nil, errors.IOError("hash input", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	anova, err := analysis.TwoWayANOVA(tbl, req.Design)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("anova: %d observations, %d x %d cells", anova.N, len(anova.Levels1), len(anova.Levels2))

	groups, err := analysis.CombinedGroups(tbl, req.Design)
	if err != nil {
		return nil, err
	}
	tukey, err := analysis.TukeyHSD(groups, req.Alpha)
	if err != nil {
		return nil, err
	}

	names := NewOutputNames(req.Input, req.OutputDir)
	manifest := run.NewManifest(run.KindANOVA, req.Input, inputHash, req.Design.Columns(), map[string]string{
		"alpha":     strconv.FormatFloat(req.Alpha, 'g', -1, 64),
		"delimiter": string(req.Delimiter),
		"plot":      plotFormat(s.renderer),
	})
	rec := newRecorder(names, s.writer, s.reports, manifest, s.logger)
	rec.note("Design", fmt.Sprintf("%s ~ %s * %s, %d observations",
		req.Design.Response, req.Design.Factor1, req.Design.Factor2, anova.N))

	if err := rec.table(ctx, names.Anova(), "anova", "Two-way ANOVA", anova.Records()); err != nil {
		return nil, err
	}
	if err := rec.table(ctx, names.Tukey(), "tukey", "Tukey HSD", tukey.Records()); err != nil {
		return nil, err
	}

	if s.renderer != nil {
		chart := ports.InteractionChart{Title: "Interaction plot", Anova: anova}
		path := names.InteractionPlot(s.renderer.Format())
		if err := rec.chart(ctx, path, func(w io.Writer) error {
			return s.renderer.RenderInteraction(w, chart)
		}); err != nil {
			return nil, err
		}
	}

	manifestPath, err := rec.finish(ctx, req.Workbook)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(startTime)
	s.logger.Info("anova: %s done in %v, %d outputs", req.Input, elapsed, len(manifest.Outputs))

	return &AnovaResult{
		RunID:     manifest.RunID,
		Anova:     anova,
		Tukey:     tukey,
		Outputs:   manifest.Outputs,
		Manifest:  manifestPath,
		RuntimeMs: elapsed.Milliseconds(),
	}, nil
}

func plotFormat(r ports.PlotRenderer) string {
	if r == nil {
		return "none"
	}
	return r.Format()
}
