package container

import (
	"fmt"

	"assaystat/adapters/console"
	"assaystat/adapters/plot"
	"assaystat/adapters/report"
	"assaystat/adapters/tabular"
	"assaystat/app"
	"assaystat/internal"
	"assaystat/internal/config"
	"assaystat/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Adapters
	Reader   ports.TableReader
	Writer   ports.ResultWriter
	Renderer ports.PlotRenderer // nil when plotting is off
	Reports  ports.ReportWriter // nil when reports are off
	Printer  ports.ResultPrinter

	// Services
	Anova      *app.AnovaService
	Comparison *app.ComparisonService
}

// New wires the adapters and services described by cfg
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Reader:  tabular.NewDataReader(logger),
		Writer:  tabular.NewResultWriter(logger),
		Printer: console.NewTablePrinter(),
	}

	style := plot.DefaultStyle()
	style.Width = cfg.Plot.Width
	style.Height = cfg.Plot.Height
	style.Seed = cfg.Plot.JitterSeed
	renderer, err := plot.NewRenderer(cfg.Plot.Format, style)
	if err != nil {
		return nil, err
	}
	c.Renderer = renderer

	if cfg.Output.Report {
		c.Reports = report.NewWriter(true, logger)
	}

	c.Anova = app.NewAnovaService(c.Reader, c.Writer, c.Renderer, c.Reports, logger)
	c.Comparison = app.NewComparisonService(c.Reader, c.Writer, c.Renderer, c.Reports, logger)

	logger.Debug("container ready: plot=%s report=%v workers=%d", cfg.Plot.Format, cfg.Output.Report, cfg.Workers)
	return c, nil
}
