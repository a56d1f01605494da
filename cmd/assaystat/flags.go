package main

import (
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"assaystat/internal/config"
	"assaystat/internal/errors"
)

// globalFlags override the matching configuration values when set
type globalFlags struct {
	outputDir  string
	plotFormat string
	width      int
	height     int
	seed       int64
	xlsx       bool
	report     bool
	workers    int
	logLevel   string
	quiet      bool
}

func (f *globalFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.outputDir, "output-dir", "o", "", "Directory for outputs (default: next to each input)")
	pf.StringVar(&f.plotFormat, "plot-format", "", "Chart format: svg, html or none")
	pf.IntVar(&f.width, "width", 0, "Chart width in pixels")
	pf.IntVar(&f.height, "height", 0, "Chart height in pixels")
	pf.Int64Var(&f.seed, "seed", 0, "Seed of the jitter applied to raw points")
	pf.BoolVar(&f.xlsx, "xlsx", false, "Also write all result tables to <base>_results.xlsx")
	pf.BoolVar(&f.report, "report", false, "Also write <base>_report.md and <base>_report.html")
	pf.IntVarP(&f.workers, "workers", "j", 0, "Number of input files processed concurrently")
	pf.StringVar(&f.logLevel, "log-level", "", "ERROR, WARN, INFO, DEBUG or TRACE")
	pf.BoolVarP(&f.quiet, "quiet", "q", false, "Do not print result tables")
}

// apply copies every flag the user set onto cfg and revalidates it
func (f *globalFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("output-dir") {
		cfg.Output.Dir = f.outputDir
	}
	if changed("plot-format") {
		cfg.Plot.Format = strings.ToLower(f.plotFormat)
	}
	if changed("width") {
		cfg.Plot.Width = f.width
	}
	if changed("height") {
		cfg.Plot.Height = f.height
	}
	if changed("seed") {
		cfg.Plot.JitterSeed = f.seed
	}
	if changed("xlsx") {
		cfg.Output.ExportXLSX = f.xlsx
	}
	if changed("report") {
		cfg.Output.Report = f.report
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	return cfg.Validate()
}

// parseDelimiter maps a flag value to a field separator. Empty means
// the reader's default.
func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, errors.Newf(errors.CodeInvalidInput, "invalid delimiter %q", s)
	}
	return r, nil
}
