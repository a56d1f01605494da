package app

import (
	"path/filepath"
	"strings"
)

// OutputNames derives every output path of a run from its input path
type OutputNames struct {
	Base string
}

// NewOutputNames strips the extension of input and, when dir is set,
// moves the base name into dir
func NewOutputNames(input, dir string) OutputNames {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if dir != "" {
		base = filepath.Join(dir, filepath.Base(base))
	}
	return OutputNames{Base: base}
}

func (n OutputNames) Anova() string       { return n.Base + "_anova.csv" }
func (n OutputNames) Tukey() string       { return n.Base + "_tukey.csv" }
func (n OutputNames) Descriptive() string { return n.Base + "_descr_stats.csv" }
func (n OutputNames) TTest() string       { return n.Base + "tTest_stats.csv" }
func (n OutputNames) Histogram() string   { return n.Base + "_histogram_bins.csv" }
func (n OutputNames) NoOutliers() string  { return n.Base + "_no_outliers.csv" }
func (n OutputNames) Workbook() string    { return n.Base + "_results.xlsx" }
func (n OutputNames) Manifest() string    { return n.Base + "_manifest.json" }

func (n OutputNames) InteractionPlot(ext string) string { return n.Base + "_interaction." + ext }
func (n OutputNames) BoxPlot(ext string) string         { return n.Base + "_boxplot_graph." + ext }
func (n OutputNames) BarPlot(ext string) string         { return n.Base + "_bar_graph." + ext }
func (n OutputNames) HistogramPlot(ext string) string   { return n.Base + "_histogram." + ext }

// Title is the base name used as chart title
func (n OutputNames) Title() string { return filepath.Base(n.Base) }
