package ports

import (
	"io"

	"assaystat/domain/dataset"
	"assaystat/domain/stats"
)

// GroupChart is the data of a per-group comparison chart
type GroupChart struct {
	Title     string
	Response  string
	Groups    []dataset.Group
	Summaries []stats.GroupSummary
}

// HistogramChart is one histogram per group
type HistogramChart struct {
	Title      string
	Response   string
	Histograms []stats.Histogram
}

// InteractionChart plots cell means of a two-way design
type InteractionChart struct {
	Title string
	Anova *stats.AnovaTable
}

// PlotRenderer draws charts into w. Rendering never changes the data.
type PlotRenderer interface {
	// Format is the file extension of the rendered output
	Format() string
	RenderBoxPlot(w io.Writer, chart GroupChart) error
	RenderBarPlot(w io.Writer, chart GroupChart) error
	RenderHistogram(w io.Writer, chart HistogramChart) error
	RenderInteraction(w io.Writer, chart InteractionChart) error
}
