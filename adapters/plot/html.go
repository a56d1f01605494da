package plot

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"assaystat/domain/stats"
	"assaystat/internal/errors"
	"assaystat/ports"
)

// HTMLRenderer draws interactive charts with go-echarts. Raw values are
// placed on their category without jitter; the tooltip separates them.
type HTMLRenderer struct {
	style Style
}

var _ ports.PlotRenderer = (*HTMLRenderer)(nil)

// NewHTMLRenderer creates a renderer with its own copy of style
func NewHTMLRenderer(style Style) (*HTMLRenderer, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}
	return &HTMLRenderer{style: style}, nil
}

func (r *HTMLRenderer) Format() string { return "html" }

func (r *HTMLRenderer) globalOptions(title, yName string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     strconv.Itoa(r.style.Width) + "px",
			Height:    strconv.Itoa(r.style.Height) + "px",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	}
}

func (r *HTMLRenderer) rawValues(chart ports.GroupChart) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetXAxis(groupLabels(chart.Groups))

	var points []opts.ScatterData
	for _, g := range chart.Groups {
		for _, v := range g.Values {
			points = append(points, opts.ScatterData{Name: g.Label, Value: []any{g.Label, v}, SymbolSize: 6})
		}
	}
	scatter.AddSeries("values", points,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(r.style.Points)}))
	return scatter
}

// RenderBoxPlot draws a box per group with raw values overlaid
func (r *HTMLRenderer) RenderBoxPlot(w io.Writer, chart ports.GroupChart) error {
	if len(chart.Groups) == 0 {
		return errors.InvalidInput("box plot needs at least one group")
	}

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(r.globalOptions(chart.Title, chart.Response)...)
	box.SetXAxis(groupLabels(chart.Groups))

	data := make([]opts.BoxPlotData, 0, len(chart.Groups))
	for _, g := range chart.Groups {
		if g.Len() == 0 {
			return errors.EmptyGroup(g.Label)
		}
		b := boxOf(g.Values)
		data = append(data, opts.BoxPlotData{
			Name:  g.Label,
			Value: []float64{b.low, b.q1, b.median, b.q3, b.high},
		})
	}
	box.AddSeries(chart.Response, data, charts.WithItemStyleOpts(opts.ItemStyle{
		Color:       hexColor(r.style.Fill(0)),
		BorderColor: hexColor(r.style.Edge),
	}))
	box.Overlap(r.rawValues(chart))

	return render(box.Render(w))
}

// RenderBarPlot draws group means, mean +/- sem markers and raw values
func (r *HTMLRenderer) RenderBarPlot(w io.Writer, chart ports.GroupChart) error {
	if len(chart.Groups) == 0 {
		return errors.InvalidInput("bar plot needs at least one group")
	}
	if len(chart.Summaries) != len(chart.Groups) {
		return errors.InternalError("bar plot needs one summary per group")
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalOptions(chart.Title, chart.Response)...)
	bar.SetXAxis(groupLabels(chart.Groups))

	means := make([]opts.BarData, len(chart.Summaries))
	for i, s := range chart.Summaries {
		means[i] = opts.BarData{
			Name:  s.Label,
			Value: s.Mean,
			ItemStyle: &opts.ItemStyle{
				Color:       hexColor(r.style.Fill(i)),
				BorderColor: hexColor(r.style.Edge),
			},
		}
	}
	bar.AddSeries("mean", means)

	sem := charts.NewScatter()
	sem.SetXAxis(groupLabels(chart.Groups))
	var bounds []opts.ScatterData
	for _, s := range chart.Summaries {
		bounds = append(bounds,
			opts.ScatterData{Name: s.Label, Value: []any{s.Label, s.Mean - s.SEM}, Symbol: "rect", SymbolSize: 10},
			opts.ScatterData{Name: s.Label, Value: []any{s.Label, s.Mean + s.SEM}, Symbol: "rect", SymbolSize: 10},
		)
	}
	sem.AddSeries("mean ± sem", bounds, charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(black)}))

	bar.Overlap(sem, r.rawValues(chart))
	return render(bar.Render(w))
}

// RenderHistogram draws one bar series per group over shared bin labels
func (r *HTMLRenderer) RenderHistogram(w io.Writer, chart ports.HistogramChart) error {
	if len(chart.Histograms) == 0 {
		return errors.InvalidInput("histogram needs at least one group")
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalOptions(chart.Title, "count")...)
	bar.SetGlobalOptions(charts.WithXAxisOpts(opts.XAxis{Name: chart.Response}))

	var labels []string
	for _, h := range chart.Histograms {
		for b := range h.Counts {
			labels = append(labels, binLabel(h, b))
		}
	}
	bar.SetXAxis(labels)

	offset := 0
	for i, h := range chart.Histograms {
		data := make([]opts.BarData, len(labels))
		for k := range data {
			data[k] = opts.BarData{Value: 0}
		}
		for b, c := range h.Counts {
			data[offset+b] = opts.BarData{Name: binLabel(h, b), Value: c}
		}
		offset += len(h.Counts)
		bar.AddSeries(h.Label, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(r.style.Line(i))}))
	}
	return render(bar.Render(w))
}

func binLabel(h stats.Histogram, b int) string {
	return fmt.Sprintf("%s [%s, %s)", h.Label, stats.FormatFloat(h.Edges[b]), stats.FormatFloat(h.Edges[b+1]))
}

// RenderInteraction draws one line of cell means per factor 2 level
func (r *HTMLRenderer) RenderInteraction(w io.Writer, chart ports.InteractionChart) error {
	a := chart.Anova
	if a == nil || len(a.Cells) == 0 {
		return errors.InvalidInput("interaction plot needs cell means")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(r.globalOptions(chart.Title, "mean of "+a.Response)...)
	line.SetGlobalOptions(charts.WithXAxisOpts(opts.XAxis{Name: a.Factor1}))
	line.SetXAxis(a.Levels1)

	for j, l2 := range a.Levels2 {
		means := make(map[string]float64, len(a.Levels1))
		for _, c := range a.Cells {
			if c.Level2 == l2 {
				means[c.Level1] = c.Mean
			}
		}
		data := make([]opts.LineData, len(a.Levels1))
		for i, l1 := range a.Levels1 {
			data[i] = opts.LineData{Name: l1, Value: means[l1]}
		}
		line.AddSeries(a.Factor2+"="+l2, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(r.style.Line(j))}))
	}
	return render(line.Render(w))
}

func render(err error) error {
	if err != nil {
		return errors.IOError("render html", err)
	}
	return nil
}
