package plot

import (
	"image/color"
	"io"
	"math"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"

	"assaystat/internal/errors"
	"assaystat/ports"
)

// SVGRenderer draws static charts with go-gg
type SVGRenderer struct {
	style Style
}

var _ ports.PlotRenderer = (*SVGRenderer)(nil)

// NewSVGRenderer creates a renderer with its own copy of style
func NewSVGRenderer(style Style) (*SVGRenderer, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}
	return &SVGRenderer{style: style}, nil
}

func (r *SVGRenderer) Format() string { return "svg" }

// shape is one polyline, closed when its first and last points match
type shape struct {
	xs, ys []float64
	stroke color.Color
	fill   color.Color
}

func rect(x0, x1, y0, y1 float64, stroke, fill color.Color) shape {
	return shape{
		xs:     []float64{x0, x1, x1, x0, x0},
		ys:     []float64{y0, y0, y1, y1, y0},
		stroke: stroke,
		fill:   fill,
	}
}

func segment(x0, y0, x1, y1 float64, stroke color.Color) shape {
	return shape{
		xs:     []float64{x0, x1},
		ys:     []float64{y0, y1},
		stroke: stroke,
		fill:   color.Transparent,
	}
}

func newPlot(title, yLabel string) *gg.Plot {
	p := gg.NewPlot(table.NewBuilder(nil).
		Add("x", []float64{}).
		Add("y", []float64{}).
		Done())
	p.Add(gg.Title(title), gg.AxisLabel("y", yLabel))
	return p
}

// addShapes draws each shape as its own path
func addShapes(p *gg.Plot, shapes []shape) {
	var (
		parts          []int
		xs, ys         []float64
		strokes, fills []color.NRGBA
	)
	for i, s := range shapes {
		for j := range s.xs {
			parts = append(parts, i)
			xs = append(xs, s.xs[j])
			ys = append(ys, s.ys[j])
			strokes = append(strokes, nrgba(s.stroke))
			fills = append(fills, nrgba(s.fill))
		}
	}

	defer p.Save().Restore()
	p.SetData(table.NewBuilder(nil).
		Add("part", parts).
		Add("x", xs).
		Add("y", ys).
		Add("stroke", strokes).
		Add("fill", fills).
		Done())
	p.GroupBy("part")
	p.Add(gg.LayerPaths{X: "x", Y: "y", Color: "stroke", Fill: "fill"})
}

// nrgba gives every color column one concrete type; go-gg refuses to
// concatenate columns holding different color types
func nrgba(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func addPoints(p *gg.Plot, xs, ys []float64, c color.Color) {
	if len(xs) == 0 {
		return
	}
	defer p.Save().Restore()
	p.SetData(table.NewBuilder(nil).Add("x", xs).Add("y", ys).Done())
	p.Add(gg.LayerPoints{X: "x", Y: "y", Color: p.Const(c)})
}

// categoryAxis maps positions 1..n to labels
func categoryAxis(p *gg.Plot, labels []string) {
	scale := gg.NewLinearScaler().SetMin(0.5).SetMax(float64(len(labels)) + 0.5)
	scale.SetFormatter(func(x float64) string {
		i := int(math.Round(x))
		if math.Abs(x-float64(i)) > 1e-9 || i < 1 || i > len(labels) {
			return ""
		}
		return labels[i-1]
	})
	p.SetScale("x", scale)
}

// RenderBoxPlot draws a box per group with the raw values jittered on top
func (r *SVGRenderer) RenderBoxPlot(w io.Writer, chart ports.GroupChart) error {
	if len(chart.Groups) == 0 {
		return errors.InvalidInput("box plot needs at least one group")
	}

	p := newPlot(chart.Title, chart.Response)
	const half = 0.25

	var shapes []shape
	for i, g := range chart.Groups {
		if g.Len() == 0 {
			return errors.EmptyGroup(g.Label)
		}
		pos := float64(i + 1)
		b := boxOf(g.Values)
		shapes = append(shapes,
			rect(pos-half, pos+half, b.q1, b.q3, r.style.Edge, r.style.Fill(i)),
			segment(pos, b.q1, pos, b.low, r.style.Edge),
			segment(pos, b.q3, pos, b.high, r.style.Edge),
			segment(pos-half/2, b.low, pos+half/2, b.low, r.style.Edge),
			segment(pos-half/2, b.high, pos+half/2, b.high, r.style.Edge),
			segment(pos-half, b.median, pos+half, b.median, r.style.Median),
		)
	}
	addShapes(p, shapes)

	xs, ys, _ := jitteredPoints(r.style, chart.Groups)
	addPoints(p, xs, ys, r.style.Points)

	categoryAxis(p, groupLabels(chart.Groups))
	return writeSVG(p, w, r.style)
}

// RenderBarPlot draws group means with sem error bars and the raw values
// jittered on top
func (r *SVGRenderer) RenderBarPlot(w io.Writer, chart ports.GroupChart) error {
	if len(chart.Groups) == 0 {
		return errors.InvalidInput("bar plot needs at least one group")
	}
	if len(chart.Summaries) != len(chart.Groups) {
		return errors.InternalError("bar plot needs one summary per group")
	}

	p := newPlot(chart.Title, chart.Response)
	const half = 0.3

	var shapes []shape
	for i, s := range chart.Summaries {
		pos := float64(i + 1)
		lo, hi := s.Mean-s.SEM, s.Mean+s.SEM
		shapes = append(shapes,
			rect(pos-half, pos+half, 0, s.Mean, r.style.Edge, r.style.Fill(i)),
			segment(pos, lo, pos, hi, black),
			segment(pos-half/3, lo, pos+half/3, lo, black),
			segment(pos-half/3, hi, pos+half/3, hi, black),
		)
	}
	addShapes(p, shapes)

	xs, ys, _ := jitteredPoints(r.style, chart.Groups)
	addPoints(p, xs, ys, r.style.Points)

	categoryAxis(p, groupLabels(chart.Groups))
	p.SetScale("y", gg.NewLinearScaler().Include(0))
	return writeSVG(p, w, r.style)
}

// RenderHistogram overlays one outlined histogram per group
func (r *SVGRenderer) RenderHistogram(w io.Writer, chart ports.HistogramChart) error {
	if len(chart.Histograms) == 0 {
		return errors.InvalidInput("histogram needs at least one group")
	}

	p := newPlot(chart.Title, "count")
	p.Add(gg.AxisLabel("x", chart.Response))

	var (
		shapes     []shape
		tagX, tagY []float64
		tagLabels  []string
	)
	for i, h := range chart.Histograms {
		stroke := r.style.Line(i)
		var peak float64
		for b, c := range h.Counts {
			shapes = append(shapes, rect(h.Edges[b], h.Edges[b+1], 0, c, stroke, color.Transparent))
			peak = math.Max(peak, c)
		}
		tagX = append(tagX, (h.Edges[0]+h.Edges[len(h.Edges)-1])/2)
		tagY = append(tagY, peak)
		tagLabels = append(tagLabels, h.Label)
	}
	addShapes(p, shapes)
	addTags(p, tagX, tagY, tagLabels)

	p.SetScale("y", gg.NewLinearScaler().Include(0))
	return writeSVG(p, w, r.style)
}

// RenderInteraction draws the cell means: factor 1 levels on the x axis,
// one line per factor 2 level
func (r *SVGRenderer) RenderInteraction(w io.Writer, chart ports.InteractionChart) error {
	a := chart.Anova
	if a == nil || len(a.Cells) == 0 {
		return errors.InvalidInput("interaction plot needs cell means")
	}

	p := newPlot(chart.Title, "mean of "+a.Response)
	p.Add(gg.AxisLabel("x", a.Factor1))

	pos1 := make(map[string]float64, len(a.Levels1))
	for i, l := range a.Levels1 {
		pos1[l] = float64(i + 1)
	}

	var (
		shapes     []shape
		tagX, tagY []float64
		tagLabels  []string
	)
	for j, l2 := range a.Levels2 {
		line := shape{stroke: r.style.Line(j), fill: color.Transparent}
		var px, py []float64
		for _, c := range a.Cells {
			if c.Level2 != l2 {
				continue
			}
			line.xs = append(line.xs, pos1[c.Level1])
			line.ys = append(line.ys, c.Mean)
			px = append(px, pos1[c.Level1])
			py = append(py, c.Mean)
		}
		shapes = append(shapes, line)
		addPoints(p, px, py, r.style.Line(j))
		if n := len(line.xs); n > 0 {
			tagX = append(tagX, line.xs[n-1])
			tagY = append(tagY, line.ys[n-1])
			tagLabels = append(tagLabels, a.Factor2+"="+l2)
		}
	}
	addShapes(p, shapes)
	addTags(p, tagX, tagY, tagLabels)

	categoryAxis(p, a.Levels1)
	return writeSVG(p, w, r.style)
}

func addTags(p *gg.Plot, xs, ys []float64, labels []string) {
	if len(xs) == 0 {
		return
	}
	defer p.Save().Restore()
	p.SetData(table.NewBuilder(nil).Add("x", xs).Add("y", ys).Add("label", labels).Done())
	p.Add(gg.LayerTags{X: "x", Y: "y", Label: "label"})
}

func writeSVG(p *gg.Plot, w io.Writer, style Style) error {
	if err := p.WriteSVG(w, style.Width, style.Height); err != nil {
		return errors.IOError("render svg", err)
	}
	return nil
}
