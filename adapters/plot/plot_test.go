package plot

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assaystat/domain/dataset"
	"assaystat/domain/stats"
	"assaystat/internal/errors"
	"assaystat/ports"
)

func groupChart() ports.GroupChart {
	groups := []dataset.Group{
		{Label: "ctrl", Values: []float64{2, 1, 3, 4}},
		{Label: "drug", Values: []float64{6, 5, 7, 9}},
	}
	return ports.GroupChart{
		Title:    "assay",
		Response: "value",
		Groups:   groups,
		Summaries: []stats.GroupSummary{
			{Label: "ctrl", N: 4, Mean: 2.5, SEM: 0.645},
			{Label: "drug", N: 4, Mean: 6.75, SEM: 0.854},
		},
	}
}

func anovaTable() *stats.AnovaTable {
	return &stats.AnovaTable{
		Factor1:  "genotype",
		Factor2:  "treatment",
		Response: "value",
		Levels1:  []string{"a1", "a2"},
		Levels2:  []string{"b1", "b2"},
		Cells: []stats.CellMean{
			{Level1: "a1", Level2: "b1", Mean: 5, N: 3},
			{Level1: "a1", Level2: "b2", Mean: 7, N: 3},
			{Level1: "a2", Level2: "b1", Mean: 8, N: 3},
			{Level1: "a2", Level2: "b2", Mean: 13, N: 3},
		},
	}
}

func renderers(t *testing.T) []ports.PlotRenderer {
	t.Helper()
	style := DefaultStyle()
	style.Width, style.Height = 400, 300

	svg, err := NewRenderer("svg", style)
	require.NoError(t, err)
	html, err := NewRenderer("html", style)
	require.NoError(t, err)
	return []ports.PlotRenderer{svg, html}
}

func TestRenderers_AllCharts(t *testing.T) {
	hists := ports.HistogramChart{
		Title:    "assay",
		Response: "value",
		Histograms: []stats.Histogram{
			{Label: "ctrl", Edges: []float64{1, 2.5, 4}, Counts: []float64{2, 2}},
			{Label: "drug", Edges: []float64{5, 7, 9}, Counts: []float64{2, 2}},
		},
	}

	for _, r := range renderers(t) {
		t.Run(r.Format(), func(t *testing.T) {
			var box, bar, hist, inter bytes.Buffer
			require.NoError(t, r.RenderBoxPlot(&box, groupChart()))
			require.NoError(t, r.RenderBarPlot(&bar, groupChart()))
			require.NoError(t, r.RenderHistogram(&hist, hists))
			require.NoError(t, r.RenderInteraction(&inter, ports.InteractionChart{Title: "interaction", Anova: anovaTable()}))

			for _, buf := range []*bytes.Buffer{&box, &bar, &hist, &inter} {
				assert.Positive(t, buf.Len())
			}
			if r.Format() == "svg" {
				assert.Contains(t, box.String(), "<svg")
				assert.Contains(t, inter.String(), "<svg")
			} else {
				assert.Contains(t, box.String(), "echarts")
				assert.Contains(t, box.String(), "ctrl")
				assert.Contains(t, inter.String(), "treatment=b1")
			}
		})
	}
}

func TestRenderers_Deterministic(t *testing.T) {
	style := DefaultStyle()
	style.Width, style.Height = 400, 300
	r, err := NewSVGRenderer(style)
	require.NoError(t, err)

	var a, b bytes.Buffer
	require.NoError(t, r.RenderBoxPlot(&a, groupChart()))
	require.NoError(t, r.RenderBoxPlot(&b, groupChart()))
	assert.Equal(t, a.String(), b.String())
}

func TestRenderers_RejectEmptyInput(t *testing.T) {
	for _, r := range renderers(t) {
		var buf bytes.Buffer
		assert.True(t, errors.Is(r.RenderBoxPlot(&buf, ports.GroupChart{}), errors.CodeInvalidInput))
		assert.True(t, errors.Is(r.RenderHistogram(&buf, ports.HistogramChart{}), errors.CodeInvalidInput))
		assert.True(t, errors.Is(r.RenderInteraction(&buf, ports.InteractionChart{}), errors.CodeInvalidInput))

		chart := groupChart()
		chart.Summaries = chart.Summaries[:1]
		assert.Error(t, r.RenderBarPlot(&buf, chart))
	}
}

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer("none", DefaultStyle())
	require.NoError(t, err)
	assert.Nil(t, r)

	_, err = NewRenderer("png", DefaultStyle())
	assert.True(t, errors.Is(err, errors.CodeConfigInvalid))

	bad := DefaultStyle()
	bad.Width = 0
	_, err = NewRenderer("svg", bad)
	assert.True(t, errors.Is(err, errors.CodeConfigInvalid))
}

func TestStyle(t *testing.T) {
	s := DefaultStyle()
	assert.Equal(t, s.Fills[0], s.Fill(2))
	assert.Equal(t, s.Lines[1], s.Line(3))
	assert.Equal(t, "#008000", hexColor(s.Edge))
	assert.Equal(t, "#ffffff", hexColor(color.White))
}

func TestBoxOf(t *testing.T) {
	b := boxOf([]float64{1, 2, 3, 4, 5, 6, 7, 8, 40})
	assert.Equal(t, 3.0, b.q1)
	assert.Equal(t, 5.0, b.median)
	assert.Equal(t, 7.0, b.q3)
	assert.Equal(t, 1.0, b.low)
	assert.Equal(t, 8.0, b.high)
}

func TestJitteredPoints_Seeded(t *testing.T) {
	chart := groupChart()
	xs1, ys1, labels := jitteredPoints(DefaultStyle(), chart.Groups)
	xs2, _, _ := jitteredPoints(DefaultStyle(), chart.Groups)

	assert.Equal(t, xs1, xs2)
	assert.Len(t, ys1, 8)
	assert.Equal(t, "drug", labels[7])
	for i, x := range xs1 {
		pos := 1.0
		if i >= 4 {
			pos = 2.0
		}
		assert.InDelta(t, pos, x, 0.6)
	}
}

func TestSVGRenderer_MixedColorTypes(t *testing.T) {
	style := DefaultStyle()
	style.Width, style.Height = 400, 300
	style.Fills = []color.Color{color.Gray{Y: 0xcc}, color.White, green}
	style.Median = color.Black
	r, err := NewSVGRenderer(style)
	require.NoError(t, err)

	var box, bar bytes.Buffer
	require.NotPanics(t, func() {
		require.NoError(t, r.RenderBoxPlot(&box, groupChart()))
		require.NoError(t, r.RenderBarPlot(&bar, groupChart()))
	})
	assert.Contains(t, box.String(), "<svg")
	assert.Contains(t, bar.String(), "<svg")
}

func TestNRGBA(t *testing.T) {
	assert.Equal(t, color.NRGBA{}, nrgba(color.Transparent))
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, nrgba(color.White))
	assert.Equal(t, color.NRGBA{G: 0x80, A: 0xff}, nrgba(green))
}
