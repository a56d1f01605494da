package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"assaystat/domain/dataset"
	"assaystat/domain/stats"
	"assaystat/internal/errors"
)

// AutoHistogram bins a group with the smaller of the Sturges and
// Freedman-Diaconis bin widths. Constant data gets one unit-wide bin
// centred on the value.
func AutoHistogram(g dataset.Group) (stats.Histogram, error) {
	n := g.Len()
	if n == 0 {
		return stats.Histogram{}, errors.EmptyGroup(g.Label)
	}

	sorted := sortedCopy(g.Values)
	lo, hi := sorted[0], sorted[n-1]
	if lo == hi {
		return stats.Histogram{
			Label:  g.Label,
			Edges:  []float64{lo - 0.5, hi + 0.5},
			Counts: []float64{float64(n)},
		}, nil
	}

	span := hi - lo
	width := span / (math.Log2(float64(n)) + 1)
	iqr := Quantile(sorted, 0.75) - Quantile(sorted, 0.25)
	if fd := 2 * iqr * math.Pow(float64(n), -1.0/3); fd > 0 && fd < width {
		width = fd
	}
	bins := int(math.Ceil(span / width))
	if bins < 1 {
		bins = 1
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)

	// stat.Histogram counts [edge_i, edge_i+1); nudge the last divider so
	// the maximum falls in the last bin.
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	return stats.Histogram{
		Label:  g.Label,
		Edges:  edges,
		Counts: stat.Histogram(nil, dividers, sorted, nil),
	}, nil
}

// Histograms bins every group, keeping their order
func Histograms(groups []dataset.Group) ([]stats.Histogram, error) {
	out := make([]stats.Histogram, 0, len(groups))
	for _, g := range groups {
		h, err := AutoHistogram(g)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}
