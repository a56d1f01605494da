package plot

import (
	"sort"

	"assaystat/domain/dataset"
	"assaystat/internal/analysis"
)

// boxGeometry holds what a box plot draws for one group. Whiskers reach
// the most extreme values within 1.5 IQR of the box.
type boxGeometry struct {
	q1, median, q3 float64
	low, high      float64
}

func boxOf(values []float64) boxGeometry {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	b := boxGeometry{
		q1:     analysis.Quantile(sorted, 0.25),
		median: analysis.Quantile(sorted, 0.5),
		q3:     analysis.Quantile(sorted, 0.75),
	}
	reach := 1.5 * (b.q3 - b.q1)
	b.low, b.high = b.q1, b.q3
	for _, v := range sorted {
		if v >= b.q1-reach {
			b.low = v
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= b.q3+reach {
			b.high = sorted[i]
			break
		}
	}
	return b
}

// jitteredPoints places every value at its group position (1, 2, ...)
// plus normal noise. The source is seeded so output is reproducible.
func jitteredPoints(style Style, groups []dataset.Group) (xs, ys []float64, labels []string) {
	rng := style.jitter()
	for i, g := range groups {
		pos := float64(i + 1)
		for _, v := range g.Values {
			xs = append(xs, pos+rng.NormFloat64()*style.JitterSD)
			ys = append(ys, v)
			labels = append(labels, g.Label)
		}
	}
	return xs, ys, labels
}

func groupLabels(groups []dataset.Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Label
	}
	return out
}
