package analysis

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"assaystat/domain/dataset"
	"assaystat/domain/stats"
	"assaystat/internal/errors"
)

// FenceRule classifies outliers: a value is an outlier when it lies
// strictly outside [Q1 - Multiplier*Step*IQR, Q3 + Multiplier*Step*IQR]
type FenceRule struct {
	Multiplier float64
	Step       float64
}

// DefaultFenceRule is the widened fence, twice the usual 1.5*IQR step
func DefaultFenceRule() FenceRule {
	return FenceRule{Multiplier: 2, Step: 1.5}
}

// Bounds returns the lower and upper fence for the given quartiles
func (r FenceRule) Bounds(q1, q3 float64) (lower, upper float64) {
	reach := r.Multiplier * r.Step * (q3 - q1)
	return q1 - reach, q3 + reach
}

// Quantile is the linear interpolation between order statistics
// (Hyndman and Fan type 7). sorted must be ascending and non-empty.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * q
	lo := math.Floor(h)
	i := int(lo)
	if i >= n-1 {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

// Quartiles returns Q1 and Q3 of values
func Quartiles(values []float64) (q1, q3 float64) {
	s := sortedCopy(values)
	return Quantile(s, 0.25), Quantile(s, 0.75)
}

// OutlierMask marks the values outside the fences
func (r FenceRule) OutlierMask(values []float64) []bool {
	mask := make([]bool, len(values))
	if len(values) == 0 {
		return mask
	}
	lower, upper := r.Bounds(Quartiles(values))
	for i, v := range values {
		mask[i] = v < lower || v > upper
	}
	return mask
}

// CountOutliers counts the values outside the fences
func (r FenceRule) CountOutliers(values []float64) int {
	count := 0
	for _, out := range r.OutlierMask(values) {
		if out {
			count++
		}
	}
	return count
}

// Describe computes the descriptive record of one group. A single
// observation has std and sem of zero.
func Describe(g dataset.Group, rule FenceRule) (stats.GroupSummary, error) {
	n := g.Len()
	if n == 0 {
		return stats.GroupSummary{}, errors.EmptyGroup(g.Label)
	}

	data := mstats.Float64Data(g.Values)
	mean, err := mstats.Mean(data)
	if err != nil {
		return stats.GroupSummary{}, errors.Wrapf(err, "mean of %q", g.Label)
	}
	median, _ := mstats.Median(data)
	lowest, _ := mstats.Min(data)
	highest, _ := mstats.Max(data)

	var std float64
	if n > 1 {
		std, err = mstats.StandardDeviationSample(data)
		if err != nil {
			return stats.GroupSummary{}, errors.Wrapf(err, "std of %q", g.Label)
		}
	}

	q1, q3 := Quartiles(g.Values)
	lower, upper := rule.Bounds(q1, q3)

	return stats.GroupSummary{
		Label:      g.Label,
		N:          n,
		Mean:       mean,
		StdDev:     std,
		SEM:        stat.StdErr(std, float64(n)),
		Outliers:   rule.CountOutliers(g.Values),
		Median:     median,
		Min:        lowest,
		Max:        highest,
		Q1:         q1,
		Q3:         q3,
		LowerFence: lower,
		UpperFence: upper,
	}, nil
}

// DescribeGroups describes every group, keeping their order
func DescribeGroups(groups []dataset.Group, rule FenceRule) ([]stats.GroupSummary, error) {
	out := make([]stats.GroupSummary, 0, len(groups))
	for _, g := range groups {
		s, err := Describe(g, rule)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// RemoveOutliers returns copies of the groups without their outliers,
// and the number of values removed
func RemoveOutliers(groups []dataset.Group, rule FenceRule) ([]dataset.Group, int) {
	out := make([]dataset.Group, len(groups))
	removed := 0
	for i, g := range groups {
		mask := rule.OutlierMask(g.Values)
		kept := make([]float64, 0, len(g.Values))
		for j, v := range g.Values {
			if mask[j] {
				removed++
				continue
			}
			kept = append(kept, v)
		}
		out[i] = dataset.Group{Label: g.Label, Values: kept}
	}
	return out, removed
}

// FilterOutliers drops the table rows whose response is an outlier within
// its group. Fences are computed per group; rows of groups outside order
// are kept as they are.
func FilterOutliers(tbl *dataset.Table, groupCol, responseCol string, order []string, rule FenceRule) (*dataset.Table, int, error) {
	labels, err := tbl.Column(groupCol)
	if err != nil {
		return nil, 0, err
	}
	values, err := tbl.Numeric(responseCol)
	if err != nil {
		return nil, 0, err
	}
	resolved, err := dataset.ResolveOrder(labels, order, dataset.FirstSeen)
	if err != nil {
		return nil, 0, err
	}
	groups, err := dataset.GroupValues(labels, values, resolved)
	if err != nil {
		return nil, 0, err
	}

	fences := make(map[string][2]float64, len(groups))
	for _, g := range groups {
		lower, upper := rule.Bounds(Quartiles(g.Values))
		fences[g.Label] = [2]float64{lower, upper}
	}

	removed := 0
	filtered := tbl.Filter(func(row int) bool {
		f, ok := fences[labels[row]]
		if !ok {
			return true
		}
		if v := values[row]; v < f[0] || v > f[1] {
			removed++
			return false
		}
		return true
	})
	return filtered, removed, nil
}
