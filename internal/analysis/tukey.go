package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"assaystat/domain/dataset"
	"assaystat/domain/stats"
	"assaystat/internal/errors"
)

// DefaultAlpha is the family-wise error rate of Tukey HSD
const DefaultAlpha = 0.05

// TukeyHSD compares every pair of groups with Tukey's honestly
// significant difference. Pairs follow group order: for i < j the mean
// difference is mean(j) - mean(i).
func TukeyHSD(groups []dataset.Group, alpha float64) (*stats.TukeyResult, error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, errors.Newf(errors.CodeInvalidInput, "alpha %g must be in (0, 1)", alpha)
	}
	k := len(groups)
	if k < 2 {
		return nil, errors.DegenerateDesign("Tukey HSD needs at least two groups")
	}

	means := make([]float64, k)
	var n int
	var ssWithin float64
	for i, g := range groups {
		if g.Len() == 0 {
			return nil, errors.EmptyGroup(g.Label)
		}
		means[i] = stat.Mean(g.Values, nil)
		for _, v := range g.Values {
			d := v - means[i]
			ssWithin += d * d
		}
		n += g.Len()
	}

	df := n - k
	if df <= 0 {
		return nil, errors.DegenerateDesign("Tukey HSD has no residual degrees of freedom")
	}
	mse := ssWithin / float64(df)
	if mse == 0 {
		return nil, errors.DegenerateDesign("within-group variance is zero")
	}

	dist := NewDistributions()
	qcrit := dist.StudentizedRangeQuantile(1-alpha, k, float64(df))

	result := &stats.TukeyResult{
		Alpha:       alpha,
		Groups:      k,
		DF:          df,
		MSE:         mse,
		QCrit:       qcrit,
		Comparisons: make([]stats.TukeyComparison, 0, k*(k-1)/2),
	}
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			diff := means[j] - means[i]
			se := math.Sqrt(mse / 2 * (1/float64(groups[i].Len()) + 1/float64(groups[j].Len())))
			p := clamp01(1 - dist.StudentizedRangeCDF(math.Abs(diff)/se, k, float64(df)))

			result.Comparisons = append(result.Comparisons, stats.TukeyComparison{
				Group1:   groups[i].Label,
				Group2:   groups[j].Label,
				MeanDiff: diff,
				PAdj:     p,
				Lower:    diff - qcrit*se,
				Upper:    diff + qcrit*se,
				Reject:   p < alpha,
			})
		}
	}
	return result, nil
}

// CombinedGroups groups the response by the "<level1>_<level2>" label,
// in first-seen order of the combined label
func CombinedGroups(tbl *dataset.Table, design AnovaDesign) ([]dataset.Group, error) {
	a, err := tbl.Column(design.Factor1)
	if err != nil {
		return nil, err
	}
	b, err := tbl.Column(design.Factor2)
	if err != nil {
		return nil, err
	}
	y, err := tbl.Numeric(design.Response)
	if err != nil {
		return nil, err
	}

	labels := dataset.CombineLabels(a, b, "_")
	return dataset.GroupValues(labels, y, dataset.Levels(labels, dataset.FirstSeen))
}
