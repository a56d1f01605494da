package stats

import (
	"math"
	"strconv"
)

// FormatFloat renders a value for export; NaN and infinities keep their
// conventional spelling
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Records lays the ANOVA table out as rows, residual F and p as NaN
func (t *AnovaTable) Records() [][]string {
	out := [][]string{{"", "SS", "df", "F", "PR(>F)"}}
	for _, r := range t.Rows {
		f, p := math.NaN(), math.NaN()
		if r.HasTest {
			f, p = r.F, r.PValue
		}
		out = append(out, []string{
			r.Source,
			FormatFloat(r.SS),
			strconv.Itoa(r.DF),
			FormatFloat(f),
			FormatFloat(p),
		})
	}
	return out
}

// Records lays the pairwise comparisons out as rows
func (r *TukeyResult) Records() [][]string {
	out := [][]string{{"group1", "group2", "meandiff", "p-adj", "lower", "upper", "reject"}}
	for _, c := range r.Comparisons {
		out = append(out, []string{
			c.Group1,
			c.Group2,
			FormatFloat(c.MeanDiff),
			FormatFloat(c.PAdj),
			FormatFloat(c.Lower),
			FormatFloat(c.Upper),
			strconv.FormatBool(c.Reject),
		})
	}
	return out
}

// SummaryRecords lays group summaries out one row per group, in order
func SummaryRecords(summaries []GroupSummary) [][]string {
	out := [][]string{{"", "sample_number", "mean", "std", "sem", "outliers"}}
	for _, s := range summaries {
		out = append(out, []string{
			s.Label,
			strconv.Itoa(s.N),
			FormatFloat(s.Mean),
			FormatFloat(s.StdDev),
			FormatFloat(s.SEM),
			strconv.Itoa(s.Outliers),
		})
	}
	return out
}

// Records lays the t-test out as statistic/value rows
func (r *TTestResult) Records() [][]string {
	return [][]string{
		{"", "value"},
		{"t_statistics", FormatFloat(r.T)},
		{"df", FormatFloat(r.DF)},
		{"p_value", FormatFloat(r.PValue)},
	}
}

// HistogramRecords flattens histograms into one row per bin
func HistogramRecords(hists []Histogram) [][]string {
	out := [][]string{{"group", "bin_start", "bin_end", "count"}}
	for _, h := range hists {
		for i, c := range h.Counts {
			out = append(out, []string{
				h.Label,
				FormatFloat(h.Edges[i]),
				FormatFloat(h.Edges[i+1]),
				FormatFloat(c),
			})
		}
	}
	return out
}
