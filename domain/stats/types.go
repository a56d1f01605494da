package stats

// ============================================================================
// TWO-WAY ANOVA
// ============================================================================

// Source labels of the ANOVA table rows
const (
	SourceResidual = "Residual"
)

// AnovaRow is one line of the variance decomposition. Rows without a
// test (the residual) carry HasTest=false and are exported with NaN in
// the F and p columns.
type AnovaRow struct {
	Source  string  `json:"source"`
	SS      float64 `json:"sum_sq"`
	DF      int     `json:"df"`
	F       float64 `json:"f"`
	PValue  float64 `json:"p_value"`
	HasTest bool    `json:"has_test"`
}

// MeanSquare returns SS/df
func (r AnovaRow) MeanSquare() float64 {
	if r.DF == 0 {
		return 0
	}
	return r.SS / float64(r.DF)
}

// CellMean is the mean response of one (level1, level2) combination
type CellMean struct {
	Level1 string  `json:"level1"`
	Level2 string  `json:"level2"`
	Mean   float64 `json:"mean"`
	N      int     `json:"n"`
}

// AnovaTable is the result of a two-way ANOVA with interaction.
// Rows are Factor1, Factor2, Interaction, Residual in that order.
type AnovaTable struct {
	Factor1   string     `json:"factor1"`
	Factor2   string     `json:"factor2"`
	Response  string     `json:"response"`
	Rows      []AnovaRow `json:"rows"`
	GrandMean float64    `json:"grand_mean"`
	TotalSS   float64    `json:"total_ss"`
	N         int        `json:"n"`
	Levels1   []string   `json:"levels1"`
	Levels2   []string   `json:"levels2"`
	Cells     []CellMean `json:"cells"`
}

// Row returns the row for source, if present
func (t *AnovaTable) Row(source string) (AnovaRow, bool) {
	for _, r := range t.Rows {
		if r.Source == source {
			return r, true
		}
	}
	return AnovaRow{}, false
}

// Residual returns the residual row
func (t *AnovaTable) Residual() AnovaRow {
	r, _ := t.Row(SourceResidual)
	return r
}

// InteractionSource is the row label of the interaction term
func InteractionSource(factor1, factor2 string) string {
	return factor1 + "x" + factor2
}

// ============================================================================
// TUKEY HSD
// ============================================================================

// TukeyComparison is one pairwise comparison. MeanDiff is mean(Group2)
// minus mean(Group1).
type TukeyComparison struct {
	Group1   string  `json:"group1"`
	Group2   string  `json:"group2"`
	MeanDiff float64 `json:"meandiff"`
	PAdj     float64 `json:"p_adj"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
	Reject   bool    `json:"reject"`
}

// TukeyResult holds all pairwise comparisons of a Tukey HSD test
type TukeyResult struct {
	Alpha       float64           `json:"alpha"`
	Groups      int               `json:"groups"`
	DF          int               `json:"df"`
	MSE         float64           `json:"mse"`
	QCrit       float64           `json:"q_crit"`
	Comparisons []TukeyComparison `json:"comparisons"`
}

// ============================================================================
// DESCRIPTIVE STATISTICS
// ============================================================================

// GroupSummary is the descriptive record of one group
type GroupSummary struct {
	Label      string  `json:"label"`
	N          int     `json:"sample_number"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std"`
	SEM        float64 `json:"sem"`
	Outliers   int     `json:"outliers"`
	Median     float64 `json:"median"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Q1         float64 `json:"q1"`
	Q3         float64 `json:"q3"`
	LowerFence float64 `json:"lower_fence"`
	UpperFence float64 `json:"upper_fence"`
}

// Histogram holds bin edges (len(Counts)+1 of them) and counts
type Histogram struct {
	Label  string    `json:"label"`
	Edges  []float64 `json:"edges"`
	Counts []float64 `json:"counts"`
}

// ============================================================================
// TWO-SAMPLE T-TEST
// ============================================================================

// VarianceAssumption selects Student's pooled or Welch's unequal variance test
type VarianceAssumption string

const (
	VariancePooled VarianceAssumption = "pooled"
	VarianceWelch  VarianceAssumption = "welch"
)

// TTestResult is a two-sided two-sample t-test. T is positive when the
// mean of GroupA exceeds the mean of GroupB.
type TTestResult struct {
	GroupA   string             `json:"group_a"`
	GroupB   string             `json:"group_b"`
	T        float64            `json:"t_statistics"`
	DF       float64            `json:"df"`
	PValue   float64            `json:"p_value"`
	NA       int                `json:"n_a"`
	NB       int                `json:"n_b"`
	Variance VarianceAssumption `json:"variance"`
}
