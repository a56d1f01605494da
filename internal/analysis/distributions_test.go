package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat/distuv"
)

// studentTwoSided is the exact two-sided Student t tail, the reference
// for the two-group studentized range
func studentTwoSided(t, df float64) float64 {
	return 2 * distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Survival(math.Abs(t))
}

func TestStudentizedRangeCDF_MatchesStudentTForTwoGroups(t *testing.T) {
	dist := NewDistributions()

	cases := []struct {
		q  float64
		df float64
	}{
		{2.0, 8},
		{3.0, 1},
		{1.0, 2},
		{4.0, 30},
	}
	for _, tc := range cases {
		got := dist.StudentizedRangeCDF(tc.q, 2, tc.df)
		want := 1 - studentTwoSided(tc.q/math.Sqrt2, tc.df)
		assert.InDelta(t, want, got, 1e-8, "q=%g df=%g", tc.q, tc.df)
	}
}

func TestStudentizedRangeCDF_Edges(t *testing.T) {
	dist := NewDistributions()

	assert.Equal(t, 0.0, dist.StudentizedRangeCDF(0, 3, 10))
	assert.Equal(t, 0.0, dist.StudentizedRangeCDF(-1, 3, 10))
	assert.Equal(t, 1.0, dist.StudentizedRangeCDF(math.Inf(1), 3, 10))
	assert.InDelta(t, 0.9300045147, dist.StudentizedRangeCDF(3.5, 3, 12), 1e-6)

	// monotone in q
	prev := 0.0
	for q := 0.5; q < 8; q += 0.5 {
		p := dist.StudentizedRangeCDF(q, 4, 8)
		assert.GreaterOrEqual(t, p, prev-1e-12)
		prev = p
	}
}

func TestStudentizedRangeQuantile(t *testing.T) {
	dist := NewDistributions()

	cases := []struct {
		k    int
		df   float64
		want float64
	}{
		{3, 10, 3.8768},
		{4, 8, 4.5288},
		{2, 1, 17.969},
	}
	for _, tc := range cases {
		got := dist.StudentizedRangeQuantile(0.95, tc.k, tc.df)
		assert.InDelta(t, tc.want, got, 2e-3, "k=%d df=%g", tc.k, tc.df)
	}
}

func TestFTestPValue(t *testing.T) {
	dist := NewDistributions()

	assert.InEpsilon(t, 5.265208786599614e-05, dist.FTestPValue(60.75, 1, 8), 1e-8)
	assert.InEpsilon(t, 0.03171248741001933, dist.FTestPValue(6.75, 1, 8), 1e-8)
	assert.Equal(t, 1.0, dist.FTestPValue(3, 0, 8))
}

func TestFTestPValue_NonPositiveStatistic(t *testing.T) {
	dist := NewDistributions()

	for _, f := range []float64{0, -1e-15, -3, math.NaN()} {
		var p float64
		assert.NotPanics(t, func() { p = dist.FTestPValue(f, 1, 8) })
		assert.Equal(t, 1.0, p, "F=%g", f)
	}
}
