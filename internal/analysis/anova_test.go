package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assaystat/domain/dataset"
	"assaystat/domain/stats"
	"assaystat/internal/errors"
	"assaystat/internal/testkit"
)

var balancedDesign = AnovaDesign{Factor1: "genotype", Factor2: "treatment", Response: "value"}

func TestTwoWayANOVA_Balanced(t *testing.T) {
	tbl := testkit.BalancedTwoByTwo().MustTable(t)

	res, err := TwoWayANOVA(tbl, balancedDesign)
	require.NoError(t, err)
	require.Len(t, res.Rows, 4)

	assert.InDelta(t, 8.25, res.GrandMean, 1e-12)
	assert.InDelta(t, 112.25, res.TotalSS, 1e-9)
	assert.Equal(t, 12, res.N)
	assert.Equal(t, []string{"a1", "a2"}, res.Levels1)
	assert.Equal(t, []string{"b1", "b2"}, res.Levels2)

	want := []struct {
		source string
		ss     float64
		df     int
		f      float64
		p      float64
	}{
		{"genotype", 60.75, 1, 60.75, 5.265208786599614e-05},
		{"treatment", 36.75, 1, 36.75, 0.00030181690976662694},
		{"genotypextreatment", 6.75, 1, 6.75, 0.03171248741001933},
	}
	for i, w := range want {
		row := res.Rows[i]
		assert.Equal(t, w.source, row.Source)
		assert.InDelta(t, w.ss, row.SS, 1e-9, w.source)
		assert.Equal(t, w.df, row.DF, w.source)
		assert.InDelta(t, w.f, row.F, 1e-9, w.source)
		assert.InEpsilon(t, w.p, row.PValue, 1e-6, w.source)
		assert.True(t, row.HasTest)
	}

	resid := res.Residual()
	assert.Equal(t, stats.SourceResidual, resid.Source)
	assert.InDelta(t, 8.0, resid.SS, 1e-9)
	assert.Equal(t, 8, resid.DF)
	assert.False(t, resid.HasTest)
	assert.InDelta(t, 1.0, resid.MeanSquare(), 1e-12)
}

func TestTwoWayANOVA_SumOfSquaresAddsUp(t *testing.T) {
	cfg := testkit.DefaultAssayConfig()
	cfg.Replicates = 5
	tbl := testkit.NewAssayGenerator(cfg).Generate().MustTable(t)

	res, err := TwoWayANOVA(tbl, AnovaDesign{Factor1: cfg.Factor1, Factor2: cfg.Factor2, Response: cfg.Response})
	require.NoError(t, err)

	var sum float64
	for _, r := range res.Rows {
		sum += r.SS
	}
	assert.InDelta(t, res.TotalSS, sum, 1e-9)
	for _, r := range res.Rows[:3] {
		assert.GreaterOrEqual(t, r.PValue, 0.0)
		assert.LessOrEqual(t, r.PValue, 1.0)
	}
}

func TestTwoWayANOVA_Additive(t *testing.T) {
	effectA := []float64{0, 0.3}
	effectB := []float64{0, 0.7}
	replicate := []float64{0.1, 0.7, 0.3}

	var a, b []string
	var y []float64
	for i, la := range []string{"a1", "a2"} {
		for j, lb := range []string{"b1", "b2"} {
			for _, r := range replicate {
				a = append(a, la)
				b = append(b, lb)
				y = append(y, 1.1+effectA[i]+effectB[j]+r)
			}
		}
	}

	var res *stats.AnovaTable
	var err error
	require.NotPanics(t, func() {
		res, err = computeTwoWay(balancedDesign, a, b, y)
	})
	require.NoError(t, err)

	interaction := res.Rows[2]
	assert.Equal(t, stats.InteractionSource("genotype", "treatment"), interaction.Source)
	assert.Equal(t, 0.0, interaction.SS)
	assert.Equal(t, 0.0, interaction.F)
	assert.Equal(t, 1.0, interaction.PValue)

	assert.InDelta(t, 0.27, res.Rows[0].SS, 1e-9)
	assert.InDelta(t, 1.47, res.Rows[1].SS, 1e-9)
	assert.Less(t, res.Rows[1].PValue, 0.05)
}

func TestTwoWayANOVA_CellMeans(t *testing.T) {
	tbl := testkit.BalancedTwoByTwo().MustTable(t)

	res, err := TwoWayANOVA(tbl, balancedDesign)
	require.NoError(t, err)
	require.Len(t, res.Cells, 4)

	assert.Equal(t, stats.CellMean{Level1: "a1", Level2: "b1", Mean: 5, N: 3}, res.Cells[0])
	assert.Equal(t, stats.CellMean{Level1: "a2", Level2: "b2", Mean: 13, N: 3}, res.Cells[3])
}

func TestTwoWayANOVA_Errors(t *testing.T) {
	build := func(records [][]string) *dataset.Table {
		tbl, err := dataset.NewTable([]string{"genotype", "treatment", "value"}, records)
		require.NoError(t, err)
		return tbl
	}

	cases := []struct {
		name   string
		tbl    *dataset.Table
		design AnovaDesign
		code   string
	}{
		{
			name:   "missing column",
			tbl:    testkit.BalancedTwoByTwo().MustTable(t),
			design: AnovaDesign{Factor1: "genotype", Factor2: "dose", Response: "value"},
			code:   errors.CodeInvalidColumn,
		},
		{
			name:   "single level",
			tbl:    build([][]string{{"a1", "b1", "1"}, {"a1", "b2", "2"}, {"a1", "b1", "3"}}),
			design: balancedDesign,
			code:   errors.CodeDegenerateDesign,
		},
		{
			name: "empty cell",
			tbl: build([][]string{
				{"a1", "b1", "1"}, {"a1", "b1", "2"},
				{"a1", "b2", "3"}, {"a2", "b1", "4"}, {"a2", "b1", "5"},
			}),
			design: balancedDesign,
			code:   errors.CodeEmptyGroup,
		},
		{
			name: "one observation per cell",
			tbl: build([][]string{
				{"a1", "b1", "1"}, {"a1", "b2", "2"}, {"a2", "b1", "3"}, {"a2", "b2", "5"},
			}),
			design: balancedDesign,
			code:   errors.CodeDegenerateDesign,
		},
		{
			name: "zero residual variance",
			tbl: build([][]string{
				{"a1", "b1", "1"}, {"a1", "b1", "1"}, {"a1", "b2", "2"}, {"a1", "b2", "2"},
				{"a2", "b1", "3"}, {"a2", "b1", "3"}, {"a2", "b2", "5"}, {"a2", "b2", "5"},
			}),
			design: balancedDesign,
			code:   errors.CodeDegenerateDesign,
		},
		{
			name:   "non-numeric response",
			tbl:    build([][]string{{"a1", "b1", "x"}, {"a2", "b2", "1"}}),
			design: balancedDesign,
			code:   errors.CodeNonNumericResponse,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := TwoWayANOVA(tc.tbl, tc.design)
			require.Error(t, err)
			assert.Equal(t, tc.code, errors.GetCode(err), err.Error())
		})
	}
}
