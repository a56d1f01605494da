package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"assaystat/domain/dataset"
	"assaystat/domain/stats"
	"assaystat/internal/errors"
)

// AnovaDesign names the columns of a two-factor experiment
type AnovaDesign struct {
	Factor1  string
	Factor2  string
	Response string
}

// Columns returns the design's columns in table order
func (d AnovaDesign) Columns() []string {
	return []string{d.Factor1, d.Factor2, d.Response}
}

// ssTolerance is the share of the total sum of squares below which an
// effect is treated as exactly zero
const ssTolerance = 1e-12

func snapToZero(ss, tolerance float64) float64 {
	if math.Abs(ss) <= tolerance {
		return 0
	}
	return ss
}

type cellKey struct {
	level1 string
	level2 string
}

type accumulator struct {
	sum float64
	n   int
}

func (a accumulator) mean() float64 {
	return a.sum / float64(a.n)
}

// TwoWayANOVA decomposes the variance of the response into the two
// factor effects, their interaction and the residual. Levels are taken
// in first-seen order. Every (level1, level2) combination must have rows
// and at least one cell must be replicated.
func TwoWayANOVA(tbl *dataset.Table, design AnovaDesign) (*stats.AnovaTable, error) {
	levels1Col, err := tbl.Column(design.Factor1)
	if err != nil {
		return nil, err
	}
	levels2Col, err := tbl.Column(design.Factor2)
	if err != nil {
		return nil, err
	}
	y, err := tbl.Numeric(design.Response)
	if err != nil {
		return nil, err
	}

	return computeTwoWay(design, levels1Col, levels2Col, y)
}

func computeTwoWay(design AnovaDesign, a, b []string, y []float64) (*stats.AnovaTable, error) {
	levels1 := dataset.Levels(a, dataset.FirstSeen)
	levels2 := dataset.Levels(b, dataset.FirstSeen)
	if len(levels1) < 2 {
		return nil, errors.DegenerateDesign(
			fmt.Sprintf("factor %q has %d level(s), need at least two", design.Factor1, len(levels1)))
	}
	if len(levels2) < 2 {
		return nil, errors.DegenerateDesign(
			fmt.Sprintf("factor %q has %d level(s), need at least two", design.Factor2, len(levels2)))
	}

	n := len(y)
	grandMean := stat.Mean(y, nil)

	byLevel1 := make(map[string]accumulator, len(levels1))
	byLevel2 := make(map[string]accumulator, len(levels2))
	byCell := make(map[cellKey]accumulator, len(levels1)*len(levels2))
	for i, v := range y {
		acc := byLevel1[a[i]]
		acc.sum += v
		acc.n++
		byLevel1[a[i]] = acc

		acc = byLevel2[b[i]]
		acc.sum += v
		acc.n++
		byLevel2[b[i]] = acc

		key := cellKey{a[i], b[i]}
		acc = byCell[key]
		acc.sum += v
		acc.n++
		byCell[key] = acc
	}

	cells := make([]stats.CellMean, 0, len(levels1)*len(levels2))
	for _, l1 := range levels1 {
		for _, l2 := range levels2 {
			acc, ok := byCell[cellKey{l1, l2}]
			if !ok {
				return nil, errors.EmptyGroup(l1 + "_" + l2)
			}
			cells = append(cells, stats.CellMean{Level1: l1, Level2: l2, Mean: acc.mean(), N: acc.n})
		}
	}

	var ssTotal, ss1, ss2, ssWithin float64
	for i, v := range y {
		d := v - grandMean
		ssTotal += d * d

		d = byLevel1[a[i]].mean() - grandMean
		ss1 += d * d

		d = byLevel2[b[i]].mean() - grandMean
		ss2 += d * d

		d = v - byCell[cellKey{a[i], b[i]}].mean()
		ssWithin += d * d
	}
	ssInteraction := ssTotal - ss1 - ss2 - ssWithin

	// rounding leaves effects of an additive design slightly off zero,
	// sometimes negative
	tolerance := ssTolerance * ssTotal
	ss1 = snapToZero(ss1, tolerance)
	ss2 = snapToZero(ss2, tolerance)
	ssInteraction = snapToZero(ssInteraction, tolerance)

	df1 := len(levels1) - 1
	df2 := len(levels2) - 1
	dfInteraction := df1 * df2
	dfWithin := n - len(levels1)*len(levels2)
	if dfWithin <= 0 {
		return nil, errors.DegenerateDesign(
			fmt.Sprintf("no residual degrees of freedom: %d observations in %d cells", n, len(cells)))
	}

	msWithin := ssWithin / float64(dfWithin)
	if msWithin == 0 {
		return nil, errors.DegenerateDesign("residual mean square is zero, F is undefined")
	}

	dist := NewDistributions()
	effect := func(source string, ss float64, df int) stats.AnovaRow {
		f := (ss / float64(df)) / msWithin
		return stats.AnovaRow{
			Source:  source,
			SS:      ss,
			DF:      df,
			F:       f,
			PValue:  dist.FTestPValue(f, df, dfWithin),
			HasTest: true,
		}
	}

	return &stats.AnovaTable{
		Factor1:  design.Factor1,
		Factor2:  design.Factor2,
		Response: design.Response,
		Rows: []stats.AnovaRow{
			effect(design.Factor1, ss1, df1),
			effect(design.Factor2, ss2, df2),
			effect(stats.InteractionSource(design.Factor1, design.Factor2), ssInteraction, dfInteraction),
			{Source: stats.SourceResidual, SS: ssWithin, DF: dfWithin},
		},
		GrandMean: grandMean,
		TotalSS:   ssTotal,
		N:         n,
		Levels1:   levels1,
		Levels2:   levels2,
		Cells:     cells,
	}, nil
}
