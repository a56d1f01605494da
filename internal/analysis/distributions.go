package analysis

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat/distuv"
)

// StatisticalDistributions provides unified access to the tail
// probabilities used by the tests in this package
type StatisticalDistributions struct{}

// NewDistributions creates a new distributions utility
func NewDistributions() *StatisticalDistributions {
	return &StatisticalDistributions{}
}

// FTestPValue computes the upper tail of the F distribution. A
// non-positive statistic has p = 1.
func (sd *StatisticalDistributions) FTestPValue(fStatistic float64, df1, df2 int) float64 {
	if df1 <= 0 || df2 <= 0 || !(fStatistic > 0) {
		return 1.0
	}

	fDist := distuv.F{D1: float64(df1), D2: float64(df2)}
	return fDist.Survival(fStatistic)
}

// Quadrature layout for the studentized range. The inner integral runs
// over the standard normal, the outer one over the distribution of the
// pooled standard deviation s = sqrt(chi2(df)/df).
const (
	rangeNodes       = 16
	rangeInnerPanels = 8
	rangeInnerBound  = 8.5
	rangeOuterPanels = 24
	rangeOuterWidth  = 15
)

// StudentizedRangeCDF returns P(Q < q) for the range of k normal means
// divided by an independent standard error with df degrees of freedom.
// An infinite df gives the distribution of the range of k standard
// normals.
func (sd *StatisticalDistributions) StudentizedRangeCDF(q float64, k int, df float64) float64 {
	if q <= 0 || k < 2 || df <= 0 {
		return 0
	}
	if math.IsInf(q, 1) {
		return 1
	}
	if math.IsInf(df, 1) {
		return clamp01(normalRangeCDF(q, k))
	}

	nu := df
	logNorm := nu/2*math.Log(nu) - lgamma(nu/2) - (nu/2-1)*math.Ln2
	density := func(s float64) float64 {
		if s <= 0 {
			return 0
		}
		return math.Exp(logNorm + (nu-1)*math.Log(s) - nu*s*s/2)
	}

	sigma := 1 / math.Sqrt(2*nu)
	lo := math.Max(0, 1-rangeOuterWidth*sigma)
	hi := 1 + rangeOuterWidth*sigma

	total := panels(lo, hi, rangeOuterPanels, func(s float64) float64 {
		d := density(s)
		if d == 0 {
			return 0
		}
		return d * normalRangeCDF(q*s, k)
	})
	return clamp01(total)
}

// StudentizedRangeQuantile returns q such that P(Q < q) = p, by
// bisection on StudentizedRangeCDF
func (sd *StatisticalDistributions) StudentizedRangeQuantile(p float64, k int, df float64) float64 {
	if p <= 0 || k < 2 || df <= 0 {
		return 0
	}
	if p >= 1 {
		return math.Inf(1)
	}

	lo, hi := 0.0, 1.0
	for sd.StudentizedRangeCDF(hi, k, df) < p {
		lo = hi
		hi *= 2
		if hi > 1e6 {
			return math.Inf(1)
		}
	}

	for i := 0; i < 60 && hi-lo > 1e-9; i++ {
		mid := (lo + hi) / 2
		if sd.StudentizedRangeCDF(mid, k, df) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// normalRangeCDF is P(range of k standard normals < w)
func normalRangeCDF(w float64, k int) float64 {
	if w <= 0 {
		return 0
	}
	kf := float64(k)
	return math.Min(1, panels(-rangeInnerBound, rangeInnerBound, rangeInnerPanels, func(z float64) float64 {
		inner := distuv.UnitNormal.CDF(z) - distuv.UnitNormal.CDF(z-w)
		if inner <= 0 {
			return 0
		}
		return kf * distuv.UnitNormal.Prob(z) * math.Pow(inner, kf-1)
	}))
}

// panels integrates f over [a, b] split into n equal Gauss-Legendre panels
func panels(a, b float64, n int, f func(float64) float64) float64 {
	width := (b - a) / float64(n)
	var sum float64
	for i := 0; i < n; i++ {
		lo := a + float64(i)*width
		sum += quad.Fixed(f, lo, lo+width, rangeNodes, quad.Legendre{}, 0)
	}
	return sum
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
