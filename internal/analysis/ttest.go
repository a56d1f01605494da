package analysis

import (
	"strings"

	moremath "github.com/aclements/go-moremath/stats"

	"assaystat/domain/dataset"
	"assaystat/domain/stats"
	"assaystat/internal/errors"
)

// TTest is a two-sided two-sample t-test between two labelled groups.
// The order of the labels fixes the sign of t.
type TTest struct {
	order    [2]string
	variance stats.VarianceAssumption
}

// NewTTest configures a test between exactly two labels
func NewTTest(order []string, variance stats.VarianceAssumption) (*TTest, error) {
	if len(order) != 2 {
		return nil, errors.Newf(errors.CodeInvalidInput,
			"t-test needs exactly two group labels, got %d", len(order))
	}
	a, b := strings.TrimSpace(order[0]), strings.TrimSpace(order[1])
	if a == "" || b == "" || a == b {
		return nil, errors.Newf(errors.CodeInvalidInput, "t-test labels %q and %q must be distinct and non-empty", a, b)
	}
	if variance == "" {
		variance = stats.VariancePooled
	}
	if variance != stats.VariancePooled && variance != stats.VarianceWelch {
		return nil, errors.Newf(errors.CodeInvalidInput, "unknown variance assumption %q", variance)
	}
	return &TTest{order: [2]string{a, b}, variance: variance}, nil
}

// Order returns the two labels
func (tt *TTest) Order() []string {
	return []string{tt.order[0], tt.order[1]}
}

// Run picks the two ordered groups out of groups and tests them
func (tt *TTest) Run(groups []dataset.Group) (*stats.TTestResult, error) {
	var a, b *dataset.Group
	for i := range groups {
		switch groups[i].Label {
		case tt.order[0]:
			a = &groups[i]
		case tt.order[1]:
			b = &groups[i]
		}
	}
	if a == nil || a.Len() == 0 {
		return nil, errors.EmptyGroup(tt.order[0])
	}
	if b == nil || b.Len() == 0 {
		return nil, errors.EmptyGroup(tt.order[1])
	}
	for _, g := range []*dataset.Group{a, b} {
		if g.Len() < 2 {
			return nil, errors.DegenerateDesign("group " + g.Label + " needs at least two observations for a t-test")
		}
	}

	s1 := moremath.Sample{Xs: a.Values}
	s2 := moremath.Sample{Xs: b.Values}
	if s1.Variance() == 0 && s2.Variance() == 0 {
		return nil, errors.DegenerateDesign("both groups have zero variance")
	}

	var (
		res *moremath.TTestResult
		err error
	)
	if tt.variance == stats.VarianceWelch {
		res, err = moremath.TwoSampleWelchTTest(s1, s2, moremath.LocationDiffers)
	} else {
		res, err = moremath.TwoSampleTTest(s1, s2, moremath.LocationDiffers)
	}
	if err != nil {
		return nil, errors.WithCode(errors.CodeDegenerateDesign, err)
	}

	return &stats.TTestResult{
		GroupA:   tt.order[0],
		GroupB:   tt.order[1],
		T:        res.T,
		DF:       res.DoF,
		PValue:   res.P,
		NA:       a.Len(),
		NB:       b.Len(),
		Variance: tt.variance,
	}, nil
}
