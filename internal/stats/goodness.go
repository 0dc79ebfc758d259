package stats

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cory-johannsen/dicesim/internal/distribution"
)

// ChiSquare is the result of a goodness-of-fit test.
type ChiSquare struct {
	Statistic float64 `yaml:"statistic"`
	DF        int     `yaml:"df"`
	PValue    float64 `yaml:"p_value"`
}

// Rejects reports whether the test rejects the null hypothesis at level alpha.
func (c ChiSquare) Rejects(alpha float64) bool {
	return c.PValue < alpha
}

// UniformityTest runs Pearson's chi-square test of h against a uniform
// distribution over its whole domain. It is meaningful for single-die pools.
//
// Postcondition: Returns ErrEmptySample when h is empty. A one-value domain
// yields a zero statistic with p-value 1.
func UniformityTest(h *distribution.Histogram) (ChiSquare, error) {
	total := h.Total()
	if total == 0 {
		return ChiSquare{}, ErrEmptySample
	}
	k := h.Max() - h.Min() + 1
	if k < 2 {
		return ChiSquare{PValue: 1}, nil
	}

	expected := float64(total) / float64(k)
	var chi float64
	for _, v := range h.Domain() {
		d := float64(h.Count(v)) - expected
		chi += d * d / expected
	}

	df := k - 1
	dist := distuv.ChiSquared{K: float64(df)}
	return ChiSquare{
		Statistic: chi,
		DF:        df,
		PValue:    1 - dist.CDF(chi),
	}, nil
}
