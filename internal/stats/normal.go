package stats

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidRange indicates a two-sided query whose lower bound exceeds its upper bound.
var ErrInvalidRange = errors.New("invalid range: lower bound exceeds upper bound")

// Normal is the continuous normal approximation fitted to a discrete outcome
// distribution. Probabilities it reports are approximations, least accurate
// for pools of one or two dice.
//
// Invariant: Sigma >= 0. Sigma == 0 is the degenerate single-point case.
type Normal struct {
	Mu    float64 `yaml:"mu"`
	Sigma float64 `yaml:"sigma"`
}

// Fit returns the normal approximation matching the mean and standard
// deviation of s.
func Fit(s Summary) Normal {
	return Normal{Mu: s.Mean, Sigma: s.StdDev}
}

func (n Normal) dist() distuv.Normal {
	return distuv.Normal{Mu: n.Mu, Sigma: n.Sigma}
}

// CDF returns P(X <= x) under the approximation.
// With Sigma == 0 the distribution is a step at Mu.
//
// Postcondition: 0 <= result <= 1.
func (n Normal) CDF(x float64) float64 {
	if n.Sigma <= 0 {
		if x >= n.Mu {
			return 1
		}
		return 0
	}
	return n.dist().CDF(x)
}

// UpperTail returns P(X >= x) = 1 - CDF(x).
func (n Normal) UpperTail(x float64) float64 {
	return 1 - n.CDF(x)
}

// Between returns P(x <= X <= y) = CDF(y) - CDF(x).
//
// Precondition: x <= y.
// Postcondition: Returns the probability, or an error wrapping ErrInvalidRange when x > y.
func (n Normal) Between(x, y float64) (float64, error) {
	if x > y {
		return 0, fmt.Errorf("%w: %g > %g", ErrInvalidRange, x, y)
	}
	return n.CDF(y) - n.CDF(x), nil
}

// ZScore returns (x - Mu) / Sigma, or 0 when Sigma == 0.
func (n Normal) ZScore(x float64) float64 {
	if n.Sigma <= 0 {
		return 0
	}
	return (x - n.Mu) / n.Sigma
}

// Density returns the probability density at x, 0 in the degenerate case.
func (n Normal) Density(x float64) float64 {
	if n.Sigma <= 0 {
		return 0
	}
	return n.dist().Prob(x)
}
