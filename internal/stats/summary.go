// Package stats derives summary statistics from an outcome distribution and
// answers probability queries against its fitted normal approximation.
package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/cory-johannsen/dicesim/internal/distribution"
)

// ErrEmptySample indicates statistics were requested over zero trials.
var ErrEmptySample = errors.New("empty sample: at least one trial is required")

// Summary holds the descriptive statistics of a completed run.
// It is computed once and never mutated.
type Summary struct {
	Trials   int64   `yaml:"trials"`
	Mean     float64 `yaml:"mean"`
	Variance float64 `yaml:"variance"` // population variance, divisor Trials
	StdDev   float64 `yaml:"std_dev"`
	Median   float64 `yaml:"median"`
	Mode     int     `yaml:"mode"`
}

// Summarize computes the summary statistics of h.
//
// Precondition: h must be non-nil.
// Postcondition: Returns a Summary, or ErrEmptySample when h.Total() == 0.
func Summarize(h *distribution.Histogram) (Summary, error) {
	total := h.Total()
	if total == 0 {
		return Summary{}, ErrEmptySample
	}

	observed := h.Observed()
	values := make([]float64, len(observed))
	weights := make([]float64, len(observed))
	mode, modeCount := 0, int64(-1)
	for i, v := range observed {
		c := h.Count(v)
		values[i] = float64(v)
		weights[i] = float64(c)
		// Ascending iteration with strict > keeps the smallest value on ties.
		if c > modeCount {
			mode, modeCount = v, c
		}
	}

	mean, variance := stat.PopMeanVariance(values, weights)
	if variance < 0 {
		variance = 0
	}

	return Summary{
		Trials:   total,
		Mean:     mean,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Median:   median(h, observed),
		Mode:     mode,
	}, nil
}

// median returns the middle value of the sorted multiset of outcomes, or the
// average of the two middle values when the count is even.
func median(h *distribution.Histogram, observed []int) float64 {
	total := h.Total()
	lo := (total + 1) / 2 // 1-based rank of the lower middle element
	hi := total/2 + 1     // 1-based rank of the upper middle element
	if total%2 == 1 {
		hi = lo
	}

	var cum int64
	loVal, hiVal := 0, 0
	loFound := false
	for _, v := range observed {
		cum += h.Count(v)
		if !loFound && cum >= lo {
			loVal, loFound = v, true
		}
		if cum >= hi {
			hiVal = v
			break
		}
	}
	return (float64(loVal) + float64(hiVal)) / 2
}
