// Package distribution accumulates trial outcomes into an empirical outcome
// distribution keyed by summed value.
package distribution

import (
	"errors"
	"fmt"
	"iter"
	"sort"

	"github.com/cory-johannsen/dicesim/internal/dice"
)

// ErrOutOfDomain indicates an outcome outside the pool's [Min, Max] domain.
var ErrOutOfDomain = errors.New("outcome outside pool domain")

// Histogram counts occurrences of each outcome value over a fixed domain.
//
// Invariant: Total() == sum of Count(v) over every v.
// Invariant: every observed value lies in [Min(), Max()].
type Histogram struct {
	min    int
	max    int
	counts map[int]int64 // observed value → count
	total  int64
}

// NewHistogram creates an empty Histogram over the domain of pool.
//
// Precondition: pool must be valid.
func NewHistogram(pool dice.Pool) *Histogram {
	return &Histogram{
		min:    pool.Min(),
		max:    pool.Max(),
		counts: make(map[int]int64),
	}
}

// Accumulate drains seq into a new Histogram, one outcome at a time.
//
// Precondition: pool must be valid; every outcome in seq must lie in the pool's domain.
// Postcondition: Returns the Histogram, or an error wrapping ErrOutOfDomain.
func Accumulate(pool dice.Pool, seq iter.Seq[int]) (*Histogram, error) {
	h := NewHistogram(pool)
	for v := range seq {
		if err := h.Add(v); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Add records one occurrence of v.
//
// Postcondition: Count(v) and Total() each grow by one, or an error wrapping
// ErrOutOfDomain is returned and the histogram is unchanged.
func (h *Histogram) Add(v int) error {
	if v < h.min || v > h.max {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrOutOfDomain, v, h.min, h.max)
	}
	h.counts[v]++
	h.total++
	return nil
}

// Count returns the number of occurrences of v; 0 for any value never observed.
func (h *Histogram) Count(v int) int64 {
	return h.counts[v]
}

// Total returns the number of outcomes recorded.
func (h *Histogram) Total() int64 { return h.total }

// Min returns the lowest value of the domain.
func (h *Histogram) Min() int { return h.min }

// Max returns the highest value of the domain.
func (h *Histogram) Max() int { return h.max }

// Domain returns every value in [Min(), Max()] in ascending order.
func (h *Histogram) Domain() []int {
	out := make([]int, 0, h.max-h.min+1)
	for v := h.min; v <= h.max; v++ {
		out = append(out, v)
	}
	return out
}

// Observed returns the values with a non-zero count in ascending order.
func (h *Histogram) Observed() []int {
	out := make([]int, 0, len(h.counts))
	for v := range h.counts {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// MaxCount returns the largest count of any single value, 0 when empty.
func (h *Histogram) MaxCount() int64 {
	var m int64
	for _, c := range h.counts {
		if c > m {
			m = c
		}
	}
	return m
}

// Percent returns the share of outcomes equal to v as a percentage in [0, 100].
// Returns 0 when the histogram is empty.
func (h *Histogram) Percent(v int) float64 {
	if h.total == 0 {
		return 0
	}
	return float64(h.counts[v]) / float64(h.total) * 100
}
