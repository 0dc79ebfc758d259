// Package dice provides the randomness abstraction, dice-pool notation and the
// streaming trial sampler for the simulator.
package dice

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter indicates a pool or run parameter is outside its legal range.
var ErrInvalidParameter = errors.New("invalid parameter")

// Pool describes N dice of S sides each, rolled together and summed.
//
// Invariant: a validated Pool has Sides >= 1 and Count >= 1.
type Pool struct {
	Sides int // faces per die
	Count int // number of dice
}

// Validate checks the pool parameters.
//
// Postcondition: Returns nil, or an error wrapping ErrInvalidParameter. A nil
// result guarantees Max() does not overflow.
func (p Pool) Validate() error {
	if p.Sides < 1 {
		return fmt.Errorf("%w: sides must be >= 1, got %d", ErrInvalidParameter, p.Sides)
	}
	if p.Count < 1 {
		return fmt.Errorf("%w: dice must be >= 1, got %d", ErrInvalidParameter, p.Count)
	}
	if p.Sides > math.MaxInt/p.Count {
		return fmt.Errorf("%w: %s overflows the largest outcome", ErrInvalidParameter, p)
	}
	return nil
}

// Min returns the smallest possible trial outcome (every die shows 1).
func (p Pool) Min() int { return p.Count }

// Max returns the largest possible trial outcome (every die shows Sides).
func (p Pool) Max() int { return p.Count * p.Sides }

// ExpectedMean returns the theoretical mean of the summed outcome, N·(S+1)/2.
func (p Pool) ExpectedMean() float64 {
	return float64(p.Count) * float64(p.Sides+1) / 2
}

// String returns the pool in NdS notation, e.g. "2d6".
func (p Pool) String() string {
	return fmt.Sprintf("%dd%d", p.Count, p.Sides)
}

// Source is the randomness provider for dice rolls.
//
// Implementations used by a single Sampler need not be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
