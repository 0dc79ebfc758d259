package dice

import (
	"context"
	"fmt"
	"iter"

	"go.uber.org/zap"
)

const defaultProgressEvery = 1_000_000

// Sampler draws trial outcomes for a Pool from a Source.
type Sampler struct {
	pool          Pool
	src           Source
	logger        *zap.Logger
	progressEvery int
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithLogger makes the sampler log progress at debug level while a sample is drawn.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Sampler) { s.logger = logger }
}

// WithProgressEvery sets how many trials pass between progress log entries.
//
// Precondition: n > 0; non-positive values are ignored.
func WithProgressEvery(n int) Option {
	return func(s *Sampler) {
		if n > 0 {
			s.progressEvery = n
		}
	}
}

// NewSampler creates a Sampler for pool drawing randomness from src.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a Sampler, or an error wrapping ErrInvalidParameter if pool is invalid.
func NewSampler(pool Pool, src Source, opts ...Option) (*Sampler, error) {
	if err := pool.Validate(); err != nil {
		return nil, err
	}
	s := &Sampler{
		pool:          pool,
		src:           src,
		logger:        zap.NewNop(),
		progressEvery: defaultProgressEvery,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Pool returns the pool this sampler rolls.
func (s *Sampler) Pool() Pool { return s.pool }

// Roll performs one trial: Count independent draws in [1, Sides], summed.
//
// Postcondition: Pool().Min() <= result <= Pool().Max().
func (s *Sampler) Roll() int {
	total := 0
	for i := 0; i < s.pool.Count; i++ {
		total += s.src.Intn(s.pool.Sides) + 1
	}
	return total
}

// Sample returns a lazy sequence of trial outcomes. Outcomes are produced one
// at a time as the sequence is ranged over and are never buffered.
//
// The sequence stops early when ctx is done; callers must check ctx.Err()
// after ranging to tell a complete sample from an interrupted one.
//
// Precondition: trials >= 0.
// Postcondition: Returns a sequence of at most trials outcomes, or an error
// wrapping ErrInvalidParameter when trials < 0.
func (s *Sampler) Sample(ctx context.Context, trials int) (iter.Seq[int], error) {
	if trials < 0 {
		return nil, fmt.Errorf("%w: trials must be >= 0, got %d", ErrInvalidParameter, trials)
	}
	return func(yield func(int) bool) {
		for i := 0; i < trials; i++ {
			if ctx.Err() != nil {
				s.logger.Debug("sampling interrupted",
					zap.String("pool", s.pool.String()),
					zap.Int("completed", i),
					zap.Int("requested", trials),
				)
				return
			}
			if i > 0 && i%s.progressEvery == 0 {
				s.logger.Debug("sampling progress",
					zap.String("pool", s.pool.String()),
					zap.Int("completed", i),
					zap.Int("requested", trials),
				)
			}
			if !yield(s.Roll()) {
				return
			}
		}
	}, nil
}
