// Package sim orchestrates one simulation run: sampling, accumulation,
// summary statistics and the normal fit, computed once before any query.
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dicesim/internal/dice"
	"github.com/cory-johannsen/dicesim/internal/distribution"
	"github.com/cory-johannsen/dicesim/internal/observability"
	"github.com/cory-johannsen/dicesim/internal/stats"
)

// ErrCancelled indicates the run was interrupted before every trial completed.
// No statistics are reported for a cancelled run.
var ErrCancelled = errors.New("simulation cancelled")

// Run is a completed simulation. All fields are read-only after Runner.Run returns.
type Run struct {
	ID        string
	Pool      dice.Pool
	Histogram *distribution.Histogram
	Summary   stats.Summary
	Normal    stats.Normal
	// Uniformity is set for single-die pools only.
	Uniformity *stats.ChiSquare
	Start      time.Time
	End        time.Time
}

// Duration returns the wall time spent sampling and accumulating.
func (r *Run) Duration() time.Duration { return r.End.Sub(r.Start) }

// Shape returns the expected distribution shape of the pool.
func (r *Run) Shape() stats.Shape { return stats.ShapeOf(r.Pool.Count) }

// Runner executes simulation runs.
type Runner struct {
	src     dice.Source
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewRunner creates a Runner.
//
// Precondition: src, logger and metrics must be non-nil.
func NewRunner(src dice.Source, logger *zap.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{src: src, logger: logger, metrics: metrics, now: time.Now}
}

// Run rolls pool trials times and derives the statistics of the result.
//
// Precondition: pool is valid and trials >= 1.
// Postcondition: Returns a complete Run, or an error wrapping
// dice.ErrInvalidParameter for bad parameters or ErrCancelled when ctx ends
// before sampling finishes.
func (r *Runner) Run(ctx context.Context, pool dice.Pool, trials int) (*Run, error) {
	if trials < 1 {
		r.metrics.RunFinished(observability.RunRejected)
		return nil, fmt.Errorf("%w: trials must be >= 1, got %d", dice.ErrInvalidParameter, trials)
	}
	sampler, err := dice.NewSampler(pool, r.src, dice.WithLogger(r.logger))
	if err != nil {
		r.metrics.RunFinished(observability.RunRejected)
		return nil, err
	}

	run := &Run{ID: uuid.NewString(), Pool: pool}
	logger := r.logger.With(zap.String("run_id", run.ID), zap.String("pool", pool.String()))
	logger.Info("simulation started", zap.Int("trials", trials))

	run.Start = r.now()
	seq, err := sampler.Sample(ctx, trials)
	if err != nil {
		r.metrics.RunFinished(observability.RunRejected)
		return nil, err
	}
	hist, err := distribution.Accumulate(pool, seq)
	if err != nil {
		r.metrics.RunFinished(observability.RunFailed)
		logger.Error("simulation failed", zap.Error(err))
		return nil, fmt.Errorf("accumulating outcomes: %w", err)
	}
	run.End = r.now()

	r.metrics.AddTrials(hist.Total())
	r.metrics.ObserveSampling(run.Duration())

	if ctx.Err() != nil || hist.Total() < int64(trials) {
		r.metrics.RunFinished(observability.RunCancelled)
		logger.Warn("simulation cancelled",
			zap.Int64("completed", hist.Total()),
			zap.Int("requested", trials),
			zap.Duration("elapsed", run.Duration()),
		)
		return nil, fmt.Errorf("%w after %d of %d trials", ErrCancelled, hist.Total(), trials)
	}

	summary, err := stats.Summarize(hist)
	if err != nil {
		return nil, err
	}
	run.Histogram = hist
	run.Summary = summary
	run.Normal = stats.Fit(summary)

	if pool.Count == 1 {
		chi, err := stats.UniformityTest(hist)
		if err != nil {
			return nil, err
		}
		run.Uniformity = &chi
	}

	r.metrics.RunFinished(observability.RunCompleted)
	logger.Info("simulation finished",
		zap.Int64("trials", summary.Trials),
		zap.Float64("mean", summary.Mean),
		zap.Float64("std_dev", summary.StdDev),
		zap.Duration("elapsed", run.Duration()),
	)
	return run, nil
}
