// Package session implements the interactive probability-query state machine
// and the command loop that drives it.
package session

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dicesim/internal/dice"
	"github.com/cory-johannsen/dicesim/internal/distribution"
	"github.com/cory-johannsen/dicesim/internal/stats"
)

// ErrClosed is returned for any transition attempted after exit.
var ErrClosed = errors.New("session closed")

// Result is the outcome of one probability query. It is handed to the
// renderer and then discarded; the session keeps only the boundaries.
type Result struct {
	Probability float64
	// ZScores holds one entry per supplied boundary, lower first.
	ZScores []float64
	Label   string
}

// Observer receives notifications about query traffic.
type Observer interface {
	QueryAnswered(kind Kind)
	QueryRejected(reason string)
}

type nopObserver struct{}

func (nopObserver) QueryAnswered(Kind)   {}
func (nopObserver) QueryRejected(string) {}

// RenderRequest is the read-only view handed to the rendering collaborator
// after each run or transition.
type RenderRequest struct {
	Pool      dice.Pool
	Histogram *distribution.Histogram
	Summary   stats.Summary
	Normal    stats.Normal
	State     State
	Label     string
}

// Session holds the statistics of a completed run and the current query state.
// It is driven by a single goroutine and is not safe for concurrent use.
type Session struct {
	pool     dice.Pool
	hist     *distribution.Histogram
	summary  stats.Summary
	normal   stats.Normal
	state    State
	label    string
	logger   *zap.Logger
	observer Observer
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithObserver registers an Observer for query traffic.
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

// New creates a Session in the idle state over a completed run.
//
// Precondition: hist must be non-nil and summary must have been computed from hist.
// Postcondition: State().Kind == KindIdle.
func New(pool dice.Pool, hist *distribution.Histogram, summary stats.Summary, opts ...Option) *Session {
	s := &Session{
		pool:     pool,
		hist:     hist,
		summary:  summary,
		normal:   stats.Fit(summary),
		state:    State{Kind: KindIdle},
		label:    State{Kind: KindIdle}.String(),
		logger:   zap.NewNop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current query state.
func (s *Session) State() State { return s.state }

// Normal returns the fitted normal approximation.
func (s *Session) Normal() stats.Normal { return s.normal }

// Closed reports whether the session has ended.
func (s *Session) Closed() bool { return s.state.Kind == KindClosed }

// AtMost answers P(X ≤ x) and moves to UpperBound(x).
//
// Postcondition: On success State() == UpperBound(x); returns ErrClosed after Exit.
func (s *Session) AtMost(x float64) (Result, error) {
	if s.Closed() {
		return Result{}, ErrClosed
	}
	res := Result{
		Probability: s.normal.CDF(x),
		ZScores:     []float64{s.normal.ZScore(x)},
	}
	res.Label = fmt.Sprintf("P(X ≤ %.1f) = %.2f%%", x, res.Probability*100)
	s.transition(State{Kind: KindUpperBound, Upper: x}, res)
	return res, nil
}

// AtLeast answers P(X ≥ x) and moves to LowerBound(x).
//
// Postcondition: On success State() == LowerBound(x); returns ErrClosed after Exit.
func (s *Session) AtLeast(x float64) (Result, error) {
	if s.Closed() {
		return Result{}, ErrClosed
	}
	res := Result{
		Probability: s.normal.UpperTail(x),
		ZScores:     []float64{s.normal.ZScore(x)},
	}
	res.Label = fmt.Sprintf("P(X ≥ %.1f) = %.2f%%", x, res.Probability*100)
	s.transition(State{Kind: KindLowerBound, Lower: x}, res)
	return res, nil
}

// Between answers P(x ≤ X ≤ y) and moves to Range(x, y).
//
// Precondition: x <= y.
// Postcondition: On success State() == Range(x, y). On ErrInvalidRange or
// ErrClosed the state is unchanged.
func (s *Session) Between(x, y float64) (Result, error) {
	if s.Closed() {
		return Result{}, ErrClosed
	}
	p, err := s.normal.Between(x, y)
	if err != nil {
		s.observer.QueryRejected("invalid_range")
		s.logger.Debug("range query rejected",
			zap.Float64("lower", x),
			zap.Float64("upper", y),
			zap.Error(err),
		)
		return Result{}, err
	}
	res := Result{
		Probability: p,
		ZScores:     []float64{s.normal.ZScore(x), s.normal.ZScore(y)},
	}
	res.Label = fmt.Sprintf("P(%.1f ≤ X ≤ %.1f) = %.2f%%", x, y, p*100)
	s.transition(State{Kind: KindRange, Lower: x, Upper: y}, res)
	return res, nil
}

// Reset clears all boundaries.
//
// Postcondition: State().Kind == KindIdle, or ErrClosed after Exit.
func (s *Session) Reset() error {
	if s.Closed() {
		return ErrClosed
	}
	s.state = State{Kind: KindIdle}
	s.label = s.state.String()
	s.logger.Debug("session reset")
	return nil
}

// Exit ends the session. Calling Exit twice returns ErrClosed.
//
// Postcondition: Closed() == true.
func (s *Session) Exit() error {
	if s.Closed() {
		return ErrClosed
	}
	s.state = State{Kind: KindClosed}
	s.logger.Debug("session closed")
	return nil
}

// RenderRequest returns the current view for the renderer.
func (s *Session) RenderRequest() RenderRequest {
	return RenderRequest{
		Pool:      s.pool,
		Histogram: s.hist,
		Summary:   s.summary,
		Normal:    s.normal,
		State:     s.state,
		Label:     s.label,
	}
}

func (s *Session) transition(next State, res Result) {
	s.state = next
	s.label = res.Label
	s.observer.QueryAnswered(next.Kind)
	s.logger.Debug("query answered",
		zap.Stringer("state", next.Kind),
		zap.Float64("probability", res.Probability),
		zap.Float64s("z_scores", res.ZScores),
	)
}
