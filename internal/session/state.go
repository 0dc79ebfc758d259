package session

import "fmt"

// Kind identifies which query boundaries are currently highlighted.
type Kind int

const (
	// KindIdle has no boundaries. It is the initial state.
	KindIdle Kind = iota
	// KindUpperBound follows an "X ≤ x" query.
	KindUpperBound
	// KindLowerBound follows an "X ≥ x" query.
	KindLowerBound
	// KindRange follows an "x ≤ X ≤ y" query.
	KindRange
	// KindClosed is terminal; no further transitions are accepted.
	KindClosed
)

func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindUpperBound:
		return "upper_bound"
	case KindLowerBound:
		return "lower_bound"
	case KindRange:
		return "range"
	case KindClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// State is the current query state retained between renders.
//
// Invariant: Lower is meaningful only when HasLower(); Upper only when HasUpper().
// Invariant: for KindRange, Lower <= Upper.
type State struct {
	Kind  Kind
	Lower float64
	Upper float64
}

// HasLower reports whether a lower boundary is set.
func (s State) HasLower() bool { return s.Kind == KindLowerBound || s.Kind == KindRange }

// HasUpper reports whether an upper boundary is set.
func (s State) HasUpper() bool { return s.Kind == KindUpperBound || s.Kind == KindRange }

// Contains reports whether v falls inside the highlighted region.
// Nothing is highlighted in the idle or closed state.
func (s State) Contains(v float64) bool {
	switch s.Kind {
	case KindUpperBound:
		return v <= s.Upper
	case KindLowerBound:
		return v >= s.Lower
	case KindRange:
		return v >= s.Lower && v <= s.Upper
	default:
		return false
	}
}

func (s State) String() string {
	switch s.Kind {
	case KindUpperBound:
		return fmt.Sprintf("X ≤ %.1f", s.Upper)
	case KindLowerBound:
		return fmt.Sprintf("X ≥ %.1f", s.Lower)
	case KindRange:
		return fmt.Sprintf("%.1f ≤ X ≤ %.1f", s.Lower, s.Upper)
	case KindClosed:
		return "Closed"
	default:
		return "Ready"
	}
}
