package egalitarian

import (
	"fmt"
	"log/slog"
	"time"
)

// BranchingMode selects which players the current item may be assigned to.
type BranchingMode int

const (
	// BranchFull tries every player for every item. It is the only mode
	// with an exactness guarantee.
	BranchFull BranchingMode = iota

	// BranchWeakestFirst only tries the players currently tied for the
	// lowest score. It shrinks the branching factor but is a heuristic: an
	// optimum that is reachable only by temporarily favouring a stronger
	// player is never visited.
	BranchWeakestFirst
)

// String returns the mode name used in logs, traces and instance files.
func (m BranchingMode) String() string {
	switch m {
	case BranchFull:
		return "full"
	case BranchWeakestFirst:
		return "weakest-first"
	default:
		return "unknown"
	}
}

// ParseBranchingMode maps "full" / "weakest-first" back to a BranchingMode.
// The empty string selects BranchFull.
func ParseBranchingMode(s string) (BranchingMode, error) {
	switch s {
	case "", "full":
		return BranchFull, nil
	case "weakest-first", "weakest_first", "weakestFirst":
		return BranchWeakestFirst, nil
	default:
		return BranchFull, fmt.Errorf("%w: unknown branching mode %q", ErrBadOption, s)
	}
}

// DefaultHeuristicMargin is the discount applied to the incumbent by the
// heuristic bound: prune when the estimate falls below 90% of it. The value
// is an empirical tuning knob, not a derived bound.
const DefaultHeuristicMargin = 0.1

// Options configures Search.
//
// Branching         – BranchFull (default) or BranchWeakestFirst.
// DuplicatePruning  – Rule A: skip (item index, score vector) states already explored. Default on.
// BoundPruning      – Rule B: skip states whose optimistic bound is below the incumbent. Default on.
// Heuristic         – enable the unsound average-based cut. Default off.
// HeuristicMargin   – fraction in [0,1) the incumbent is discounted by for the heuristic cut.
// Deadline          – absolute wall-clock limit; zero means none.
// TimeLimit         – relative limit measured from the start of Search; zero means none.
// MaxSeenStates     – cap on the Rule A filter size; zero means unbounded.
type Options struct {
	Branching        BranchingMode
	DuplicatePruning bool
	BoundPruning     bool
	Heuristic        bool
	HeuristicMargin  float64
	Deadline         time.Time
	TimeLimit        time.Duration
	MaxSeenStates    int

	Logger  *slog.Logger // nil selects slog.Default()
	Tracing bool         // emit an OpenTelemetry span per search
}

// Option represents a functional option for configuring Search.
type Option func(*Options)

// DefaultOptions returns the exact configuration: full branching with both
// sound pruning rules and no heuristic, deadline or filter cap.
func DefaultOptions() Options {
	return Options{
		Branching:        BranchFull,
		DuplicatePruning: true,
		BoundPruning:     true,
		HeuristicMargin:  DefaultHeuristicMargin,
	}
}

// WithBranching selects the branching policy.
func WithBranching(mode BranchingMode) Option {
	return func(o *Options) { o.Branching = mode }
}

// WithDuplicatePruning toggles Rule A.
func WithDuplicatePruning(on bool) Option {
	return func(o *Options) { o.DuplicatePruning = on }
}

// WithBoundPruning toggles Rule B. Disabling it never changes the result,
// only the amount of work.
func WithBoundPruning(on bool) Option {
	return func(o *Options) { o.BoundPruning = on }
}

// WithHeuristicBound enables the average-based cut with the given margin.
// The cut is unsound: the returned MinValue may be below the true optimum.
// Use it only where speed matters more than exactness.
func WithHeuristicBound(margin float64) Option {
	return func(o *Options) {
		o.Heuristic = true
		o.HeuristicMargin = margin
	}
}

// WithDeadline aborts the search with ErrSearchAborted once t has passed.
func WithDeadline(t time.Time) Option {
	return func(o *Options) { o.Deadline = t }
}

// WithTimeLimit aborts the search with ErrSearchAborted after d.
func WithTimeLimit(d time.Duration) Option {
	return func(o *Options) { o.TimeLimit = d }
}

// WithMaxSeenStates caps the number of states remembered by Rule A.
// When the cap is reached new states are no longer recorded; pruning stays
// sound, it just becomes less effective.
func WithMaxSeenStates(n int) Option {
	return func(o *Options) { o.MaxSeenStates = n }
}

// WithLogger sets the logger used for start/finish records.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithTracing enables an OpenTelemetry span around each search, using the
// globally registered tracer provider.
func WithTracing(on bool) Option {
	return func(o *Options) { o.Tracing = on }
}
