// Package egalitarian - validation utilities for valuations and options.
//
// All checks run before the search starts; nothing is validated mid-search.
// Validators are deterministic and side-effect free, and return sentinel
// errors from types.go wrapped with a short positional detail.
package egalitarian

import (
	"fmt"
	"math"
	"time"
)

// validateValuations enforces the input contract:
//   - at least one player and one item,
//   - all rows of equal length,
//   - finite values (floating-point kinds),
//   - for every player, Σ|v[p][j]| representable in T.
//
// The last check bounds every partial score and every Rule B bound, because
// both are sums over a subset of one player's row.
//
// Complexity: O(P·N).
func validateValuations[T Number](v Valuations[T]) error {
	if len(v) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrNoPlayers)
	}
	n := len(v[0])
	if n == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrNoItems)
	}

	var (
		p, j  int  // player and item indices
		float bool // whether T is a floating-point kind
		x     T    // current value
		total T    // running Σ|v[p][j]| for player p
		ok    bool
	)
	float = isFloat[T]()
	for p = 0; p < len(v); p++ {
		if len(v[p]) != n {
			return fmt.Errorf("%w: %w: player %d has %d items, want %d",
				ErrInvalidInput, ErrRaggedRows, p, len(v[p]), n)
		}
		total = 0
		for j = 0; j < n; j++ {
			x = v[p][j]
			if float && !isFinite(x) {
				return fmt.Errorf("%w: %w: player %d item %d", ErrInvalidInput, ErrNaNValue, p, j)
			}
			if total, ok = addAbs(total, x, float); !ok {
				return fmt.Errorf("%w: %w: player %d", ErrInvalidInput, ErrScoreOverflow, p)
			}
		}
	}

	return nil
}

// validateOptions checks option consistency. It does not look at valuations.
func validateOptions(o *Options) error {
	switch o.Branching {
	case BranchFull, BranchWeakestFirst:
	default:
		return fmt.Errorf("%w: unknown branching mode %d", ErrBadOption, int(o.Branching))
	}
	if o.Heuristic && (math.IsNaN(o.HeuristicMargin) || o.HeuristicMargin < 0 || o.HeuristicMargin >= 1) {
		return fmt.Errorf("%w: heuristic margin %v outside [0,1)", ErrBadOption, o.HeuristicMargin)
	}
	if o.TimeLimit < 0 {
		return fmt.Errorf("%w: negative time limit %s", ErrBadOption, o.TimeLimit)
	}
	if o.MaxSeenStates < 0 {
		return fmt.Errorf("%w: negative seen-state cap %d", ErrBadOption, o.MaxSeenStates)
	}

	return nil
}

// effectiveDeadline merges Deadline and TimeLimit; the earlier one wins.
// The zero time means no deadline.
func effectiveDeadline(o *Options, now time.Time) time.Time {
	d := o.Deadline
	if o.TimeLimit > 0 {
		if byLimit := now.Add(o.TimeLimit); d.IsZero() || byLimit.Before(d) {
			d = byLimit
		}
	}

	return d
}

// isFloat reports whether T is a floating-point kind (1/2 survives as non-zero).
func isFloat[T Number]() bool {
	var x T = 1
	x /= 2

	return x != 0
}

// isFinite rejects NaN and ±Inf.
func isFinite[T Number](x T) bool {
	f := float64(x)

	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// addAbs returns total+|x| and false if the addition leaves T's range.
// total is always non-negative.
func addAbs[T Number](total, x T, float bool) (T, bool) {
	a := x
	if a < 0 {
		a = -a
		if a < 0 { // minimum of a signed integer type has no positive counterpart
			return total, false
		}
	}
	sum := total + a
	if float {
		return sum, !math.IsInf(float64(sum), 0)
	}

	return sum, sum >= total
}
