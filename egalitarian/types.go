package egalitarian

import (
	"errors"
	"time"

	"golang.org/x/exp/constraints"
)

// Sentinel errors returned by Search and its validators.
//
// Input errors all wrap ErrInvalidInput, so callers can test either the
// family (errors.Is(err, ErrInvalidInput)) or the precise cause.
var (
	// ErrInvalidInput is the parent of every input-shape error below.
	ErrInvalidInput = errors.New("egalitarian: invalid input")

	// ErrNoPlayers indicates an empty valuation matrix (zero rows).
	ErrNoPlayers = errors.New("egalitarian: no players")

	// ErrNoItems indicates that the first player values zero items.
	ErrNoItems = errors.New("egalitarian: no items")

	// ErrRaggedRows indicates that player rows have different lengths.
	ErrRaggedRows = errors.New("egalitarian: valuation rows differ in length")

	// ErrNaNValue indicates a NaN or ±Inf valuation (floating-point inputs only).
	ErrNaNValue = errors.New("egalitarian: valuation is not a finite number")

	// ErrScoreOverflow indicates that some player's total could exceed the
	// range of the numeric type and silently wrap.
	ErrScoreOverflow = errors.New("egalitarian: accumulated score would overflow")

	// ErrBadOption indicates an invalid Options combination.
	ErrBadOption = errors.New("egalitarian: invalid option")

	// ErrSearchAborted is returned when the context is cancelled or the
	// configured deadline passes before the search completes.
	ErrSearchAborted = errors.New("egalitarian: search aborted")
)

// Number is the set of numeric kinds a valuation may use. Integer inputs
// produce integer scores; no conversion to float happens inside the search.
type Number interface {
	constraints.Integer | constraints.Float
}

// Valuations holds each player's value for each item: v[p][j] is the value
// player p assigns to item j. Rows must all have the same length. The
// search never mutates it.
type Valuations[T Number] [][]T

// Players returns the number of rows.
func (v Valuations[T]) Players() int { return len(v) }

// Items returns the row length of the first player (0 if there are no players).
func (v Valuations[T]) Items() int {
	if len(v) == 0 {
		return 0
	}

	return len(v[0])
}

// Result is the outcome of a completed search.
type Result[T Number] struct {
	// Allocation[p] lists the items given to player p in ascending order.
	// Together the lists partition 0..N-1; a player with no items has an
	// empty, non-nil slice.
	Allocation [][]int

	// Scores[p] is the sum of v[p][j] over Allocation[p].
	Scores []T

	// MinValue is the smallest entry of Scores.
	MinValue T

	// MinPlayer is the lowest player index attaining MinValue.
	MinPlayer int

	// Stats describes the work done by the search.
	Stats Stats
}

// Stats counts search events. It is informational only.
type Stats struct {
	Nodes           int64         // search states entered (including pruned ones)
	Leaves          int64         // complete allocations reported to the incumbent
	DuplicatePrunes int64         // states cut by Rule A
	BoundPrunes     int64         // states cut by Rule B
	HeuristicPrunes int64         // states cut by the opt-in heuristic bound
	Improvements    int64         // incumbent replacements
	SeenStates      int           // size of the duplicate-state filter at the end
	Elapsed         time.Duration // wall-clock search time
}
