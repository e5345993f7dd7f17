package egalitarian

// Bound Estimator.
//
// Rule B (sound). Let w be the currently weakest player (lowest index on
// ties). The final minimum can never exceed w's final score, and w's final
// score can never exceed score[w] + Σ_{j≥k} max(v[w][j], 0): w receiving
// every remaining item it values positively. For non-negative valuations
// this is just w's whole remaining row. Summing negative values too would
// under-estimate w's best case and cut optimal branches. If even the
// optimistic value is below the incumbent, no completion can beat it.
// The comparison is strict, so subtrees that could tie the incumbent are
// still explored and the tie-break in incumbent.go stays reachable.
//
// Heuristic (unsound, opt-in). estimate = score[w] + (Σ_p Σ_{j≥k} v[p][j]) / P,
// i.e. the weakest score plus one player's average share of what is left.
// The divisor is P, not P·(N−k): the share is the remaining value per
// player, not the average value of one remaining item. The per-item mean
// would shrink the estimate by the item count and cut far more branches.
// Prune when estimate < incumbent·(1−margin). It is neither an upper nor a
// lower bound on anything; it can cut the branch holding the optimum.
//
// Both bounds read suffix sums precomputed once per search, O(1) per node.

// verdict is the outcome of a bound check.
type verdict int

const (
	keep verdict = iota
	cutBound
	cutHeuristic
)

type bounds[T Number] struct {
	gain      [][]T     // gain[p][k] = Σ_{j≥k} max(v[p][j], 0); len N+1 per player
	share     []float64 // share[k] = Σ_p Σ_{j≥k} v[p][j] / P (per player, not per item)
	useBound  bool
	heuristic bool
	keepFrac  float64 // 1 − margin
}

func newBounds[T Number](v Valuations[T], o *Options) *bounds[T] {
	var (
		np = v.Players()
		n  = v.Items()
		p  int
		k  int
	)
	b := &bounds[T]{
		gain:      make([][]T, np),
		useBound:  o.BoundPruning,
		heuristic: o.Heuristic,
		keepFrac:  1 - o.HeuristicMargin,
	}
	for p = 0; p < np; p++ {
		row := make([]T, n+1)
		for k = n - 1; k >= 0; k-- {
			row[k] = row[k+1]
			if v[p][k] > 0 {
				row[k] += v[p][k]
			}
		}
		b.gain[p] = row
	}
	if b.heuristic {
		b.share = make([]float64, n+1)
		for k = n - 1; k >= 0; k-- {
			var total float64
			for p = 0; p < np; p++ {
				total += float64(v[p][k])
			}
			b.share[k] = b.share[k+1] + total/float64(np)
		}
	}

	return b
}

// optimistic returns the Rule B bound for a state at depth k whose weakest
// player is w with score ws.
func (b *bounds[T]) optimistic(ws T, w, k int) T {
	return ws + b.gain[w][k]
}

// estimate returns the heuristic estimate for the same state.
func (b *bounds[T]) estimate(ws T, k int) float64 {
	return float64(ws) + b.share[k]
}

// check decides whether a non-leaf state may be cut given the incumbent.
func (b *bounds[T]) check(s *partial[T], inc *incumbent[T]) verdict {
	if !inc.found || (!b.useBound && !b.heuristic) {
		return keep
	}
	ws, w := s.weakest()
	if b.useBound && b.optimistic(ws, w, s.depth) < inc.minValue {
		return cutBound
	}
	if b.heuristic && b.estimate(ws, s.depth) < float64(inc.minValue)*b.keepFrac {
		return cutHeuristic
	}

	return keep
}
