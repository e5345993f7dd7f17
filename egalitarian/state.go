package egalitarian

// partial is the mutable search node: the items assigned so far (per
// player, in assignment order) and the per-player running totals.
//
// Invariants at depth k:
//   - the item lists are disjoint and their union is {0,...,k-1};
//   - scores[p] == Σ v[p][j] over items[p].
//
// Both are maintained incrementally by assign/unassign, never recomputed.
// unassign restores the saved pre-assignment score instead of subtracting,
// so floating-point scores return bit-for-bit to their earlier value.
type partial[T Number] struct {
	v      Valuations[T]
	items  [][]int
	scores []T
	saved  []T // saved[k] is the score of item k's owner before it was assigned
	depth  int // number of items assigned (next item index)
}

func newPartial[T Number](v Valuations[T]) *partial[T] {
	p := len(v)
	st := &partial[T]{
		v:      v,
		items:  make([][]int, p),
		scores: make([]T, p),
	}
	n := v.Items()
	st.saved = make([]T, n)
	for i := range st.items {
		st.items[i] = make([]int, 0, n)
	}

	return st
}

// assign gives the next item to player p.
func (s *partial[T]) assign(p int) {
	k := s.depth
	s.items[p] = append(s.items[p], k)
	s.saved[k] = s.scores[p]
	s.scores[p] += s.v[p][k]
	s.depth++
}

// unassign reverts the most recent assign(p). Calls must nest exactly.
func (s *partial[T]) unassign(p int) {
	s.depth--
	k := s.depth
	s.items[p] = s.items[p][:len(s.items[p])-1]
	s.scores[p] = s.saved[k]
}

// weakest returns the lowest score and the lowest index attaining it.
func (s *partial[T]) weakest() (T, int) {
	return minScore(s.scores)
}

// pristine reports whether the state is back at the root: no items, zero scores.
func (s *partial[T]) pristine() bool {
	if s.depth != 0 {
		return false
	}
	for p := range s.items {
		if len(s.items[p]) != 0 || s.scores[p] != 0 {
			return false
		}
	}

	return true
}

// snapshot deep-copies the current item lists.
func (s *partial[T]) snapshot() [][]int {
	out := make([][]int, len(s.items))
	for p := range s.items {
		out[p] = append(make([]int, 0, len(s.items[p])), s.items[p]...)
	}

	return out
}

// minScore returns min(scores) and the first index attaining it.
// scores must be non-empty.
func minScore[T Number](scores []T) (T, int) {
	best, at := scores[0], 0
	for p := 1; p < len(scores); p++ {
		if scores[p] < best {
			best, at = scores[p], p
		}
	}

	return best, at
}
