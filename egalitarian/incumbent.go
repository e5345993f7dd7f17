package egalitarian

// incumbent is the best complete allocation seen so far.
//
// Acceptance at a leaf with minimum m attained first by player mp:
//
//	no incumbent yet, or m > minValue, or (m == minValue and mp < minPlayer).
//
// The second clause is a reproducibility tie-break only. Among allocations
// with the same minimum it prefers the one whose weakest player has the
// lowest index; it makes no claim that this allocation is fairer by any
// other measure (leximin, envy, ...).
type incumbent[T Number] struct {
	found      bool
	minValue   T
	minPlayer  int
	allocation [][]int
	scores     []T
}

// offer considers the completed state s and reports whether it was accepted.
func (inc *incumbent[T]) offer(s *partial[T]) bool {
	m, mp := s.weakest()
	if inc.found && (m < inc.minValue || (m == inc.minValue && mp >= inc.minPlayer)) {
		return false
	}
	inc.found = true
	inc.minValue = m
	inc.minPlayer = mp
	inc.allocation = s.snapshot()
	inc.scores = append(inc.scores[:0], s.scores...)

	return true
}
