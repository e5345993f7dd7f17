package egalitarian

// brancher yields the candidate players for the current item.
//
// Full returns every player in index order. WeakestFirst returns only the
// players tied for the lowest score, ascending; it is not exhaustive (see
// BranchWeakestFirst). The returned slice is a reused buffer owned by the
// brancher's depth slot and is valid until the next call at that depth.
type brancher[T Number] struct {
	mode BranchingMode
	all  []int   // 0..P-1
	buf  [][]int // per-depth scratch for weakest-first
}

func newBrancher[T Number](mode BranchingMode, players, items int) *brancher[T] {
	b := &brancher[T]{mode: mode, all: make([]int, players)}
	for p := range b.all {
		b.all[p] = p
	}
	if mode == BranchWeakestFirst {
		b.buf = make([][]int, items)
		for k := range b.buf {
			b.buf[k] = make([]int, 0, players)
		}
	}

	return b
}

func (b *brancher[T]) candidates(s *partial[T]) []int {
	if b.mode != BranchWeakestFirst {
		return b.all
	}
	low, _ := s.weakest()
	out := b.buf[s.depth][:0]
	for p, sc := range s.scores {
		if sc == low {
			out = append(out, p)
		}
	}
	b.buf[s.depth] = out

	return out
}
