package egalitarian

import (
	"hash/maphash"
	"slices"
)

// seenStates is the Rule A filter. A search state is the pair
// (next item index, score vector); two histories reaching the same pair
// have identical subtrees, since everything below depends only on the
// remaining items and the current scores.
//
// States are bucketed by a maphash of the pair and confirmed with an exact
// slice comparison, so hash collisions never cause a false prune. The
// filter lives for one Search call only.
type seenStates[T Number] struct {
	seed    maphash.Seed
	buckets map[uint64][]seenEntry[T]
	size    int
	limit   int // 0 means unbounded
}

type seenEntry[T Number] struct {
	depth  int
	scores []T
}

func newSeenStates[T Number](limit int) *seenStates[T] {
	return &seenStates[T]{
		seed:    maphash.MakeSeed(),
		buckets: make(map[uint64][]seenEntry[T]),
		limit:   limit,
	}
}

func (f *seenStates[T]) key(depth int, scores []T) uint64 {
	var h maphash.Hash
	h.SetSeed(f.seed)
	maphash.WriteComparable(&h, depth)
	for _, s := range scores {
		maphash.WriteComparable(&h, s)
	}

	return h.Sum64()
}

// visit reports whether (depth, scores) was seen before, and records it if
// not (unless the filter is full). scores is copied on insert.
func (f *seenStates[T]) visit(depth int, scores []T) bool {
	k := f.key(depth, scores)
	bucket := f.buckets[k]
	for i := range bucket {
		if bucket[i].depth == depth && slices.Equal(bucket[i].scores, scores) {
			return true
		}
	}
	if f.limit > 0 && f.size >= f.limit {
		return false
	}
	f.buckets[k] = append(bucket, seenEntry[T]{depth: depth, scores: slices.Clone(scores)})
	f.size++

	return false
}

// len returns the number of recorded states.
func (f *seenStates[T]) len() int { return f.size }
