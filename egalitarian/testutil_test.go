package egalitarian_test

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fairdiv/egalitarian"
)

// seedDet is the fixed seed for every randomized test in this package.
const seedDet = 20240601

// scenarioA is the two-player, five-item instance with optimum 15.
func scenarioA() egalitarian.Valuations[int64] {
	return egalitarian.Valuations[int64]{
		{4, 5, 6, 7, 8},
		{8, 7, 6, 5, 4},
	}
}

// bruteForceMin enumerates all P^N assignments and returns the best minimum.
// Only for tiny instances.
func bruteForceMin(v egalitarian.Valuations[int64]) int64 {
	var (
		np     = v.Players()
		n      = v.Items()
		owner  = make([]int, n)
		scores = make([]int64, np)
		best   int64
		found  bool
	)
	var rec func(j int)
	rec = func(j int) {
		if j == n {
			for p := range scores {
				scores[p] = 0
			}
			for i, p := range owner {
				scores[p] += v[p][i]
			}
			m := scores[0]
			for _, s := range scores[1:] {
				if s < m {
					m = s
				}
			}
			if !found || m > best {
				best, found = m, true
			}
			return
		}
		for p := 0; p < np; p++ {
			owner[j] = p
			rec(j + 1)
		}
	}
	rec(0)

	return best
}

// requireValidResult checks the partition invariant, ascending item order,
// score consistency, and that MinValue/MinPlayer describe Scores.
func requireValidResult[T egalitarian.Number](t *testing.T, v egalitarian.Valuations[T], res egalitarian.Result[T]) {
	t.Helper()

	require.Len(t, res.Allocation, v.Players(), "one item list per player")
	require.Len(t, res.Scores, v.Players(), "one score per player")

	seen := make([]bool, v.Items())
	for p, items := range res.Allocation {
		require.NotNil(t, items, "player %d list must be non-nil", p)
		require.True(t, sort.IntsAreSorted(items), "player %d items must ascend", p)
		var sum T
		for _, j := range items {
			require.GreaterOrEqual(t, j, 0)
			require.Less(t, j, v.Items())
			require.False(t, seen[j], "item %d assigned twice", j)
			seen[j] = true
			sum += v[p][j]
		}
		require.Equal(t, sum, res.Scores[p], "score of player %d", p)
	}
	for j, ok := range seen {
		require.True(t, ok, "item %d unassigned", j)
	}

	minV, minP := res.Scores[0], 0
	for p, s := range res.Scores {
		if s < minV {
			minV, minP = s, p
		}
	}
	require.Equal(t, minV, res.MinValue, "MinValue")
	require.Equal(t, minP, res.MinPlayer, "MinPlayer")
}

// randomInstance draws a P×N matrix with P in [2,maxP], N in [1,maxN] and
// values in [lo,hi].
func randomInstance(r *rand.Rand, maxP, maxN int, lo, hi int64) egalitarian.Valuations[int64] {
	np := 2 + r.IntN(maxP-1)
	n := 1 + r.IntN(maxN)
	v := make(egalitarian.Valuations[int64], np)
	for p := range v {
		v[p] = make([]int64, n)
		for j := range v[p] {
			v[p][j] = lo + r.Int64N(hi-lo+1)
		}
	}

	return v
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(seedDet, seedDet^0x9e3779b97f4a7c15))
}
