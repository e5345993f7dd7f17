// Package egalitarian finds max-min (egalitarian) allocations of
// indivisible items.
//
// Given a valuation matrix v, where v[p][j] is player p's value for item j,
// Search partitions the items among the players so that the smallest total
// value any player receives is as large as possible. The problem generalizes
// number partitioning and is NP-hard; Search is an exact branch-and-bound
// over items in index order, intended for small instances.
//
// Pruning and branching:
//
//   - Rule A (duplicate states, default on): two partial allocations with the
//     same next item index and the same score vector have identical futures,
//     so the second one is skipped. Memory grows with the number of distinct
//     states; cap it with WithMaxSeenStates or turn it off for large inputs.
//   - Rule B (optimistic bound, default on): the weakest player's score plus
//     that player's value for every remaining item bounds the final minimum
//     from above (only positively valued items count); states whose bound
//     is below the incumbent are cut.
//   - Heuristic bound (opt-in, unsound): cuts states whose weakest score plus
//     an average share of the remaining value falls below a discounted
//     incumbent (90% by default). It can miss the optimum.
//   - BranchWeakestFirst (opt-in, heuristic): only players tied for the
//     lowest score receive the next item. It can miss the optimum.
//
// Neither heuristic reports divergence from the optimum: the returned
// MinValue is simply ≤ the exact one. Validate them against BranchFull on
// representative inputs before relying on them.
//
// Valuations may be any integer or floating-point kind. Scores use the
// same kind, so integer input yields integer output. Inputs whose per-player
// absolute sum would overflow the type are rejected with ErrScoreOverflow;
// use int64 for values up to 2^32 and beyond.
//
// Concurrency: a single Search is synchronous and owns all of its state.
// Independent Search calls may run in parallel.
//
// Example:
//
//	v := egalitarian.Valuations[int64]{
//	    {4, 5, 6, 7, 8},
//	    {8, 7, 6, 5, 4},
//	}
//	res, err := egalitarian.Search(ctx, v)
//	// res.MinValue == 15
package egalitarian
