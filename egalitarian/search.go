// Package egalitarian: branch-and-bound search for the max-min allocation.
//
// Search assigns items 0..N-1 in index order by depth-first search. At
// depth k (about to place item k):
//  1. Rule A: if (k, scores) was seen before, return; otherwise mark it.
//  2. If k == N, offer the completed allocation to the incumbent.
//  3. Rule B (+ optional heuristic): cut if no completion can beat the incumbent.
//  4. For each candidate player: assign item k, recurse, undo.
//
// The undo is deferred, so it runs on every exit path from the child
// call, including an abort.
//
// Complexity:
//   - Worst case O(P^N) leaves (P players, N items); pruning only helps in practice.
//   - Per node: O(P) for the weakest-player scan and the state hash.
//   - Memory: O(P·N) for state and suffix sums, plus O(P) per recorded Rule A state.
package egalitarian

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// checkMask sets how often the engine looks at the context and deadline:
// once every 1024 candidate branches.
const checkMask = 1023

// engine holds all per-call search data. A fresh engine is built for every
// Search call; nothing is shared across calls.
type engine[T Number] struct {
	n      int
	state  *partial[T]
	seen   *seenStates[T] // nil when Rule A is disabled
	bounds *bounds[T]
	branch *brancher[T]
	best   incumbent[T]
	stats  Stats

	ctx      context.Context
	deadline time.Time
	checks   int
	stop     error // latched abort cause
}

func newEngine[T Number](ctx context.Context, v Valuations[T], o *Options, now time.Time) *engine[T] {
	e := &engine[T]{
		n:        v.Items(),
		state:    newPartial(v),
		bounds:   newBounds(v, o),
		branch:   newBrancher[T](o.Branching, v.Players(), v.Items()),
		ctx:      ctx,
		deadline: effectiveDeadline(o, now),
	}
	if o.DuplicatePruning {
		e.seen = newSeenStates[T](o.MaxSeenStates)
	}

	return e
}

// interrupted performs a sampled context/deadline test. Once it fires it
// keeps returning true so the whole stack unwinds without further checks.
func (e *engine[T]) interrupted() bool {
	if e.stop != nil {
		return true
	}
	e.checks++
	if e.checks&checkMask != 0 {
		return false
	}

	return e.poll()
}

// poll checks the context and deadline immediately.
func (e *engine[T]) poll() bool {
	if err := e.ctx.Err(); err != nil {
		e.stop = err
		return true
	}
	if !e.deadline.IsZero() && time.Now().After(e.deadline) {
		e.stop = context.DeadlineExceeded
		return true
	}

	return false
}

// dfs explores the subtree below the current state.
func (e *engine[T]) dfs() error {
	s := e.state
	e.stats.Nodes++

	if e.seen != nil && e.seen.visit(s.depth, s.scores) {
		e.stats.DuplicatePrunes++
		return nil
	}

	if s.depth == e.n {
		e.stats.Leaves++
		if e.best.offer(s) {
			e.stats.Improvements++
		}
		return nil
	}

	switch e.bounds.check(s, &e.best) {
	case cutBound:
		e.stats.BoundPrunes++
		return nil
	case cutHeuristic:
		e.stats.HeuristicPrunes++
		return nil
	}

	for _, p := range e.branch.candidates(s) {
		if e.interrupted() {
			return e.stop
		}
		if err := e.descend(p); err != nil {
			return err
		}
	}

	return nil
}

// descend places the current item with player p and explores below it.
func (e *engine[T]) descend(p int) error {
	e.state.assign(p)
	defer e.state.unassign(p)

	return e.dfs()
}

// run executes the search from the root.
func (e *engine[T]) run() error {
	if e.poll() {
		return e.stop
	}

	return e.dfs()
}

func (e *engine[T]) result() Result[T] {
	if e.seen != nil {
		e.stats.SeenStates = e.seen.len()
	}

	return Result[T]{
		Allocation: e.best.allocation,
		Scores:     e.best.scores,
		MinValue:   e.best.minValue,
		MinPlayer:  e.best.minPlayer,
		Stats:      e.stats,
	}
}

// Search returns an allocation of all items that maximizes the minimum
// total value received by any player, together with that minimum.
//
// With DefaultOptions (full branching, no heuristic) the MinValue is the
// global optimum. Rule A and Rule B never change it. Among optimal
// allocations the one returned is fixed by the incumbent tie-break: the
// first found, unless a later one has a lower-indexed weakest player.
//
// BranchWeakestFirst and WithHeuristicBound may return a MinValue below
// the optimum (never above). This happens silently, with no error.
//
// Errors:
//   - ErrInvalidInput (wrapping ErrNoPlayers, ErrNoItems, ErrRaggedRows,
//     ErrNaNValue or ErrScoreOverflow), detected before searching.
//   - ErrBadOption for inconsistent options.
//   - ErrSearchAborted (wrapping the context error) if ctx is done or the
//     deadline passes. Only Stats is populated in that case.
func Search[T Number](ctx context.Context, v Valuations[T], opts ...Option) (Result[T], error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	ob := startObservation(ctx, &cfg, v.Players(), v.Items())

	if err := validateOptions(&cfg); err != nil {
		ob.finish(Stats{}, 0, err)
		return Result[T]{}, err
	}
	if err := validateValuations(v); err != nil {
		ob.finish(Stats{}, 0, err)
		return Result[T]{}, err
	}

	e := newEngine(ob.ctx, v, &cfg, start)
	err := e.run()
	res := e.result()
	res.Stats.Elapsed = time.Since(start)

	if err != nil {
		err = fmt.Errorf("%w: %w", ErrSearchAborted, err)
		ob.finish(res.Stats, 0, err)
		return Result[T]{Stats: res.Stats}, err
	}
	if !e.best.found {
		// Unreachable for validated input: the first leaf is always accepted
		// and nothing is cut before an incumbent exists.
		err = errors.New("egalitarian: search ended without a complete allocation")
		ob.finish(res.Stats, 0, err)
		return Result[T]{Stats: res.Stats}, err
	}
	ob.finish(res.Stats, float64(res.MinValue), nil)

	return res, nil
}
