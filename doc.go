// Package fairdiv is a small toolkit for dividing indivisible items fairly:
// every player ends up with a bundle, and the worst-off player gets as much
// as possible (the egalitarian, or max-min, criterion).
//
// 🚀 What is in fairdiv?
//
//	• egalitarian/   exact branch-and-bound search with duplicate-state and
//	                 optimistic-bound pruning, plus two opt-in heuristics
//	• instance/      YAML/JSON instance files, settings and solve reports
//	• cmd/egalloc    command line: batch solve and heuristic comparison
//	• examples/      runnable scenarios (estate, chores, grant budget)
//
// ✨ Why fairdiv?
//
//   - Generic – integer and floating-point valuations, negative values allowed
//   - Deterministic – same input and options, same allocation
//   - Observable – slog logging, OpenTelemetry spans, Prometheus counters
//   - Cancellable – context and deadline aware, state is unwound on abort
//
// Quick example:
//
//	    items:   0  1  2  3  4
//	    ana:     4  5  6  7  8
//	    ben:     8  7  6  5  4
//
//	ana gets {3,4} (15), ben gets {0,1,2} (21); nothing beats 15.
//
// The search is exponential in the number of items and meant for small
// instances. See egalitarian's package documentation for the pruning rules
// and the caveats of the heuristic modes.
//
//	go install github.com/katalvlaran/fairdiv/cmd/egalloc@latest
package fairdiv
