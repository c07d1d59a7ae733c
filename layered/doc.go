// Package layered builds the layered state graph used for budget-constrained
// shortest paths.
//
// Each input node n in [1, N] is replicated once per budget level 0..k. A
// State{Node, Level} is the true vertex of the search graph: it records where a
// path stands and how many budget units it has consumed on the way.
//
// Levels above N-1 are never materialized: an optimal path is simple, so it
// spends at most N-1 units, and Build caps the level count at min(k, N-1)+1.
// Graph.Budget keeps the requested k; Graph.TopLevel reports the cap.
//
// Spend modes:
//
//   - SpendAlways: every traversal of an input edge (src, dest) moves from
//     (src, i) to (dest, min(k, i+1)) at the full edge weight. The level
//     saturates at k, so traversals at level k stay at level k.
//   - SpendOptional: every traversal chooses. It either stays on level i at
//     the full weight, or (while i < k) climbs to level i+1 at the discounted
//     cost. The default discount is Free, i.e. "at most k free edges".
//
// Errors:
//
//	All validation failures wrap ErrInvalidInput:
//	ErrBadNodeCount, ErrNegativeBudget, ErrNodeOutOfRange, ErrMissingWeight,
//	ErrOrphanWeight, ErrNegativeWeight, ErrWeightTooLarge, ErrBadDiscount.
//
// Complexity:
//
//   - Levels:      L = min(k, N-1)+1
//   - States:      N·L
//   - Transitions: E·L for SpendAlways, at most E·(2L-1) for SpendOptional
//   - Build time:  O(E log E + (N + E)·L)
//
// Example:
//
//	g, err := layered.Build(3,
//	    []layered.Edge{{From: 1, To: 2}, {From: 2, To: 3}},
//	    map[layered.Edge]int64{{From: 1, To: 2}: 5, {From: 2, To: 3}: 7},
//	    1,
//	)
package layered
