// Package dijkstra implements Dijkstra's shortest-path algorithm over the
// layered state graph built by package layered.
//
// Overview:
//
//   - Vertices are layered.State values (node, budget level); they are used as
//     map keys directly, so no string encoding of the composite key is needed.
//   - A min-heap ordered by distance (ties broken by node, then level) always
//     expands the next-closest state.
//   - Decrease-key is lazy: an improved distance pushes a fresh heap entry, and
//     stale entries are discarded when popped because their state is already
//     visited. Entries are never updated in place.
//   - The distance map is filled with Infinity for every state before the
//     search starts, so lookups never insert.
//
// Key features:
//
//   - ReturnPath: returns a predecessor map so any optimal state sequence can be rebuilt.
//   - MaxDistance: stops exploration beyond a distance cap.
//   - InfEdgeThreshold: treats transitions with cost ≥ threshold as impassable.
//   - WithContext / WithOnVisit: cancellation and a hook called as each state is finalized.
//   - WithLogger: structured debug output through log/slog.
//
// Performance and complexity:
//
//   - Time:  O((S + T) log S), S = N·(min(k, N-1)+1) states, T = layered transitions.
//   - Space: O(S + T); the heap may hold up to T entries under lazy deletion.
//
// Error handling (sentinel errors):
//
//   - ErrEmptySource:    Source was never set.
//   - ErrNilGraph:       nil *layered.Graph.
//   - ErrSourceNotFound: Source is not a state of the graph.
//   - ErrNegativeWeight: a negative transition cost was met. layered.Build already
//     rejects negative weights, so this only guards hand-built graphs.
//   - ErrBadMaxDistance / ErrBadInfThreshold: raised via panic by the option constructors.
//
// Thread safety:
//
//   - A *layered.Graph is immutable, so concurrent Dijkstra calls on the same graph are safe.
//     Each call owns its own distance map, visited set and heap.
package dijkstra
