// SPDX-License-Identifier: MIT
//
// File: graph.go
// Role: Build (validation + layering) and read-only queries on the resulting Graph.
// Determinism:
//   - Input edges are deduplicated and sorted by (From, To) before layering.
//   - States() is ordered by node asc, then level asc.
//   - Transitions(s) is ordered by To.Node asc, then To.Level asc.
// Concurrency:
//   - A Graph is immutable once Build returns; concurrent readers need no locking.

package layered

import (
	"fmt"
	"log/slog"
	"sort"
)

// Graph is the layered state graph: every input node replicated once per
// budget level 0..TopLevel(), wired by the transitions of the selected SpendMode.
type Graph struct {
	nodes  int
	budget int // k as requested
	top    int // highest materialized level, min(k, nodes-1)
	mode   SpendMode

	edges       []Edge                // deduplicated input edges, sorted
	adjacency   map[State][]Transition // every state has an entry, possibly empty
	transitions int
}

// Build validates the input and constructs the layered graph.
//
// Construction rule (SpendAlways): for every edge (src, dest) and every level
// i in [0, k], add (src, i) → (dest, min(k, i+1)) at cost weights[(src, dest)].
//
// Construction rule (SpendOptional): for every edge and level i add
// (src, i) → (dest, i) at the full weight and, when i < k,
// (src, i) → (dest, i+1) at Discount(weight).
//
// Only levels 0..min(k, nodes-1) are materialized. Cutting a cycle out of a
// walk never raises its cost, so an optimal path needs at most nodes-1 edges
// and therefore never more than nodes-1 budget units; higher levels could not
// change any answer.
//
// Validation (in order):
//  1. nodes >= 1 (ErrBadNodeCount).
//  2. k >= 0 (ErrNegativeBudget).
//  3. every edge endpoint in [1, nodes] (ErrNodeOutOfRange).
//  4. every edge has a weight (ErrMissingWeight) in [0, MaxWeight]
//     (ErrNegativeWeight, ErrWeightTooLarge).
//  5. every weight belongs to an edge (ErrOrphanWeight).
//  6. SpendOptional only: Discount(w) in [0, w] (ErrBadDiscount).
//
// Complexity: O(E log E + (N + E)·L) time and space, L = min(k, N-1)+1 levels.
func Build(nodes int, edges []Edge, weights map[Edge]int64, k int, opts ...Option) (*Graph, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	if nodes < 1 {
		return nil, fmt.Errorf("%w: nodes=%d", ErrBadNodeCount, nodes)
	}
	if k < 0 {
		return nil, fmt.Errorf("%w: k=%d", ErrNegativeBudget, k)
	}

	unique, err := validateEdges(nodes, edges, weights)
	if err != nil {
		return nil, err
	}

	if cfg.Mode == SpendOptional {
		for _, e := range unique {
			w := weights[e]
			if d := cfg.Discount(w); d < 0 || d > w {
				return nil, fmt.Errorf("%w: edge %s weight=%d discounted=%d", ErrBadDiscount, e, w, d)
			}
		}
	}

	top := min(k, nodes-1)
	g := &Graph{
		nodes:     nodes,
		budget:    k,
		top:       top,
		mode:      cfg.Mode,
		edges:     unique,
		adjacency: make(map[State][]Transition, nodes*(top+1)),
	}
	for n := 1; n <= nodes; n++ {
		for lvl := 0; lvl <= top; lvl++ {
			g.adjacency[State{Node: Node(n), Level: lvl}] = nil
		}
	}

	for _, e := range unique {
		w := weights[e]
		for lvl := 0; lvl <= top; lvl++ {
			from := State{Node: e.From, Level: lvl}
			switch cfg.Mode {
			case SpendAlways:
				g.link(from, State{Node: e.To, Level: min(top, lvl+1)}, w, e)
			case SpendOptional:
				g.link(from, State{Node: e.To, Level: lvl}, w, e)
				if lvl < top {
					g.link(from, State{Node: e.To, Level: lvl + 1}, cfg.Discount(w), e)
				}
			}
		}
	}

	cfg.Logger.Debug("layered graph built",
		slog.Int("nodes", nodes),
		slog.Int("edges", len(unique)),
		slog.Int("budget", k),
		slog.Int("top_level", top),
		slog.String("mode", cfg.Mode.String()),
		slog.Int("states", len(g.adjacency)),
		slog.Int("transitions", g.transitions),
	)

	return g, nil
}

// validateEdges checks endpoints and weights and returns the deduplicated,
// sorted edge list.
func validateEdges(nodes int, edges []Edge, weights map[Edge]int64) ([]Edge, error) {
	seen := make(map[Edge]struct{}, len(edges))
	unique := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.From < 1 || int(e.From) > nodes || e.To < 1 || int(e.To) > nodes {
			return nil, fmt.Errorf("%w: edge %s with nodes=%d", ErrNodeOutOfRange, e, nodes)
		}
		w, ok := weights[e]
		if !ok {
			return nil, fmt.Errorf("%w: edge %s", ErrMissingWeight, e)
		}
		if w < 0 {
			return nil, fmt.Errorf("%w: edge %s weight=%d", ErrNegativeWeight, e, w)
		}
		if w > MaxWeight {
			return nil, fmt.Errorf("%w: edge %s weight=%d", ErrWeightTooLarge, e, w)
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		unique = append(unique, e)
	}

	for e := range weights {
		if _, ok := seen[e]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrOrphanWeight, e)
		}
	}

	sort.Slice(unique, func(i, j int) bool {
		if unique[i].From != unique[j].From {
			return unique[i].From < unique[j].From
		}
		return unique[i].To < unique[j].To
	})

	return unique, nil
}

// link appends one transition. Edges are walked in (From, To) order and levels
// ascending, which keeps every adjacency slice sorted by (To.Node, To.Level).
func (g *Graph) link(from, to State, cost int64, e Edge) {
	g.adjacency[from] = append(g.adjacency[from], Transition{To: to, Cost: cost, Edge: e})
	g.transitions++
}

// Nodes returns the input node count N.
func (g *Graph) Nodes() int { return g.nodes }

// Budget returns k as passed to Build.
func (g *Graph) Budget() int { return g.budget }

// TopLevel returns the highest level present in the graph, min(k, nodes-1).
func (g *Graph) TopLevel() int { return g.top }

// Mode returns the spend mode the graph was built with.
func (g *Graph) Mode() SpendMode { return g.mode }

// Edges returns a copy of the deduplicated input edges, sorted by (From, To).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)

	return out
}

// HasState reports whether s is a vertex of the layered graph.
func (g *Graph) HasState(s State) bool {
	_, ok := g.adjacency[s]
	return ok
}

// States returns every state, ordered by node then level.
// Complexity: O(N·L).
func (g *Graph) States() []State {
	out := make([]State, 0, len(g.adjacency))
	for n := 1; n <= g.nodes; n++ {
		for lvl := 0; lvl <= g.top; lvl++ {
			out = append(out, State{Node: Node(n), Level: lvl})
		}
	}

	return out
}

// Transitions returns the transitions leaving s, ordered by (To.Node, To.Level).
// The slice is shared with the graph and must not be modified.
//
// Errors: ErrStateNotFound if s is not a vertex of the graph.
func (g *Graph) Transitions(s State) ([]Transition, error) {
	ts, ok := g.adjacency[s]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStateNotFound, s)
	}

	return ts, nil
}

// StateCount returns N·(TopLevel()+1).
func (g *Graph) StateCount() int { return len(g.adjacency) }

// TransitionCount returns the number of layered transitions.
func (g *Graph) TransitionCount() int { return g.transitions }
