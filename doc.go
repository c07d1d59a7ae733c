// Package budgetpath computes shortest paths under a traversal budget.
//
// The question it answers: what is the cheapest way from node 1 to node N of a
// weighted directed graph when at most k edge traversals may be charged
// against a budget (made free, or otherwise discounted)?
//
// The budget is folded into the search state. Every node is replicated once
// per budget level 0..k, and Dijkstra runs over (node, level) pairs:
//
//	level 2:  1@2 ──> 2@2 ──> 3@2
//	             ↗        ↗
//	level 1:  1@1 ──> 2@1 ──> 3@1
//	             ↗        ↗
//	level 0:  1@0 ──> 2@0 ──> 3@0
//
// Subpackages:
//
//	layered/     — Node, Edge, State types, input validation and the layered graph builder
//	dijkstra/    — lazy-decrease-key Dijkstra over layered states
//	constrained/ — ShortestPath and ShortestPathDetailed, the public query API
//
// Quick start:
//
//	d, err := constrained.ShortestPath(nodes, edges, weights, k,
//	    constrained.WithSpendMode(layered.SpendOptional))
//	if errors.Is(err, constrained.ErrNoPath) { ... }
//	if errors.Is(err, layered.ErrInvalidInput) { ... }
//
//	go get github.com/katalvlaran/budgetpath
package budgetpath
