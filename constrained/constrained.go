package constrained

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/budgetpath/dijkstra"
	"github.com/katalvlaran/budgetpath/layered"
)

// ShortestPath returns the minimum cost of a path from node 1 to node nodes,
// taken over every terminal state (nodes, level) with level in [0, k].
//
// edges and weights are parallel inputs: weights must hold exactly one entry
// per distinct edge. Validation errors come from layered.Build and satisfy
// errors.Is(err, layered.ErrInvalidInput). If the destination is unreachable,
// the result is dijkstra.Infinity together with ErrNoPath.
//
// Complexity: O((N + E)·L log(N·L)), L = min(k, N-1)+1 levels.
func ShortestPath(nodes int, edges []layered.Edge, weights map[layered.Edge]int64, k int, opts ...Option) (int64, error) {
	g, cfg, err := build(nodes, edges, weights, k, opts)
	if err != nil {
		return dijkstra.Infinity, err
	}

	dist, _, err := search(g, cfg, false)
	if err != nil {
		return dijkstra.Infinity, err
	}

	terminal, best := bestTerminal(g, dist)
	if best == dijkstra.Infinity {
		return dijkstra.Infinity, fmt.Errorf("%w: node %d, budget %d", ErrNoPath, nodes, k)
	}
	cfg.Logger.Debug("constrained shortest path",
		slog.Int64("distance", best),
		slog.String("terminal", terminal.String()),
	)

	return best, nil
}

// ShortestPathDetailed is ShortestPath plus the optimal path itself.
func ShortestPathDetailed(nodes int, edges []layered.Edge, weights map[layered.Edge]int64, k int, opts ...Option) (*Result, error) {
	g, cfg, err := build(nodes, edges, weights, k, opts)
	if err != nil {
		return nil, err
	}

	dist, prev, err := search(g, cfg, true)
	if err != nil {
		return nil, err
	}

	terminal, best := bestTerminal(g, dist)
	if best == dijkstra.Infinity {
		return nil, fmt.Errorf("%w: node %d, budget %d", ErrNoPath, nodes, k)
	}

	states := []layered.State{terminal}
	for s := terminal; s != origin; {
		s = prev[s]
		states = append(states, s)
	}
	for i, j := 0, len(states)-1; i < j; i, j = i+1, j-1 {
		states[i], states[j] = states[j], states[i]
	}

	path := make([]layered.Edge, 0, len(states)-1)
	for i := 1; i < len(states); i++ {
		path = append(path, layered.Edge{From: states[i-1].Node, To: states[i].Node})
	}

	return &Result{
		Distance: best,
		Terminal: terminal,
		States:   states,
		Edges:    path,
		Spent:    terminal.Level,
	}, nil
}

// origin is the fixed source state: node 1 with nothing spent.
var origin = layered.State{Node: 1, Level: 0}

func build(nodes int, edges []layered.Edge, weights map[layered.Edge]int64, k int, opts []Option) (*layered.Graph, Options, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	lopts := []layered.Option{
		layered.WithSpendMode(cfg.Mode),
		layered.WithLogger(cfg.Logger),
	}
	if cfg.Discount != nil {
		if cfg.Mode == layered.SpendAlways {
			cfg.Logger.Debug("discount ignored", slog.String("mode", cfg.Mode.String()))
		}
		lopts = append(lopts, layered.WithDiscount(cfg.Discount))
	}

	g, err := layered.Build(nodes, edges, weights, k, lopts...)
	if err != nil {
		return nil, cfg, err
	}

	return g, cfg, nil
}

func search(g *layered.Graph, cfg Options, withPath bool) (map[layered.State]int64, map[layered.State]layered.State, error) {
	dopts := []dijkstra.Option{
		dijkstra.Source(origin),
		dijkstra.WithContext(cfg.Ctx),
		dijkstra.WithLogger(cfg.Logger),
	}
	if withPath {
		dopts = append(dopts, dijkstra.WithReturnPath())
	}

	dist, prev, err := dijkstra.Dijkstra(g, dopts...)
	if err != nil {
		return nil, nil, fmt.Errorf("constrained: %w", err)
	}

	return dist, prev, nil
}

// bestTerminal scans (N, 0)..(N, TopLevel()) and returns the cheapest one, lowest
// level first on ties.
func bestTerminal(g *layered.Graph, dist map[layered.State]int64) (layered.State, int64) {
	dst := layered.Node(g.Nodes())
	best := layered.State{Node: dst, Level: 0}
	for lvl := 1; lvl <= g.TopLevel(); lvl++ {
		s := layered.State{Node: dst, Level: lvl}
		if dist[s] < dist[best] {
			best = s
		}
	}

	return best, dist[best]
}
