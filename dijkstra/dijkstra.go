package dijkstra

import (
	"container/heap"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/budgetpath/layered"
)

// Dijkstra computes shortest distances from the source state (Options.Source)
// to every state of the layered graph g.
//
// Returns:
//
//   - dist: map from State to minimum distance, pre-populated for every state of g
//     (Infinity if unreachable, or beyond MaxDistance).
//   - prev: predecessor map if ReturnPath=true (nil otherwise). prev[v] == u means
//     the shortest path to v goes through u. Only reached states have an entry.
//   - err:  error if inputs are invalid, the context is done, or OnVisit fails.
//
// Preconditions and validation (in order):
//  1. Source must be set (ErrEmptySource).
//  2. g must be non-nil (ErrNilGraph).
//  3. g must contain Source (ErrSourceNotFound).
//
// Complexity:
//
//   - Time:  O((S + T) log S), S = states, T = transitions
//   - Space: O(S + T)
func Dijkstra(g *layered.Graph, opts ...Option) (map[layered.State]int64, map[layered.State]layered.State, error) {
	// 1) Build options
	cfg := DefaultOptions(layered.State{})
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate inputs
	if cfg.Source == (layered.State{}) {
		return nil, nil, ErrEmptySource
	}
	if g == nil {
		return nil, nil, ErrNilGraph
	}
	if !g.HasState(cfg.Source) {
		return nil, nil, fmt.Errorf("%w: %s", ErrSourceNotFound, cfg.Source)
	}

	// 3) Prepare data structures
	S := g.StateCount()
	r := &runner{
		g:       g,
		options: cfg,
		dist:    make(map[layered.State]int64, S),
		visited: make(map[layered.State]bool, S),
		pq:      make(statePQ, 0, S),
	}
	if cfg.ReturnPath {
		r.prev = make(map[layered.State]layered.State, S)
	}

	// 4) Run
	r.init()
	if err := r.process(); err != nil {
		return nil, nil, err
	}

	cfg.Logger.Debug("dijkstra search finished",
		slog.String("source", cfg.Source.String()),
		slog.Int("states", S),
		slog.Int("settled", r.settled),
		slog.Int("pushes", r.pushes),
	)

	return r.dist, r.prev, nil
}

// runner holds the mutable state for a single Dijkstra execution.
type runner struct {
	g       *layered.Graph                  // read-only within Dijkstra
	options Options                         // Source, thresholds, hooks
	dist    map[layered.State]int64         // best known distance from Source
	prev    map[layered.State]layered.State // predecessor on the shortest path, nil unless ReturnPath
	visited map[layered.State]bool          // finalized states
	pq      statePQ                         // lazy min-heap

	settled int
	pushes  int
}

// init sets every distance to Infinity, the source to zero, and seeds the heap.
func (r *runner) init() {
	for _, s := range r.g.States() {
		r.dist[s] = Infinity
	}
	r.dist[r.options.Source] = 0

	heap.Init(&r.pq)
	r.push(r.options.Source, 0)

	r.options.Logger.Debug("dijkstra search started",
		slog.String("source", r.options.Source.String()),
		slog.Int("transitions", r.g.TransitionCount()),
	)
}

// process is the main loop: pop the closest state, skip it if stale,
// otherwise finalize it and relax its transitions. It stops when the heap is
// empty or the closest state lies beyond MaxDistance.
func (r *runner) process() error {
	for r.pq.Len() > 0 {
		if err := r.options.Ctx.Err(); err != nil {
			return fmt.Errorf("dijkstra: search interrupted: %w", err)
		}

		item := heap.Pop(&r.pq).(*stateItem)
		u := item.state

		// Stale entry from an earlier, longer relaxation.
		if r.visited[u] {
			continue
		}

		if item.dist > r.options.MaxDistance {
			break
		}

		r.visited[u] = true
		r.settled++

		if r.options.OnVisit != nil {
			if err := r.options.OnVisit(u, item.dist); err != nil {
				return fmt.Errorf("dijkstra: visit %s: %w", u, err)
			}
		}

		if err := r.relax(u); err != nil {
			return err
		}
	}

	return nil
}

// relax tries to improve the distance of every state reachable from u by one
// transition. Assumes dist[u] is final.
func (r *runner) relax(u layered.State) error {
	transitions, err := r.g.Transitions(u)
	if err != nil {
		return fmt.Errorf("dijkstra: failed to get transitions of %s: %w", u, err)
	}

	du := r.dist[u]
	for _, t := range transitions {
		v, w := t.To, t.Cost

		// Impassable wall.
		if w >= r.options.InfEdgeThreshold {
			continue
		}

		if w < 0 {
			return fmt.Errorf("%w: edge %s weight=%d", ErrNegativeWeight, t.Edge, w)
		}

		// Saturate instead of wrapping around.
		if w > Infinity-du {
			continue
		}
		newDist := du + w

		if newDist > r.options.MaxDistance {
			continue
		}

		// Strictly better only; equal distances keep the first predecessor.
		if newDist >= r.dist[v] {
			continue
		}

		r.dist[v] = newDist
		if r.prev != nil {
			r.prev[v] = u
		}

		// Lazy decrease-key: the old entry stays and is skipped when popped.
		r.push(v, newDist)
	}

	return nil
}

func (r *runner) push(s layered.State, d int64) {
	heap.Push(&r.pq, &stateItem{state: s, dist: d})
	r.pushes++
}

// stateItem is a heap entry: a state and the distance it was pushed with.
type stateItem struct {
	state layered.State
	dist  int64
}

// statePQ is a min-heap of *stateItem ordered by dist, then by state
// (node asc, level asc) so that equal distances pop deterministically.
type statePQ []*stateItem

func (pq statePQ) Len() int { return len(pq) }

func (pq statePQ) Less(i, j int) bool {
	a, b := pq[i], pq[j]
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	if a.state.Node != b.state.Node {
		return a.state.Node < b.state.Node
	}

	return a.state.Level < b.state.Level
}

func (pq statePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push is called by heap.Push; x must be *stateItem.
func (pq *statePQ) Push(x interface{}) { *pq = append(*pq, x.(*stateItem)) }

// Pop is called by heap.Pop.
func (pq *statePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return item
}
