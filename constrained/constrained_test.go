package constrained_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/budgetpath/constrained"
	"github.com/katalvlaran/budgetpath/dijkstra"
	"github.com/katalvlaran/budgetpath/layered"
)

// problem bundles the parallel inputs of one query.
type problem struct {
	nodes   int
	edges   []layered.Edge
	weights map[layered.Edge]int64
}

// newProblem builds a problem from (from, to, weight) triples.
func newProblem(nodes int, triples ...[3]int64) problem {
	p := problem{nodes: nodes, weights: make(map[layered.Edge]int64, len(triples))}
	for _, tr := range triples {
		e := layered.Edge{From: layered.Node(tr[0]), To: layered.Node(tr[1])}
		p.edges = append(p.edges, e)
		p.weights[e] = tr[2]
	}

	return p
}

// randomProblem returns a small random digraph. Weights are in [0, 20].
func randomProblem(r *rand.Rand) problem {
	nodes := 2 + r.Intn(7)
	p := problem{nodes: nodes, weights: make(map[layered.Edge]int64)}
	m := r.Intn(nodes * 3)
	for i := 0; i < m; i++ {
		e := layered.Edge{From: layered.Node(1 + r.Intn(nodes)), To: layered.Node(1 + r.Intn(nodes))}
		if _, ok := p.weights[e]; !ok {
			p.weights[e] = int64(r.Intn(21))
		}
		p.edges = append(p.edges, e) // duplicates are allowed
	}

	return p
}

// reference solves the SpendOptional problem by Bellman-Ford over
// (level, node), independently of the layered graph and the heap.
// k == 0 degenerates to the plain shortest path.
func reference(p problem, k int, discount func(int64) int64) int64 {
	dist := make([][]int64, k+1)
	for lvl := range dist {
		dist[lvl] = make([]int64, p.nodes+1)
		for n := range dist[lvl] {
			dist[lvl][n] = dijkstra.Infinity
		}
	}
	dist[0][1] = 0

	for changed := true; changed; {
		changed = false
		for e, w := range p.weights {
			for lvl := 0; lvl <= k; lvl++ {
				du := dist[lvl][e.From]
				if du == dijkstra.Infinity {
					continue
				}
				if du+w < dist[lvl][e.To] {
					dist[lvl][e.To] = du + w
					changed = true
				}
				if lvl < k {
					if c := du + discount(w); c < dist[lvl+1][e.To] {
						dist[lvl+1][e.To] = c
						changed = true
					}
				}
			}
		}
	}

	best := dijkstra.Infinity
	for lvl := 0; lvl <= k; lvl++ {
		best = min(best, dist[lvl][p.nodes])
	}

	return best
}

// solve wraps ShortestPath, mapping ErrNoPath to Infinity.
func solve(t *testing.T, p problem, k int, opts ...constrained.Option) int64 {
	t.Helper()
	d, err := constrained.ShortestPath(p.nodes, p.edges, p.weights, k, opts...)
	if err != nil {
		require.ErrorIs(t, err, constrained.ErrNoPath)
		require.Equal(t, dijkstra.Infinity, d)
	}

	return d
}

func half(w int64) int64 { return w / 2 }

// ------------------------------------------------------------------------
// 1. Concrete scenarios
// ------------------------------------------------------------------------

func TestShortestPath_Chain(t *testing.T) {
	p := newProblem(3, [3]int64{1, 2, 5}, [3]int64{2, 3, 7})

	d, err := constrained.ShortestPath(p.nodes, p.edges, p.weights, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(12), d)
}

func TestShortestPath_ParallelPathsMoreEdgesCheaper(t *testing.T) {
	// 1→4 costs 20 in one hop; 1→2→3→4 costs 9 in three hops.
	p := newProblem(4,
		[3]int64{1, 4, 20},
		[3]int64{1, 2, 3}, [3]int64{2, 3, 3}, [3]int64{3, 4, 3},
	)
	for k := 0; k <= 4; k++ {
		d, err := constrained.ShortestPath(p.nodes, p.edges, p.weights, k)
		require.NoError(t, err)
		assert.Equal(t, int64(9), d, "k=%d", k)
	}
}

func TestShortestPath_SingleNode(t *testing.T) {
	for _, k := range []int{0, 1, 5} {
		d, err := constrained.ShortestPath(1, nil, nil, k)
		require.NoError(t, err)
		assert.Zero(t, d)
	}

	// A self-loop changes nothing.
	p := newProblem(1, [3]int64{1, 1, 4})
	d, err := constrained.ShortestPath(p.nodes, p.edges, p.weights, 2)
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestShortestPath_HugeBudget(t *testing.T) {
	p := newProblem(2, [3]int64{1, 2, 1})
	for _, mode := range []layered.SpendMode{layered.SpendAlways, layered.SpendOptional} {
		d, err := constrained.ShortestPath(p.nodes, p.edges, p.weights, math.MaxInt,
			constrained.WithSpendMode(mode), constrained.WithDiscount(half))
		require.NoError(t, err)
		assert.Equal(t, int64(1), d, "mode=%s", mode)
	}

	// Every edge can be spent, and k beyond N-1 changes nothing.
	p = newProblem(3, [3]int64{1, 2, 4}, [3]int64{2, 3, 6})
	for _, k := range []int{2, 3, math.MaxInt} {
		res, err := constrained.ShortestPathDetailed(p.nodes, p.edges, p.weights, k,
			constrained.WithSpendMode(layered.SpendOptional), constrained.WithDiscount(half))
		require.NoError(t, err)
		assert.Equal(t, int64(5), res.Distance, "k=%d", k)
		assert.Equal(t, 2, res.Spent, "k=%d", k)
	}
}

func TestShortestPath_MaxWeightEdgeIsReachable(t *testing.T) {
	p := newProblem(2, [3]int64{1, 2, layered.MaxWeight})
	d, err := constrained.ShortestPath(p.nodes, p.edges, p.weights, 0)
	require.NoError(t, err)
	assert.Equal(t, layered.MaxWeight, d)
}

func TestShortestPath_Disconnected(t *testing.T) {
	// 3→1 points the wrong way.
	p := newProblem(3, [3]int64{1, 2, 1}, [3]int64{3, 1, 1})
	for _, mode := range []layered.SpendMode{layered.SpendAlways, layered.SpendOptional} {
		d, err := constrained.ShortestPath(p.nodes, p.edges, p.weights, 2, constrained.WithSpendMode(mode))
		assert.ErrorIs(t, err, constrained.ErrNoPath, "mode=%s", mode)
		assert.Equal(t, dijkstra.Infinity, d)
	}
}

func TestShortestPath_InvalidInput(t *testing.T) {
	e12 := layered.Edge{From: 1, To: 2}
	cases := []struct {
		name string
		run  func() (int64, error)
		want error
	}{
		{"negative k", func() (int64, error) {
			return constrained.ShortestPath(2, []layered.Edge{e12}, map[layered.Edge]int64{e12: 1}, -1)
		}, layered.ErrNegativeBudget},
		{"negative weight", func() (int64, error) {
			return constrained.ShortestPath(2, []layered.Edge{e12}, map[layered.Edge]int64{e12: -1}, 1)
		}, layered.ErrNegativeWeight},
		{"node out of range", func() (int64, error) {
			return constrained.ShortestPath(1, []layered.Edge{e12}, map[layered.Edge]int64{e12: 1}, 1)
		}, layered.ErrNodeOutOfRange},
		{"mismatched inputs", func() (int64, error) {
			return constrained.ShortestPath(2, nil, map[layered.Edge]int64{e12: 1}, 1)
		}, layered.ErrOrphanWeight},
		{"weight reserved for unreachable", func() (int64, error) {
			return constrained.ShortestPath(2, []layered.Edge{e12}, map[layered.Edge]int64{e12: math.MaxInt64}, 1)
		}, layered.ErrWeightTooLarge},
		{"zero nodes", func() (int64, error) {
			return constrained.ShortestPath(0, nil, nil, 1)
		}, layered.ErrBadNodeCount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := tc.run()
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, layered.ErrInvalidInput)
			assert.NotErrorIs(t, err, constrained.ErrNoPath)
			assert.Equal(t, dijkstra.Infinity, d)
		})
	}
}

func TestShortestPath_FreeEdgeOnHeaviestHop(t *testing.T) {
	// Both plain routes cost 11. With one free edge, 1→3→4 (10 free, then 1)
	// beats 1→2→4 (2, then 9 free).
	p := newProblem(4,
		[3]int64{1, 2, 2}, [3]int64{2, 4, 9},
		[3]int64{1, 3, 10}, [3]int64{3, 4, 1},
	)
	opt := constrained.WithSpendMode(layered.SpendOptional)

	cases := []struct {
		k    int
		want int64
	}{{0, 11}, {1, 1}, {2, 0}, {3, 0}}
	for _, tc := range cases {
		d, err := constrained.ShortestPath(p.nodes, p.edges, p.weights, tc.k, opt)
		require.NoError(t, err)
		assert.Equal(t, tc.want, d, "k=%d", tc.k)
	}

	// Half price: both routes cost 6 (2 + 9/2, then 10/2 + 1).
	d, err := constrained.ShortestPath(p.nodes, p.edges, p.weights, 1, opt, constrained.WithDiscount(half))
	require.NoError(t, err)
	assert.Equal(t, int64(6), d)
}

// ------------------------------------------------------------------------
// 2. Properties over random graphs
// ------------------------------------------------------------------------

func TestShortestPath_SpendAlwaysMatchesPlainShortestPath(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		p := randomProblem(r)
		plain := reference(p, 0, nil)
		for k := 0; k <= 3; k++ {
			assert.Equal(t, plain, solve(t, p, k), "case %d k=%d", i, k)
		}
	}
}

func TestShortestPath_SpendOptionalMatchesReference(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	discounts := map[string]func(int64) int64{"free": layered.Free, "half": half}

	for name, discount := range discounts {
		for i := 0; i < 150; i++ {
			p := randomProblem(r)
			plain := reference(p, 0, discount)
			prev := plain
			for k := 0; k <= 4; k++ {
				got := solve(t, p, k,
					constrained.WithSpendMode(layered.SpendOptional),
					constrained.WithDiscount(discount),
				)
				assert.Equal(t, reference(p, k, discount), got, "%s case %d k=%d", name, i, k)

				// More budget never hurts, never beats zero, never exceeds plain.
				assert.LessOrEqual(t, got, prev, "%s case %d k=%d", name, i, k)
				assert.LessOrEqual(t, got, plain)
				assert.GreaterOrEqual(t, got, int64(0))
				prev = got
			}
		}
	}
}

func TestShortestPath_Idempotent(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		p := randomProblem(r)
		opt := constrained.WithSpendMode(layered.SpendOptional)
		first := solve(t, p, 2, opt)
		second := solve(t, p, 2, opt)
		assert.Equal(t, first, second)

		a, errA := constrained.ShortestPathDetailed(p.nodes, p.edges, p.weights, 2, opt)
		b, errB := constrained.ShortestPathDetailed(p.nodes, p.edges, p.weights, 2, opt)
		assert.Equal(t, fmt.Sprint(errA), fmt.Sprint(errB))
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("case %d: detailed results differ (-first +second):\n%s", i, diff)
		}
	}
}

// ------------------------------------------------------------------------
// 3. Detailed results
// ------------------------------------------------------------------------

func TestShortestPathDetailed_Chain(t *testing.T) {
	p := newProblem(3, [3]int64{1, 2, 5}, [3]int64{2, 3, 7})

	res, err := constrained.ShortestPathDetailed(p.nodes, p.edges, p.weights, 1)
	require.NoError(t, err)

	want := &constrained.Result{
		Distance: 12,
		Terminal: layered.State{Node: 3, Level: 1},
		States: []layered.State{
			{Node: 1, Level: 0}, {Node: 2, Level: 1}, {Node: 3, Level: 1},
		},
		Edges: []layered.Edge{{From: 1, To: 2}, {From: 2, To: 3}},
		Spent: 1,
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestShortestPathDetailed_TerminalTieLowestLevel(t *testing.T) {
	// Zero-weight edge: (2, 0) and (2, 1) are both reachable at cost 0.
	p := newProblem(2, [3]int64{1, 2, 0})
	res, err := constrained.ShortestPathDetailed(p.nodes, p.edges, p.weights, 1,
		constrained.WithSpendMode(layered.SpendOptional))
	require.NoError(t, err)
	assert.Equal(t, layered.State{Node: 2, Level: 0}, res.Terminal)
	assert.Zero(t, res.Spent)
}

func TestShortestPathDetailed_SingleNode(t *testing.T) {
	res, err := constrained.ShortestPathDetailed(1, nil, nil, 3)
	require.NoError(t, err)
	assert.Zero(t, res.Distance)
	assert.Equal(t, []layered.State{{Node: 1, Level: 0}}, res.States)
	assert.Empty(t, res.Edges)
}

func TestShortestPathDetailed_NoPath(t *testing.T) {
	p := newProblem(2)
	res, err := constrained.ShortestPathDetailed(p.nodes, p.edges, p.weights, 1)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, constrained.ErrNoPath)
}

func TestShortestPathDetailed_PathCostsAddUp(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		p := randomProblem(r)
		res, err := constrained.ShortestPathDetailed(p.nodes, p.edges, p.weights, 2,
			constrained.WithSpendMode(layered.SpendOptional),
			constrained.WithDiscount(half),
		)
		if err != nil {
			require.ErrorIs(t, err, constrained.ErrNoPath)
			continue
		}

		require.Len(t, res.Edges, len(res.States)-1)
		assert.Equal(t, layered.State{Node: 1, Level: 0}, res.States[0])
		assert.Equal(t, res.Terminal, res.States[len(res.States)-1])
		assert.Equal(t, layered.Node(p.nodes), res.Terminal.Node)

		var total int64
		for j, e := range res.Edges {
			w, ok := p.weights[e]
			require.True(t, ok, "case %d: edge %s not in input", i, e)
			if res.States[j+1].Level > res.States[j].Level {
				total += half(w)
			} else {
				total += w
			}
		}
		assert.Equal(t, res.Distance, total, "case %d", i)
	}
}

// ------------------------------------------------------------------------
// 4. Context and logging
// ------------------------------------------------------------------------

func TestShortestPath_ContextCancelled(t *testing.T) {
	p := newProblem(2, [3]int64{1, 2, 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d, err := constrained.ShortestPath(p.nodes, p.edges, p.weights, 1, constrained.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, constrained.ErrNoPath)
	assert.Equal(t, dijkstra.Infinity, d)
}

func TestShortestPath_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := newProblem(3, [3]int64{1, 2, 5}, [3]int64{2, 3, 7})
	_, err := constrained.ShortestPath(p.nodes, p.edges, p.weights, 1, constrained.WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	for _, msg := range []string{"layered graph built", "dijkstra search finished", "constrained shortest path"} {
		assert.Contains(t, out, msg)
	}
	assert.Contains(t, out, fmt.Sprintf("distance=%d", 12))
	assert.Contains(t, out, "terminal=3@1")
}

func TestShortestPath_DiscountIgnoredInSpendAlwaysIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := newProblem(3, [3]int64{1, 2, 5}, [3]int64{2, 3, 7})
	d, err := constrained.ShortestPath(p.nodes, p.edges, p.weights, 1,
		constrained.WithDiscount(half), constrained.WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, int64(12), d)
	assert.Contains(t, buf.String(), "discount ignored")
	assert.Contains(t, buf.String(), "mode=always")

	buf.Reset()
	_, err = constrained.ShortestPath(p.nodes, p.edges, p.weights, 1,
		constrained.WithSpendMode(layered.SpendOptional),
		constrained.WithDiscount(half), constrained.WithLogger(logger))
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "discount ignored")
}

func TestWithDiscount_NilPanics(t *testing.T) {
	assert.Panics(t, func() { constrained.WithDiscount(nil) })
}
