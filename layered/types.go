// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Node/Edge/State/Transition types, spend modes, builder options and sentinel errors.
// Policy:
//   - Every builder error wraps ErrInvalidInput, so callers can test the kind with errors.Is
//     and the exact cause with the specific sentinel.
//   - Options are plain functional options applied left-to-right.

package layered

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
)

// ErrInvalidInput is the parent of every validation error reported by Build.
var ErrInvalidInput = errors.New("layered: invalid input")

// Specific validation errors. Each one wraps ErrInvalidInput.
var (
	// ErrBadNodeCount indicates nodes < 1.
	ErrBadNodeCount = fmt.Errorf("%w: node count must be at least 1", ErrInvalidInput)

	// ErrNegativeBudget indicates k < 0.
	ErrNegativeBudget = fmt.Errorf("%w: budget must be non-negative", ErrInvalidInput)

	// ErrNodeOutOfRange indicates an edge endpoint outside [1, nodes].
	ErrNodeOutOfRange = fmt.Errorf("%w: node out of range", ErrInvalidInput)

	// ErrMissingWeight indicates an edge without an entry in the weights map.
	ErrMissingWeight = fmt.Errorf("%w: edge has no weight", ErrInvalidInput)

	// ErrOrphanWeight indicates a weight keyed by a pair that is not in the edge list.
	ErrOrphanWeight = fmt.Errorf("%w: weight without matching edge", ErrInvalidInput)

	// ErrNegativeWeight indicates a weight < 0, which Dijkstra cannot handle.
	ErrNegativeWeight = fmt.Errorf("%w: negative edge weight", ErrInvalidInput)

	// ErrWeightTooLarge indicates a weight above MaxWeight.
	ErrWeightTooLarge = fmt.Errorf("%w: edge weight too large", ErrInvalidInput)

	// ErrBadDiscount indicates a discount function returned a cost outside [0, weight].
	ErrBadDiscount = fmt.Errorf("%w: discounted cost out of range", ErrInvalidInput)
)

// ErrStateNotFound is returned by Graph queries for a state outside the layered graph.
var ErrStateNotFound = errors.New("layered: state not found")

// MaxWeight is the largest accepted edge weight. math.MaxInt64 itself is
// reserved as the distance of an unreachable state.
const MaxWeight int64 = math.MaxInt64 - 1

// Node identifies a vertex of the input graph. Valid nodes are 1..nodes.
type Node int

// Edge is a directed pair of nodes. It doubles as the key of the weights map.
type Edge struct {
	From Node
	To   Node
}

// String renders the edge as "from→to".
func (e Edge) String() string { return fmt.Sprintf("%d→%d", e.From, e.To) }

// State is a vertex of the layered graph: an input node plus the number of
// budget units consumed to reach it. Level is always within [0, min(k, nodes-1)].
type State struct {
	Node  Node
	Level int
}

// String renders the state as "node@level".
func (s State) String() string { return fmt.Sprintf("%d@%d", s.Node, s.Level) }

// Transition is a layered edge leaving some State.
type Transition struct {
	// To is the state reached by the transition.
	To State

	// Cost is the non-negative price of taking the transition.
	Cost int64

	// Edge is the input edge this transition was derived from.
	Edge Edge
}

// SpendMode selects how edge traversals consume budget.
type SpendMode int

const (
	// SpendAlways charges one budget unit on every traversal, saturating at k.
	// Each input edge yields one transition per level, at the full weight.
	SpendAlways SpendMode = iota

	// SpendOptional lets each traversal choose: stay on the same level at the
	// full weight, or move one level up (while below k) at the discounted cost.
	SpendOptional
)

// String returns the mode name.
func (m SpendMode) String() string {
	switch m {
	case SpendAlways:
		return "always"
	case SpendOptional:
		return "optional"
	default:
		return fmt.Sprintf("SpendMode(%d)", int(m))
	}
}

// Options configures Build.
type Options struct {
	Mode     SpendMode           // how traversals consume budget
	Discount func(w int64) int64 // cost of a budget-spending traversal (SpendOptional only)
	Logger   *slog.Logger        // debug sink; never nil after DefaultOptions
}

// Option is a functional option for Build.
type Option func(*Options)

// WithSpendMode selects the spend mode. Unknown modes panic.
func WithSpendMode(m SpendMode) Option {
	if m != SpendAlways && m != SpendOptional {
		panic(fmt.Sprintf("layered: unknown spend mode %d", int(m)))
	}

	return func(o *Options) { o.Mode = m }
}

// WithDiscount installs the cost function applied to budget-spending traversals
// in SpendOptional mode. The result must lie in [0, w]; Build rejects anything
// else with ErrBadDiscount. SpendAlways never calls it. A nil function panics.
func WithDiscount(fn func(w int64) int64) Option {
	if fn == nil {
		panic("layered: nil discount function")
	}

	return func(o *Options) { o.Discount = fn }
}

// WithLogger routes Build's debug output to l. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Free is the default discount: a spent edge costs nothing.
func Free(int64) int64 { return 0 }

// DefaultOptions returns SpendAlways, the Free discount and a discarding logger.
func DefaultOptions() Options {
	return Options{
		Mode:     SpendAlways,
		Discount: Free,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
