// Package constrained answers the budget-constrained shortest path query:
// the cheapest way from node 1 to node N when at most k traversals may be
// charged against a budget.
package constrained

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/katalvlaran/budgetpath/layered"
)

// ErrNoPath is returned when node N is unreachable from node 1 on every budget level.
var ErrNoPath = errors.New("constrained: no path to destination")

// Options configures ShortestPath and ShortestPathDetailed.
type Options struct {
	Mode     layered.SpendMode
	Discount func(w int64) int64 // nil keeps layered.Free
	Ctx      context.Context
	Logger   *slog.Logger
}

// Option is a functional option for the solver.
type Option func(*Options)

// WithSpendMode selects how traversals consume budget (see layered.SpendMode).
func WithSpendMode(m layered.SpendMode) Option {
	return func(o *Options) { o.Mode = m }
}

// WithDiscount sets the cost of a budget-spending traversal. It only takes
// effect together with layered.SpendOptional; under SpendAlways every
// traversal is charged at the full weight and the discount is ignored (a debug
// message is logged). A nil function panics.
func WithDiscount(fn func(w int64) int64) Option {
	if fn == nil {
		panic("constrained: nil discount function")
	}

	return func(o *Options) { o.Discount = fn }
}

// WithContext lets the caller cancel a long search.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithLogger routes debug output of the build and the search to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// DefaultOptions returns SpendAlways, the free discount, a background context
// and a discarding logger.
func DefaultOptions() Options {
	return Options{
		Mode:   layered.SpendAlways,
		Ctx:    context.Background(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Result describes one optimal path.
type Result struct {
	// Distance is the total cost of the path.
	Distance int64

	// Terminal is the destination state the path ends in. Among equally cheap
	// terminal states the lowest level wins.
	Terminal layered.State

	// States is the state sequence from (1, 0) to Terminal, inclusive.
	States []layered.State

	// Edges lists the input edges traversed, in order. len(Edges) == len(States)-1.
	Edges []layered.Edge

	// Spent is the budget level reached at Terminal.
	Spent int
}
