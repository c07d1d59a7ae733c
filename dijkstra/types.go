// Package dijkstra defines core types and configuration options
// for Dijkstra's shortest-path search over a layered state graph.
//
// Options:
//
//	– Source:           starting State (must be non-zero and present in the graph).
//	– ReturnPath:       if true, return the predecessor map for path reconstruction.
//	– MaxDistance:      optional cap on distances to explore; states beyond this are skipped.
//	– InfEdgeThreshold: transitions with cost >= this threshold are treated as impassable.
//	– Ctx:              cancellation, checked once per extracted state.
//	– OnVisit:          hook invoked when a state is finalized.
//	– Logger:           structured debug output.
//
// Errors (sentinel):
//
//	– ErrEmptySource     if no source state was provided.
//	– ErrNilGraph        if the provided graph pointer is nil.
//	– ErrSourceNotFound  if the source state is not a vertex of the graph.
//	– ErrNegativeWeight  if a negative transition cost is encountered.
//	– ErrBadMaxDistance  if MaxDistance < 0.
//	– ErrBadInfThreshold if InfEdgeThreshold <= 0.
package dijkstra

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"

	"github.com/katalvlaran/budgetpath/layered"
)

// Infinity is the distance of an unreachable state.
const Infinity int64 = math.MaxInt64

// Sentinel errors returned by the Dijkstra implementation.
var (
	// ErrEmptySource indicates that no source state was provided.
	ErrEmptySource = errors.New("dijkstra: source state is empty")

	// ErrNilGraph indicates that a nil *layered.Graph was passed to Dijkstra.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrSourceNotFound indicates that the source state is not a vertex of the graph.
	ErrSourceNotFound = errors.New("dijkstra: source state not found in graph")

	// ErrNegativeWeight indicates that a negative transition cost was detected.
	ErrNegativeWeight = errors.New("dijkstra: negative edge weight encountered")

	// ErrBadMaxDistance indicates that MaxDistance was set to a negative value.
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")

	// ErrBadInfThreshold indicates that InfEdgeThreshold was set to zero or negative,
	// which would treat all transitions (including free ones) as impassable.
	ErrBadInfThreshold = errors.New("dijkstra: InfEdgeThreshold must be positive")
)

// Options configures the behavior of the Dijkstra algorithm.
//
// MaxDistance      – must be ≥ 0. Default is Infinity (no cap).
// InfEdgeThreshold – must be > 0. Default is Infinity (no obstacles).
type Options struct {
	Source           layered.State                        // The source state
	ReturnPath       bool                                 // Whether to return the predecessor map
	MaxDistance      int64                                // Maximum distance to explore
	InfEdgeThreshold int64                                // Cost threshold above which transitions are non-traversable
	Ctx              context.Context                      // Cancellation
	OnVisit          func(s layered.State, d int64) error // Called when s is finalized at distance d
	Logger           *slog.Logger                         // Debug sink
}

// Option represents a functional option for configuring Dijkstra.
type Option func(*Options)

// Source sets the starting state. Must be called; the zero State is rejected
// with ErrEmptySource.
func Source(s layered.State) Option {
	return func(o *Options) {
		o.Source = s
	}
}

// WithReturnPath enables generation of the predecessor map in the result.
// If not set, the predecessor map is not returned (prev == nil).
func WithReturnPath() Option {
	return func(o *Options) {
		o.ReturnPath = true
	}
}

// WithMaxDistance sets a maximum distance threshold.
// States whose shortest distance would exceed this value are not explored.
// Negative values panic with ErrBadMaxDistance.
func WithMaxDistance(max int64) Option {
	return func(o *Options) {
		if max < 0 {
			panic(ErrBadMaxDistance.Error())
		}
		o.MaxDistance = max
	}
}

// WithInfEdgeThreshold defines a cost threshold at or above which transitions
// are considered non-traversable.
// Zero or negative values panic with ErrBadInfThreshold.
func WithInfEdgeThreshold(threshold int64) Option {
	return func(o *Options) {
		if threshold <= 0 {
			panic(ErrBadInfThreshold.Error())
		}
		o.InfEdgeThreshold = threshold
	}
}

// WithContext makes the search observe ctx. A nil ctx is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnVisit registers fn to be called each time a state is finalized.
// A non-nil error aborts the search and is returned to the caller.
func WithOnVisit(fn func(s layered.State, d int64) error) Option {
	return func(o *Options) {
		o.OnVisit = fn
	}
}

// WithLogger routes debug output to l. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// DefaultOptions returns an Options struct initialized with sensible defaults
// for the given source state.
//
// Defaults:
//   - Source:           <as passed> (validated in Dijkstra).
//   - ReturnPath:       false.
//   - MaxDistance:      Infinity.
//   - InfEdgeThreshold: Infinity.
//   - Ctx:              context.Background().
//   - OnVisit:          nil.
//   - Logger:           discards everything.
func DefaultOptions(source layered.State) Options {
	return Options{
		Source:           source,
		ReturnPath:       false,
		MaxDistance:      Infinity,
		InfEdgeThreshold: Infinity,
		Ctx:              context.Background(),
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
