package dijkstra

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by the shortest-path functions.
var (
	// ErrEmptySource indicates that no source node was given.
	ErrEmptySource = errors.New("dijkstra: source node is empty")

	// ErrNilGraph indicates that a nil *core.Graph was passed.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrVertexNotFound indicates that a named node does not exist in the graph.
	ErrVertexNotFound = errors.New("dijkstra: node not found in graph")

	// ErrBadMaxDistance indicates a negative or NaN MaxDistance.
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")

	// ErrBadInfThreshold indicates a zero, negative or NaN InfEdgeThreshold.
	ErrBadInfThreshold = errors.New("dijkstra: InfEdgeThreshold must be positive")

	// ErrUnknownStrategy indicates a Strategy value outside the declared set.
	ErrUnknownStrategy = errors.New("dijkstra: unknown strategy")

	// ErrNoPath indicates the target cannot be reached from the source.
	ErrNoPath = errors.New("dijkstra: no path")
)

// Unreachable is the distance reported for nodes the source cannot reach.
var Unreachable = math.Inf(1)

// Strategy selects the relaxation algorithm.
type Strategy int

const (
	// StrategyHeap is the binary-heap Dijkstra with lazy decrease-key.
	StrategyHeap Strategy = iota

	// StrategyEdgeRelaxation relaxes every edge |V|−1 times (Bellman-Ford
	// order). Slower, but a useful cross-check and the variant used by the
	// emission accounting tools.
	StrategyEdgeRelaxation
)

// String returns the CLI spelling of s.
func (s Strategy) String() string {
	switch s {
	case StrategyHeap:
		return "heap"
	case StrategyEdgeRelaxation:
		return "relax"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps "heap" or "relax" to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "heap", "":
		return StrategyHeap, nil
	case "relax", "edge-relaxation":
		return StrategyEdgeRelaxation, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Options configures a shortest-path search.
//
// Source           – starting node name (must be non-empty and present).
// MaxDistance      – nodes farther than this are left Unreachable. Default +Inf.
// InfEdgeThreshold – edges with weight ≥ this value are skipped. Default +Inf.
// Strategy         – relaxation algorithm. Default StrategyHeap.
type Options struct {
	Source           string
	MaxDistance      float64
	InfEdgeThreshold float64
	Strategy         Strategy

	target string // stop once this node is settled; set by ShortestPath
}

// Option represents a functional option for configuring Dijkstra.
type Option func(*Options)

// Source sets the starting node.
func Source(name string) Option {
	return func(o *Options) { o.Source = name }
}

// WithMaxDistance caps the explored distance. Validated by Dijkstra
// (ErrBadMaxDistance on negative or NaN).
func WithMaxDistance(d float64) Option {
	return func(o *Options) { o.MaxDistance = d }
}

// WithInfEdgeThreshold marks edges with weight ≥ t as impassable. Validated by
// Dijkstra (ErrBadInfThreshold unless t > 0).
func WithInfEdgeThreshold(t float64) Option {
	return func(o *Options) { o.InfEdgeThreshold = t }
}

// WithStrategy selects the relaxation algorithm.
func WithStrategy(s Strategy) Option {
	return func(o *Options) { o.Strategy = s }
}

// DefaultOptions returns the defaults for the given source: no distance cap,
// no impassable edges, heap strategy.
func DefaultOptions(source string) Options {
	return Options{
		Source:           source,
		MaxDistance:      math.Inf(1),
		InfEdgeThreshold: math.Inf(1),
		Strategy:         StrategyHeap,
	}
}

func (o *Options) validate() error {
	if o.Source == "" {
		return ErrEmptySource
	}
	if math.IsNaN(o.MaxDistance) || o.MaxDistance < 0 {
		return fmt.Errorf("%w: got %v", ErrBadMaxDistance, o.MaxDistance)
	}
	if math.IsNaN(o.InfEdgeThreshold) || o.InfEdgeThreshold <= 0 {
		return fmt.Errorf("%w: got %v", ErrBadInfThreshold, o.InfEdgeThreshold)
	}
	if o.Strategy != StrategyHeap && o.Strategy != StrategyEdgeRelaxation {
		return fmt.Errorf("%w: %d", ErrUnknownStrategy, int(o.Strategy))
	}

	return nil
}

// Path is one route: the node names from source to target inclusive, and
// its total length.
type Path struct {
	Nodes    []string
	Distance float64
}
