// File: types.go
// Role: Graph, Handle, Arc, Node, Edge, options, sentinel errors and NewGraph.
// Concurrency:
//   - Graph guards all state with one sync.RWMutex (mu).

package core

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrEmptyNodeName indicates a node name of zero length.
	ErrEmptyNodeName = errors.New("core: node name is empty")

	// ErrDuplicateNode indicates the name is already used by a live node.
	ErrDuplicateNode = errors.New("core: duplicate node name")

	// ErrNodeNotFound indicates an unknown node name or a never-issued handle.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrStaleHandle indicates the handle refers to a node that was removed.
	ErrStaleHandle = errors.New("core: stale node handle")

	// ErrLoopNotAllowed indicates an edge from a node to itself.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrNegativeWeight indicates a weight below zero.
	ErrNegativeWeight = errors.New("core: negative edge weight")

	// ErrBadWeight indicates a NaN or infinite weight.
	ErrBadWeight = errors.New("core: weight must be finite")

	// ErrEdgeNotFound indicates no edge connects the two nodes.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrUnpairedArc indicates a snapshot arc without its reverse arc.
	ErrUnpairedArc = errors.New("core: arc has no matching reverse arc")

	// ErrBadEdgeID indicates a snapshot edge id that is malformed or already
	// taken by another edge.
	ErrBadEdgeID = errors.New("core: malformed or duplicate edge id")
)

// Handle is an opaque, stable reference to a node. The zero Handle never
// resolves.
type Handle struct {
	slot uint32
	gen  uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

// String renders the handle as slot#generation, for logs only.
func (h Handle) String() string { return fmt.Sprintf("%d#%d", h.slot, h.gen) }

// Arc is one direction of an undirected edge, stored in the adjacency list of
// its tail node.
type Arc struct {
	To     Handle
	Weight float64
	EdgeID string
}

// Node pairs a live node's handle with its current name.
type Node struct {
	Handle Handle
	Name   string
}

// Neighbor is an Arc resolved to the neighbour's current name.
type Neighbor struct {
	Name   string
	Weight float64
	EdgeID string
}

// Edge describes one undirected edge by the current names of its endpoints.
// From is the endpoint that was passed first to AddEdge.
type Edge struct {
	ID     string
	From   string
	To     string
	Weight float64
}

// GraphOption configures a Graph at construction.
type GraphOption func(g *Graph)

// WithMultiEdges makes every AddEdge create a new parallel edge instead of
// updating the existing one.
func WithMultiEdges() GraphOption {
	return func(g *Graph) { g.allowMulti = true }
}

// slot is one arena cell. A free slot has live == false and keeps its
// generation so the next occupant gets gen+1.
type slot struct {
	name string
	gen  uint32
	live bool
	arcs []Arc
}

// edgeRec is the catalog entry of one undirected edge.
type edgeRec struct {
	seq    uint64
	u, v   Handle
	weight float64
}

// Graph is the in-memory routing graph. The zero value is not usable; call
// NewGraph.
type Graph struct {
	mu sync.RWMutex

	allowMulti bool

	slots  []slot
	free   []uint32          // reusable slot indices, LIFO
	byName map[string]Handle // live name → handle
	edges  map[string]*edgeRec

	edgeSeq uint64 // last issued edge id number
}

// NewGraph creates an empty Graph. By default the graph keeps one edge per
// unordered pair of nodes.
// Complexity: O(1)
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		byName: make(map[string]Handle),
		edges:  make(map[string]*edgeRec),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// MultiEdges reports whether the graph accumulates parallel edges.
func (g *Graph) MultiEdges() bool { return g.allowMulti }

// resolve maps a handle to its live slot. Caller holds mu.
func (g *Graph) resolve(h Handle) (*slot, error) {
	if h.IsZero() || int(h.slot) >= len(g.slots) {
		return nil, fmt.Errorf("%w: handle %s", ErrNodeNotFound, h)
	}
	s := &g.slots[h.slot]
	if !s.live || s.gen != h.gen {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}

	return s, nil
}

// lookup maps a name to its handle. Caller holds mu.
func (g *Graph) lookup(name string) (Handle, error) {
	h, ok := g.byName[name]
	if !ok {
		return Handle{}, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}

	return h, nil
}

func checkWeight(w float64) error {
	switch {
	case math.IsNaN(w) || math.IsInf(w, 0):
		return fmt.Errorf("%w: got %v", ErrBadWeight, w)
	case w < 0:
		return fmt.Errorf("%w: got %v", ErrNegativeWeight, w)
	}

	return nil
}
