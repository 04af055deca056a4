package dijkstra

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/katalvlaran/wastegrid/core"
)

// Result holds the outcome of one search: a distance and a predecessor for
// every node that existed when the search started.
type Result struct {
	source int
	names  []string
	index  map[string]int
	dist   []float64
	prev   []int // -1 for the source and unreachable nodes
}

func newResult(v *view, src int) *Result {
	r := &Result{
		source: src,
		names:  v.names,
		index:  v.index,
		dist:   make([]float64, len(v.names)),
		prev:   make([]int, len(v.names)),
	}
	for i := range r.dist {
		r.dist[i] = Unreachable
		r.prev[i] = -1
	}

	return r
}

// Source returns the name of the source node.
func (r *Result) Source() string { return r.names[r.source] }

// Distance returns the shortest distance to name. ok is false when name is
// unknown or unreachable, in which case the distance is Unreachable.
func (r *Result) Distance(name string) (float64, bool) {
	i, known := r.index[name]
	if !known {
		return Unreachable, false
	}

	return r.dist[i], r.dist[i] != Unreachable
}

// Distances returns the distance of every node, Unreachable included.
func (r *Result) Distances() map[string]float64 {
	out := make(map[string]float64, len(r.names))
	for i, n := range r.names {
		out[n] = r.dist[i]
	}

	return out
}

// Predecessor returns the node preceding name on its shortest path. ok is
// false for the source, unknown and unreachable nodes.
func (r *Result) Predecessor(name string) (string, bool) {
	i, known := r.index[name]
	if !known || r.prev[i] < 0 {
		return "", false
	}

	return r.names[r.prev[i]], true
}

// PathTo rebuilds the route from the source to name by walking predecessors.
// The path to the source itself is just [source].
//
// Errors: ErrVertexNotFound, ErrNoPath.
func (r *Result) PathTo(name string) ([]string, error) {
	i, known := r.index[name]
	if !known {
		return nil, fmt.Errorf("%w: %q", ErrVertexNotFound, name)
	}
	if r.dist[i] == Unreachable {
		return nil, fmt.Errorf("%w: %q to %q", ErrNoPath, r.Source(), name)
	}

	var rev []string
	for at := i; at >= 0; at = r.prev[at] {
		rev = append(rev, r.names[at])
	}
	slices.Reverse(rev)

	return rev, nil
}

// Reachable returns every reachable node, the source included, by ascending
// distance with ties broken by name.
func (r *Result) Reachable() []string {
	idx := make([]int, 0, len(r.names))
	for i, d := range r.dist {
		if d != Unreachable {
			idx = append(idx, i)
		}
	}
	slices.SortFunc(idx, func(a, b int) int {
		if c := cmp.Compare(r.dist[a], r.dist[b]); c != 0 {
			return c
		}

		return cmp.Compare(r.names[a], r.names[b])
	})

	out := make([]string, len(idx))
	for k, i := range idx {
		out[k] = r.names[i]
	}

	return out
}

// ShortestPath returns the shortest route from one node to another. The heap
// strategy stops as soon as the target is settled.
//
// An unreachable target yields ErrNoPath with Path.Distance == Unreachable.
// Errors from Dijkstra are returned unchanged; an unknown target is
// ErrVertexNotFound.
func ShortestPath(g *core.Graph, from, to string, opts ...Option) (Path, error) {
	all := append(slices.Clone(opts), Source(from), func(o *Options) { o.target = to })
	res, err := Dijkstra(g, all...)
	if err != nil {
		return Path{Distance: Unreachable}, err
	}
	nodes, err := res.PathTo(to)
	if err != nil {
		return Path{Distance: Unreachable}, err
	}
	d, _ := res.Distance(to)

	return Path{Nodes: nodes, Distance: d}, nil
}

// Nearest returns the route to the closest reachable node other than from.
// Ties are broken by name. ErrNoPath is returned when from is isolated.
func Nearest(g *core.Graph, from string, opts ...Option) (Path, error) {
	all := append(slices.Clone(opts), Source(from))
	res, err := Dijkstra(g, all...)
	if err != nil {
		return Path{Distance: Unreachable}, err
	}
	reach := res.Reachable()
	for _, name := range reach {
		if name == from {
			continue
		}
		nodes, _ := res.PathTo(name)
		d, _ := res.Distance(name)

		return Path{Nodes: nodes, Distance: d}, nil
	}

	return Path{Distance: Unreachable}, fmt.Errorf("%w: %q has no reachable neighbour", ErrNoPath, from)
}
