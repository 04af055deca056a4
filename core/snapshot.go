// File: snapshot.go
// Role: Dense positional export/import of the graph for persistence backends.
// Determinism:
//   - Snapshot() lists nodes in slot order and arcs edge by edge in id order,
//     so the same graph always yields the same snapshot.
//   - Every adjacency list is kept in edge id order, so the arc order of a
//     snapshot is also each node's adjacency order and FromSnapshot(Snapshot())
//     reproduces the graph exactly.

package core

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// ArcRecord is one directed arc by dense node position. Edge is the id shared
// by both arcs of an undirected edge. It may be empty in hand-written input,
// in which case arcs are paired by endpoints and weight and get fresh ids.
type ArcRecord struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Weight float64 `json:"weight"`
	Edge   string  `json:"edge,omitempty"`
}

// Snapshot is a handle-free image of the graph. Nodes[i] is the name of the
// node at position i; every undirected edge contributes two ArcRecords.
type Snapshot struct {
	Nodes []string    `json:"nodes"`
	Arcs  []ArcRecord `json:"arcs"`
}

// Snapshot exports the graph with positions 0..N-1 assigned in slot order.
// Each edge yields its From→To arc followed by the To→From arc.
// Complexity: O(V + E log E).
func (g *Graph) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	pos := make(map[uint32]int, len(g.byName))
	snap := Snapshot{Nodes: make([]string, 0, len(g.byName))}
	for i := range g.slots {
		if g.slots[i].live {
			pos[uint32(i)] = len(snap.Nodes)
			snap.Nodes = append(snap.Nodes, g.slots[i].name)
		}
	}
	ids := g.edgeIDs()
	snap.Arcs = make([]ArcRecord, 0, 2*len(ids))
	for _, id := range ids {
		r := g.edges[id]
		u, v := pos[r.u.slot], pos[r.v.slot]
		snap.Arcs = append(snap.Arcs,
			ArcRecord{From: u, To: v, Weight: r.weight, Edge: id},
			ArcRecord{From: v, To: u, Weight: r.weight, Edge: id},
		)
	}

	return snap
}

// FromSnapshot rebuilds a graph from s.
//
// Arcs are paired with their reverse (endpoints swapped, same weight, same
// edge id) and each pair becomes one undirected edge that keeps its id. Arcs
// without an id get fresh ids above the largest id in s. An arc with no
// reverse is still restored as an undirected edge and reported with
// ErrUnpairedArc. Malformed or repeated ids are replaced and reported with
// ErrBadEdgeID. Nodes or arcs that cannot be added (duplicate or empty names,
// positions out of range, bad weights, self-loops) are skipped and reported.
// Without WithMultiEdges a second edge between the same pair re-weights the
// first one, as AddEdge does.
//
// The returned graph is never nil and always consistent; a non-nil error is a
// joined list of everything that was skipped or repaired, in input order.
// Complexity: O(V + E log E).
func FromSnapshot(s Snapshot, opts ...GraphOption) (*Graph, error) {
	g := NewGraph(opts...)
	var errs []error

	hs := make([]Handle, len(s.Nodes))
	for i, name := range s.Nodes {
		h, err := g.AddNode(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("node %d: %w", i, err))
			continue
		}
		hs[i] = h
	}
	valid := func(i int) bool { return i >= 0 && i < len(hs) && !hs[i].IsZero() }

	for _, a := range s.Arcs {
		if seq, ok := parseEdgeID(a.Edge); ok {
			g.edgeSeq = max(g.edgeSeq, seq)
		}
	}

	type key struct {
		edge     string
		from, to int
		w        float64
	}
	type openEdge struct {
		arc    int    // index of the first arc in s.Arcs
		id     string // id in g.edges
		paired bool
		merged bool // folded into an earlier edge of the same pair
	}
	var opened []*openEdge
	waiting := make(map[key][]*openEdge)
	used := make(map[string]bool)

	for i, a := range s.Arcs {
		if !valid(a.From) || !valid(a.To) {
			errs = append(errs, fmt.Errorf("arc %d (%d→%d): %w", i, a.From, a.To, ErrNodeNotFound))
			continue
		}
		hu, hv := hs[a.From], hs[a.To]

		rev := key{edge: a.Edge, from: a.To, to: a.From, w: a.Weight}
		if q := waiting[rev]; len(q) > 0 {
			o := q[0]
			waiting[rev] = q[1:]
			o.paired = true
			if !o.merged {
				su := &g.slots[hu.slot]
				su.arcs = append(su.arcs, Arc{To: hv, Weight: g.edges[o.id].weight, EdgeID: o.id})
			}
			continue
		}

		if err := checkWeight(a.Weight); err != nil {
			errs = append(errs, fmt.Errorf("arc %d (%d→%d): %w", i, a.From, a.To, err))
			continue
		}
		if a.From == a.To {
			errs = append(errs, fmt.Errorf("arc %d (%d→%d): %w", i, a.From, a.To, ErrLoopNotAllowed))
			continue
		}

		o := &openEdge{arc: i}
		if existing, ok := g.arcTo(hu, hv); ok && !g.allowMulti {
			g.reweight(hu, hv, a.Weight)
			o.id, o.merged = existing, true
		} else {
			o.id = a.Edge
			seq, ok := parseEdgeID(a.Edge)
			if !ok || used[a.Edge] {
				if a.Edge != "" {
					errs = append(errs, fmt.Errorf("arc %d: %w: %q", i, ErrBadEdgeID, a.Edge))
				}
				o.id, seq = g.newEdgeID()
			}
			used[o.id] = true
			g.edges[o.id] = &edgeRec{seq: seq, u: hu, v: hv, weight: a.Weight}
			su := &g.slots[hu.slot]
			su.arcs = append(su.arcs, Arc{To: hv, Weight: a.Weight, EdgeID: o.id})
		}
		opened = append(opened, o)
		k := key{edge: a.Edge, from: a.From, to: a.To, w: a.Weight}
		waiting[k] = append(waiting[k], o)
	}

	for _, o := range opened {
		if o.paired {
			continue
		}
		if !o.merged {
			r := g.edges[o.id]
			sv := &g.slots[r.v.slot]
			sv.arcs = append(sv.arcs, Arc{To: r.u, Weight: r.weight, EdgeID: o.id})
		}
		a := s.Arcs[o.arc]
		errs = append(errs, fmt.Errorf("%w: arc %d %q→%q weight %v", ErrUnpairedArc, o.arc, s.Nodes[a.From], s.Nodes[a.To], a.Weight))
	}

	for i := range g.slots {
		slices.SortStableFunc(g.slots[i].arcs, func(x, y Arc) int {
			return cmp.Compare(g.edges[x.EdgeID].seq, g.edges[y.EdgeID].seq)
		})
	}

	return g, errors.Join(errs...)
}

// edgeIDs returns the ids of all edges in creation order. Caller holds mu.
func (g *Graph) edgeIDs() []string {
	return slices.SortedFunc(maps.Keys(g.edges), func(a, b string) int {
		return cmp.Compare(g.edges[a].seq, g.edges[b].seq)
	})
}

// arcTo returns the edge id of the first arc from hu to hv. Caller holds mu.
func (g *Graph) arcTo(hu, hv Handle) (string, bool) {
	for _, a := range g.slots[hu.slot].arcs {
		if a.To == hv {
			return a.EdgeID, true
		}
	}

	return "", false
}

// parseEdgeID returns the sequence number of a canonical edge id ("e7" → 7).
func parseEdgeID(id string) (uint64, bool) {
	if len(id) < 2 || id[0] != edgeIDPrefix {
		return 0, false
	}
	n, err := strconv.ParseUint(id[1:], 10, 64)
	if err != nil || n == 0 || strconv.FormatUint(n, 10) != id[1:] {
		return 0, false
	}

	return n, true
}
