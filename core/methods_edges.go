// File: methods_edges.go
// Role: Edge lifecycle (AddEdge/SetEdgeWeight/RemoveEdge) and edge queries.
// Determinism:
//   - Edges() returns edges in creation order of their ids ("e1", "e2", ...).
//   - newEdgeID() is monotonic and never reuses an id.
// Concurrency:
//   - Both arcs of an edge change under one mu write lock.

package core

import (
	"fmt"
	"slices"
	"strconv"
)

// edgeIDPrefix is the textual prefix of edge ids.
const edgeIDPrefix = 'e'

// AddEdge connects u and v with an undirected edge of weight w and returns the
// edge id.
//
// Without WithMultiEdges an existing u–v edge is re-weighted in place (both
// arcs) and its id is returned; the pair never holds more than one edge. With
// WithMultiEdges each call appends a new parallel edge.
//
// Steps:
//  1. Validate weight and loop outside the lock.
//  2. Resolve both names under the write lock.
//  3. Update the existing pair, or append one arc to each endpoint.
//
// Errors: ErrBadWeight, ErrNegativeWeight, ErrLoopNotAllowed, ErrNodeNotFound.
// Complexity: O(deg(u)+deg(v)) for the pair lookup, O(1) amortized otherwise.
func (g *Graph) AddEdge(u, v string, w float64) (string, error) {
	if err := checkWeight(w); err != nil {
		return "", err
	}
	if u == v {
		return "", fmt.Errorf("%w: %q", ErrLoopNotAllowed, u)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	hu, err := g.lookup(u)
	if err != nil {
		return "", err
	}
	hv, err := g.lookup(v)
	if err != nil {
		return "", err
	}

	if !g.allowMulti {
		for _, a := range g.slots[hu.slot].arcs {
			if a.To == hv {
				g.reweight(hu, hv, w)

				return a.EdgeID, nil
			}
		}
	}

	eid, seq := g.newEdgeID()
	g.edges[eid] = &edgeRec{seq: seq, u: hu, v: hv, weight: w}
	su, sv := &g.slots[hu.slot], &g.slots[hv.slot]
	su.arcs = append(su.arcs, Arc{To: hv, Weight: w, EdgeID: eid})
	sv.arcs = append(sv.arcs, Arc{To: hu, Weight: w, EdgeID: eid})

	return eid, nil
}

// SetEdgeWeight sets weight w on every arc between u and v, in both directions.
//
// Errors: ErrBadWeight, ErrNegativeWeight, ErrNodeNotFound, ErrEdgeNotFound
// (returned unless arcs exist in both directions).
func (g *Graph) SetEdgeWeight(u, v string, w float64) error {
	if err := checkWeight(w); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	hu, hv, err := g.pair(u, v)
	if err != nil {
		return err
	}
	g.reweight(hu, hv, w)

	return nil
}

// RemoveEdge deletes every edge between u and v, both arcs of each.
//
// Errors: ErrNodeNotFound, ErrEdgeNotFound.
func (g *Graph) RemoveEdge(u, v string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	hu, hv, err := g.pair(u, v)
	if err != nil {
		return err
	}
	su, sv := &g.slots[hu.slot], &g.slots[hv.slot]
	su.arcs = slices.DeleteFunc(su.arcs, func(a Arc) bool {
		if a.To == hv {
			delete(g.edges, a.EdgeID)

			return true
		}

		return false
	})
	sv.arcs = slices.DeleteFunc(sv.arcs, func(a Arc) bool { return a.To == hu })

	return nil
}

// HasEdge reports whether any edge connects u and v.
func (g *Graph) HasEdge(u, v string) bool {
	_, err := g.Weight(u, v)

	return err == nil
}

// Weight returns the weight of the u–v edge. With parallel edges the smallest
// weight is returned, which is the one any shortest path would take.
//
// Errors: ErrNodeNotFound, ErrEdgeNotFound.
func (g *Graph) Weight(u, v string) (float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	hu, hv, err := g.pair(u, v)
	if err != nil {
		return 0, err
	}
	best, found := 0.0, false
	for _, a := range g.slots[hu.slot].arcs {
		if a.To == hv && (!found || a.Weight < best) {
			best, found = a.Weight, true
		}
	}

	return best, nil
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.edges)
}

// Edges returns one entry per undirected edge, ordered by id creation.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := g.edgeIDs()
	out := make([]Edge, len(ids))
	for i, id := range ids {
		r := g.edges[id]
		out[i] = Edge{
			ID:     id,
			From:   g.slots[r.u.slot].name,
			To:     g.slots[r.v.slot].name,
			Weight: r.weight,
		}
	}

	return out
}

// CheckSymmetry verifies that every arc points at a live node and has a
// reverse arc with the same edge id and weight. It returns nil on a consistent
// graph; a non-nil result means internal corruption.
func (g *Graph) CheckSymmetry() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	arcs := 0
	for i := range g.slots {
		s := &g.slots[i]
		if !s.live {
			continue
		}
		self := Handle{slot: uint32(i), gen: s.gen}
		for _, a := range s.arcs {
			arcs++
			nb, err := g.resolve(a.To)
			if err != nil {
				return fmt.Errorf("arc %s of %q: %w", a.EdgeID, s.name, err)
			}
			idx := slices.IndexFunc(nb.arcs, func(x Arc) bool { return x.EdgeID == a.EdgeID && x.To == self })
			if idx < 0 {
				return fmt.Errorf("%w: %s %q→%q has no reverse", ErrEdgeNotFound, a.EdgeID, s.name, nb.name)
			}
			if nb.arcs[idx].Weight != a.Weight {
				return fmt.Errorf("%w: %s weights %v and %v differ", ErrBadWeight, a.EdgeID, a.Weight, nb.arcs[idx].Weight)
			}
			if r, ok := g.edges[a.EdgeID]; !ok || r.weight != a.Weight {
				return fmt.Errorf("%w: %s missing from catalog or stale", ErrEdgeNotFound, a.EdgeID)
			}
		}
	}
	if arcs != 2*len(g.edges) {
		return fmt.Errorf("core: %d arcs for %d edges", arcs, len(g.edges))
	}

	return nil
}

// pair resolves u and v and fails unless arcs join them in both directions.
// Caller holds mu.
func (g *Graph) pair(u, v string) (Handle, Handle, error) {
	hu, err := g.lookup(u)
	if err != nil {
		return Handle{}, Handle{}, err
	}
	hv, err := g.lookup(v)
	if err != nil {
		return Handle{}, Handle{}, err
	}
	has := func(from, to Handle) bool {
		return slices.ContainsFunc(g.slots[from.slot].arcs, func(a Arc) bool { return a.To == to })
	}
	if !has(hu, hv) || !has(hv, hu) {
		return Handle{}, Handle{}, fmt.Errorf("%w: %q–%q", ErrEdgeNotFound, u, v)
	}

	return hu, hv, nil
}

// reweight sets w on all arcs between hu and hv and on their catalog entries.
// Caller holds mu.
func (g *Graph) reweight(hu, hv Handle, w float64) {
	set := func(from, to Handle) {
		arcs := g.slots[from.slot].arcs
		for i := range arcs {
			if arcs[i].To == to {
				arcs[i].Weight = w
				g.edges[arcs[i].EdgeID].weight = w
			}
		}
	}
	set(hu, hv)
	set(hv, hu)
}

// newEdgeID returns a fresh id "e<n>" and its sequence number n.
// Caller holds mu.
func (g *Graph) newEdgeID() (string, uint64) {
	g.edgeSeq++
	buf := make([]byte, 0, 8)
	buf = append(buf, edgeIDPrefix)
	buf = strconv.AppendUint(buf, g.edgeSeq, 10)

	return string(buf), g.edgeSeq
}
