// File: methods_nodes.go
// Role: Node lifecycle (AddNode/RenameNode/RemoveNode) and node queries.
// Determinism:
//   - Nodes() and NodeNames() follow slot order: creation order, with a
//     reused slot appearing where the removed node was.
// Concurrency:
//   - Mutations under mu write lock, queries under mu read lock.

package core

import (
	"fmt"
	"slices"
)

// AddNode creates a node named name and returns its handle.
// Freed slots are reused LIFO; a reused slot carries a new generation.
//
// Errors: ErrEmptyNodeName, ErrDuplicateNode.
// Complexity: O(1) amortized.
func (g *Graph) AddNode(name string) (Handle, error) {
	if name == "" {
		return Handle{}, ErrEmptyNodeName
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.byName[name]; ok {
		return Handle{}, fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}

	var idx uint32
	if n := len(g.free); n > 0 {
		idx = g.free[n-1]
		g.free = g.free[:n-1]
	} else {
		idx = uint32(len(g.slots))
		g.slots = append(g.slots, slot{})
	}
	s := &g.slots[idx]
	s.gen++
	s.live = true
	s.name = name
	s.arcs = nil

	h := Handle{slot: idx, gen: s.gen}
	g.byName[name] = h

	return h, nil
}

// RenameNode changes the display name of the node behind h. Handles, arcs and
// edge ids are untouched. Renaming a node to its own name is a no-op.
//
// Errors: ErrEmptyNodeName, ErrNodeNotFound, ErrStaleHandle, ErrDuplicateNode.
func (g *Graph) RenameNode(h Handle, name string) error {
	if name == "" {
		return ErrEmptyNodeName
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.resolve(h)
	if err != nil {
		return err
	}
	if s.name == name {
		return nil
	}
	if _, taken := g.byName[name]; taken {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}
	delete(g.byName, s.name)
	s.name = name
	g.byName[name] = h

	return nil
}

// RenameNodeByName is RenameNode addressed by the current name.
func (g *Graph) RenameNodeByName(oldName, newName string) error {
	h, ok := g.Handle(oldName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, oldName)
	}

	return g.RenameNode(h, newName)
}

// RemoveNode deletes the node behind h together with every incident edge,
// removing both arcs of each edge. The slot is freed and its generation bumped,
// so h and any copy of it resolve to ErrStaleHandle from now on. Handles of all
// other nodes remain valid.
//
// Errors: ErrNodeNotFound, ErrStaleHandle.
// Complexity: O(Σ deg(neighbor)) over the removed node's neighbours.
func (g *Graph) RemoveNode(h Handle) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.resolve(h)
	if err != nil {
		return err
	}

	for _, a := range s.arcs {
		delete(g.edges, a.EdgeID)
		nb := &g.slots[a.To.slot]
		nb.arcs = slices.DeleteFunc(nb.arcs, func(x Arc) bool { return x.To == h })
	}

	delete(g.byName, s.name)
	s.live = false
	s.name = ""
	s.arcs = nil
	s.gen++ // invalidate outstanding handles before the slot is reused
	g.free = append(g.free, h.slot)

	return nil
}

// RemoveNodeByName is RemoveNode addressed by name.
func (g *Graph) RemoveNodeByName(name string) error {
	h, ok := g.Handle(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}

	return g.RemoveNode(h)
}

// Handle returns the handle of the live node named name.
func (g *Graph) Handle(name string) (Handle, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	h, ok := g.byName[name]

	return h, ok
}

// Name returns the current name of the node behind h.
func (g *Graph) Name(h Handle) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, err := g.resolve(h)
	if err != nil {
		return "", err
	}

	return s.name, nil
}

// HasNode reports whether a live node is named name.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.Handle(name)

	return ok
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.byName)
}

// Nodes returns every live node in slot order.
func (g *Graph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Node, 0, len(g.byName))
	for i := range g.slots {
		s := &g.slots[i]
		if s.live {
			out = append(out, Node{Handle: Handle{slot: uint32(i), gen: s.gen}, Name: s.name})
		}
	}

	return out
}

// NodeNames returns the names of every live node in slot order.
func (g *Graph) NodeNames() []string {
	nodes := g.Nodes()
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}

	return out
}

// Arcs returns a copy of the adjacency list of h in insertion order.
//
// Errors: ErrNodeNotFound, ErrStaleHandle.
func (g *Graph) Arcs(h Handle) ([]Arc, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, err := g.resolve(h)
	if err != nil {
		return nil, err
	}

	return slices.Clone(s.arcs), nil
}

// Neighbors returns the adjacency list of the node named name with every arc
// resolved to the neighbour's current name. Parallel edges appear once each.
//
// Errors: ErrNodeNotFound.
func (g *Graph) Neighbors(name string) ([]Neighbor, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	h, err := g.lookup(name)
	if err != nil {
		return nil, err
	}
	s := &g.slots[h.slot]
	out := make([]Neighbor, 0, len(s.arcs))
	for _, a := range s.arcs {
		out = append(out, Neighbor{Name: g.slots[a.To.slot].name, Weight: a.Weight, EdgeID: a.EdgeID})
	}

	return out, nil
}

// Degree returns the number of arcs leaving the node named name.
func (g *Graph) Degree(name string) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	h, err := g.lookup(name)
	if err != nil {
		return 0, err
	}

	return len(g.slots[h.slot].arcs), nil
}
