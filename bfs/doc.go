// Package bfs provides breadth-first search over the routing graph
// (core.Graph), counting route legs rather than distance.
//
// What
//
//   - Explore nodes in non-decreasing number of legs from a start node.
//   - Returns a BFSResult containing:
//   - Order: visit sequence
//   - Depth: map from node → legs from start
//   - Parent: map from node → its predecessor in the BFS tree
//   - Allows filtering of individual arcs via WithFilterNeighbor; SkipClosed
//     filters out roads at or above a closure weight.
//   - Honors MaxDepth limit (d>0) or explicit “no limit” (d==0).
//
// Why
//
//   - Answer "which facilities are within N legs of this depot" and find
//     facilities disconnected from the network, neither of which needs weights.
//
// Determinism
//
//	core.Graph.Neighbors returns arcs in insertion order and BFS enqueues
//	neighbours in that order, so the visit sequence is reproducible for a
//	given sequence of graph mutations. Parallel edges are followed once.
//
// Complexity (V = |nodes|, E = |edges|)
//
//   - Time:   O(V + E)
//   - Memory: O(V)
//
// Errors
//
//   - ErrGraphNil             if the graph pointer is nil.
//   - ErrStartVertexNotFound  if the start node does not exist.
//   - ErrOptionViolation      if invalid Option (e.g. negative MaxDepth).
//   - ErrNeighbors            if a node disappears during the walk.
//   - ErrNotReached           from PathTo for nodes outside the BFS tree.
//   - Context errors on cancellation.
package bfs
