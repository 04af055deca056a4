// Package dijkstra computes single-source shortest routes over the routing
// graph (core.Graph), whose road segments carry non-negative float64 lengths.
//
// Overview:
//
//   - Dijkstra returns a *Result holding the distance and predecessor of every
//     node, so any number of routes from the same source can be rebuilt without
//     re-running the search.
//   - Two strategies produce identical distances:
//     StrategyHeap           – container/heap with lazy decrease-key, O((V+E) log V).
//     StrategyEdgeRelaxation – |V|−1 relaxation passes over the edge list, O(V·E),
//     with early exit once a pass changes nothing.
//   - Nodes the source cannot reach keep distance Unreachable (+Inf) and have no
//     path; PathTo reports ErrNoPath for them.
//   - Predecessor ties keep the first-discovered predecessor (relaxation uses a
//     strict "<"), so results are deterministic for a given graph.
//
// The graph is read once through core.Graph.Snapshot, so a search always works
// on one consistent image even if the graph is mutated concurrently.
//
// Options:
//
//	– Source(name)              starting node (required).
//	– WithMaxDistance(d)        nodes farther than d are reported unreachable (d ≥ 0).
//	– WithInfEdgeThreshold(t)   edges with weight ≥ t are impassable (t > 0).
//	– WithStrategy(s)           StrategyHeap (default) or StrategyEdgeRelaxation.
//
// Helpers:
//
//	ShortestPath(g, from, to, opts...) (Path, error)   one route, ErrNoPath if none
//	Nearest(g, from, opts...) (Path, error)            closest other reachable node
//
// Errors (sentinel):
//
//	ErrEmptySource, ErrNilGraph, ErrVertexNotFound, ErrBadMaxDistance,
//	ErrBadInfThreshold, ErrUnknownStrategy, ErrNoPath.
package dijkstra
