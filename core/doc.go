// Package core provides the routing graph: a thread-safe, undirected,
// non-negatively weighted graph of named nodes (facilities, depots, transfer
// stations) connected by road segments.
//
// Storage is an arena of node slots. Each node is addressed by a Handle made of
// its slot index and a generation counter:
//
//   - Removing a node frees its slot and bumps the slot generation, so every
//     handle issued before the removal stops resolving (ErrStaleHandle), even
//     after the slot is reused by a new node.
//   - Surviving nodes keep their handles; nothing is renumbered on removal.
//
// Every undirected edge is stored as two arcs, one in each endpoint's adjacency
// list, sharing an edge id ("e1", "e2", ...). Arcs of one edge are inserted,
// re-weighted and removed together under a single write lock, so no reader ever
// observes an asymmetric graph.
//
// Configuration Options (GraphOption):
//
//	– WithMultiEdges()
//	    Every AddEdge creates a new parallel edge. Without it the graph keeps at
//	    most one edge per unordered pair and AddEdge on an existing pair updates
//	    its weight (last write wins).
//
// Core Methods:
//
//	// Node lifecycle
//	AddNode(name string) (Handle, error)          // O(1) amortized
//	RenameNode(h Handle, name string) error       // O(1)
//	RemoveNode(h Handle) error                    // O(deg(v) · deg(neighbor))
//
//	// Edge lifecycle
//	AddEdge(u, v string, w float64) (string, error) // O(deg(u))
//	SetEdgeWeight(u, v string, w float64) error     // O(deg(u)+deg(v))
//	RemoveEdge(u, v string) error                   // O(deg(u)+deg(v))
//
//	// Query
//	Nodes() []Node, NodeNames() []string, Neighbors(name) ([]Neighbor, error)
//	Edges() []Edge, Weight(u, v) (float64, error), CheckSymmetry() error
//
//	// Persistence
//	Snapshot() Snapshot, FromSnapshot(s Snapshot, opts ...GraphOption) (*Graph, error)
//
// Errors:
//
//	ErrEmptyNodeName   – zero-length node name
//	ErrDuplicateNode   – name already taken
//	ErrNodeNotFound    – unknown name or never-issued handle
//	ErrStaleHandle     – handle of a removed node
//	ErrLoopNotAllowed  – u == v
//	ErrNegativeWeight  – w < 0
//	ErrBadWeight       – NaN or ±Inf weight
//	ErrEdgeNotFound    – no arc between u and v
//	ErrUnpairedArc     – snapshot arc without a matching reverse arc
//	ErrBadEdgeID       – snapshot edge id malformed or used twice
package core
