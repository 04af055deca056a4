// Package wastegrid is a facility registry and route planner for municipal
// waste networks.
//
// The module is organised as small packages that build on each other:
//
//	avl/       generic AVL tree with a pluggable merge policy for duplicate keys
//	facility/  registry of collection facilities on top of avl
//	core/      undirected weighted routing graph with stable generational handles
//	dijkstra/  single-source shortest paths (binary heap or edge relaxation)
//	bfs/       hop-count reachability over the routing graph
//	emission/  CO2 estimate per trip and a per-location emission ledger
//	store/     persistence: text files, SQLite or BadgerDB
//	session/   bcrypt credential gate for mutating operations
//	config/    YAML configuration
//	logging/   slog setup with an optional JSON log file
//	metrics/   Prometheus counters rendered as text
//	network/   service facade tying the above together
//
// The wastegrid command in cmd/wastegrid exposes the service on the command
// line.
package wastegrid
