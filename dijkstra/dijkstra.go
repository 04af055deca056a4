package dijkstra

import (
	"container/heap"
	"fmt"

	"github.com/katalvlaran/wastegrid/core"
)

// Dijkstra computes shortest distances from Options.Source to every node of g.
//
// Preconditions and validation (in order):
//  1. Options are valid (ErrEmptySource, ErrBadMaxDistance, ErrBadInfThreshold,
//     ErrUnknownStrategy).
//  2. g is non-nil (ErrNilGraph).
//  3. g contains Source (ErrVertexNotFound).
//
// Edge weights need no pre-scan: core.Graph rejects negative and non-finite
// weights on insert.
//
// Complexity:
//
//   - StrategyHeap:           O((V + E) log V) time, O(V + E) space.
//   - StrategyEdgeRelaxation: O(V · E) time worst case, O(V + E) space.
func Dijkstra(g *core.Graph, opts ...Option) (*Result, error) {
	cfg := DefaultOptions("")
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrNilGraph
	}

	v := newView(g)
	src, ok := v.index[cfg.Source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrVertexNotFound, cfg.Source)
	}
	target := -1
	if cfg.target != "" {
		if t, ok := v.index[cfg.target]; ok {
			target = t
		}
	}

	res := newResult(v, src)
	switch cfg.Strategy {
	case StrategyEdgeRelaxation:
		relaxEdges(v, res, cfg)
	default:
		r := &runner{v: v, options: cfg, res: res, target: target, visited: make([]bool, len(v.names))}
		r.init()
		r.process()
	}

	return res, nil
}

// view is a dense, read-only image of the graph taken under one read lock.
type view struct {
	names []string
	index map[string]int
	adj   [][]core.ArcRecord // adj[u] = arcs leaving u in adjacency order
	arcs  []core.ArcRecord
}

func newView(g *core.Graph) *view {
	snap := g.Snapshot()
	v := &view{
		names: snap.Nodes,
		index: make(map[string]int, len(snap.Nodes)),
		adj:   make([][]core.ArcRecord, len(snap.Nodes)),
		arcs:  snap.Arcs,
	}
	for i, n := range snap.Nodes {
		v.index[n] = i
	}
	for _, a := range snap.Arcs {
		v.adj[a.From] = append(v.adj[a.From], a)
	}

	return v
}

// runner holds the mutable state for a single heap-based execution.
type runner struct {
	v       *view
	options Options
	res     *Result
	target  int // -1 unless ShortestPath asked for early exit
	visited []bool
	pq      nodePQ
}

// init sets the source distance to zero and seeds the heap.
func (r *runner) init() {
	r.res.dist[r.res.source] = 0
	heap.Init(&r.pq)
	heap.Push(&r.pq, &nodeItem{id: r.res.source, dist: 0})
}

// process repeatedly settles the closest unsettled node and relaxes its arcs.
//
// Loop termination conditions:
//
//   - The heap becomes empty (all reachable nodes settled).
//   - The smallest heap distance exceeds MaxDistance.
//   - The early-exit target has been settled.
func (r *runner) process() {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.id
		if r.visited[u] || item.dist > r.res.dist[u] {
			continue // stale entry
		}
		if item.dist > r.options.MaxDistance {
			break
		}
		r.visited[u] = true
		if u == r.target {
			break
		}
		r.relax(u)
	}
}

// relax improves the distances of u's neighbours through u. Edges at or above
// InfEdgeThreshold and candidates beyond MaxDistance are skipped. Only a
// strictly shorter distance replaces the current predecessor.
func (r *runner) relax(u int) {
	du := r.res.dist[u]
	for _, a := range r.v.adj[u] {
		if a.Weight >= r.options.InfEdgeThreshold {
			continue
		}
		nd := du + a.Weight
		if nd > r.options.MaxDistance || nd >= r.res.dist[a.To] {
			continue
		}
		r.res.dist[a.To] = nd
		r.res.prev[a.To] = u
		heap.Push(&r.pq, &nodeItem{id: a.To, dist: nd})
	}
}

// nodeItem is a heap entry: a node index and a tentative distance.
type nodeItem struct {
	id   int
	dist float64
}

// nodePQ is a min-heap of *nodeItem ordered by distance, then node index.
// Outdated entries stay in the heap and are skipped when popped.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].id < pq[j].id
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x any) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return item
}
