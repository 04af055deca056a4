package bfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/wastegrid/core"
)

// ErrNeighbors is returned when fetching neighbors from the graph fails.
var ErrNeighbors = errors.New("bfs: neighbor iteration error")

// queueItem pairs a node name with its BFS depth.
type queueItem struct {
	id    string
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	graph   *core.Graph
	opts    BFSOptions
	ctx     context.Context
	queue   []queueItem
	visited map[string]bool
	res     *BFSResult
}

// BFS runs breadth-first search on g starting from start, applying any number
// of functional Options. Edge weights are ignored: depth counts route legs.
// Returns ErrGraphNil or ErrStartVertexNotFound for invalid input,
// ErrOptionViolation for bad options, ErrNeighbors for graph failures (a node
// removed mid-walk), or the context error on cancellation.
func BFS(g *core.Graph, start string, opts ...Option) (*BFSResult, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	if !g.HasNode(start) {
		return nil, fmt.Errorf("%w: %q", ErrStartVertexNotFound, start)
	}

	n := g.NodeCount()
	w := &walker{
		graph:   g,
		opts:    o,
		ctx:     o.Ctx,
		queue:   make([]queueItem, 0, n),
		visited: make(map[string]bool, n),
		res: &BFSResult{
			Order:  make([]string, 0, n),
			Depth:  make(map[string]int, n),
			Parent: make(map[string]string, n),
		},
	}

	w.enqueue(start, 0, "")

	return w.res, w.loop()
}

// enqueue marks id visited at depth d, records its parent, and adds it to
// the queue.
func (w *walker) enqueue(id string, d int, parent string) {
	w.visited[id] = true
	w.res.Depth[id] = d
	if parent != "" {
		w.res.Parent[id] = parent
	}
	w.queue = append(w.queue, queueItem{id: id, depth: d})
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		if err := w.ctx.Err(); err != nil {
			return err
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.id)
		if err := w.enqueueNeighbors(item); err != nil {
			return err
		}
	}

	return nil
}

// enqueueNeighbors walks the adjacency list of item in insertion order,
// applies filtering and MaxDepth, and enqueues each unseen neighbour once.
func (w *walker) enqueueNeighbors(item queueItem) error {
	nextDepth := item.depth + 1
	if w.opts.MaxDepth > 0 && nextDepth > w.opts.MaxDepth {
		return nil
	}
	neighbors, err := w.graph.Neighbors(item.id)
	if err != nil {
		return fmt.Errorf("%w: neighbors of %q: %w", ErrNeighbors, item.id, err)
	}
	for _, nb := range neighbors {
		if w.visited[nb.Name] || !w.opts.FilterNeighbor(item.id, nb) {
			continue
		}
		w.enqueue(nb.Name, nextDepth, item.id)
	}

	return nil
}

// Within returns every node reachable from start in at most maxHops legs,
// start excluded, in visit order. maxHops == 0 means no limit. opts are
// applied after the context and depth options.
func Within(ctx context.Context, g *core.Graph, start string, maxHops int, opts ...Option) ([]string, error) {
	res, err := BFS(g, start, append([]Option{WithContext(ctx), WithMaxDepth(maxHops)}, opts...)...)
	if err != nil {
		return nil, err
	}

	return res.Order[1:], nil
}
