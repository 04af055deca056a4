package dijkstra_test

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wastegrid/core"
	"github.com/katalvlaran/wastegrid/dijkstra"
)

// build creates a default graph from "u v w" triples, adding nodes on demand.
func build(t *testing.T, edges ...string) *core.Graph {
	t.Helper()
	g := core.NewGraph()
	for _, e := range edges {
		var u, v string
		var w float64
		_, err := fmt.Sscanf(e, "%s %s %g", &u, &v, &w)
		require.NoError(t, err)
		for _, n := range []string{u, v} {
			if !g.HasNode(n) {
				_, err := g.AddNode(n)
				require.NoError(t, err)
			}
		}
		_, err = g.AddEdge(u, v, w)
		require.NoError(t, err)
	}

	return g
}

var strategies = []dijkstra.Strategy{dijkstra.StrategyHeap, dijkstra.StrategyEdgeRelaxation}

// ------------------------------------------------------------------------
// Validation
// ------------------------------------------------------------------------

func TestDijkstra_Validation(t *testing.T) {
	g := build(t, "A B 1")

	_, err := dijkstra.Dijkstra(g)
	assert.ErrorIs(t, err, dijkstra.ErrEmptySource)

	_, err = dijkstra.Dijkstra(nil)
	assert.ErrorIs(t, err, dijkstra.ErrEmptySource, "empty source is reported before nil graph")

	_, err = dijkstra.Dijkstra(nil, dijkstra.Source("A"))
	assert.ErrorIs(t, err, dijkstra.ErrNilGraph)

	_, err = dijkstra.Dijkstra(g, dijkstra.Source("X"))
	assert.ErrorIs(t, err, dijkstra.ErrVertexNotFound)

	_, err = dijkstra.Dijkstra(g, dijkstra.Source("A"), dijkstra.WithMaxDistance(-1))
	assert.ErrorIs(t, err, dijkstra.ErrBadMaxDistance)

	_, err = dijkstra.Dijkstra(g, dijkstra.Source("A"), dijkstra.WithInfEdgeThreshold(0))
	assert.ErrorIs(t, err, dijkstra.ErrBadInfThreshold)

	_, err = dijkstra.Dijkstra(g, dijkstra.Source("A"), dijkstra.WithStrategy(dijkstra.Strategy(9)))
	assert.ErrorIs(t, err, dijkstra.ErrUnknownStrategy)
}

func TestParseStrategy(t *testing.T) {
	s, err := dijkstra.ParseStrategy("relax")
	require.NoError(t, err)
	assert.Equal(t, dijkstra.StrategyEdgeRelaxation, s)
	assert.Equal(t, "relax", s.String())

	s, err = dijkstra.ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, dijkstra.StrategyHeap, s)

	_, err = dijkstra.ParseStrategy("astar")
	assert.ErrorIs(t, err, dijkstra.ErrUnknownStrategy)
}

// ------------------------------------------------------------------------
// Basic routes
// ------------------------------------------------------------------------

func TestDijkstra_Triangle(t *testing.T) {
	g := build(t, "A B 1", "B C 2", "A C 5")
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			res, err := dijkstra.Dijkstra(g, dijkstra.Source("A"), dijkstra.WithStrategy(s))
			require.NoError(t, err)

			d, ok := res.Distance("C")
			require.True(t, ok)
			assert.Equal(t, 3.0, d)
			path, err := res.PathTo("C")
			require.NoError(t, err)
			assert.Equal(t, []string{"A", "B", "C"}, path)

			p, ok := res.Predecessor("B")
			assert.True(t, ok)
			assert.Equal(t, "A", p)
			_, ok = res.Predecessor("A")
			assert.False(t, ok)

			self, err := res.PathTo("A")
			require.NoError(t, err)
			assert.Equal(t, []string{"A"}, self)
		})
	}
}

func TestDijkstra_Unreachable(t *testing.T) {
	g := build(t, "A B 1", "C D 1")
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			res, err := dijkstra.Dijkstra(g, dijkstra.Source("A"), dijkstra.WithStrategy(s))
			require.NoError(t, err)

			d, ok := res.Distance("D")
			assert.False(t, ok)
			assert.True(t, math.IsInf(d, 1))
			assert.Equal(t, dijkstra.Unreachable, res.Distances()["C"])

			_, err = res.PathTo("D")
			assert.ErrorIs(t, err, dijkstra.ErrNoPath)
			_, err = res.PathTo("nope")
			assert.ErrorIs(t, err, dijkstra.ErrVertexNotFound)

			assert.Equal(t, []string{"A", "B"}, res.Reachable())
		})
	}
}

func TestDijkstra_TiesKeepFirstPredecessor(t *testing.T) {
	// Two equal routes A→B→D and A→C→D; B's arc to D is discovered first.
	g := build(t, "A B 1", "A C 1", "B D 1", "C D 1")
	res, err := dijkstra.Dijkstra(g, dijkstra.Source("A"))
	require.NoError(t, err)
	path, err := res.PathTo("D")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "D"}, path)
}

func TestDijkstra_ZeroWeightEdges(t *testing.T) {
	g := build(t, "A B 0", "B C 0", "C D 2")
	for _, s := range strategies {
		res, err := dijkstra.Dijkstra(g, dijkstra.Source("A"), dijkstra.WithStrategy(s))
		require.NoError(t, err)
		d, _ := res.Distance("C")
		assert.Zero(t, d)
		d, _ = res.Distance("D")
		assert.Equal(t, 2.0, d)
	}
}

func TestDijkstra_SingleNode(t *testing.T) {
	g := core.NewGraph()
	_, err := g.AddNode("Solo")
	require.NoError(t, err)

	res, err := dijkstra.Dijkstra(g, dijkstra.Source("Solo"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Solo"}, res.Reachable())
	assert.Equal(t, "Solo", res.Source())
}

// ------------------------------------------------------------------------
// MaxDistance and InfEdgeThreshold
// ------------------------------------------------------------------------

func TestDijkstra_MaxDistance(t *testing.T) {
	g := build(t, "A B 1", "B C 1", "C D 1")
	for _, s := range strategies {
		res, err := dijkstra.Dijkstra(g, dijkstra.Source("A"), dijkstra.WithMaxDistance(1), dijkstra.WithStrategy(s))
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, res.Reachable(), s.String())
	}

	res, err := dijkstra.Dijkstra(g, dijkstra.Source("A"), dijkstra.WithMaxDistance(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, res.Reachable())
}

func TestDijkstra_InfEdgeThreshold(t *testing.T) {
	g := build(t, "A B 10", "B C 20", "A C 100")
	for _, s := range strategies {
		res, err := dijkstra.Dijkstra(g, dijkstra.Source("A"),
			dijkstra.WithInfEdgeThreshold(15), dijkstra.WithStrategy(s))
		require.NoError(t, err)
		_, ok := res.Distance("C")
		assert.False(t, ok, "both routes to C use an edge ≥ 15")
		d, _ := res.Distance("B")
		assert.Equal(t, 10.0, d)
	}
}

// ------------------------------------------------------------------------
// Strategy agreement
// ------------------------------------------------------------------------

// TestStrategiesAgree_RandomGraphs compares both strategies on seeded random
// sparse graphs, including disconnected ones.
func TestStrategiesAgree_RandomGraphs(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, 99))
		g := core.NewGraph()
		n := 5 + rng.IntN(25)
		for i := range n {
			_, err := g.AddNode(fmt.Sprintf("N%02d", i))
			require.NoError(t, err)
		}
		for range n * 2 {
			u, v := rng.IntN(n), rng.IntN(n)
			if u == v {
				continue
			}
			w := float64(rng.IntN(100)) / 4
			_, err := g.AddEdge(fmt.Sprintf("N%02d", u), fmt.Sprintf("N%02d", v), w)
			require.NoError(t, err)
		}

		heapRes, err := dijkstra.Dijkstra(g, dijkstra.Source("N00"))
		require.NoError(t, err)
		relaxRes, err := dijkstra.Dijkstra(g, dijkstra.Source("N00"), dijkstra.WithStrategy(dijkstra.StrategyEdgeRelaxation))
		require.NoError(t, err)

		hd, rd := heapRes.Distances(), relaxRes.Distances()
		require.Equal(t, len(hd), len(rd))
		for name, d := range hd {
			assert.Equal(t, d, rd[name], "seed=%d node=%s", seed, name)
		}

		// Every reconstructed path must sum to the reported distance.
		for _, res := range []*dijkstra.Result{heapRes, relaxRes} {
			for _, name := range res.Reachable() {
				path, err := res.PathTo(name)
				require.NoError(t, err)
				sum := 0.0
				for i := 1; i < len(path); i++ {
					w, err := g.Weight(path[i-1], path[i])
					require.NoError(t, err)
					sum += w
				}
				d, _ := res.Distance(name)
				assert.InDelta(t, d, sum, 1e-9)
			}
		}
	}
}

// ------------------------------------------------------------------------
// Helpers
// ------------------------------------------------------------------------

func TestShortestPath(t *testing.T) {
	g := build(t, "A B 1", "B C 2", "A C 5", "X Y 1")

	p, err := dijkstra.ShortestPath(g, "A", "C")
	require.NoError(t, err)
	assert.Equal(t, dijkstra.Path{Nodes: []string{"A", "B", "C"}, Distance: 3}, p)

	p, err = dijkstra.ShortestPath(g, "A", "Y")
	assert.ErrorIs(t, err, dijkstra.ErrNoPath)
	assert.Equal(t, dijkstra.Unreachable, p.Distance)
	assert.Empty(t, p.Nodes)

	_, err = dijkstra.ShortestPath(g, "A", "missing")
	assert.ErrorIs(t, err, dijkstra.ErrVertexNotFound)
	_, err = dijkstra.ShortestPath(g, "missing", "A")
	assert.ErrorIs(t, err, dijkstra.ErrVertexNotFound)

	p, err = dijkstra.ShortestPath(g, "A", "C", dijkstra.WithStrategy(dijkstra.StrategyEdgeRelaxation))
	require.NoError(t, err)
	assert.Equal(t, 3.0, p.Distance)
}

func TestShortestPath_AfterMutations(t *testing.T) {
	g := build(t, "A B 1", "B C 2", "A C 5")
	require.NoError(t, g.SetEdgeWeight("A", "C", 2))
	p, err := dijkstra.ShortestPath(g, "A", "C")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, p.Nodes)

	require.NoError(t, g.RemoveNodeByName("C"))
	_, err = dijkstra.ShortestPath(g, "A", "C")
	assert.ErrorIs(t, err, dijkstra.ErrVertexNotFound)
}

func TestNearest(t *testing.T) {
	g := build(t, "Depot Bin1 4", "Depot Bin2 2", "Bin2 Bin3 1", "Lone Other 1")

	p, err := dijkstra.Nearest(g, "Depot")
	require.NoError(t, err)
	assert.Equal(t, dijkstra.Path{Nodes: []string{"Depot", "Bin2"}, Distance: 2}, p)

	_, err = g.AddNode("Isolated")
	require.NoError(t, err)
	_, err = dijkstra.Nearest(g, "Isolated")
	assert.ErrorIs(t, err, dijkstra.ErrNoPath)
}
