package core_test

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wastegrid/core"
)

func TestAddEdge_Validation(t *testing.T) {
	g := core.NewGraph()
	mustNodes(t, g, "A", "B")

	cases := []struct {
		name string
		u, v string
		w    float64
		want error
	}{
		{"loop", "A", "A", 1, core.ErrLoopNotAllowed},
		{"negative", "A", "B", -1, core.ErrNegativeWeight},
		{"nan", "A", "B", math.NaN(), core.ErrBadWeight},
		{"inf", "A", "B", math.Inf(1), core.ErrBadWeight},
		{"unknown tail", "X", "B", 1, core.ErrNodeNotFound},
		{"unknown head", "A", "X", 1, core.ErrNodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.AddEdge(tc.u, tc.v, tc.w)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, 0, g.EdgeCount())
	require.NoError(t, g.CheckSymmetry())
}

func TestAddEdge_ZeroWeightAllowed(t *testing.T) {
	g := core.NewGraph()
	mustNodes(t, g, "A", "B")
	_, err := g.AddEdge("A", "B", 0)
	require.NoError(t, err)
	w, err := g.Weight("B", "A")
	require.NoError(t, err)
	assert.Zero(t, w)
}

func TestAddEdge_LastWriteWinsByDefault(t *testing.T) {
	g := core.NewGraph()
	mustNodes(t, g, "A", "B")

	id1, err := g.AddEdge("A", "B", 5)
	require.NoError(t, err)
	id2, err := g.AddEdge("B", "A", 2) // reversed order hits the same pair
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, g.EdgeCount())
	w, _ := g.Weight("A", "B")
	assert.Equal(t, 2.0, w)
	d, _ := g.Degree("A")
	assert.Equal(t, 1, d)
	require.NoError(t, g.CheckSymmetry())
}

func TestAddEdge_MultiEdgesAccumulate(t *testing.T) {
	g := core.NewGraph(core.WithMultiEdges())
	mustNodes(t, g, "A", "B")

	id1, err := g.AddEdge("A", "B", 5)
	require.NoError(t, err)
	id2, err := g.AddEdge("A", "B", 2)
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, g.EdgeCount())
	w, _ := g.Weight("A", "B")
	assert.Equal(t, 2.0, w, "Weight reports the cheapest parallel edge")
	nbs, _ := g.Neighbors("B")
	assert.Len(t, nbs, 2)
	require.NoError(t, g.CheckSymmetry())

	// SetEdgeWeight and RemoveEdge act on every parallel edge.
	require.NoError(t, g.SetEdgeWeight("B", "A", 9))
	for _, e := range g.Edges() {
		assert.Equal(t, 9.0, e.Weight)
	}
	require.NoError(t, g.CheckSymmetry())
	require.NoError(t, g.RemoveEdge("A", "B"))
	assert.Equal(t, 0, g.EdgeCount())
	require.NoError(t, g.CheckSymmetry())
}

func TestSetEdgeWeight(t *testing.T) {
	g := core.NewGraph()
	mustNodes(t, g, "A", "B", "C")
	_, err := g.AddEdge("A", "B", 1)
	require.NoError(t, err)

	require.NoError(t, g.SetEdgeWeight("B", "A", 3.5))
	for _, pair := range [][2]string{{"A", "B"}, {"B", "A"}} {
		w, err := g.Weight(pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, 3.5, w)
	}
	require.NoError(t, g.CheckSymmetry())

	assert.ErrorIs(t, g.SetEdgeWeight("A", "C", 1), core.ErrEdgeNotFound)
	assert.ErrorIs(t, g.SetEdgeWeight("A", "Z", 1), core.ErrNodeNotFound)
	assert.ErrorIs(t, g.SetEdgeWeight("A", "B", -2), core.ErrNegativeWeight)
	w, _ := g.Weight("A", "B")
	assert.Equal(t, 3.5, w, "failed update must not change the weight")
}

func TestRemoveEdge(t *testing.T) {
	g := core.NewGraph()
	mustNodes(t, g, "A", "B", "C")
	_, _ = g.AddEdge("A", "B", 1)
	_, _ = g.AddEdge("B", "C", 1)

	require.NoError(t, g.RemoveEdge("B", "A"))
	assert.False(t, g.HasEdge("A", "B"))
	assert.False(t, g.HasEdge("B", "A"))
	assert.True(t, g.HasEdge("C", "B"))
	assert.ErrorIs(t, g.RemoveEdge("A", "B"), core.ErrEdgeNotFound)
	require.NoError(t, g.CheckSymmetry())
}

func TestEdges_CreationOrder(t *testing.T) {
	g := core.NewGraph()
	var names []string
	for i := range 12 {
		names = append(names, fmt.Sprintf("N%d", i))
	}
	mustNodes(t, g, names...)
	for i := 1; i < 12; i++ {
		_, err := g.AddEdge(names[i-1], names[i], float64(i))
		require.NoError(t, err)
	}

	edges := g.Edges()
	require.Len(t, edges, 11)
	for i, e := range edges {
		assert.Equal(t, fmt.Sprintf("e%d", i+1), e.ID, "e10 must sort after e9")
		assert.Equal(t, float64(i+1), e.Weight)
	}
}

// TestSymmetry_RandomMutations applies random add/update/remove operations to
// both edge policies and checks arc symmetry after each step.
func TestSymmetry_RandomMutations(t *testing.T) {
	for _, multi := range []bool{false, true} {
		t.Run(fmt.Sprintf("multi=%v", multi), func(t *testing.T) {
			var opts []core.GraphOption
			if multi {
				opts = append(opts, core.WithMultiEdges())
			}
			g := core.NewGraph(opts...)
			rng := rand.New(rand.NewPCG(11, 13))
			const n = 15
			for i := range n {
				mustNodes(t, g, fmt.Sprintf("V%d", i))
			}
			pick := func() string { return fmt.Sprintf("V%d", rng.IntN(n)) }

			for step := 0; step < 1500; step++ {
				u, v := pick(), pick()
				switch rng.IntN(4) {
				case 0, 1:
					_, _ = g.AddEdge(u, v, float64(rng.IntN(50)))
				case 2:
					_ = g.SetEdgeWeight(u, v, float64(rng.IntN(50)))
				default:
					_ = g.RemoveEdge(u, v)
				}
				require.NoError(t, g.CheckSymmetry(), "step %d", step)
			}
		})
	}
}
