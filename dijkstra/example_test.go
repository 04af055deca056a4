package dijkstra_test

import (
	"fmt"

	"github.com/katalvlaran/wastegrid/core"
	"github.com/katalvlaran/wastegrid/dijkstra"
)

// ExampleDijkstra computes every route from a depot once and rebuilds two of
// them from the same Result.
func ExampleDijkstra() {
	g := core.NewGraph()
	for _, n := range []string{"Depot", "Market", "School", "Landfill"} {
		_, _ = g.AddNode(n)
	}
	_, _ = g.AddEdge("Depot", "Market", 1)
	_, _ = g.AddEdge("Market", "School", 2)
	_, _ = g.AddEdge("Depot", "School", 5)

	res, err := dijkstra.Dijkstra(g, dijkstra.Source("Depot"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	path, _ := res.PathTo("School")
	d, _ := res.Distance("School")
	fmt.Println(path, d)

	_, err = res.PathTo("Landfill")
	fmt.Println(err)

	// Output:
	// [Depot Market School] 3
	// dijkstra: no path: "Depot" to "Landfill"
}

// ExampleShortestPath uses the edge-relaxation strategy for a single route.
func ExampleShortestPath() {
	g := core.NewGraph()
	for _, n := range []string{"A", "B", "C"} {
		_, _ = g.AddNode(n)
	}
	_, _ = g.AddEdge("A", "B", 1.5)
	_, _ = g.AddEdge("B", "C", 1.5)
	_, _ = g.AddEdge("A", "C", 4)

	p, _ := dijkstra.ShortestPath(g, "A", "C", dijkstra.WithStrategy(dijkstra.StrategyEdgeRelaxation))
	fmt.Printf("%v %.1f\n", p.Nodes, p.Distance)

	// Output:
	// [A B C] 3.0
}
