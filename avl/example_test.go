package avl_test

import (
	"fmt"

	"github.com/katalvlaran/wastegrid/avl"
)

// ExampleTree shows the additive duplicate policy and sorted enumeration.
func ExampleTree() {
	stock := avl.New(avl.WithMerge[string](func(stored, in int) int { return stored + in }))
	stock.Insert("north", 12)
	stock.Insert("east", 4)
	stock.Insert("north", 3) // merged into the existing key

	for k, v := range stock.All() {
		fmt.Printf("%s=%d\n", k, v)
	}
	// Output:
	// east=4
	// north=15
}
