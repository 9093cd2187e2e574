package search_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/patrol/pkg/grid"
	"github.com/matzehuels/patrol/pkg/search"
)

func ExampleCount() {
	input := `....#.....
.........#
..........
..#.......
.......#..
..........
.#..^.....
........#.
#.........
......#...
`
	g, start, err := grid.Parse(strings.NewReader(input))
	if err != nil {
		panic(err)
	}

	base, err := search.Baseline(g, start, search.Options{})
	if err != nil {
		panic(err)
	}
	res, err := search.Obstructions(context.Background(), g, start, base.Visited, search.Options{Workers: 4})
	if err != nil {
		panic(err)
	}
	fmt.Println("visited:", len(base.Visited))
	fmt.Println("loops:", res.Loops, res.LoopPoints[0])
	// Output:
	// visited: 41
	// loops: 6 (6,3)
}
