package patrol_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/patrol/pkg/grid"
	"github.com/matzehuels/patrol/pkg/patrol"
)

func ExampleClassify() {
	g, start, _ := grid.Parse(strings.NewReader("#..\n...\n^..\n"))
	out, err := patrol.Classify(g, start)
	if err != nil {
		panic(err)
	}
	fmt.Println(out.Kind, len(out.Visited))
	// Output: exited 4
}

func ExampleWalker() {
	g, start, _ := grid.Parse(strings.NewReader("#..\n...\n^..\n"))
	w := patrol.NewWalker(g, start)
	for w.Next() {
		fmt.Println(w.Agent())
	}
	// Output:
	// (2,0) up
	// (1,0) up
	// (1,1) right
	// (1,2) right
}
