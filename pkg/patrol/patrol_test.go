package patrol

import (
	"strings"
	"testing"

	"github.com/matzehuels/patrol/pkg/grid"
)

const sampleMap = `....#.....
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

// loopMap cycles after five states and revisits its start cell facing left.
const loopMap = `.#..
...#
#^..
..#.
`

const trappedMap = `.#.
#^#
.#.
`

func mustParse(t *testing.T, s string) (*grid.Grid, grid.Agent) {
	t.Helper()
	g, start, err := grid.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return g, start
}

func mustGrid(t *testing.T, h, w int, obstacles ...grid.Point) *grid.Grid {
	t.Helper()
	g, err := grid.New(h, w, obstacles)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return g
}

func pt(r, c int) grid.Point { return grid.Point{Row: r, Col: c} }
