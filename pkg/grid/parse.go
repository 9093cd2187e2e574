package grid

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	perrors "github.com/matzehuels/patrol/pkg/errors"
)

// Cell markers of the input format.
const (
	cellEmpty    = '.'
	cellObstacle = '#'
)

// Parse reads a map from r and returns its grid and the start agent.
//
// All errors carry perrors.ErrCodeInvalidInput and wrap one of the grid
// sentinels (ErrEmptyGrid, ErrNonRectangular, ErrUnknownCell, ErrNoStart,
// ErrDuplicateStart). Positions in messages are 1-based line:column.
func Parse(r io.Reader) (*Grid, Agent, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), perrors.MaxInputBytes)

	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, Agent{}, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read map")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 || len(lines[0]) == 0 {
		return nil, Agent{}, perrors.Wrap(perrors.ErrCodeInvalidInput, ErrEmptyGrid, "empty map")
	}

	width := len([]rune(lines[0]))
	var (
		obstacles []Point
		start     Agent
		found     bool
	)
	for row, line := range lines {
		cells := []rune(line)
		if len(cells) != width {
			return nil, Agent{}, perrors.Wrap(perrors.ErrCodeInvalidInput, ErrNonRectangular,
				"line %d has %d cells, want %d", row+1, len(cells), width)
		}
		for col, c := range cells {
			p := Point{Row: row, Col: col}
			switch c {
			case cellEmpty:
			case cellObstacle:
				obstacles = append(obstacles, p)
			default:
				dir, ok := ParseDirection(c)
				if !ok {
					return nil, Agent{}, perrors.Wrap(perrors.ErrCodeInvalidInput, ErrUnknownCell,
						"%d:%d: %q", row+1, col+1, c)
				}
				if found {
					return nil, Agent{}, perrors.Wrap(perrors.ErrCodeInvalidInput, ErrDuplicateStart,
						"%d:%d: second start marker %q (first at %d:%d)", row+1, col+1, c, start.Pos.Row+1, start.Pos.Col+1)
				}
				start = Agent{Pos: p, Dir: dir}
				found = true
			}
		}
	}
	if !found {
		return nil, Agent{}, perrors.Wrap(perrors.ErrCodeInvalidInput, ErrNoStart, "map has no start marker (one of ^ > v <)")
	}

	g, err := New(len(lines), width, obstacles)
	if err != nil {
		return nil, Agent{}, err
	}
	return g, start, nil
}

// ParseBytes is Parse over an in-memory map.
//
//	g, start, err := grid.ParseBytes([]byte("..#\n.^.\n...\n"))
//	// g is 3×3 with one obstacle at (0,2); start is (1,1) facing Up
func ParseBytes(data []byte) (*Grid, Agent, error) {
	return Parse(bytes.NewReader(data))
}

// Render draws g with the agent marker at a's position, in the format Parse
// reads, so Parse(Render(g, a)) reproduces g and a. Down renders as 'v'.
func Render(g *Grid, a Agent) string {
	var b strings.Builder
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			p := Point{Row: r, Col: c}
			switch {
			case p == a.Pos:
				b.WriteRune(a.Dir.Rune())
			case g.IsObstacle(p):
				b.WriteByte(cellObstacle)
			default:
				b.WriteByte(cellEmpty)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
