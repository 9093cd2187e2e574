package grid

import (
	"errors"
	"strings"

	perrors "github.com/matzehuels/patrol/pkg/errors"
)

// Sentinel errors for grid construction and parsing.
var (
	// ErrEmptyGrid indicates the grid has no rows or no columns.
	ErrEmptyGrid = errors.New("grid: must have at least one row and one column")
	// ErrOutOfBounds indicates a point lies outside the grid.
	ErrOutOfBounds = errors.New("grid: point out of bounds")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("grid: all rows must have the same length")
	// ErrUnknownCell indicates a character that is not part of the map alphabet.
	ErrUnknownCell = errors.New("grid: unrecognised cell character")
	// ErrNoStart indicates the map has no start marker.
	ErrNoStart = errors.New("grid: no start marker")
	// ErrDuplicateStart indicates the map has more than one start marker.
	ErrDuplicateStart = errors.New("grid: more than one start marker")
)

// Grid is an immutable height×width rectangle with a set of obstacle cells.
// Obstacle membership is stored row-major in a flat slice, so copying a grid is
// a single allocation.
type Grid struct {
	height, width int
	blocked       []bool
	obstacles     int
}

// New builds a grid of the given size with the given obstacles.
// Duplicate obstacle points are allowed and counted once.
func New(height, width int, obstacles []Point) (*Grid, error) {
	if height <= 0 || width <= 0 {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidGrid, ErrEmptyGrid, "size %dx%d", height, width)
	}
	g := &Grid{
		height:  height,
		width:   width,
		blocked: make([]bool, height*width),
	}
	for _, p := range obstacles {
		if !g.Contains(p) {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidGrid, ErrOutOfBounds, "obstacle %s outside %dx%d grid", p, height, width)
		}
		i := g.Index(p)
		if !g.blocked[i] {
			g.blocked[i] = true
			g.obstacles++
		}
	}
	return g, nil
}

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Cells returns height×width.
func (g *Grid) Cells() int { return g.height * g.width }

// ObstacleCount returns the number of obstacle cells.
func (g *Grid) ObstacleCount() int { return g.obstacles }

// Contains reports whether p lies within [0,height)×[0,width).
func (g *Grid) Contains(p Point) bool {
	return p.Row >= 0 && p.Row < g.height && p.Col >= 0 && p.Col < g.width
}

// IsObstacle reports whether p holds an obstacle. Points outside the grid are
// never obstacles; callers that need to tell "outside" from "open" must check
// Contains first.
func (g *Grid) IsObstacle(p Point) bool {
	if !g.Contains(p) {
		return false
	}
	return g.blocked[g.Index(p)]
}

// Index returns the row-major index of p. p must be inside the grid.
func (g *Grid) Index(p Point) int {
	return p.Row*g.width + p.Col
}

// PointAt is the inverse of Index.
func (g *Grid) PointAt(i int) Point {
	return Point{Row: i / g.width, Col: i % g.width}
}

// WithObstacle returns a copy of g with an extra obstacle at p.
// The receiver is left untouched.
func (g *Grid) WithObstacle(p Point) (*Grid, error) {
	if !g.Contains(p) {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidGrid, ErrOutOfBounds, "obstacle %s outside %dx%d grid", p, g.height, g.width)
	}
	c := &Grid{
		height:    g.height,
		width:     g.width,
		blocked:   make([]bool, len(g.blocked)),
		obstacles: g.obstacles,
	}
	copy(c.blocked, g.blocked)
	if i := g.Index(p); !c.blocked[i] {
		c.blocked[i] = true
		c.obstacles++
	}
	return c, nil
}

// Obstacles returns the obstacle points in row-major order.
func (g *Grid) Obstacles() []Point {
	out := make([]Point, 0, g.obstacles)
	for i, b := range g.blocked {
		if b {
			out = append(out, g.PointAt(i))
		}
	}
	return out
}

// String renders the grid using '.' and '#', one row per line.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(g.height * (g.width + 1))
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			if g.blocked[r*g.width+c] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
