package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a (row, column) cell coordinate. Row 0 is the first line of the
// map and Col 0 its first character. Points are unbounded: a step off the
// top edge yields Row -1, and only a Grid decides what is inside.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add returns p displaced by (dr, dc).
func (p Point) Add(dr, dc int) Point {
	return Point{Row: p.Row + dr, Col: p.Col + dc}
}

// Step returns the neighbour of p in direction d.
func (p Point) Step(d Direction) Point {
	dr, dc := d.Delta()
	return p.Add(dr, dc)
}

// Less orders points row-major.
func (p Point) Less(q Point) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

// String formats p as "(row,col)"; ParsePoint reads it back.
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// ParsePoint parses "row,col" with optional surrounding parentheses, the
// format produced by String. Spaces around either number are ignored, so
// "6,3", "(6,3)" and " 6 , 3 " are the same point.
func ParsePoint(s string) (Point, error) {
	t := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "("), ")")
	rs, cs, ok := strings.Cut(t, ",")
	if !ok {
		return Point{}, fmt.Errorf("grid: point %q is not row,col", s)
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return Point{}, fmt.Errorf("grid: point %q: bad row: %w", s, err)
	}
	c, err := strconv.Atoi(strings.TrimSpace(cs))
	if err != nil {
		return Point{}, fmt.Errorf("grid: point %q: bad column: %w", s, err)
	}
	return Point{Row: r, Col: c}, nil
}
