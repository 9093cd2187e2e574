package grid

import "fmt"

// Direction is one of the four headings an agent can face.
// The constant order is the clockwise turn order.
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left
)

// NumDirections is the number of distinct headings.
const NumDirections = 4

// Directions returns all headings in clockwise order starting at Up.
func Directions() []Direction {
	return []Direction{Up, Right, Down, Left}
}

// Turn returns the next heading clockwise: Up→Right→Down→Left→Up.
func (d Direction) Turn() Direction {
	return (d + 1) % NumDirections
}

// Delta returns the unit (row, column) displacement of one step in d.
func (d Direction) Delta() (dRow, dCol int) {
	switch d {
	case Up:
		return -1, 0
	case Right:
		return 0, 1
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	default:
		return 0, 0
	}
}

// Valid reports whether d is one of the four headings.
func (d Direction) Valid() bool {
	return d < NumDirections
}

// Rune returns the map marker for d.
func (d Direction) Rune() rune {
	switch d {
	case Up:
		return '^'
	case Right:
		return '>'
	case Down:
		return 'v'
	case Left:
		return '<'
	default:
		return '?'
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// ParseDirection maps a start marker to its heading.
// Both 'v' and 'V' are accepted for Down.
func ParseDirection(r rune) (Direction, bool) {
	switch r {
	case '^':
		return Up, true
	case '>':
		return Right, true
	case 'v', 'V':
		return Down, true
	case '<':
		return Left, true
	}
	return 0, false
}

// MarshalText encodes d by name so JSON output reads "up" rather than 0.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name or map marker.
func (d *Direction) UnmarshalText(text []byte) error {
	s := string(text)
	for _, dir := range Directions() {
		if s == dir.String() {
			*d = dir
			return nil
		}
	}
	if r := []rune(s); len(r) == 1 {
		if dir, ok := ParseDirection(r[0]); ok {
			*d = dir
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", s)
}
