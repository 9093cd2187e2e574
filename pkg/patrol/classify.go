package patrol

import (
	"errors"

	perrors "github.com/matzehuels/patrol/pkg/errors"
	"github.com/matzehuels/patrol/pkg/grid"
)

// ErrStepLimit reports a walk that exceeded the configured step ceiling.
var ErrStepLimit = errors.New("patrol: step limit exceeded")

// Kind is the terminal classification of a walk.
type Kind int

const (
	// Exited means the guard stepped off the grid.
	Exited Kind = iota
	// Cycled means a (position, heading) state repeated before exiting.
	Cycled
)

func (k Kind) String() string {
	switch k {
	case Exited:
		return "exited"
	case Cycled:
		return "cycled"
	default:
		return "unknown"
	}
}

// Outcome is the result of Classify.
type Outcome struct {
	Kind Kind
	// Visited holds the distinct positions of an exited walk in row-major
	// order. It is nil for a cycled walk.
	Visited []grid.Point
	// Steps is the number of states consumed, including the start.
	Steps int
}

// Option configures Classify.
type Option func(*options)

type options struct {
	maxSteps int
}

// WithMaxSteps fails a walk with ErrStepLimit once it consumes more than n
// states. n <= 0 disables the ceiling, which is the default: the state space
// already bounds every walk to height×width×4 states.
func WithMaxSteps(n int) Option {
	return func(o *options) { o.maxSteps = n }
}

// Classify walks from start until the guard leaves g or repeats a state.
//
// Seen states are tracked as one bit per heading per cell, so the memory used
// is one byte per cell regardless of path length.
func Classify(g *grid.Grid, start grid.Agent, opts ...Option) (Outcome, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if !g.Contains(start.Pos) {
		return Outcome{}, perrors.Wrap(perrors.ErrCodeInvalidGrid, grid.ErrOutOfBounds, "start %s outside %dx%d grid", start.Pos, g.Height(), g.Width())
	}
	if !start.Dir.Valid() {
		return Outcome{}, perrors.New(perrors.ErrCodeInvalidInput, "start heading %v is not a direction", start.Dir)
	}

	seen := make([]uint8, g.Cells())
	steps := 0
	w := NewWalker(g, start)
	for w.Next() {
		a := w.Agent()
		i := g.Index(a.Pos)
		bit := uint8(1) << a.Dir
		if seen[i]&bit != 0 {
			return Outcome{Kind: Cycled, Steps: steps}, nil
		}
		seen[i] |= bit
		steps++
		if o.maxSteps > 0 && steps > o.maxSteps {
			return Outcome{}, perrors.Wrap(perrors.ErrCodeStepLimit, ErrStepLimit, "walk from %s exceeded %d steps", start, o.maxSteps)
		}
	}
	if err := w.Err(); err != nil {
		return Outcome{}, err
	}

	var visited []grid.Point
	for i, s := range seen {
		if s != 0 {
			visited = append(visited, g.PointAt(i))
		}
	}
	return Outcome{Kind: Exited, Visited: visited, Steps: steps}, nil
}
