package patrol

import (
	"iter"

	"github.com/matzehuels/patrol/pkg/grid"
)

// Walker yields the states of a walk one at a time.
//
// The first state is the start itself; each later state is the result of one
// Advance. The walk ends when the guard leaves the grid. On a looping grid it
// never ends, so callers must bound consumption themselves.
//
// Usage mirrors bufio.Scanner:
//
//	w := patrol.NewWalker(g, start)
//	for w.Next() {
//	    a := w.Agent()
//	    ...
//	}
//	if err := w.Err(); err != nil {
//	    ...
//	}
//
// A Walker is not safe for concurrent use and cannot be rewound.
type Walker struct {
	g       *grid.Grid
	cur     grid.Agent
	started bool
	done    bool
	err     error
}

// NewWalker returns a walker positioned before start.
func NewWalker(g *grid.Grid, start grid.Agent) *Walker {
	return &Walker{g: g, cur: start}
}

// Next advances to the next state and reports whether there is one.
func (w *Walker) Next() bool {
	if w.done {
		return false
	}
	if !w.started {
		w.started = true
		return true
	}
	step, err := Advance(w.g, w.cur)
	if err != nil {
		w.err = err
		w.done = true
		return false
	}
	if step.Left {
		w.done = true
		return false
	}
	w.cur = step.Agent
	return true
}

// Agent returns the current state. Valid after Next returns true.
func (w *Walker) Agent() grid.Agent {
	return w.cur
}

// Err returns the error that stopped the walk, if any. Leaving the grid is not an error.
func (w *Walker) Err() error {
	return w.err
}

// States returns the walk from start as a range-over-func sequence. The error
// value is non-nil only on the final element of a failed walk.
func States(g *grid.Grid, start grid.Agent) iter.Seq2[grid.Agent, error] {
	return func(yield func(grid.Agent, error) bool) {
		w := NewWalker(g, start)
		for w.Next() {
			if !yield(w.Agent(), nil) {
				return
			}
		}
		if err := w.Err(); err != nil {
			yield(w.Agent(), err)
		}
	}
}
