package patrol

import (
	"errors"

	perrors "github.com/matzehuels/patrol/pkg/errors"
	"github.com/matzehuels/patrol/pkg/grid"
)

// ErrTrapped reports a guard whose four neighbours are all obstacles.
var ErrTrapped = errors.New("patrol: agent trapped")

// maxRotations bounds in-place turns per step. After four blocked headings the
// guard is facing its original direction again.
const maxRotations = grid.NumDirections

// Step is the result of advancing one agent state.
type Step struct {
	// Agent is the state after the step. Zero when Left is set.
	Agent grid.Agent
	// Left is set when the next move would leave the grid.
	Left bool
	// Turns counts the clockwise rotations made before moving.
	Turns int
}

// Advance computes the state following a on g.
//
// If the cell ahead is outside the grid the walk is over and Left is set;
// obstacle membership is not consulted for such cells. If the cell ahead is an
// obstacle the guard turns clockwise in place and retries. A guard blocked in
// every direction fails with an error wrapping ErrTrapped.
func Advance(g *grid.Grid, a grid.Agent) (Step, error) {
	cur := a
	for turns := 0; turns < maxRotations; turns++ {
		next := cur.Ahead()
		if !g.Contains(next) {
			return Step{Left: true, Turns: turns}, nil
		}
		if !g.IsObstacle(next) {
			return Step{Agent: cur.Moved(), Turns: turns}, nil
		}
		cur = cur.Turned()
	}
	return Step{}, perrors.Wrap(perrors.ErrCodeAgentTrapped, ErrTrapped, "no open direction at %s", a.Pos)
}
