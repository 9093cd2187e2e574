package grid

import "fmt"

// Agent is one simulation state: where the guard stands and where it faces.
// Two agents are equal iff both position and heading match.
type Agent struct {
	Pos Point     `json:"pos"`
	Dir Direction `json:"dir"`
}

// Ahead returns the cell the agent would move into next.
func (a Agent) Ahead() Point {
	return a.Pos.Step(a.Dir)
}

// Turned returns the agent rotated clockwise without moving.
func (a Agent) Turned() Agent {
	return Agent{Pos: a.Pos, Dir: a.Dir.Turn()}
}

// Moved returns the agent advanced one cell in its heading.
func (a Agent) Moved() Agent {
	return Agent{Pos: a.Ahead(), Dir: a.Dir}
}

func (a Agent) String() string {
	return fmt.Sprintf("%s %s", a.Pos, a.Dir)
}
