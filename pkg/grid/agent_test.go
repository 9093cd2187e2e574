package grid

import "testing"

func TestAgentMoves(t *testing.T) {
	a := Agent{Pos: Point{Row: 6, Col: 4}, Dir: Up}

	if got, want := a.Ahead(), (Point{Row: 5, Col: 4}); got != want {
		t.Errorf("Ahead() = %v, want %v", got, want)
	}
	if got, want := a.Moved(), (Agent{Pos: Point{Row: 5, Col: 4}, Dir: Up}); got != want {
		t.Errorf("Moved() = %v, want %v", got, want)
	}
	if got, want := a.Turned(), (Agent{Pos: a.Pos, Dir: Right}); got != want {
		t.Errorf("Turned() = %v, want %v", got, want)
	}
	if a.Turned() == a {
		t.Error("Turned() should differ from the original agent")
	}
}

func TestAgentEquality(t *testing.T) {
	seen := map[Agent]bool{
		{Pos: Point{Row: 1, Col: 1}, Dir: Up}: true,
	}
	if !seen[Agent{Pos: Point{Row: 1, Col: 1}, Dir: Up}] {
		t.Error("equal agents should hash equal")
	}
	if seen[Agent{Pos: Point{Row: 1, Col: 1}, Dir: Down}] {
		t.Error("agents with different headings should differ")
	}
}

func TestAgentString(t *testing.T) {
	a := Agent{Pos: Point{Row: 2, Col: 3}, Dir: Left}
	if got, want := a.String(), "(2,3) left"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
