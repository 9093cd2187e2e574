package patrol

import (
	"errors"
	"testing"

	"github.com/matzehuels/patrol/pkg/grid"
)

func TestWalkerYieldsStartFirst(t *testing.T) {
	g := mustGrid(t, 3, 3)
	start := grid.Agent{Pos: pt(1, 1), Dir: grid.Up}

	var got []grid.Agent
	w := NewWalker(g, start)
	for w.Next() {
		got = append(got, w.Agent())
	}
	if err := w.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	want := []grid.Agent{start, {Pos: pt(0, 1), Dir: grid.Up}}
	if len(got) != len(want) {
		t.Fatalf("walk = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("walk[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if w.Next() {
		t.Error("Next() after exhaustion should stay false")
	}
}

func TestWalkerEdgeStart(t *testing.T) {
	g := mustGrid(t, 3, 3)
	w := NewWalker(g, grid.Agent{Pos: pt(0, 2), Dir: grid.Up})
	n := 0
	for w.Next() {
		n++
	}
	if n != 1 {
		t.Errorf("walk length = %d, want 1", n)
	}
}

func TestWalkerTrapped(t *testing.T) {
	g, start := mustParse(t, trappedMap)
	w := NewWalker(g, start)
	if !w.Next() || w.Agent() != start {
		t.Fatal("first state should be the start")
	}
	if w.Next() {
		t.Fatal("trapped walk should stop after the start")
	}
	if !errors.Is(w.Err(), ErrTrapped) {
		t.Errorf("Err() = %v, want %v", w.Err(), ErrTrapped)
	}
}

// A looping walk is infinite; consuming a prefix must still work.
func TestStatesBreakOnLoop(t *testing.T) {
	g, start := mustParse(t, loopMap)

	n := 0
	for a, err := range States(g, start) {
		if err != nil {
			t.Fatalf("States error: %v", err)
		}
		if n == 0 && a != start {
			t.Errorf("first state = %v, want %v", a, start)
		}
		n++
		if n == 100 {
			break
		}
	}
	if n != 100 {
		t.Errorf("consumed %d states, want 100", n)
	}
}

func TestStatesReportsError(t *testing.T) {
	g, start := mustParse(t, trappedMap)
	var last error
	n := 0
	for _, err := range States(g, start) {
		n++
		last = err
	}
	if n != 2 {
		t.Errorf("States yielded %d elements, want 2", n)
	}
	if !errors.Is(last, ErrTrapped) {
		t.Errorf("last error = %v, want %v", last, ErrTrapped)
	}
}
