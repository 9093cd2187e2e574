package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/patrol/pkg/grid"
	"github.com/matzehuels/patrol/pkg/patrol"
)

func parseMap(t *testing.T, s string) (*grid.Grid, grid.Agent) {
	t.Helper()
	g, start, err := grid.ParseBytes([]byte(s))
	if err != nil {
		t.Fatalf("ParseBytes error: %v", err)
	}
	return g, start
}

// stepAll presses "n" until the model finishes.
func stepAll(t *testing.T, m replayModel) replayModel {
	t.Helper()
	for i := 0; i < 10000 && !m.finished(); i++ {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
		m = next.(replayModel)
	}
	if !m.finished() {
		t.Fatal("replay did not finish")
	}
	return m
}

func TestReplayExit(t *testing.T) {
	g, start := parseMap(t, sampleMap)
	m := stepAll(t, newReplayModel(g, start, time.Millisecond))

	if !m.exited || m.looped || m.err != nil {
		t.Fatalf("state = exited %v looped %v err %v, want exited", m.exited, m.looped, m.err)
	}
	if m.visitedCount != 41 {
		t.Errorf("visited = %d, want 41", m.visitedCount)
	}
	if m.steps != 45 {
		t.Errorf("steps = %d, want 45", m.steps)
	}
	if !strings.Contains(m.View(), "guard left the map") {
		t.Error("view should report the exit")
	}
}

func TestReplayLoop(t *testing.T) {
	g, start := parseMap(t, sampleMap)
	g, err := g.WithObstacle(grid.Point{Row: 6, Col: 3})
	if err != nil {
		t.Fatal(err)
	}
	m := stepAll(t, newReplayModel(g, start, time.Millisecond))
	if !m.looped {
		t.Fatal("obstacle at (6,3) should make the replay loop")
	}
	if !strings.Contains(m.View(), "loop detected") {
		t.Error("view should report the loop")
	}
}

func TestReplayTrapped(t *testing.T) {
	g, start := parseMap(t, ".#.\n#^.\n.#.\n")
	g, err := g.WithObstacle(grid.Point{Row: 1, Col: 2})
	if err != nil {
		t.Fatal(err)
	}
	m := stepAll(t, newReplayModel(g, start, time.Millisecond))
	if !errors.Is(m.err, patrol.ErrTrapped) {
		t.Errorf("err = %v, want %v", m.err, patrol.ErrTrapped)
	}
}

func TestReplayControls(t *testing.T) {
	g, start := parseMap(t, sampleMap)
	m := newReplayModel(g, start, 40*time.Millisecond)

	key := func(m replayModel, s string) (replayModel, tea.Cmd) {
		var msg tea.KeyMsg
		if s == " " {
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
		}
		next, cmd := m.Update(msg)
		return next.(replayModel), cmd
	}

	m, cmd := key(m, " ")
	if !m.playing || cmd == nil {
		t.Error("space should start playback and schedule a tick")
	}
	before := m.steps
	next, _ := m.Update(replayTick{})
	m = next.(replayModel)
	if m.steps != before+1 {
		t.Errorf("tick advanced to %d steps, want %d", m.steps, before+1)
	}

	m, _ = key(m, "+")
	if m.interval != 20*time.Millisecond {
		t.Errorf("interval after + = %v, want 20ms", m.interval)
	}
	m, _ = key(m, "-")
	m, _ = key(m, "-")
	if m.interval != 80*time.Millisecond {
		t.Errorf("interval after -- = %v, want 80ms", m.interval)
	}

	m, _ = key(m, " ")
	if m.playing {
		t.Error("second space should pause")
	}
	before = m.steps
	next, _ = m.Update(replayTick{})
	if next.(replayModel).steps != before {
		t.Error("paused model should ignore ticks")
	}

	if _, cmd := key(m, "q"); cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestReplayWindowFollowsGuard(t *testing.T) {
	g, start := parseMap(t, sampleMap)
	m := newReplayModel(g, start, time.Millisecond)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 4, Height: 8})
	m = next.(replayModel)

	r0, r1, c0, c1 := m.window()
	if r1-r0 != 4 || c1-c0 != 4 {
		t.Fatalf("window = rows %d-%d cols %d-%d, want 4x4", r0, r1, c0, c1)
	}
	p := m.cur.Pos
	if p.Row < r0 || p.Row >= r1 || p.Col < c0 || p.Col >= c1 {
		t.Errorf("guard %v outside window rows %d-%d cols %d-%d", p, r0, r1, c0, c1)
	}
}
