package grid

import (
	"errors"
	"testing"

	perrors "github.com/matzehuels/patrol/pkg/errors"
)

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name      string
		h, w      int
		obstacles []Point
		err       error
	}{
		{"zero height", 0, 3, nil, ErrEmptyGrid},
		{"negative width", 3, -1, nil, ErrEmptyGrid},
		{"obstacle below", 2, 2, []Point{{Row: 2, Col: 0}}, ErrOutOfBounds},
		{"obstacle left", 2, 2, []Point{{Row: 0, Col: -1}}, ErrOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.h, tt.w, tt.obstacles)
			if !errors.Is(err, tt.err) {
				t.Errorf("New() error = %v, want %v", err, tt.err)
			}
			if !perrors.Is(err, perrors.ErrCodeInvalidGrid) {
				t.Errorf("New() code = %v, want %v", perrors.GetCode(err), perrors.ErrCodeInvalidGrid)
			}
		})
	}
}

func TestContains(t *testing.T) {
	g, err := New(3, 4, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	valid := []Point{{0, 0}, {2, 3}, {1, 2}}
	for _, p := range valid {
		if !g.Contains(p) {
			t.Errorf("Contains(%v) = false, want true", p)
		}
	}
	invalid := []Point{{-1, 0}, {0, -1}, {3, 0}, {0, 4}, {3, 4}}
	for _, p := range invalid {
		if g.Contains(p) {
			t.Errorf("Contains(%v) = true, want false", p)
		}
	}
}

func TestIsObstacle(t *testing.T) {
	g, err := New(2, 2, []Point{{0, 1}, {0, 1}})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if g.ObstacleCount() != 1 {
		t.Errorf("ObstacleCount() = %d, want 1", g.ObstacleCount())
	}
	if !g.IsObstacle(Point{0, 1}) {
		t.Error("IsObstacle((0,1)) = false, want true")
	}
	if g.IsObstacle(Point{1, 1}) {
		t.Error("IsObstacle((1,1)) = true, want false")
	}
	if g.IsObstacle(Point{-1, 1}) {
		t.Error("IsObstacle out of bounds should be false")
	}
}

func TestWithObstacleLeavesReceiver(t *testing.T) {
	base, err := New(3, 3, []Point{{0, 0}})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	mod, err := base.WithObstacle(Point{1, 1})
	if err != nil {
		t.Fatalf("WithObstacle error: %v", err)
	}
	if !mod.IsObstacle(Point{1, 1}) || !mod.IsObstacle(Point{0, 0}) {
		t.Error("copy should hold both obstacles")
	}
	if mod.ObstacleCount() != 2 {
		t.Errorf("copy ObstacleCount() = %d, want 2", mod.ObstacleCount())
	}
	if base.IsObstacle(Point{1, 1}) {
		t.Error("WithObstacle mutated the receiver")
	}
	if base.ObstacleCount() != 1 {
		t.Errorf("receiver ObstacleCount() = %d, want 1", base.ObstacleCount())
	}

	same, err := base.WithObstacle(Point{0, 0})
	if err != nil {
		t.Fatalf("WithObstacle on existing obstacle error: %v", err)
	}
	if same.ObstacleCount() != 1 {
		t.Errorf("re-adding obstacle ObstacleCount() = %d, want 1", same.ObstacleCount())
	}

	if _, err := base.WithObstacle(Point{3, 0}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("WithObstacle out of bounds error = %v, want %v", err, ErrOutOfBounds)
	}
}

func TestIndexRoundTrip(t *testing.T) {
	g, err := New(4, 7, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	for i := 0; i < g.Cells(); i++ {
		p := g.PointAt(i)
		if !g.Contains(p) {
			t.Fatalf("PointAt(%d) = %v outside grid", i, p)
		}
		if got := g.Index(p); got != i {
			t.Errorf("Index(PointAt(%d)) = %d", i, got)
		}
	}
}

func TestObstaclesRowMajor(t *testing.T) {
	g, err := New(3, 3, []Point{{2, 0}, {0, 2}, {1, 1}})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	got := g.Obstacles()
	want := []Point{{0, 2}, {1, 1}, {2, 0}}
	if len(got) != len(want) {
		t.Fatalf("Obstacles() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Obstacles()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if g.String() != "..#\n.#.\n#..\n" {
		t.Errorf("String() = %q", g.String())
	}
}
