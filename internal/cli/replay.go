package cli

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/patrol/pkg/grid"
	"github.com/matzehuels/patrol/pkg/patrol"
	"github.com/matzehuels/patrol/pkg/pipeline"
)

// replayCommand creates the replay command.
func (c *CLI) replayCommand() *cobra.Command {
	var (
		interval time.Duration
		obstacle string
		paused   bool
	)
	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Step through the guard's walk in the terminal",
		Long: `Replay animates the guard's walk one state at a time. With --obstacle the
walk runs on the map plus one extra obstacle, which is how a loop found by
"patrol solve --loops" can be inspected.

Keys: space play/pause, n or → single step, +/- speed, q quit.`,
		Example: `  patrol replay input.txt
  patrol replay --obstacle 6,3 --interval 20ms input.txt`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: gridFileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := pipeline.ReadInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			g, start, err := grid.Parse(bytes.NewReader(input))
			if err != nil {
				return err
			}
			if obstacle != "" {
				p, err := grid.ParsePoint(obstacle)
				if err != nil {
					return err
				}
				if p == start.Pos {
					return fmt.Errorf("obstacle %s is the guard's start", p)
				}
				if g, err = g.WithObstacle(p); err != nil {
					return err
				}
			}

			m := newReplayModel(g, start, interval)
			m.playing = !paused
			final, err := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			if rm, ok := final.(replayModel); ok {
				printInfo(cmd.OutOrStdout(), "%s after %d steps, %d cells visited", rm.status(), rm.steps, rm.visitedCount)
				return rm.err
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 50*time.Millisecond, "delay between steps while playing")
	cmd.Flags().StringVar(&obstacle, "obstacle", "", "add an obstacle at row,col before walking")
	cmd.Flags().BoolVar(&paused, "paused", false, "start paused")

	return cmd
}

// =============================================================================
// replayModel - bubbletea model over a patrol.Walker
// =============================================================================

var (
	replayGuardStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	replayObstacleStyle = lipgloss.NewStyle().Foreground(colorRed)
	replayTrailStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	replayEmptyStyle    = lipgloss.NewStyle().Foreground(colorDim)
	replayLoopStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// Bounds for the +/- speed keys.
const (
	minInterval = 5 * time.Millisecond
	maxInterval = 2 * time.Second
)

// replayTick advances a playing replay by one state.
type replayTick struct{}

// replayModel pulls one walker state per tick. Repeated states are detected
// with the same one-bit-per-heading mask Classify uses, so a looping walk
// stops instead of animating forever.
type replayModel struct {
	g      *grid.Grid
	walker *patrol.Walker
	cur    grid.Agent
	seen   []uint8

	steps        int
	visitedCount int
	exited       bool
	looped       bool
	err          error

	playing  bool
	interval time.Duration
	viewH    int
	viewW    int
}

func newReplayModel(g *grid.Grid, start grid.Agent, interval time.Duration) replayModel {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	m := replayModel{
		g:        g,
		walker:   patrol.NewWalker(g, start),
		cur:      start,
		seen:     make([]uint8, g.Cells()),
		interval: interval,
		viewH:    24,
		viewW:    80,
	}
	m.step()
	return m
}

func (m replayModel) finished() bool {
	return m.exited || m.looped || m.err != nil
}

// step consumes one state from the walker. The model's seen slice is shared
// between copies, which is fine because bubbletea drives one copy at a time.
func (m *replayModel) step() {
	if m.finished() {
		return
	}
	if !m.walker.Next() {
		m.err = m.walker.Err()
		m.exited = m.err == nil
		m.playing = false
		return
	}
	a := m.walker.Agent()
	i := m.g.Index(a.Pos)
	bit := uint8(1) << a.Dir
	if m.seen[i]&bit != 0 {
		m.looped = true
		m.playing = false
		m.cur = a
		return
	}
	if m.seen[i] == 0 {
		m.visitedCount++
	}
	m.seen[i] |= bit
	m.cur = a
	m.steps++
}

// tick schedules the next replayTick after the current interval.
func (m replayModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return replayTick{} })
}

// Init implements tea.Model. A --paused replay waits for a key.
func (m replayModel) Init() tea.Cmd {
	if m.playing {
		return m.tick()
	}
	return nil
}

// Update implements tea.Model. Keys:
//   - space, p: play or pause
//   - n, right, l: single step
//   - +, -: halve or double the interval
//   - q, esc, ctrl+c: quit
func (m replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			if m.finished() {
				return m, nil
			}
			m.playing = !m.playing
			if m.playing {
				return m, m.tick()
			}
		case "n", "right", "l":
			m.playing = false
			m.step()
		case "+", "=":
			m.interval = max(m.interval/2, minInterval)
		case "-", "_":
			m.interval = min(m.interval*2, maxInterval)
		}
	case replayTick:
		if !m.playing {
			return m, nil
		}
		m.step()
		if m.playing {
			return m, m.tick()
		}
	case tea.WindowSizeMsg:
		m.viewH = max(msg.Height-4, 3)
		m.viewW = max(msg.Width, 3)
	}
	return m, nil
}

// status describes the replay state for the footer line.
func (m replayModel) status() string {
	switch {
	case m.err != nil:
		return "stuck: " + m.err.Error()
	case m.looped:
		return "loop detected"
	case m.exited:
		return "guard left the map"
	case m.playing:
		return "playing"
	}
	return "paused"
}

// window returns the visible row and column ranges, keeping the guard in view
// when the grid is larger than the terminal.
func (m replayModel) window() (r0, r1, c0, c1 int) {
	clamp := func(center, size, limit int) (int, int) {
		if limit <= size {
			return 0, limit
		}
		lo := min(max(center-size/2, 0), limit-size)
		return lo, lo + size
	}
	r0, r1 = clamp(m.cur.Pos.Row, m.viewH, m.g.Height())
	c0, c1 = clamp(m.cur.Pos.Col, m.viewW, m.g.Width())
	return r0, r1, c0, c1
}

// View implements tea.Model: a title, the visible part of the grid with the
// guard, its trail and obstacles, and a status footer.
func (m replayModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("patrol replay"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("step %d · visited %d · %s · %s",
		m.steps, m.visitedCount, m.interval, m.status())))
	b.WriteString("\n\n")

	r0, r1, c0, c1 := m.window()
	guardStyle := replayGuardStyle
	if m.looped {
		guardStyle = replayLoopStyle
	}
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			p := grid.Point{Row: r, Col: c}
			switch {
			case p == m.cur.Pos && !m.exited:
				b.WriteString(guardStyle.Render(string(m.cur.Dir.Rune())))
			case m.g.IsObstacle(p):
				b.WriteString(replayObstacleStyle.Render("#"))
			case m.seen[m.g.Index(p)] != 0:
				b.WriteString(replayTrailStyle.Render("X"))
			default:
				b.WriteString(replayEmptyStyle.Render("."))
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space play/pause  n step  +/- speed  q quit"))
	return b.String()
}
