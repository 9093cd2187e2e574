package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/patrol/pkg/grid"
	"github.com/matzehuels/patrol/pkg/pipeline"
)

// solveFlags holds the solve command's flag values. Zero numeric values
// mean "use the config file".
type solveFlags struct {
	json      bool
	workers   int
	maxSteps  int
	noCache   bool
	refresh   bool
	showLoops bool
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var f solveFlags
	cmd := &cobra.Command{
		Use:   "solve <file>",
		Short: "Count visited cells and loop-inducing obstacles",
		Long: `Solve walks the guard through the map in <file> ("-" reads stdin).

Part 1 is the number of distinct cells the guard visits before leaving the map.
Part 2 is the number of cells where a single added obstacle traps the guard in
a loop. The guard's starting cell is never a candidate.`,
		Example: `  patrol solve input.txt
  patrol solve --loops --workers 4 input.txt
  cat input.txt | patrol solve --json -`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: gridFileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd, args[0], f)
		},
	}

	cmd.Flags().BoolVar(&f.json, "json", false, "print the full result as JSON")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "concurrent obstruction trials (default GOMAXPROCS)")
	cmd.Flags().IntVar(&f.maxSteps, "max-steps", 0, "fail any walk longer than this many steps (0 = unlimited)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVar(&f.showLoops, "loops", false, "list the loop-inducing obstacle positions")

	return cmd
}

// runSolve reads the map, runs it through a cached pipeline.Runner and
// prints the result. The spinner runs on stderr only in the plain text mode,
// so it never mixes with JSON output or verbose logs.
func (c *CLI) runSolve(cmd *cobra.Command, path string, f solveFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	input, err := pipeline.ReadInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := c.pipelineOptions(cmd, f.workers, f.maxSteps, f.refresh)
	prog := newProgress(logger)

	var spin *Spinner
	if !f.json && !c.verbose {
		spin = newSpinner(ctx, cmd.ErrOrStderr(), "Walking guard...")
		spin.Start()
	}
	res, err := runner.Execute(ctx, input, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	prog.done("analyzed "+displayName(path), "visited", res.Visited, "loops", res.Search.Loops)

	if f.json {
		return writeResultJSON(out, res)
	}
	printResult(out, path, res, f.showLoops)
	return nil
}

// writeResultJSON writes the full pipeline.Result, indented for reading.
func writeResultJSON(w io.Writer, res *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// printResult renders the human-readable summary:
//
//	✓ Analyzed input.txt
//	Part 1 41
//	Part 2 6
//	  10×10 grid · 45 steps · 40 candidates · 8 workers · 1.2ms · fresh
//
// followed by the loop points with --loops and a replay suggestion.
func printResult(w io.Writer, path string, res *pipeline.Result, showLoops bool) {
	printSuccess(w, "Analyzed %s", displayName(path))
	printKeyValue(w, "Part 1", StyleNumber.Render(strconv.Itoa(res.Visited)))
	printKeyValue(w, "Part 2", StyleNumber.Render(strconv.Itoa(res.Search.Loops)))
	printStats(w, res.CacheInfo.Hit,
		fmt.Sprintf("%d×%d grid", res.Height, res.Width),
		fmt.Sprintf("%d steps", res.Steps),
		fmt.Sprintf("%d candidates", res.Search.Candidates),
		fmt.Sprintf("%d workers", res.Search.Workers),
		res.Stats.Total().Round(time.Microsecond).String(),
	)
	if showLoops && len(res.Search.LoopPoints) > 0 {
		printInfo(w, "Loop-inducing obstacles")
		printDetail(w, "%s", joinPoints(res.Search.LoopPoints))
	}
	if path != pipeline.StdinPath && len(res.Search.LoopPoints) > 0 {
		p := res.Search.LoopPoints[0]
		printNextStep(w, "Watch the first loop", fmt.Sprintf("patrol replay --obstacle %d,%d %s", p.Row, p.Col, path))
	}
}

// joinPoints formats points as "(r,c) (r,c) ...".
func joinPoints(pts []grid.Point) string {
	s := make([]string, len(pts))
	for i, p := range pts {
		s[i] = p.String()
	}
	return strings.Join(s, " ")
}

// displayName names the input in messages; "-" reads as "stdin".
func displayName(path string) string {
	if path == pipeline.StdinPath {
		return "stdin"
	}
	return path
}
