// Package search counts the single-obstacle placements that trap the guard in a loop.
//
// The candidate pool is the set of cells the unobstructed guard visits, minus the
// start cell. Each candidate is an independent trial: copy the baseline grid, add
// one obstacle, and classify the walk from the original start. Trials share the
// baseline grid read-only and own everything else, so they run on a bounded
// worker pool without locks and the count does not depend on scheduling.
package search

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	perrors "github.com/matzehuels/patrol/pkg/errors"
	"github.com/matzehuels/patrol/pkg/grid"
	"github.com/matzehuels/patrol/pkg/observability"
	"github.com/matzehuels/patrol/pkg/patrol"
)

// ErrBaselineCycle reports an unobstructed walk that never leaves the grid.
// It is fatal for an analysis, unlike a cycle found by a candidate trial.
var ErrBaselineCycle = errors.New("search: baseline walk does not exit")

// Options configures a search.
type Options struct {
	// Workers bounds the number of concurrent trials.
	// Zero or negative means runtime.GOMAXPROCS(0).
	Workers int

	// MaxSteps is an optional per-walk step ceiling. Zero disables it.
	MaxSteps int
}

// EffectiveWorkers returns the pool size a search with these options uses.
func (o Options) EffectiveWorkers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// classifyOpts translates the options into patrol.Classify options. Every
// trial and the baseline use the same ceiling.
func (o Options) classifyOpts() []patrol.Option {
	if o.MaxSteps > 0 {
		return []patrol.Option{patrol.WithMaxSteps(o.MaxSteps)}
	}
	return nil
}

// Result summarizes an obstruction search.
type Result struct {
	// Candidates is the number of trials run.
	Candidates int `json:"candidates"`
	// Loops is the number of candidates whose obstacle makes the walk cycle.
	Loops int `json:"loops"`
	// LoopPoints lists those candidates in row-major order.
	LoopPoints []grid.Point `json:"loop_points,omitempty"`
	// Workers is the pool size used.
	Workers int `json:"workers"`
}

// Baseline classifies the unobstructed walk. A cycling baseline is reported as
// an error wrapping ErrBaselineCycle; the returned outcome is always Exited.
func Baseline(g *grid.Grid, start grid.Agent, opts Options) (patrol.Outcome, error) {
	out, err := patrol.Classify(g, start, opts.classifyOpts()...)
	if err != nil {
		return patrol.Outcome{}, err
	}
	if out.Kind == patrol.Cycled {
		return patrol.Outcome{}, perrors.Wrap(perrors.ErrCodeBaselineCycle, ErrBaselineCycle,
			"guard starting at %s loops after %d steps without an added obstacle", start, out.Steps)
	}
	return out, nil
}

// Candidates returns visited without the start position, preserving order.
func Candidates(visited []grid.Point, start grid.Agent) []grid.Point {
	out := make([]grid.Point, 0, len(visited))
	for _, p := range visited {
		if p != start.Pos {
			out = append(out, p)
		}
	}
	return out
}

// Count runs the baseline walk and then the obstruction search over its cells.
//
//	g, start, _ := grid.ParseBytes(data)
//	res, err := search.Count(ctx, g, start, search.Options{Workers: 8})
//	if errors.Is(err, search.ErrBaselineCycle) {
//	    // the map loops before any obstacle is added
//	}
//	fmt.Println(res.Loops, res.LoopPoints)
//
// The result is the same for every worker count.
func Count(ctx context.Context, g *grid.Grid, start grid.Agent, opts Options) (Result, error) {
	base, err := Baseline(g, start, opts)
	if err != nil {
		return Result{}, err
	}
	return Obstructions(ctx, g, start, base.Visited, opts)
}

// Obstructions runs one trial per candidate drawn from visited, which must be
// the visited set of an exiting baseline walk from start.
//
// The first failing trial (trapped guard, step limit) cancels the remaining
// trials and its error is returned.
func Obstructions(ctx context.Context, g *grid.Grid, start grid.Agent, visited []grid.Point, opts Options) (Result, error) {
	candidates := Candidates(visited, start)
	workers := opts.EffectiveWorkers()
	hooks := observability.Pipeline()
	classifyOpts := opts.classifyOpts()

	hooks.OnSearchStart(ctx, len(candidates), workers)
	began := time.Now()

	cycled := make([]bool, len(candidates))
	var loops atomic.Int64

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, c := range candidates {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			trialStart := time.Now()
			trial, err := g.WithObstacle(c)
			if err != nil {
				return err
			}
			out, err := patrol.Classify(trial, start, classifyOpts...)
			if err != nil {
				return fmt.Errorf("obstacle at %s: %w", c, err)
			}
			isLoop := out.Kind == patrol.Cycled
			hooks.OnTrialComplete(egCtx, isLoop, out.Steps, time.Since(trialStart))
			if isLoop {
				cycled[i] = true
				loops.Add(1)
			}
			return nil
		})
	}
	err := eg.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		hooks.OnSearchComplete(ctx, len(candidates), int(loops.Load()), time.Since(began), err)
		return Result{}, err
	}

	res := Result{
		Candidates: len(candidates),
		Loops:      int(loops.Load()),
		Workers:    workers,
	}
	for i, isLoop := range cycled {
		if isLoop {
			res.LoopPoints = append(res.LoopPoints, candidates[i])
		}
	}
	slices.SortFunc(res.LoopPoints, func(a, b grid.Point) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	hooks.OnSearchComplete(ctx, res.Candidates, res.Loops, time.Since(began), nil)
	return res, nil
}
