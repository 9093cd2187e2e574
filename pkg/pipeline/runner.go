package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/patrol/pkg/cache"
	"github.com/matzehuels/patrol/pkg/grid"
	"github.com/matzehuels/patrol/pkg/observability"
	"github.com/matzehuels/patrol/pkg/search"
)

// Runner encapsulates analysis execution with result caching.
// Both the CLI and the HTTP server use it, so caching, timing and logging
// behave the same at every entry point.
//
// The Runner is stateless except for the cache and logger: it doesn't store
// analysis results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides cache.TTLResult when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log.Default() is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute analyzes the grid text in input with caching.
//
// Unless opts.Refresh is set, a cached result for the same input and
// result-relevant options is returned with CacheInfo.Hit set and a fresh ID;
// its Stats describe the run that produced it. Otherwise Execute calls
// Analyze and stores the result. Cache failures are logged and never fail
// the analysis.
func (r *Runner) Execute(ctx context.Context, input []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	inputHash := cache.Hash(input)
	key := r.Keyer.ResultKey(inputHash, opts.ResultKeyOpts())

	if !opts.Refresh {
		if res, ok := r.lookup(ctx, key); ok {
			res.ID = uuid.NewString()
			res.CacheInfo = CacheInfo{Hit: true, Key: key}
			opts.Logger.Info("loaded cached result",
				"visited", res.Visited,
				"loops", res.Search.Loops,
				"key", shortKey(key))
			return res, nil
		}
	}

	res, err := r.Analyze(ctx, input, opts)
	if err != nil {
		return nil, err
	}
	res.InputHash = inputHash
	res.CacheInfo = CacheInfo{Key: key}
	r.store(ctx, key, res, opts.Logger)
	return res, nil
}

// Analyze runs the parse → baseline → search stages without touching the
// cache. Stage errors are wrapped with the stage name ("parse: ...") and keep
// their pkg/errors code.
func (r *Runner) Analyze(ctx context.Context, input []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	res := &Result{ID: uuid.NewString(), InputHash: cache.Hash(input)}

	parseStart := time.Now()
	g, start, err := Parse(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	res.Stats.ParseTime = time.Since(parseStart)
	res.Height, res.Width, res.Start = g.Height(), g.Width(), start
	logger.Debug("parsed grid",
		"height", g.Height(),
		"width", g.Width(),
		"obstacles", g.ObstacleCount(),
		"start", start.String())

	base, err := r.baseline(ctx, g, start, opts)
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}
	res.Stats.BaselineTime = base.took
	res.Visited = len(base.visited)
	res.Steps = base.steps
	logger.Info("walked baseline",
		"visited", res.Visited,
		"steps", res.Steps,
		"duration", res.Stats.BaselineTime)

	searchStart := time.Now()
	sr, err := search.Obstructions(ctx, g, start, base.visited, opts.SearchOptions())
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	res.Search = sr
	res.Stats.SearchTime = time.Since(searchStart)
	logger.Info("searched obstructions",
		"candidates", sr.Candidates,
		"loops", sr.Loops,
		"workers", sr.Workers,
		"duration", res.Stats.SearchTime)

	return res, nil
}

// baselineRun is the part of the baseline walk the search stage needs.
type baselineRun struct {
	visited []grid.Point
	steps   int
	took    time.Duration
}

// baseline walks the unobstructed grid and reports it to the pipeline hooks.
func (r *Runner) baseline(ctx context.Context, g *grid.Grid, start grid.Agent, opts Options) (baselineRun, error) {
	began := time.Now()
	out, err := search.Baseline(g, start, opts.SearchOptions())
	took := time.Since(began)
	observability.Pipeline().OnBaselineComplete(ctx, len(out.Visited), out.Steps, took, err)
	if err != nil {
		return baselineRun{}, err
	}
	return baselineRun{visited: out.Visited, steps: out.Steps, took: took}, nil
}

// lookup returns the cached result for key. Read errors and undecodable
// entries count as misses.
func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", shortKey(key), "err", err)
		hooks.OnCacheMiss(ctx, cache.KeyTypeResult)
		return nil, false
	}
	if !hit {
		hooks.OnCacheMiss(ctx, cache.KeyTypeResult)
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		r.Logger.Debug("discarding undecodable cache entry", "key", shortKey(key), "err", err)
		hooks.OnCacheMiss(ctx, cache.KeyTypeResult)
		return nil, false
	}
	hooks.OnCacheHit(ctx, cache.KeyTypeResult)
	return &res, true
}

// store caches res under key for r.TTL, or cache.TTLResult when unset.
func (r *Runner) store(ctx context.Context, key string, res *Result, logger *log.Logger) {
	data, err := json.Marshal(res)
	if err != nil {
		logger.Warn("encode result for cache", "err", err)
		return
	}
	ttl := cache.TTLResult
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key", shortKey(key), "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cache.KeyTypeResult, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger fills a missing opts.Logger from the runner.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// shortKey trims a cache key for log output.
func shortKey(key string) string {
	if len(key) > 24 {
		return key[:24]
	}
	return key
}
