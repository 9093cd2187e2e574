// Package pipeline runs a complete patrol analysis: parse the grid text, walk
// the unobstructed guard, then search for loop-inducing obstacles.
//
// The CLI and the HTTP server both go through a Runner so caching, logging and
// error wrapping behave the same for every entry point.
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, input, pipeline.Options{Workers: 8})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Visited, res.Search.Loops)
//
// Results are cached under the SHA-256 of the raw input plus the options that
// affect the answer, so re-running the same file is a single cache read.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/patrol/pkg/cache"
	perrors "github.com/matzehuels/patrol/pkg/errors"
	"github.com/matzehuels/patrol/pkg/grid"
	"github.com/matzehuels/patrol/pkg/search"
)

// Options configures an analysis. It supports JSON for API requests.
type Options struct {
	// Workers bounds concurrent obstruction trials. Zero means GOMAXPROCS.
	Workers int `json:"workers,omitempty"`

	// MaxSteps caps each walk. Zero means no cap.
	MaxSteps int `json:"max_steps,omitempty"`

	// Refresh skips the cache lookup; the fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults rejects negative limits and installs a discarding
// logger when none is set. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Workers < 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "workers must be >= 0, got %d", o.Workers)
	}
	if o.MaxSteps < 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "max_steps must be >= 0, got %d", o.MaxSteps)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SearchOptions returns the options passed to the search package.
func (o *Options) SearchOptions() search.Options {
	return search.Options{Workers: o.Workers, MaxSteps: o.MaxSteps}
}

// ResultKeyOpts returns the options that participate in the cache key.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{MaxSteps: o.MaxSteps}
}

// Result is the outcome of one analysis.
type Result struct {
	// ID identifies this run. A cache hit gets a fresh ID.
	ID string `json:"id"`

	// InputHash is the SHA-256 of the raw grid text.
	InputHash string `json:"input_hash"`

	Height int        `json:"height"`
	Width  int        `json:"width"`
	Start  grid.Agent `json:"start"`

	// Visited is the number of distinct cells the unobstructed guard covers.
	Visited int `json:"visited"`

	// Steps is the number of states in the unobstructed walk.
	Steps int `json:"steps"`

	// Search holds the obstruction counts.
	Search search.Result `json:"search"`

	// Stats describes the run that computed the result, which for a cache hit
	// is the original run.
	Stats Stats `json:"stats"`

	CacheInfo CacheInfo `json:"cache"`
}

// Stats holds per-stage timings.
type Stats struct {
	ParseTime    time.Duration `json:"parse_time"`
	BaselineTime time.Duration `json:"baseline_time"`
	SearchTime   time.Duration `json:"search_time"`
}

// Total is the sum of the stage timings.
func (s Stats) Total() time.Duration {
	return s.ParseTime + s.BaselineTime + s.SearchTime
}

// CacheInfo reports how the result was obtained.
type CacheInfo struct {
	Hit bool   `json:"hit"`
	Key string `json:"key,omitempty"`
}
