// Package observability lets a binary attach metrics to the simulation without
// the simulation importing a metrics backend.
//
// Library code reports events through the hook accessors:
//
//	hooks := observability.Pipeline()
//	hooks.OnSearchStart(ctx, len(candidates), workers)
//	// ... run trials, calling hooks.OnTrialComplete for each ...
//	hooks.OnSearchComplete(ctx, len(candidates), loops, time.Since(start), err)
//
// Every accessor returns a no-op implementation until a binary registers its
// own. `patrol serve` registers Prometheus-backed hooks once at startup; the
// other commands run with the defaults.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives parse, baseline and obstruction search events.
type PipelineHooks interface {
	OnParseStart(ctx context.Context, size int)
	OnParseComplete(ctx context.Context, height, width int, duration time.Duration, err error)

	OnBaselineComplete(ctx context.Context, visited, steps int, duration time.Duration, err error)

	OnSearchStart(ctx context.Context, candidates, workers int)
	// OnTrialComplete is called from worker goroutines and must be safe for
	// concurrent use.
	OnTrialComplete(ctx context.Context, cycled bool, steps int, duration time.Duration)
	OnSearchComplete(ctx context.Context, candidates, loops int, duration time.Duration, err error)
}

// CacheHooks receives result cache lookups and writes.
//
// keyType names the kind of entry (cache.KeyTypeResult), never the key
// itself, so implementations may use it as a metric label:
//
//	func (m *metrics) OnCacheHit(_ context.Context, keyType string) {
//	    m.hits.WithLabelValues(keyType).Inc()
//	}
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives request events from the API server.
type HTTPHooks interface {
	// OnRequest fires before routing, so path is the raw request path and
	// unsuitable as a metric label.
	OnRequest(ctx context.Context, method, path string)
	// OnResponse fires once per OnRequest, including for requests whose
	// handler panicked. route is the matched pattern or "unmatched".
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks ignores every event. Embed it to implement a subset.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, int)                                 {}
func (NoopPipelineHooks) OnParseComplete(context.Context, int, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnBaselineComplete(context.Context, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnSearchStart(context.Context, int, int)                           {}
func (NoopPipelineHooks) OnTrialComplete(context.Context, bool, int, time.Duration)         {}
func (NoopPipelineHooks) OnSearchComplete(context.Context, int, int, time.Duration, error)  {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// registry is replaced wholesale on every Set call so readers never lock.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var current atomic.Pointer[registry]

func init() { Reset() }

func update(fn func(*registry)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks installs h for all later Pipeline calls. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks installs h for all later Cache calls. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks installs h for all later HTTP calls. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset reinstalls the no-op hooks. Tests that install hooks call it on cleanup.
func Reset() {
	current.Store(&registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}
