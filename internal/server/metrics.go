package server

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	perrors "github.com/matzehuels/patrol/pkg/errors"
	"github.com/matzehuels/patrol/pkg/observability"
)

// durationBuckets span a tiny grid parse (1ms) to a large search (10s).
var durationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10}

// Metrics records pipeline, cache and HTTP events as Prometheus series.
// It implements all three observability hook interfaces, so one value wired
// through Install instruments the whole process:
//
//	m := server.NewMetrics()
//	m.Install()
//	srv := server.New(runner, logger, m, opts)
//
// Series live on a private registry rather than the global default, which
// keeps tests independent and /metrics free of unrelated collectors.
type Metrics struct {
	registry *prometheus.Registry

	parseDuration   prometheus.Histogram
	parseErrors     *prometheus.CounterVec
	baselineVisited prometheus.Histogram
	searchDuration  prometheus.Histogram
	searches        *prometheus.CounterVec
	trials          *prometheus.CounterVec

	cacheRequests *prometheus.CounterVec
	cacheBytes    prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
}

// NewMetrics registers the patrol series on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		parseDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "patrol_parse_duration_seconds",
			Help:    "Time to parse grid text",
			Buckets: durationBuckets,
		}),
		parseErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "patrol_parse_errors_total",
			Help: "Grid texts rejected by the parser, by error code",
		}, []string{"code"}),
		baselineVisited: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "patrol_baseline_visited_cells",
			Help:    "Distinct cells covered by unobstructed walks",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		searchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "patrol_search_duration_seconds",
			Help:    "Time to run an obstruction search",
			Buckets: durationBuckets,
		}),
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "patrol_searches_total",
			Help: "Obstruction searches by outcome",
		}, []string{"outcome"}),
		trials: f.NewCounterVec(prometheus.CounterOpts{
			Name: "patrol_trials_total",
			Help: "Obstruction trials by result",
		}, []string{"result"}),
		cacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "patrol_cache_requests_total",
			Help: "Result cache lookups by result",
		}, []string{"result"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "patrol_cache_written_bytes_total",
			Help: "Bytes written to the result cache",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "patrol_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "patrol_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: durationBuckets,
		}, []string{"method", "route"}),
		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "patrol_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),
	}
}

// Registry returns the registry backing /metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Install registers m as the process-wide observability hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *Metrics) OnParseStart(context.Context, int) {}

func (m *Metrics) OnParseComplete(_ context.Context, _, _ int, d time.Duration, err error) {
	if err != nil {
		m.parseErrors.WithLabelValues(codeLabel(err)).Inc()
		return
	}
	m.parseDuration.Observe(d.Seconds())
}

func (m *Metrics) OnBaselineComplete(_ context.Context, visited, _ int, _ time.Duration, err error) {
	if err == nil {
		m.baselineVisited.Observe(float64(visited))
	}
}

func (m *Metrics) OnSearchStart(context.Context, int, int) {}

func (m *Metrics) OnTrialComplete(_ context.Context, cycled bool, _ int, _ time.Duration) {
	if cycled {
		m.trials.WithLabelValues("loop").Inc()
		return
	}
	m.trials.WithLabelValues("exit").Inc()
}

func (m *Metrics) OnSearchComplete(_ context.Context, _, _ int, d time.Duration, err error) {
	if err != nil {
		m.searches.WithLabelValues(codeLabel(err)).Inc()
		return
	}
	m.searches.WithLabelValues("ok").Inc()
	m.searchDuration.Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(context.Context, string)  { m.cacheRequests.WithLabelValues("hit").Inc() }
func (m *Metrics) OnCacheMiss(context.Context, string) { m.cacheRequests.WithLabelValues("miss").Inc() }

func (m *Metrics) OnCacheSet(_ context.Context, _ string, size int) {
	m.cacheBytes.Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) { m.httpInFlight.Inc() }

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func codeLabel(err error) string {
	if c := perrors.GetCode(err); c != "" {
		return string(c)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return string(perrors.ErrCodeInternal)
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
