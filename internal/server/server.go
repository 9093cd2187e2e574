// Package server exposes patrol analyses over HTTP.
//
//	POST /v1/analyze   grid text in, JSON counts out
//	GET  /healthz      liveness
//	GET  /metrics      Prometheus exposition
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/patrol/pkg/pipeline"
)

// Options configures a Server.
type Options struct {
	// Workers and MaxSteps are applied to every analysis.
	Workers  int
	MaxSteps int

	// RequestTimeout bounds a single analysis. Zero means no limit.
	RequestTimeout time.Duration
}

// Server routes HTTP requests to a pipeline.Runner.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics *Metrics
	opts    Options
	router  chi.Router
}

// New builds the router. metrics may be nil, in which case /metrics serves an
// empty registry.
func New(runner *pipeline.Runner, logger *log.Logger, metrics *Metrics, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	s := &Server{
		runner:  runner,
		logger:  logger,
		metrics: metrics,
		opts:    opts,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	// instrument wraps Recoverer so a panicking handler is still counted,
	// as a 500.
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight
// requests for up to five seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
