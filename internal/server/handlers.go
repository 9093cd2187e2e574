package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	perrors "github.com/matzehuels/patrol/pkg/errors"
	"github.com/matzehuels/patrol/pkg/grid"
	"github.com/matzehuels/patrol/pkg/pipeline"
)

// AnalyzeResponse is the body of a successful POST /v1/analyze.
type AnalyzeResponse struct {
	ID         string       `json:"id"`
	Visited    int          `json:"visited"`
	Loops      int          `json:"loops"`
	Candidates int          `json:"candidates"`
	Cached     bool         `json:"cached"`
	DurationMS int64        `json:"duration_ms"`
	LoopPoints []grid.Point `json:"loop_points,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code  perrors.Code `json:"code"`
	Error string       `json:"error"`
}

// handleHealth answers liveness probes. It does not touch the cache.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// handleAnalyze accepts raw grid text. Query parameters:
//
//	refresh=1  bypass the result cache
//	loops=1    include loop_points in the response
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := s.logger.With("request_id", requestIDFrom(r.Context()))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, perrors.MaxInputBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = perrors.New(perrors.ErrCodeInvalidInput, "request body exceeds %d bytes", perrors.MaxInputBytes)
		} else {
			err = perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read request body")
		}
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	if s.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
	}

	q := r.URL.Query()
	res, err := s.runner.Execute(ctx, body, pipeline.Options{
		Workers:  s.opts.Workers,
		MaxSteps: s.opts.MaxSteps,
		Refresh:  queryBool(q.Get("refresh")),
		Logger:   logger,
	})
	if err != nil {
		logger.Warn("analysis failed", "code", perrors.GetCode(err), "err", err)
		s.writeError(w, err)
		return
	}

	resp := AnalyzeResponse{
		ID:         res.ID,
		Visited:    res.Visited,
		Loops:      res.Search.Loops,
		Candidates: res.Search.Candidates,
		Cached:     res.CacheInfo.Hit,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if queryBool(q.Get("loops")) {
		resp.LoopPoints = res.Search.LoopPoints
	}
	writeJSON(w, http.StatusOK, resp)
}

// statusFor maps an analysis error onto an HTTP status by error class:
//   - input (malformed grid, bad options): 400
//   - simulation (looping baseline, trapped guard, step limit): 422
//   - not found: 404
//   - request deadline exceeded: 503
//   - anything else: 500
func statusFor(err error) int {
	switch perrors.GetCode(err).Class() {
	case perrors.ClassInput:
		return http.StatusBadRequest
	case perrors.ClassSimulation:
		return http.StatusUnprocessableEntity
	case perrors.ClassNotFound:
		return http.StatusNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError writes an ErrorResponse. Uncoded internal errors are reported
// as INTERNAL_ERROR without their text, which may name server paths.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := perrors.GetCode(err)
	msg := perrors.UserMessage(err)
	if code == "" {
		code = perrors.ErrCodeInternal
		if status == http.StatusInternalServerError {
			msg = "internal error"
		}
	}
	writeJSON(w, status, ErrorResponse{Code: code, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// queryBool parses a query flag; anything strconv.ParseBool rejects is false.
func queryBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}
