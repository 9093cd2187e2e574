package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/patrol/pkg/cache"
	perrors "github.com/matzehuels/patrol/pkg/errors"
	"github.com/matzehuels/patrol/pkg/observability"
	"github.com/matzehuels/patrol/pkg/pipeline"
)

const sampleMap = `....#.....
.........#
..........
..#.......
.......#..
..........
.#..^.....
........#.
#.........
......#...
`

func newTestServer(t *testing.T, c cache.Cache) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	return New(pipeline.NewRunner(c, nil, logger), logger, NewMetrics(), Options{Workers: 2})
}

func post(t *testing.T, h http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "ok")
	}
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(t, nil)
	rec := post(t, s, "/v1/analyze", sampleMap)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("%s = %q is not a uuid", RequestIDHeader, rec.Header().Get(RequestIDHeader))
	}

	resp := decode[AnalyzeResponse](t, rec)
	if resp.Visited != 41 || resp.Loops != 6 || resp.Candidates != 40 {
		t.Errorf("response = %+v, want visited 41, loops 6, candidates 40", resp)
	}
	if resp.ID == "" {
		t.Error("id should be set")
	}
	if resp.Cached {
		t.Error("cached = true without a cache")
	}
	if resp.LoopPoints != nil {
		t.Error("loop_points should be omitted unless requested")
	}
}

func TestAnalyzeLoopPoints(t *testing.T) {
	s := newTestServer(t, nil)
	resp := decode[AnalyzeResponse](t, post(t, s, "/v1/analyze?loops=1", sampleMap))
	if len(resp.LoopPoints) != 6 {
		t.Fatalf("loop_points = %v, want 6 points", resp.LoopPoints)
	}
	if got := resp.LoopPoints[0].String(); got != "(6,3)" {
		t.Errorf("loop_points[0] = %s, want (6,3)", got)
	}
}

func TestAnalyzeCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, fc)

	first := decode[AnalyzeResponse](t, post(t, s, "/v1/analyze", sampleMap))
	second := decode[AnalyzeResponse](t, post(t, s, "/v1/analyze", sampleMap))
	if first.Cached || !second.Cached {
		t.Errorf("cached = %v, %v, want false, true", first.Cached, second.Cached)
	}
	refreshed := decode[AnalyzeResponse](t, post(t, s, "/v1/analyze?refresh=true", sampleMap))
	if refreshed.Cached {
		t.Error("refresh=true should bypass the cache")
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   perrors.Code
	}{
		{"empty", "", http.StatusBadRequest, perrors.ErrCodeInvalidInput},
		{"unknown cell", "..x\n.^.\n", http.StatusBadRequest, perrors.ErrCodeInvalidInput},
		{"two starts", "^.^\n...\n", http.StatusBadRequest, perrors.ErrCodeInvalidInput},
		{"too large", strings.Repeat(".", perrors.MaxInputBytes+1), http.StatusBadRequest, perrors.ErrCodeInvalidInput},
		{"baseline cycle", ".#..\n...#\n#^..\n..#.\n", http.StatusUnprocessableEntity, perrors.ErrCodeBaselineCycle},
		{"trapped", ".#.\n#^.\n.#.\n", http.StatusUnprocessableEntity, perrors.ErrCodeAgentTrapped},
	}
	s := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s, "/v1/analyze", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decode[ErrorResponse](t, rec)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
			if resp.Error == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

func TestAnalyzeMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/analyze", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "trace-42")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "trace-42" {
		t.Errorf("%s = %q, want %q", RequestIDHeader, got, "trace-42")
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.Install()
	t.Cleanup(observability.Reset)

	logger := log.New(io.Discard)
	s := New(pipeline.NewRunner(nil, nil, logger), logger, m, Options{})
	post(t, s, "/v1/analyze", sampleMap)
	post(t, s, "/v1/analyze", "")

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`patrol_trials_total{result="loop"} 6`,
		`patrol_trials_total{result="exit"} 34`,
		`patrol_searches_total{outcome="ok"} 1`,
		`patrol_parse_errors_total{code="INVALID_INPUT"} 1`,
		`patrol_http_requests_total{method="POST",route="/v1/analyze",status="200"} 1`,
		`patrol_http_requests_total{method="POST",route="/v1/analyze",status="400"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestPanicIsInstrumented(t *testing.T) {
	m := NewMetrics()
	m.Install()
	t.Cleanup(observability.Reset)

	logger := log.New(io.Discard)
	s := New(pipeline.NewRunner(nil, nil, logger), logger, m, Options{})
	s.router.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if got := testutil.ToFloat64(m.httpInFlight); got != 0 {
		t.Errorf("in-flight = %v after a panicking request, want 0", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/boom", "500")); got != 1 {
		t.Errorf("requests{route=/boom,status=500} = %v, want 1", got)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{perrors.New(perrors.ErrCodeInvalidInput, "bad"), http.StatusBadRequest},
		{fmt.Errorf("parse: %w", perrors.New(perrors.ErrCodeInvalidGrid, "bad")), http.StatusBadRequest},
		{perrors.New(perrors.ErrCodeBaselineCycle, "loop"), http.StatusUnprocessableEntity},
		{perrors.New(perrors.ErrCodeAgentTrapped, "stuck"), http.StatusUnprocessableEntity},
		{perrors.New(perrors.ErrCodeStepLimit, "long"), http.StatusUnprocessableEntity},
		{perrors.New(perrors.ErrCodeFileNotFound, "gone"), http.StatusNotFound},
		{fmt.Errorf("search: %w", context.DeadlineExceeded), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
