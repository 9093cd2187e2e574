package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// spinnerFrames are braille dots that read as rotation in most terminal fonts.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is the frame period of the animation.
const spinnerInterval = 80 * time.Millisecond

// Spinner provides a one-line progress indicator with context cancellation
// support. It writes to w (stderr for `patrol solve`) so JSON on stdout stays
// clean, and it is never started under --json or --verbose.
//
//	sp := newSpinner(ctx, cmd.ErrOrStderr(), "searching obstructions")
//	sp.Start()
//	res, err := runner.Execute(ctx, input, opts)
//	sp.Stop()
type Spinner struct {
	w       io.Writer
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	mu      sync.Mutex
}

// newSpinner creates a spinner that will stop when ctx is cancelled.
// Nothing is drawn until Start is called.
func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		message: message,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the spinner animation in a background goroutine. The first
// frame appears after one interval, so fast runs never flash a spinner.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				s.mu.Lock()
				fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
				s.mu.Unlock()
			}
		}
	}()
}

// Stop ends the animation and clears the line. It is safe to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

// Cancelled reports whether the spinner's context has ended, either through
// Stop or because the parent context (e.g. SIGINT) was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

// clearLine overwrites the spinner line with spaces and returns the cursor
// to column zero.
func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}
