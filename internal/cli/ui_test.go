package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	perrors "github.com/matzehuels/patrol/pkg/errors"
)

func TestPrintError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantCode string
	}{
		{
			name:     "coded",
			err:      fmt.Errorf("baseline: %w", perrors.New(perrors.ErrCodeBaselineCycle, "guard loops without an added obstacle")),
			wantMsg:  "guard loops without an added obstacle",
			wantCode: "BASELINE_CYCLE",
		},
		{
			name:    "plain",
			err:     errors.New("boom"),
			wantMsg: "boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintError(&buf, tt.err)
			out := buf.String()
			if !strings.Contains(out, tt.wantMsg) {
				t.Errorf("output %q missing message %q", out, tt.wantMsg)
			}
			if tt.wantCode != "" && !strings.Contains(out, tt.wantCode) {
				t.Errorf("output %q missing code %q", out, tt.wantCode)
			}
			if hint := strings.Contains(out, "replay"); hint != (tt.wantCode == "BASELINE_CYCLE") {
				t.Errorf("replay hint shown = %v for %q", hint, out)
			}
			if strings.Contains(out, "baseline:") {
				t.Error("output should use the user message, not the wrapped chain")
			}
		})
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, true, "10×10 grid", "40 candidates")
	out := buf.String()
	for _, want := range []string{"10×10 grid", "40 candidates", iconCached} {
		if !strings.Contains(out, want) {
			t.Errorf("printStats output %q missing %q", out, want)
		}
	}
}
