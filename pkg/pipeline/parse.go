package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	perrors "github.com/matzehuels/patrol/pkg/errors"
	"github.com/matzehuels/patrol/pkg/grid"
	"github.com/matzehuels/patrol/pkg/observability"
)

// StdinPath is the input path that reads from standard input.
const StdinPath = "-"

// ReadInput loads grid text from path, or from stdin when path is "-".
//
// Errors carry pkg/errors codes so the CLI can report them without a stack:
//   - FILE_NOT_FOUND: path does not exist
//   - INVALID_PATH: path is empty or a directory
//   - INVALID_INPUT: the input exceeds errors.MaxInputBytes
//
// Stdin is read through a limit one byte past the maximum, so an oversized
// stream is detected without buffering all of it.
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == StdinPath {
		data, err := io.ReadAll(io.LimitReader(stdin, perrors.MaxInputBytes+1))
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, perrors.ValidateInputSize(data)
	}

	if err := perrors.ValidateInputPath(path); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "input file %s does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, perrors.New(perrors.ErrCodeInvalidPath, "input %s is a directory", path)
	}
	if info.Size() > perrors.MaxInputBytes {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "input %s is %d bytes, limit is %d", path, info.Size(), perrors.MaxInputBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, perrors.ValidateInputSize(data)
}

// Parse parses grid text into a grid and the guard's starting state,
// reporting the stage to the pipeline hooks. Malformed text yields an
// INVALID_INPUT error whose message starts with the 1-based "line:col".
func Parse(ctx context.Context, input []byte) (*grid.Grid, grid.Agent, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, len(input))
	start := time.Now()

	if err := perrors.ValidateInputSize(input); err != nil {
		hooks.OnParseComplete(ctx, 0, 0, time.Since(start), err)
		return nil, grid.Agent{}, err
	}
	g, agent, err := grid.Parse(bytes.NewReader(input))
	if err != nil {
		hooks.OnParseComplete(ctx, 0, 0, time.Since(start), err)
		return nil, grid.Agent{}, err
	}
	hooks.OnParseComplete(ctx, g.Height(), g.Width(), time.Since(start), nil)
	return g, agent, nil
}
