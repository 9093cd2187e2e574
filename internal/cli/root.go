// Package cli implements the patrol command-line interface.
//
// # Commands
//
//   - solve: analyze a grid file and print the visited and loop counts
//   - replay: step through the guard's walk in a terminal UI
//   - serve: expose analyses over HTTP
//   - cache: inspect or clear the result cache
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// carried on the CLI and in the command context.
//
// # Example
//
//	func main() {
//	    if err := cli.Execute(context.Background(), os.Stderr); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
)

// Execute builds the command tree and runs it with ctx.
func Execute(ctx context.Context, logOutput io.Writer) error {
	c := New(logOutput, LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
