// Package app maps an asmkit invocation onto a process exit code.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"asmkit/internal/cli"
	"asmkit/internal/fault"
	"asmkit/internal/writers"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitUsage       = 2
	ExitFailure     = 3
	ExitInterrupted = 130
)

// RunContext executes argv and returns the exit code. Usage problems, a
// missing input and an existing output exit with ExitUsage before any work
// starts.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	err := cli.Execute(ctx, argv, cli.Deps{
		Stdout: stdout,
		Stderr: stderr,
		NumCPU: runtime.NumCPU(),
	})
	return report(err, stderr)
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// ExitCode classifies err.
func ExitCode(err error) int {
	var ue *cli.UsageError
	switch {
	case err == nil, writers.IsBrokenPipe(err):
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.As(err, &ue), fault.Fatal(err):
		return ExitUsage
	default:
		return ExitFailure
	}
}

func report(err error, stderr io.Writer) int {
	code := ExitCode(err)
	switch code {
	case ExitOK:
	case ExitInterrupted:
		_, _ = fmt.Fprintln(stderr, "interrupted")
	case ExitUsage:
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		var ue *cli.UsageError
		if errors.As(err, &ue) {
			_, _ = fmt.Fprintln(stderr, "Run 'asmkit --help' for usage.")
		}
	default:
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return code
}
