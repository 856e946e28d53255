// Package appshell turns the asmkit command tree into a process: it wires the
// signal context that batch rounds watch and maps the outcome to an exit code.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"asmkit/internal/app"
)

// Entry is the shape of app.RunContext.
type Entry func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Main runs entry under a context canceled on SIGINT or SIGTERM and exits.
// An interrupt lets the batch round in flight finish, so the sink still
// receives every record already computed before the process leaves.
func Main(entry Entry) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, entry, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// Run calls entry and returns the process exit code. A bare invocation
// prints the root help.
func Run(ctx context.Context, entry Entry, argv []string, stdout, stderr io.Writer) int {
	if len(argv) == 0 {
		argv = []string{"--help"}
	}
	return exitCode(ctx, entry(ctx, argv, stdout, stderr))
}

// exitCode keeps a run that was stopped early from looking like a complete
// one: a partial output table after a signal still reports 130.
func exitCode(ctx context.Context, code int) int {
	if ctx.Err() != nil && code == app.ExitOK {
		return app.ExitInterrupted
	}
	return code
}
