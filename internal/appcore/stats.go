package appcore

import (
	"context"
	"errors"

	"github.com/dustin/go-humanize"

	"asmkit/internal/assembly"
	"asmkit/internal/fault"
	"asmkit/internal/logging"
)

// ErrNoInput is returned when a command has nothing to process.
var ErrNoInput = errors.New("no input files")

// StatsOptions selects the assemblies to summarize.
type StatsOptions struct {
	InDir    string
	Patterns []string // file name patterns for InDir; assembly.DefaultPatterns if empty
	Files    []string
	OutTable string
}

// Stats writes one row per assembly to o.OutTable. Unreadable or corrupt
// files get a zero row and do not fail the run.
func Stats(ctx context.Context, env Env, o StatsOptions) (Summary, error) {
	if o.InDir != "" {
		if err := fault.RequireInput(o.InDir); err != nil {
			return Summary{}, err
		}
	}
	for _, f := range o.Files {
		if err := fault.RequireInput(f); err != nil {
			return Summary{}, err
		}
	}
	if err := fault.RequireAbsent(o.OutTable); err != nil {
		return Summary{}, err
	}

	var paths []string
	if o.InDir != "" {
		found, err := assembly.Discover(o.InDir, o.Patterns...)
		if err != nil {
			return Summary{}, err
		}
		paths = append(paths, found...)
	}
	paths = append(paths, o.Files...)
	if len(paths) == 0 {
		return Summary{}, ErrNoInput
	}

	log := logging.Component(env.Log, "stats")
	failed := 0
	sum, err := runToTable(ctx, env, "stats", o.OutTable, assembly.Header, paths,
		assembly.Compute,
		func(path string, _ error) assembly.Row { return assembly.Failed(path) },
		func(r assembly.Row) {
			if r.Failed {
				failed++
				log.Warn().Str("file", r.FileName).Msg("unreadable assembly, wrote zero row")
			}
		})
	if err != nil {
		return sum, err
	}
	log.Info().
		Str("rows", humanize.Comma(int64(sum.Rows))).
		Int("failed", failed).
		Str("table", o.OutTable).
		Dur("elapsed", sum.Elapsed).
		Msg("assembly stats written")
	return sum, nil
}
