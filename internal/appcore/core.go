// Package appcore wires the batch engine to the adapters and result sinks
// behind each asmkit command.
package appcore

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"asmkit/internal/batch"
	"asmkit/internal/logging"
	"asmkit/internal/table"
)

// Env carries the settings shared by every command.
type Env struct {
	Log    zerolog.Logger
	Cores  int
	Stdout io.Writer
}

// Summary describes one batch run.
type Summary struct {
	Items     int
	Rows      int
	Batches   int
	MaxActive int
	Elapsed   time.Duration
}

// runBatch drives items through work in rounds of env.Cores, handing every
// result to sink.
func runBatch[I, R any](
	ctx context.Context,
	env Env,
	name string,
	items []I,
	work batch.WorkFunc[I, R],
	fallback batch.FallbackFunc[I, R],
	sink func(R) error,
) (Summary, error) {
	log := logging.Component(env.Log, name)
	blog := logging.Component(env.Log, "batch")

	eng, err := batch.New(batch.Config{
		Concurrency: env.Cores,
		Logger:      &blog,
		OnBatch: batch.Checkpoint(func(p batch.Progress) {
			log.Info().
				Str("done", humanize.Comma(int64(p.Done))).
				Str("total", humanize.Comma(int64(p.Total))).
				Str("pct", humanize.FtoaWithDigits(p.Percent(), 1)).
				Int("batch", p.Batch).
				Dur("elapsed", p.Elapsed).
				Msg("progress")
		}),
	}, work, fallback)
	if err != nil {
		return Summary{}, err
	}

	start := time.Now()
	log.Info().Int("items", len(items)).Int("cores", env.Cores).Msg("starting")
	st, err := eng.Run(ctx, items, sink)
	sum := Summary{
		Items:     st.Items,
		Batches:   st.Batches,
		MaxActive: st.MaxActive,
		Elapsed:   time.Since(start),
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("run failed")
	}
	return sum, err
}

// runToTable is runBatch with every result appended to a new table at out.
func runToTable[I any, R table.Row](
	ctx context.Context,
	env Env,
	name, out string,
	header []string,
	items []I,
	work batch.WorkFunc[I, R],
	fallback batch.FallbackFunc[I, R],
	observe func(R),
) (Summary, error) {
	sink, err := table.Create(out, header)
	if err != nil {
		return Summary{}, err
	}
	sum, err := runBatch(ctx, env, name, items, work, fallback, func(r R) error {
		if observe != nil {
			observe(r)
		}
		return sink.Write(r)
	})
	sum.Rows = sink.Rows()
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	return sum, err
}
