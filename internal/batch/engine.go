package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")
	ErrNilWork            = errors.New("work function cannot be nil")
)

// WorkFunc computes the single result for one item.
type WorkFunc[I, R any] func(ctx context.Context, item I) R

// FallbackFunc builds the degraded result delivered for an item whose work
// function panicked.
type FallbackFunc[I, R any] func(item I, err error) R

// PanicError wraps a value recovered from a work function.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("worker panic: %v", e.Value) }

// Config controls an Engine.
type Config struct {
	Concurrency int             // workers per round, and the hard ceiling on live workers
	OnBatch     func(Progress)  // optional, called after each round is drained
	Logger      *zerolog.Logger // optional
}

// Stats summarizes a Run.
type Stats struct {
	Items     int
	Batches   int
	MaxActive int
}

// Engine runs work items in rounds of at most Concurrency workers.
type Engine[I, R any] struct {
	cfg      Config
	work     WorkFunc[I, R]
	fallback FallbackFunc[I, R]
	log      zerolog.Logger
}

// New validates cfg and returns an Engine. fallback may be nil, in which
// case a panicking item delivers the zero R.
func New[I, R any](cfg Config, work WorkFunc[I, R], fallback FallbackFunc[I, R]) (*Engine[I, R], error) {
	if cfg.Concurrency < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, cfg.Concurrency)
	}
	if work == nil {
		return nil, ErrNilWork
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Engine[I, R]{cfg: cfg, work: work, fallback: fallback, log: log}, nil
}

// Run partitions items into rounds of at most Concurrency items and hands
// every result to sink in drain order: all results of a round before any of
// the next, in no particular order within a round.
//
// ctx is checked only before a round is formed; a launched round always
// runs to completion. Run returns the first sink error, or ctx.Err() if ctx
// ended between rounds.
func (e *Engine[I, R]) Run(ctx context.Context, items []I, sink func(R) error) (Stats, error) {
	st := Stats{Items: len(items)}
	size := e.cfg.Concurrency
	total := (len(items) + size - 1) / size
	start := time.Now()
	var g gauge

	for off := 0; off < len(items); off += size {
		// ACCUMULATING
		if err := ctx.Err(); err != nil {
			return st, err
		}
		end := min(off+size, len(items))
		round := items[off:end]

		results := e.round(ctx, round, &g)
		st.Batches++
		st.MaxActive = int(g.peak.Load())

		e.log.Debug().
			Int("batch", st.Batches).
			Int("batches", total).
			Int("size", len(round)).
			Msg("batch drained")

		for _, r := range results {
			if err := sink(r); err != nil {
				return st, err
			}
		}
		if e.cfg.OnBatch != nil {
			e.cfg.OnBatch(Progress{
				Done:         end,
				Total:        len(items),
				Batch:        st.Batches,
				TotalBatches: total,
				BatchSize:    len(round),
				Elapsed:      time.Since(start),
			})
		}
		// RESET: the round's channel and group go out of scope here.
	}
	return st, nil
}

// Collect runs items and returns the results in drain order.
func (e *Engine[I, R]) Collect(ctx context.Context, items []I) ([]R, Stats, error) {
	out := make([]R, 0, len(items))
	st, err := e.Run(ctx, items, func(r R) error {
		out = append(out, r)
		return nil
	})
	return out, st, err
}

// round launches one worker per item, joins them, then drains exactly
// len(items) results. The channel is sized so a send never blocks.
func (e *Engine[I, R]) round(ctx context.Context, items []I, g *gauge) []R {
	results := make(chan R, len(items))

	// LAUNCHED
	var eg errgroup.Group
	for _, item := range items {
		eg.Go(func() error {
			g.enter()
			defer g.leave()
			results <- e.deliver(ctx, item)
			return nil
		})
	}

	// JOINING
	_ = eg.Wait()

	// DRAINING
	out := make([]R, 0, len(items))
	for range items {
		out = append(out, <-results)
	}
	return out
}

// deliver runs the work function and turns a panic into the fallback result.
func (e *Engine[I, R]) deliver(ctx context.Context, item I) (r R) {
	defer func() {
		if v := recover(); v != nil {
			perr := &PanicError{Value: v, Stack: debug.Stack()}
			e.log.Error().Err(perr).Bytes("stack", perr.Stack).Msg("worker panicked, delivering fallback result")
			r = e.recoverWith(item, perr)
		}
	}()
	return e.work(ctx, item)
}

func (e *Engine[I, R]) recoverWith(item I, err error) (r R) {
	if e.fallback == nil {
		return r
	}
	defer func() {
		if v := recover(); v != nil {
			e.log.Error().Interface("panic", v).Msg("fallback panicked, delivering zero result")
			var zero R
			r = zero
		}
	}()
	return e.fallback(item, err)
}

// gauge tracks live workers and the peak across a Run.
type gauge struct {
	live atomic.Int64
	peak atomic.Int64
}

func (g *gauge) enter() {
	n := g.live.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

func (g *gauge) leave() { g.live.Add(-1) }
