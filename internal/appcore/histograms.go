package appcore

import (
	"bufio"
	"context"
	"io"

	"asmkit/internal/fault"
	"asmkit/internal/histogram"
	"asmkit/internal/writers"
)

// HistogramOptions names the stats table to summarize and an optional
// output file; without one the report goes to Env.Stdout.
type HistogramOptions struct {
	InTable string
	Out     string
}

// Histograms renders the contig and length distributions of a stats table.
// A reader that closes the pipe early is not an error.
func Histograms(_ context.Context, env Env, o HistogramOptions) error {
	if err := fault.RequireInput(o.InTable); err != nil {
		return err
	}
	if o.Out != "" {
		if err := fault.RequireAbsent(o.Out); err != nil {
			return err
		}
	}
	st, err := histogram.ReadStats(o.InTable)
	if err != nil {
		return err
	}

	var (
		w        io.Writer = env.Stdout
		closeOut           = func() error { return nil }
	)
	if o.Out != "" {
		f, err := writers.CreateExclusive(o.Out)
		if err != nil {
			return err
		}
		w, closeOut = f, f.Close
	}

	bw := bufio.NewWriter(w)
	err = histogram.Report(bw, st)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	return writers.ReportErr(err)
}
