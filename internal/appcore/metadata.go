package appcore

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"asmkit/internal/ena"
	"asmkit/internal/fault"
	"asmkit/internal/logging"
)

// MetadataOptions configures a metadata run.
type MetadataOptions struct {
	Samples  string
	OutTable string
	XMLURL   string
	FTPURL   string
	Timeout  time.Duration

	// Fetcher overrides the HTTP client built from XMLURL and Timeout.
	Fetcher ena.Fetcher
}

// Metadata resolves every sample in o.Samples against the ENA browser API
// and writes one row per sample to o.OutTable. Samples whose metadata cannot
// be fetched or parsed keep NA in the unresolved columns.
func Metadata(ctx context.Context, env Env, o MetadataOptions) (Summary, error) {
	if err := fault.RequireInput(o.Samples); err != nil {
		return Summary{}, err
	}
	if err := fault.RequireAbsent(o.OutTable); err != nil {
		return Summary{}, err
	}
	samples, err := ena.ReadSamples(o.Samples)
	if err != nil {
		return Summary{}, err
	}
	if len(samples) == 0 {
		return Summary{}, ErrNoInput
	}

	ftp := o.FTPURL
	if ftp == "" {
		ftp = ena.DefaultFTPURL
	}
	for i := range samples {
		samples[i].Path = ena.FTPPath(ftp, samples[i].Path)
	}

	fetcher := o.Fetcher
	if fetcher == nil {
		fetcher = ena.NewClient(o.XMLURL, o.Timeout)
	}
	log := logging.Component(env.Log, "metadata")
	res := &ena.Resolver{Fetcher: fetcher, Log: log}

	unresolved := 0
	sum, err := runToTable(ctx, env, "metadata", o.OutTable, ena.Header, samples,
		res.Resolve, ena.Fallback,
		func(r ena.Row) {
			if !r.Resolved() {
				unresolved++
			}
		})
	if err != nil {
		return sum, err
	}
	log.Info().
		Str("rows", humanize.Comma(int64(sum.Rows))).
		Int("unresolved", unresolved).
		Str("table", o.OutTable).
		Dur("elapsed", sum.Elapsed).
		Msg("metadata table written")
	return sum, nil
}
