package appcore

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"asmkit/internal/ena"
	"asmkit/internal/fault"
	"asmkit/internal/fetch"
	"asmkit/internal/logging"
)

// DownloadOptions configures a download run.
type DownloadOptions struct {
	InfoTable string
	OutDir    string
	Selector  fetch.Selector
	Timeout   time.Duration
}

// DownloadSummary counts download outcomes.
type DownloadSummary struct {
	Summary
	Matched    int
	Downloaded int
	Skipped    int
	Failed     int
	Bytes      int64
}

// Download fetches the assemblies of every metadata row matching
// o.Selector into o.OutDir.
func Download(ctx context.Context, env Env, o DownloadOptions) (DownloadSummary, error) {
	if err := fault.RequireInput(o.InfoTable); err != nil {
		return DownloadSummary{}, err
	}
	if err := fault.RequireInput(o.OutDir); err != nil {
		return DownloadSummary{}, err
	}
	rows, err := ena.ReadTable(o.InfoTable)
	if err != nil {
		return DownloadSummary{}, err
	}

	log := logging.Component(env.Log, "download")
	matched := fetch.Filter(rows, o.Selector)
	ds := DownloadSummary{Matched: len(matched)}
	if len(matched) == 0 {
		log.Warn().Stringer("selector", o.Selector).Msg("no rows match")
		return ds, nil
	}
	log.Info().Stringer("selector", o.Selector).Int("matched", len(matched)).Msg("rows selected")

	if removed, err := fetch.CleanStale(o.OutDir); err != nil {
		return ds, err
	} else if removed > 0 {
		log.Info().Int("files", removed).Msg("removed partial downloads from an earlier run")
	}

	d := fetch.NewDownloader(o.OutDir, o.Timeout, log)
	n := 0
	sum, err := runBatch(ctx, env, "download", matched, d.Download, d.Fallback, func(r fetch.Result) error {
		n++
		switch r.Status {
		case fetch.Downloaded:
			ds.Downloaded++
			ds.Bytes += r.Bytes
		case fetch.Skipped:
			ds.Skipped++
		default:
			ds.Failed++
		}
		return nil
	})
	ds.Summary = sum
	ds.Rows = n
	if err != nil {
		return ds, err
	}
	log.Info().
		Int("downloaded", ds.Downloaded).
		Int("skipped", ds.Skipped).
		Int("failed", ds.Failed).
		Str("size", humanize.Bytes(uint64(ds.Bytes))).
		Dur("elapsed", ds.Elapsed).
		Msg("downloads finished")
	return ds, nil
}
