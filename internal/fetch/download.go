// Package fetch downloads the assemblies listed in a metadata table into a
// directory, one file per row, skipping files that are already present.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"

	"asmkit/internal/ena"
)

// DefaultTimeout bounds one download request.
const DefaultTimeout = 20 * time.Second

// tempPattern names in-progress downloads inside the output directory.
const tempPattern = ".asmkit-download-*"

// Status is the outcome of one download.
type Status int

const (
	Failed Status = iota
	Downloaded
	Skipped
)

func (s Status) String() string {
	switch s {
	case Downloaded:
		return "downloaded"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result describes what happened to one row.
type Result struct {
	Row    ena.Row
	Dest   string
	Status Status
	Bytes  int64
	Err    error
}

// Downloader fetches row.Path into Dir.
type Downloader struct {
	Dir  string
	HTTP *http.Client
	Log  zerolog.Logger
}

// NewDownloader returns a Downloader whose requests time out after timeout.
func NewDownloader(dir string, timeout time.Duration, log zerolog.Logger) *Downloader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout
	return &Downloader{Dir: dir, HTTP: hc, Log: log}
}

// Download fetches one assembly. An existing destination is never touched
// and costs no request. Failures are logged and leave no file behind: the
// body goes to a temporary file that is renamed into place only once fully
// received.
func (d *Downloader) Download(ctx context.Context, row ena.Row) Result {
	res := Result{Row: row, Dest: filepath.Join(d.Dir, FileName(row))}
	log := d.Log.With().Str("url", row.Path).Str("dest", res.Dest).Logger()

	if _, err := os.Stat(res.Dest); err == nil {
		log.Info().Msg("file already exists, skipping")
		res.Status = Skipped
		return res
	}
	if row.Path == "" || row.Path == ena.NA {
		res.Err = errors.New("row has no download path")
		log.Warn().Err(res.Err).Msg("download skipped")
		return res
	}

	log.Info().Msg("downloading")
	n, err := d.fetch(ctx, row.Path, res.Dest)
	if err != nil {
		res.Err = err
		log.Warn().Err(err).Msg("download failed")
		return res
	}
	res.Status = Downloaded
	res.Bytes = n
	log.Info().Str("size", humanize.Bytes(uint64(n))).Msg("downloaded")
	return res
}

func (d *Downloader) fetch(ctx context.Context, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := d.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), tempPattern)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), dest)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return 0, err
	}
	return n, nil
}

// Fallback is the result delivered when downloading row panicked.
func (d *Downloader) Fallback(row ena.Row, err error) Result {
	return Result{Row: row, Dest: filepath.Join(d.Dir, FileName(row)), Status: Failed, Err: err}
}

// CleanStale removes in-progress files left in dir by a run that was killed
// mid-download, and returns how many it removed. Finished downloads never
// carry the temporary prefix.
func CleanStale(dir string) (int, error) {
	stale, err := filepath.Glob(filepath.Join(dir, tempPattern))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range stale {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return n, fmt.Errorf("remove partial download: %w", err)
		}
		n++
	}
	return n, nil
}
