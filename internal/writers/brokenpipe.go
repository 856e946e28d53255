package writers

import (
	"errors"
	"io"
	"syscall"
)

// IsBrokenPipe reports whether err comes from a report whose reader went
// away, as with `asmkit histograms -i t.tsv | head`. Such a run has already
// delivered everything its reader asked for, so it exits 0.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

// ReportErr returns the error a stdout report should surface after it has
// been flushed and closed: nil for a broken pipe, err otherwise.
func ReportErr(err error) error {
	if IsBrokenPipe(err) {
		return nil
	}
	return err
}
