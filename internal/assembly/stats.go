// Package assembly computes per-file contig statistics for assembly FASTA
// files.
package assembly

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/danwakefield/fnmatch"

	"asmkit/internal/fasta"
	"asmkit/internal/fault"
)

// Header is the stats table header.
var Header = []string{"file_name", "num_of_contigs", "sequence_len"}

// Row is the statistics of one input file. A zero row with Failed set marks
// a file that could not be parsed.
type Row struct {
	FileName    string
	NumContigs  uint64
	TotalLength uint64
	Failed      bool
}

// Columns returns the row in Header order.
func (r Row) Columns() []string {
	return []string{
		r.FileName,
		strconv.FormatUint(r.NumContigs, 10),
		strconv.FormatUint(r.TotalLength, 10),
	}
}

// Compute counts the records of path and their total sequence length.
// A broken record anywhere in the file discards the whole count.
func Compute(ctx context.Context, path string) Row {
	row := Row{FileName: path}
	var broken bool
	err := fasta.ForEach(ctx, path, func(r fasta.Record) error {
		if r.Broken() {
			broken = true
			return nil
		}
		row.NumContigs++
		row.TotalLength += uint64(len(r.Seq))
		return nil
	})
	if err != nil || broken {
		return Failed(path)
	}
	return row
}

// Failed is the degraded row for path.
func Failed(path string) Row {
	return Row{FileName: path, Failed: true}
}

// DefaultPatterns select the files Discover picks up when given none.
var DefaultPatterns = []string{"*.fasta", "*.fa", "*.fna", "*.gz"}

// IsAssembly reports whether name matches one of patterns, or one of
// DefaultPatterns when patterns is empty.
func IsAssembly(name string, patterns ...string) bool {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	for _, p := range patterns {
		if fnmatch.Match(p, name, fnmatch.FNM_PERIOD) {
			return true
		}
	}
	return false
}

// Discover lists the files directly inside dir whose names match patterns
// (see IsAssembly), in directory order.
func Discover(dir string, patterns ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fault.Missing(dir)
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !IsAssembly(e.Name(), patterns...) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}
