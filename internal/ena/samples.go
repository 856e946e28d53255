package ena

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"asmkit/internal/fault"
)

// ReadSamples reads a whitespace-separated sample table of
// "accession path" lines. Paths are returned as given; see FTPPath.
func ReadSamples(path string) ([]Sample, error) {
	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fault.Missing(path)
		}
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	var out []Sample
	sc := bufio.NewScanner(fh)
	line := 0
	for sc.Scan() {
		line++
		f := strings.Fields(sc.Text())
		if len(f) == 0 {
			continue
		}
		if len(f) < 2 {
			return nil, fmt.Errorf("%s:%d: want accession and path, got %q", path, line, sc.Text())
		}
		out = append(out, Sample{Accession: f[0], Path: f[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// FTPPath rewrites a mirror path such as /nfs/ftp/pub/x/y.fa.gz to a URL on
// base, keeping the path components from the fourth one on.
func FTPPath(base, p string) string {
	parts := strings.Split(p, "/")
	if len(parts) > 3 {
		parts = parts[3:]
	} else {
		parts = nil
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}
