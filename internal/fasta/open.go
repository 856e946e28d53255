// internal/fasta/open.go
package fasta

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// openFile opens path, or stdin for "-". A missing path fails here.
func openFile(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// decoder wraps r with a gzip reader when path carries the .gz suffix.
// The returned close func releases the decoder only; the caller owns r.
func decoder(path string, r io.Reader) (io.Reader, func(), error) {
	if !IsGzip(path) {
		return r, func() {}, nil
	}
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	return gr, func() { _ = gr.Close() }, nil
}

// IsGzip reports whether path is treated as gzip-compressed.
func IsGzip(path string) bool {
	return strings.HasSuffix(path, ".gz")
}
