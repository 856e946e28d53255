// Package testutil builds on-disk FASTA fixtures for tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// WriteFile writes data to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Gzip returns data compressed as a single gzip member.
func Gzip(t testing.TB, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte(data)); err != nil {
		t.Fatalf("write gz: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return buf.Bytes()
}

// WriteGzip writes data gzip-compressed to dir/name and returns the path.
func WriteGzip(t testing.TB, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Gzip(t, data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteTruncatedGzip writes the first half of the compressed form of data,
// which fails to decode partway through.
func WriteTruncatedGzip(t testing.TB, dir, name, data string) string {
	t.Helper()
	gz := Gzip(t, data)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, gz[:len(gz)/2], 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ManyRecords returns n records of the given sequence length, wrapped at 60
// columns like most assembly FASTA files.
func ManyRecords(n, length int) string {
	var b bytes.Buffer
	for i := 0; i < n; i++ {
		b.WriteString(">contig_")
		b.WriteString(strconv.Itoa(i))
		b.WriteByte('\n')
		for j := 0; j < length; j++ {
			b.WriteByte("ACGT"[(i*7+j*13)%4])
			if (j+1)%60 == 0 || j == length-1 {
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}
