// Package fasta streams FASTA records from plain or gzip-compressed files
// without holding the whole file in memory.
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
)

// maxLine allows very long single-line sequences (64 MiB).
const maxLine = 64 * 1024 * 1024

// Record is one named sequence block. Err is set only on the final record
// of a stream that hit a read or decode failure; Seq is nil in that case.
type Record struct {
	ID  string
	Seq []byte
	Err error
}

// Broken reports whether r marks a corrupt input.
func (r Record) Broken() bool { return r.Err != nil }

// ForEach opens path and calls emit once per record, in file order.
//
// A path that cannot be opened is returned as an error before any record is
// emitted. Read and decode failures are not returned; they end the stream
// with a single broken Record carrying the identifier in progress. The file
// is closed when ForEach returns, including when emit stops it early by
// returning an error, which ForEach then returns.
func ForEach(ctx context.Context, path string, emit func(Record) error) error {
	fh, err := openFile(path)
	if err != nil {
		return err
	}
	defer func() { _ = fh.Close() }()

	r, closeDec, err := decoder(path, fh)
	if err != nil {
		return emit(Record{Err: fmt.Errorf("%s: %w", path, err)})
	}
	defer closeDec()

	return scan(ctx, r, emit)
}

// Scan parses FASTA from r with the same rules as ForEach.
func Scan(ctx context.Context, r io.Reader, emit func(Record) error) error {
	return scan(ctx, r, emit)
}

func scan(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		id  string
		seq []byte
	)
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if len(seq) > 0 {
				if err := emit(Record{ID: id, Seq: seq}); err != nil {
					return err
				}
				seq = nil
			}
			id = string(bytes.TrimSpace(line[1:]))
			continue
		}
		seq = append(seq, line...)
	}
	if err := sc.Err(); err != nil {
		return emit(Record{ID: id, Err: err})
	}
	if len(seq) > 0 {
		return emit(Record{ID: id, Seq: seq})
	}
	return nil
}

// Stream is the channel wrapper around ForEach. Open errors are reported
// immediately; the channel is closed once the file is exhausted or ctx is
// done.
func Stream(ctx context.Context, path string) (<-chan Record, error) {
	if path != "-" {
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
	}

	out := make(chan Record, 8)
	go func() {
		defer close(out)
		_ = ForEach(ctx, path, func(r Record) error {
			select {
			case out <- r:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()
	return out, nil
}
