// Package table writes and reads the tab-separated result tables.
package table

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"asmkit/internal/writers"
)

// Row is anything with a fixed column layout.
type Row interface {
	Columns() []string
}

// Sink appends rows to a table under a fixed header. It is not safe for
// concurrent use; the batch engine calls it from the draining goroutine only.
type Sink struct {
	w      *bufio.Writer
	closer io.Closer
	cols   int
	rows   int
}

// Create creates path exclusively and writes header. An existing path is an
// output collision and is left untouched.
func Create(path string, header []string) (*Sink, error) {
	fh, err := writers.CreateExclusive(path)
	if err != nil {
		return nil, err
	}
	s, err := newSink(fh, fh, header)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	return s, nil
}

// NewSink writes header to w and returns a Sink appending to it.
func NewSink(w io.Writer, header []string) (*Sink, error) {
	return newSink(w, nil, header)
}

func newSink(w io.Writer, c io.Closer, header []string) (*Sink, error) {
	if len(header) == 0 {
		return nil, errors.New("table: empty header")
	}
	s := &Sink{w: bufio.NewWriter(w), closer: c, cols: len(header)}
	if err := s.writeLine(header); err != nil {
		return nil, err
	}
	return s, nil
}

// Write appends one line for r.
func (s *Sink) Write(r Row) error {
	cols := r.Columns()
	if len(cols) != s.cols {
		return fmt.Errorf("table: row has %d columns, header has %d", len(cols), s.cols)
	}
	if err := s.writeLine(cols); err != nil {
		return err
	}
	s.rows++
	return nil
}

func (s *Sink) writeLine(cols []string) error {
	if _, err := s.w.WriteString(strings.Join(cols, "\t")); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

// Rows returns the number of rows written, excluding the header.
func (s *Sink) Rows() int { return s.rows }

// Close flushes buffered rows and closes the underlying file, if any.
func (s *Sink) Close() error {
	err := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
