package table

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"asmkit/internal/fault"
)

// Read loads a table, returning its header and data rows. Blank lines are
// skipped and every data row must have as many cells as the header.
func Read(path string) (header []string, rows [][]string, err error) {
	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fault.Missing(path)
		}
		return nil, nil, err
	}
	defer func() { _ = fh.Close() }()

	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		cells := strings.Split(text, "\t")
		if header == nil {
			header = cells
			continue
		}
		if len(cells) != len(header) {
			return nil, nil, fmt.Errorf("%s:%d: %d cells, header has %d", path, line, len(cells), len(header))
		}
		rows = append(rows, cells)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if header == nil {
		return nil, nil, fmt.Errorf("%s: empty table", path)
	}
	return header, rows, nil
}
