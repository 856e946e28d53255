// Package histogram bins the numeric columns of a stats table and renders
// them as text.
package histogram

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	asmtable "asmkit/internal/table"
)

const barWidth = 40

var ErrNoData = errors.New("histogram: no values")

// Bin is a half-open interval [Lo, Hi); the last bin also includes Hi.
type Bin struct {
	Lo, Hi float64
	Count  int
}

// SturgesBins returns int(1 + 3.22*ln(n)), and at least 1.
func SturgesBins(n int) int {
	if n <= 1 {
		return 1
	}
	return max(1, int(1+3.22*math.Log(float64(n))))
}

// Build splits values into bins equal-width bins between their minimum and
// maximum.
func Build(values []uint64, bins int) ([]Bin, error) {
	if len(values) == 0 {
		return nil, ErrNoData
	}
	if bins < 1 {
		bins = 1
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}

	width := float64(hi-lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lo = float64(lo) + float64(i)*width
		out[i].Hi = float64(lo) + float64(i+1)*width
	}
	out[bins-1].Hi = float64(hi)

	for _, v := range values {
		i := bins - 1
		if width > 0 {
			i = min(int(float64(v-lo)/width), bins-1)
		}
		out[i].Count++
	}
	return out, nil
}

// Render writes bins as a titled text table with a proportional bar column.
func Render(w io.Writer, title string, bins []Bin) error {
	peak := 0
	for _, b := range bins {
		peak = max(peak, b.Count)
	}

	t := table.NewWriter()
	t.SetTitle(title)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"from", "to", "count", ""})
	for _, b := range bins {
		bar := 0
		if peak > 0 {
			bar = b.Count * barWidth / peak
		}
		t.AppendRow(table.Row{
			humanize.Comma(int64(math.Round(b.Lo))),
			humanize.Comma(int64(math.Round(b.Hi))),
			b.Count,
			strings.Repeat("#", bar),
		})
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Stats holds the two numeric columns of a stats table.
type Stats struct {
	Contigs []uint64
	Lengths []uint64
}

// ReadStats loads the num_of_contigs and sequence_len columns of a stats
// table.
func ReadStats(path string) (Stats, error) {
	header, rows, err := asmtable.Read(path)
	if err != nil {
		return Stats{}, err
	}
	if len(header) != 3 {
		return Stats{}, fmt.Errorf("%s: not a stats table (%d columns)", path, len(header))
	}
	var st Stats
	for i, r := range rows {
		c, err := strconv.ParseUint(r[1], 10, 64)
		if err != nil {
			return Stats{}, fmt.Errorf("%s: row %d: contigs: %w", path, i+1, err)
		}
		l, err := strconv.ParseUint(r[2], 10, 64)
		if err != nil {
			return Stats{}, fmt.Errorf("%s: row %d: length: %w", path, i+1, err)
		}
		st.Contigs = append(st.Contigs, c)
		st.Lengths = append(st.Lengths, l)
	}
	return st, nil
}

// Report renders the contig and assembly-length distributions of st.
func Report(w io.Writer, st Stats) error {
	if len(st.Contigs) == 0 {
		return ErrNoData
	}
	n := SturgesBins(len(st.Contigs))
	contigs, err := Build(st.Contigs, n)
	if err != nil {
		return err
	}
	lengths, err := Build(st.Lengths, n)
	if err != nil {
		return err
	}
	if err := Render(w, "Contigs distribution", contigs); err != nil {
		return err
	}
	return Render(w, "Assembly lengths distribution", lengths)
}
