package histogram

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSturgesBins(t *testing.T) {
	assert.Equal(t, 1, SturgesBins(0))
	assert.Equal(t, 1, SturgesBins(1))
	assert.Equal(t, 3, SturgesBins(2))   // 1 + 3.22*0.693
	assert.Equal(t, 15, SturgesBins(100)) // 1 + 3.22*4.605
}

func TestBuild(t *testing.T) {
	bins, err := Build([]uint64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}, 5)
	require.NoError(t, err)
	require.Len(t, bins, 5)

	counts := make([]int, len(bins))
	total := 0
	for i, b := range bins {
		counts[i] = b.Count
		total += b.Count
	}
	assert.Equal(t, []int{2, 2, 2, 2, 2}, counts)
	assert.Equal(t, 10, total)
	assert.InDelta(t, 0.0, bins[0].Lo, 1e-9)
	assert.InDelta(t, 10.0, bins[4].Hi, 1e-9)
}

func TestBuildConstantValues(t *testing.T) {
	bins, err := Build([]uint64{7, 7, 7}, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, bins[2].Count)
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(nil, 3)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestReadStatsAndReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.tsv")
	data := "file_name\tnum_of_contigs\tsequence_len\n" +
		"a.fa\t2\t150\n" +
		"b.fa.gz\t0\t0\n" +
		"c.fa\t120\t4500000\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	st, err := ReadStats(path)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 0, 120}, st.Contigs)
	assert.Equal(t, []uint64{150, 0, 4500000}, st.Lengths)

	var out bytes.Buffer
	require.NoError(t, Report(&out, st))
	assert.Contains(t, out.String(), "Contigs distribution")
	assert.Contains(t, out.String(), "Assembly lengths distribution")
	assert.Contains(t, out.String(), "4,500,000")
}

func TestReadStatsRejectsOtherTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.tsv")
	require.NoError(t, os.WriteFile(path, []byte("a\tb\n1\t2\n"), 0o644))
	_, err := ReadStats(path)
	assert.ErrorContains(t, err, "not a stats table")

	require.NoError(t, os.WriteFile(path, []byte("a\tb\tc\nf\tx\t2\n"), 0o644))
	_, err = ReadStats(path)
	assert.ErrorContains(t, err, "contigs")
}

func TestReportEmpty(t *testing.T) {
	assert.ErrorIs(t, Report(&bytes.Buffer{}, Stats{}), ErrNoData)
}
