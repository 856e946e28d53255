package fasta

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asmkit/internal/testutil"
)

const plain = `>seq1 first contig
ACGT
>seq2
NNnn
`

func collect(t *testing.T, path string) []Record {
	t.Helper()
	var recs []Record
	err := ForEach(context.Background(), path, func(r Record) error {
		recs = append(recs, r)
		return nil
	})
	require.NoError(t, err)
	return recs
}

func TestForEachPlain(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "x.fa", plain)

	recs := collect(t, path)
	require.Len(t, recs, 2)
	assert.Equal(t, "seq1 first contig", recs[0].ID)
	assert.Equal(t, "ACGT", string(recs[0].Seq))
	assert.Equal(t, "seq2", recs[1].ID)
	assert.Equal(t, "NNnn", string(recs[1].Seq))
	for _, r := range recs {
		assert.False(t, r.Broken())
	}
}

func TestForEachGzip(t *testing.T) {
	path := testutil.WriteGzip(t, t.TempDir(), "x.fa.gz", plain)

	recs := collect(t, path)
	require.Len(t, recs, 2)
	assert.Equal(t, "seq1 first contig", recs[0].ID)
	assert.Equal(t, "seq2", recs[1].ID)
}

func TestForEachMultiLineAndBlankLines(t *testing.T) {
	data := "\n>a\nAC\n\n  GT  \n\n>b\nTTT\n\n"
	path := testutil.WriteFile(t, t.TempDir(), "x.fa", data)

	recs := collect(t, path)
	require.Len(t, recs, 2)
	assert.Equal(t, "ACGT", string(recs[0].Seq))
	assert.Equal(t, "TTT", string(recs[1].Seq))
}

func TestForEachEmptyFile(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "empty.fa", "")
	assert.Empty(t, collect(t, path))

	path = testutil.WriteFile(t, t.TempDir(), "blank.fa", "\n\n   \n")
	assert.Empty(t, collect(t, path))
}

func TestForEachHeaderWithoutContent(t *testing.T) {
	// A header with no sequence is not emitted; the next header replaces it.
	path := testutil.WriteFile(t, t.TempDir(), "x.fa", ">empty\n>full\nAAA\n>tail\n")

	recs := collect(t, path)
	require.Len(t, recs, 1)
	assert.Equal(t, "full", recs[0].ID)
}

func TestForEachContentBeforeHeader(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "x.fa", "AC\nGT\n>b\nT\n")

	recs := collect(t, path)
	require.Len(t, recs, 2)
	assert.Equal(t, "", recs[0].ID)
	assert.Equal(t, "ACGT", string(recs[0].Seq))
	assert.Equal(t, "b", recs[1].ID)
}

func TestForEachDuplicateHeadersPassThrough(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "x.fa", ">a\nA\n>a\nC\n")

	recs := collect(t, path)
	require.Len(t, recs, 2)
	assert.Equal(t, recs[0].ID, recs[1].ID)
}

func TestForEachTruncatedGzipEndsWithBrokenRecord(t *testing.T) {
	path := testutil.WriteTruncatedGzip(t, t.TempDir(), "bad.fa.gz", testutil.ManyRecords(200, 500))

	recs := collect(t, path)
	require.NotEmpty(t, recs)
	last := recs[len(recs)-1]
	assert.True(t, last.Broken())
	assert.Nil(t, last.Seq)
	for _, r := range recs[:len(recs)-1] {
		assert.False(t, r.Broken())
	}
}

func TestForEachNotGzipData(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "plain.fa.gz", plain)

	recs := collect(t, path)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Broken())
}

func TestForEachMissingPath(t *testing.T) {
	called := false
	err := ForEach(context.Background(), filepath.Join(t.TempDir(), "nope.fa"), func(Record) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, called)
}

func TestForEachStopsOnEmitError(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "x.fa", testutil.ManyRecords(10, 10))
	stop := errors.New("stop")

	n := 0
	err := ForEach(context.Background(), path, func(Record) error {
		n++
		if n == 3 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 3, n)
}

func TestForEachCanceled(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "x.fa", plain)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := 0
	err := ForEach(ctx, path, func(Record) error { n++; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestScanReader(t *testing.T) {
	var ids []string
	err := Scan(context.Background(), strings.NewReader(plain), func(r Record) error {
		ids = append(ids, r.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"seq1 first contig", "seq2"}, ids)
}

func TestStreamGzip(t *testing.T) {
	path := testutil.WriteGzip(t, t.TempDir(), "x.fa.gz", plain)

	ch, err := Stream(context.Background(), path)
	require.NoError(t, err)
	var ids []string
	for r := range ch {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"seq1 first contig", "seq2"}, ids)
}

func TestStreamMissingPath(t *testing.T) {
	_, err := Stream(context.Background(), filepath.Join(t.TempDir(), "nope.fa"))
	assert.Error(t, err)
}

func TestStreamStdin(t *testing.T) {
	orig := os.Stdin
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdin = r
	defer func() { os.Stdin = orig }()

	go func() {
		_, _ = io.WriteString(w, plain)
		_ = w.Close()
	}()

	ch, err := Stream(context.Background(), "-")
	require.NoError(t, err)
	count := 0
	for range ch {
		count++
	}
	assert.Equal(t, 2, count)
}
