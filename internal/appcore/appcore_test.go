package appcore

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asmkit/internal/ena"
	"asmkit/internal/fault"
	"asmkit/internal/fetch"
	"asmkit/internal/table"
	"asmkit/internal/testutil"
)

func env(cores int) Env {
	return Env{Log: zerolog.Nop(), Cores: cores, Stdout: &bytes.Buffer{}}
}

func statsFixture(t *testing.T) (dir, a, b string) {
	t.Helper()
	dir = t.TempDir()
	a = testutil.WriteFile(t, dir, "a.fa", ">c1\n"+strings.Repeat("A", 100)+"\n>c2\n"+strings.Repeat("C", 50)+"\n")
	b = testutil.WriteTruncatedGzip(t, dir, "b.fa.gz", testutil.ManyRecords(200, 500))
	testutil.WriteFile(t, dir, "README.txt", "not an assembly")
	return dir, a, b
}

func TestStatsCorruptFileGetsZeroRow(t *testing.T) {
	dir, a, b := statsFixture(t)
	out := filepath.Join(t.TempDir(), "assembly_info_table.tsv")

	sum, err := Stats(context.Background(), env(2), StatsOptions{InDir: dir, OutTable: out})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Rows)
	assert.Equal(t, 1, sum.Batches)

	header, rows, err := table.Read(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"file_name", "num_of_contigs", "sequence_len"}, header)
	assert.ElementsMatch(t, [][]string{{a, "2", "150"}, {b, "0", "0"}}, rows)
}

func TestStatsRowCountIndependentOfCores(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		testutil.WriteFile(t, dir, string(rune('a'+i))+".fa", testutil.ManyRecords(i+1, 10))
	}
	for _, cores := range []int{1, 5, 9} {
		out := filepath.Join(t.TempDir(), "out.tsv")
		sum, err := Stats(context.Background(), env(cores), StatsOptions{InDir: dir, OutTable: out})
		require.NoError(t, err, "cores=%d", cores)
		assert.Equal(t, 5, sum.Rows, "cores=%d", cores)
		assert.LessOrEqual(t, sum.MaxActive, cores)

		_, rows, err := table.Read(out)
		require.NoError(t, err)
		assert.Len(t, rows, 5)
	}
}

func TestStatsExplicitFiles(t *testing.T) {
	_, a, _ := statsFixture(t)
	out := filepath.Join(t.TempDir(), "out.tsv")
	sum, err := Stats(context.Background(), env(1), StatsOptions{Files: []string{a}, OutTable: out})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Rows)
}

func TestStatsFatalErrorsBeforeWork(t *testing.T) {
	dir, _, _ := statsFixture(t)

	existing := testutil.WriteFile(t, t.TempDir(), "out.tsv", "keep")
	_, err := Stats(context.Background(), env(1), StatsOptions{InDir: dir, OutTable: existing})
	assert.ErrorIs(t, err, fault.ErrOutputExists)
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))

	out := filepath.Join(t.TempDir(), "out.tsv")
	_, err = Stats(context.Background(), env(1), StatsOptions{InDir: filepath.Join(dir, "nope"), OutTable: out})
	assert.ErrorIs(t, err, fault.ErrInputMissing)
	assert.NoFileExists(t, out)

	_, err = Stats(context.Background(), env(1), StatsOptions{InDir: t.TempDir(), OutTable: out})
	assert.ErrorIs(t, err, ErrNoInput)
	assert.NoFileExists(t, out)
}

func TestStatsCanceled(t *testing.T) {
	dir, _, _ := statsFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Stats(ctx, env(1), StatsOptions{InDir: dir, OutTable: filepath.Join(t.TempDir(), "o.tsv")})
	assert.ErrorIs(t, err, context.Canceled)
}

const sampleDoc = `<SAMPLE_SET><SAMPLE alias="K-12" accession="ERS1" broker_name="NCBI">
<SAMPLE_NAME><TAXON_ID>562</TAXON_ID><SCIENTIFIC_NAME>Escherichia coli</SCIENTIFIC_NAME></SAMPLE_NAME>
</SAMPLE></SAMPLE_SET>`

func TestMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/xml/SAMEA1" {
			_, _ = w.Write([]byte(sampleDoc))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	samples := testutil.WriteFile(t, t.TempDir(), "samples.txt",
		"SAMEA1 /nfs/ftp/pub/a.fa.gz\nSAMEA2 /nfs/ftp/pub/b.fa.gz\n")
	out := filepath.Join(t.TempDir(), "meta.tsv")

	sum, err := Metadata(context.Background(), env(1), MetadataOptions{
		Samples:  samples,
		OutTable: out,
		XMLURL:   srv.URL + "/xml/",
		FTPURL:   "http://ftp.example/",
		Timeout:  time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Rows)

	rows, err := ena.ReadTable(out)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ena.Row{
		Accession:      "SAMEA1",
		Alias:          "K-12",
		ENAAccession:   "ERS1",
		BrokerName:     "NCBI",
		TaxonID:        "562",
		ScientificName: "escherichia coli",
		Path:           "http://ftp.example/pub/a.fa.gz",
	}, rows[0])
	assert.Equal(t, ena.NewRow("SAMEA2", "http://ftp.example/pub/b.fa.gz"), rows[1])
}

func TestMetadataOutputCollision(t *testing.T) {
	samples := testutil.WriteFile(t, t.TempDir(), "samples.txt", "SAMEA1 /a/b/c/d\n")
	out := testutil.WriteFile(t, t.TempDir(), "meta.tsv", "keep")
	_, err := Metadata(context.Background(), env(1), MetadataOptions{Samples: samples, OutTable: out})
	assert.ErrorIs(t, err, fault.ErrOutputExists)
}

func writeInfoTable(t *testing.T, rows ...ena.Row) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "info.tsv")
	s, err := table.Create(path, ena.Header)
	require.NoError(t, err)
	for _, r := range rows {
		require.NoError(t, s.Write(r))
	}
	require.NoError(t, s.Close())
	return path
}

func TestDownload(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/missing.fa.gz" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("contigs"))
	}))
	defer srv.Close()

	row := func(acc, taxon, name, file string) ena.Row {
		r := ena.NewRow(acc, srv.URL+"/"+file)
		r.TaxonID, r.ScientificName, r.ENAAccession = taxon, name, "ERS"+acc
		return r
	}
	info := writeInfoTable(t,
		row("1", "562", "escherichia coli", "a.fa.gz"),
		row("2", "562", "escherichia coli", "missing.fa.gz"),
		row("3", "34", "myxococcus xanthus", "c.fa.gz"),
	)
	sel, err := fetch.NewSelector("562", "")
	require.NoError(t, err)
	outDir := t.TempDir()
	opts := DownloadOptions{InfoTable: info, OutDir: outDir, Selector: sel, Timeout: time.Second}

	ds, err := Download(context.Background(), env(2), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Matched)
	assert.Equal(t, 2, ds.Rows)
	assert.Equal(t, 1, ds.Downloaded)
	assert.Equal(t, 1, ds.Failed)
	assert.EqualValues(t, 7, ds.Bytes)
	assert.FileExists(t, filepath.Join(outDir, "escherichia_coli_562_ERS1_1.fa.gz"))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	again, err := Download(context.Background(), env(2), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Skipped)
	assert.Equal(t, 1, again.Failed)
	assert.EqualValues(t, 3, hits.Load())
}

func TestDownloadRemovesPartialFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("contigs"))
	}))
	defer srv.Close()

	r := ena.NewRow("1", srv.URL+"/a.fa.gz")
	r.TaxonID, r.ScientificName, r.ENAAccession = "562", "escherichia coli", "ERS1"
	info := writeInfoTable(t, r)
	sel, err := fetch.NewSelector("562", "")
	require.NoError(t, err)
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outDir, ".asmkit-download-42"), []byte("half"), 0o644))

	ds, err := Download(context.Background(), env(1), DownloadOptions{InfoTable: info, OutDir: outDir, Selector: sel, Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Downloaded)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "escherichia_coli_562_ERS1_1.fa.gz", entries[0].Name())
}

func TestDownloadNoMatch(t *testing.T) {
	info := writeInfoTable(t, ena.NewRow("1", "u"))
	sel, err := fetch.NewSelector("", "bacillus")
	require.NoError(t, err)
	ds, err := Download(context.Background(), env(1), DownloadOptions{InfoTable: info, OutDir: t.TempDir(), Selector: sel})
	require.NoError(t, err)
	assert.Zero(t, ds.Matched)
}

func TestDownloadMissingOutputDir(t *testing.T) {
	info := writeInfoTable(t, ena.NewRow("1", "u"))
	sel, err := fetch.NewSelector("1", "")
	require.NoError(t, err)
	_, err = Download(context.Background(), env(1), DownloadOptions{
		InfoTable: info, OutDir: filepath.Join(t.TempDir(), "nope"), Selector: sel,
	})
	assert.ErrorIs(t, err, fault.ErrInputMissing)
}

func statsTable(t *testing.T) string {
	t.Helper()
	return testutil.WriteFile(t, t.TempDir(), "stats.tsv",
		"file_name\tnum_of_contigs\tsequence_len\n"+
			"a.fa\t10\t4000000\n"+
			"b.fa\t250\t4500000\n"+
			"c.fa\t40\t5200000\n")
}

func TestHistogramsToStdout(t *testing.T) {
	var out bytes.Buffer
	e := env(1)
	e.Stdout = &out
	require.NoError(t, Histograms(context.Background(), e, HistogramOptions{InTable: statsTable(t)}))
	assert.Contains(t, out.String(), "Contigs distribution")
	assert.Contains(t, out.String(), "Assembly lengths distribution")
}

func TestHistogramsToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "hist.txt")
	require.NoError(t, Histograms(context.Background(), env(1), HistogramOptions{InTable: statsTable(t), Out: out}))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "5,200,000")

	err = Histograms(context.Background(), env(1), HistogramOptions{InTable: statsTable(t), Out: out})
	assert.ErrorIs(t, err, fault.ErrOutputExists)
}
