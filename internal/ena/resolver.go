package ena

import (
	"bytes"
	"context"

	"github.com/rs/zerolog"
)

// Sample is one line of the sample table: an accession and the download
// path of its assembly.
type Sample struct {
	Accession string
	Path      string
}

// Resolver turns samples into metadata rows.
type Resolver struct {
	Fetcher Fetcher
	Log     zerolog.Logger
}

// Resolve always returns a row. A failed fetch or an unparsable document
// leaves the unresolved fields at NA; neither is retried.
func (r *Resolver) Resolve(ctx context.Context, s Sample) Row {
	row := NewRow(s.Accession, s.Path)

	doc, err := r.Fetcher.Fetch(ctx, s.Accession)
	if err != nil {
		r.Log.Warn().Err(err).Str("accession", s.Accession).Msg("metadata fetch failed")
		return row
	}
	if err := ParseSample(bytes.NewReader(doc), &row); err != nil {
		r.Log.Warn().Err(err).Str("accession", s.Accession).Msg("metadata parse failed")
		return NewRow(s.Accession, s.Path)
	}
	return row
}

// Fallback is the row delivered when resolving s panicked.
func Fallback(s Sample, _ error) Row { return NewRow(s.Accession, s.Path) }
