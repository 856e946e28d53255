package ena

import (
	"fmt"

	"asmkit/internal/table"
)

// NA marks a field the remote source did not resolve.
const NA = "NA"

// Header is the metadata table header.
var Header = []string{"accession", "alias", "ena_accession", "broker_name", "taxon_id", "scientific_name", "path"}

// Row is one metadata table row. Every field the XML did not provide holds
// NA; the column count and order never change.
type Row struct {
	Accession      string // accession from the sample table
	Alias          string
	ENAAccession   string // SAMPLE accession reported by ENA
	BrokerName     string
	TaxonID        string
	ScientificName string
	Path           string // download URL of the assembly
}

// NewRow returns a row with only the caller-known fields resolved.
func NewRow(accession, path string) Row {
	return Row{
		Accession:      orNA(accession),
		Alias:          NA,
		ENAAccession:   NA,
		BrokerName:     NA,
		TaxonID:        NA,
		ScientificName: NA,
		Path:           orNA(path),
	}
}

// Columns returns the row in Header order.
func (r Row) Columns() []string {
	return []string{r.Accession, r.Alias, r.ENAAccession, r.BrokerName, r.TaxonID, r.ScientificName, r.Path}
}

// Resolved reports whether any remote field was filled in.
func (r Row) Resolved() bool {
	return r.Alias != NA || r.ENAAccession != NA || r.BrokerName != NA || r.TaxonID != NA || r.ScientificName != NA
}

// RowFromColumns is the inverse of Columns.
func RowFromColumns(cols []string) (Row, error) {
	if len(cols) != len(Header) {
		return Row{}, fmt.Errorf("metadata row has %d columns, want %d", len(cols), len(Header))
	}
	return Row{
		Accession:      cols[0],
		Alias:          cols[1],
		ENAAccession:   cols[2],
		BrokerName:     cols[3],
		TaxonID:        cols[4],
		ScientificName: cols[5],
		Path:           cols[6],
	}, nil
}

// ReadTable loads a metadata table written by a previous run.
func ReadTable(path string) ([]Row, error) {
	header, rows, err := table.Read(path)
	if err != nil {
		return nil, err
	}
	if len(header) != len(Header) {
		return nil, fmt.Errorf("%s: not a metadata table (%d columns)", path, len(header))
	}
	out := make([]Row, 0, len(rows))
	for _, cols := range rows {
		r, err := RowFromColumns(cols)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func orNA(s string) string {
	if s == "" {
		return NA
	}
	return s
}
