package fetch

import (
	"regexp"
	"strings"

	"asmkit/internal/ena"
)

var (
	unsafeRun   = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
	underscores = regexp.MustCompile(`_{2,}`)
)

// Sanitize maps every run of characters outside [A-Za-z0-9_-] to a single
// underscore and collapses repeated underscores. Sanitize(Sanitize(s)) ==
// Sanitize(s).
func Sanitize(s string) string {
	return underscores.ReplaceAllString(unsafeRun.ReplaceAllString(s, "_"), "_")
}

// FileName is the destination name of a row's assembly:
// {scientific_name}_{taxon_id}_{ena_accession}_{accession}.fa.gz, sanitized.
func FileName(r ena.Row) string {
	stem := strings.Join([]string{r.ScientificName, r.TaxonID, r.ENAAccession, r.Accession}, "_")
	return Sanitize(stem) + ".fa.gz"
}
