package fetch

import (
	"errors"
	"strconv"
	"strings"

	"asmkit/internal/ena"
)

var ErrSelector = errors.New("give either a taxon id or an organism name, not both")

// Selector picks the metadata rows whose assemblies should be downloaded.
type Selector struct {
	taxonID string
	orgName string
}

// NewSelector requires exactly one of taxonID and orgName.
func NewSelector(taxonID, orgName string) (Selector, error) {
	taxonID, orgName = strings.TrimSpace(taxonID), strings.TrimSpace(orgName)
	if (taxonID == "") == (orgName == "") {
		return Selector{}, ErrSelector
	}
	if taxonID != "" {
		id, err := strconv.Atoi(taxonID)
		if err != nil {
			return Selector{}, errors.New("taxon id must be an integer")
		}
		taxonID = strconv.Itoa(id)
	}
	return Selector{taxonID: taxonID, orgName: orgName}, nil
}

// Match reports whether r is selected. Organism names match any single word
// of the scientific name, case-insensitively, so a genus selects all of its
// species and strains.
func (s Selector) Match(r ena.Row) bool {
	if s.taxonID != "" {
		return r.TaxonID == s.taxonID
	}
	for _, w := range strings.Fields(r.ScientificName) {
		if strings.EqualFold(w, s.orgName) {
			return true
		}
	}
	return false
}

// String describes the selection for log lines.
func (s Selector) String() string {
	if s.taxonID != "" {
		return "taxon id " + s.taxonID
	}
	return "organism " + s.orgName
}

// Filter returns the rows s matches, in input order.
func Filter(rows []ena.Row, s Selector) []ena.Row {
	var out []ena.Row
	for _, r := range rows {
		if s.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
