package ena

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type sampleSet struct {
	Samples []sampleXML `xml:"SAMPLE"`
}

type sampleXML struct {
	Accession  string `xml:"accession,attr"`
	Alias      string `xml:"alias,attr"`
	BrokerName string `xml:"broker_name,attr"`
	Name       struct {
		TaxonID        string `xml:"TAXON_ID"`
		ScientificName string `xml:"SCIENTIFIC_NAME"`
	} `xml:"SAMPLE_NAME"`
}

// ParseSample decodes an ENA sample XML document and fills the fields it
// resolves into row. Fields the document lacks keep their current value.
// With several SAMPLE elements the last one wins.
func ParseSample(r io.Reader, row *Row) error {
	var set sampleSet
	if err := xml.NewDecoder(r).Decode(&set); err != nil {
		return fmt.Errorf("decode sample xml: %w", err)
	}
	for _, s := range set.Samples {
		setIf(&row.ENAAccession, s.Accession)
		setIf(&row.Alias, s.Alias)
		setIf(&row.BrokerName, s.BrokerName)
		if id, err := strconv.Atoi(strings.TrimSpace(s.Name.TaxonID)); err == nil {
			row.TaxonID = strconv.Itoa(id)
		}
		setIf(&row.ScientificName, strings.ToLower(strings.TrimSpace(s.Name.ScientificName)))
	}
	return nil
}

// cellSafe keeps values from breaking the tab-separated layout.
var cellSafe = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

func setIf(dst *string, v string) {
	if v = cellSafe.Replace(v); v != "" {
		*dst = v
	}
}
