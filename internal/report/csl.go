// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names follow the CSL-YAML schema so the output is
// consumable by Pandoc and reference managers.
type CSLItem struct {
	ID     string    `yaml:"id"`
	Type   string    `yaml:"type"`
	Title  string    `yaml:"title"`
	Author []CSLName `yaml:"author,omitempty"`
	Issued *CSLDate  `yaml:"issued,omitempty"`
	Venue  string    `yaml:"container-title,omitempty"`
	DOI    string    `yaml:"DOI,omitempty"`
	URL    string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// WriteCSL writes the run's best-known bibliography as a CSL-YAML list:
// corrected entries where a suggestion exists, the original records where
// verification passed them through.
func (r *Report) WriteCSL(w io.Writer) error {
	items := make([]CSLItem, 0, len(r.Results))
	for _, res := range r.Results {
		if s := res.SuggestedCorrection; s != nil {
			items = append(items, toCSLItem(s.Key, s.EntryType, s.Title, s.Authors, s.Year, s.Venue, s.DOI, s.URL))
			continue
		}
		rec := res.Record
		items = append(items, toCSLItem(rec.Key, rec.EntryType, rec.Title, rec.Authors, rec.Year, rec.Venue, rec.DOI, rec.URL))
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(key, entryType, title string, authors []string, year int, venue, doi, url string) CSLItem {
	item := CSLItem{
		ID:    key,
		Type:  cslType(entryType),
		Title: title,
		Venue: venue,
		DOI:   doi,
		URL:   url,
	}
	for _, a := range authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	if year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{year}}}
	}
	return item
}

// cslType maps BibTeX entry types onto CSL item types.
func cslType(entryType string) string {
	switch entryType {
	case "inproceedings", "conference":
		return "paper-conference"
	case "book":
		return "book"
	case "phdthesis", "mastersthesis":
		return "thesis"
	case "techreport":
		return "report"
	default:
		return "article-journal"
	}
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
