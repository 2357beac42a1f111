// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibtex

import (
	"strings"
	"testing"

	"github.com/hqsandbox/True-Citation/pkg/types"
)

const sampleBib = `
This is free-form commentary between entries.

@article{vaswani2017,
  author    = {Vaswani, Ashish and Shazeer, Noam},
  title     = {Attention Is All You Need},
  journal   = {Advances in Neural Information Processing Systems},
  volume    = {30},
  pages     = {5998--6008},
  publisher = {Curran Associates},
  year      = {2017},
  doi       = {10.5555/3295222},
}

@inproceedings{he2016deep,
  author    = {He, Kaiming and Zhang, Xiangyu},
  title     = {{Deep Residual Learning} for Image Recognition},
  booktitle = {CVPR},
  year      = "2016",
}

@misc{unknown_year,
  title = {A Paper Without a Date},
}
`

func TestParseEntries(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleBib))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	first := records[0]
	if first.Key != "vaswani2017" || first.EntryType != "article" {
		t.Errorf("first record = %+v", first)
	}
	if first.Title != "Attention Is All You Need" {
		t.Errorf("Title = %q", first.Title)
	}
	if len(first.Authors) != 2 || first.Authors[0] != "Ashish Vaswani" {
		t.Errorf("Authors = %v, want Last-comma-First flipped", first.Authors)
	}
	if first.Year != 2017 || first.DOI != "10.5555/3295222" {
		t.Errorf("record = %+v", first)
	}
	if first.Venue != "Advances in Neural Information Processing Systems" {
		t.Errorf("Venue = %q", first.Venue)
	}
	if first.Volume != "30" || first.Pages != "5998--6008" || first.Publisher != "Curran Associates" {
		t.Errorf("volume/pages/publisher = %q/%q/%q", first.Volume, first.Pages, first.Publisher)
	}

	second := records[1]
	if second.Title != "Deep Residual Learning for Image Recognition" {
		t.Errorf("Title = %q, protective braces not stripped", second.Title)
	}
	if second.Venue != "CVPR" {
		t.Errorf("Venue = %q, booktitle not used as venue", second.Venue)
	}
	if second.Year != 2016 {
		t.Errorf("Year = %d, quoted value not parsed", second.Year)
	}

	third := records[2]
	if third.Year != 0 || len(third.Authors) != 0 {
		t.Errorf("record without author/year = %+v", third)
	}
}

func TestParseStringAbbreviations(t *testing.T) {
	src := `
@string{neurips = {Advances in Neural Information Processing Systems}}

@article{a,
  title   = {T},
  journal = neurips,
  year    = {2020},
}
`
	records, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Venue != "Advances in Neural Information Processing Systems" {
		t.Errorf("Venue = %q, @string not expanded", records[0].Venue)
	}
}

func TestParseConcatenation(t *testing.T) {
	src := `
@string{proc = {Proceedings of }}
@inproceedings{a,
  title     = {T},
  booktitle = proc # {ICML},
  year      = {2021},
}
`
	records, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if records[0].Venue != "Proceedings of ICML" {
		t.Errorf("Venue = %q, concatenation not applied", records[0].Venue)
	}
}

func TestParseSkipsCommentBlocks(t *testing.T) {
	src := `
@comment{this is {nested} commentary}
@preamble{"\newcommand{\x}{y}"}
@article{a, title = {T}, year = {2020}}
`
	records, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 1 || records[0].Key != "a" {
		t.Errorf("records = %+v, want just entry a", records)
	}
}

func TestParseUnterminatedEntry(t *testing.T) {
	_, err := Parse(strings.NewReader(`@article{a, title = {never closed`))
	if err == nil {
		t.Fatal("expected error for unterminated entry")
	}
}

func TestParseAuthors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  []string
	}{
		{"and separated", "Ashish Vaswani and Noam Shazeer", []string{"Ashish Vaswani", "Noam Shazeer"}},
		{"last comma first", "Vaswani, Ashish and Shazeer, Noam", []string{"Ashish Vaswani", "Noam Shazeer"}},
		{"case insensitive and", "A One AND B Two", []string{"A One", "B Two"}},
		{"braces stripped", "{Jean-Pierre} Dupont", []string{"Jean-Pierre Dupont"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAuthors(tt.field)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseAuthors(%q) = %v, want %v", tt.field, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ParseAuthors(%q)[%d] = %q, want %q", tt.field, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		field string
		want  int
	}{
		{"2017", 2017},
		{"circa 1999.", 1999},
		{"n.d.", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ParseYear(tt.field); got != tt.want {
			t.Errorf("ParseYear(%q) = %d, want %d", tt.field, got, tt.want)
		}
	}
}

func TestParsedRecordsRoundTripKeys(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleBib))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	byKey := map[string]types.CitationRecord{}
	for _, r := range records {
		byKey[r.Key] = r
	}
	for _, key := range []string{"vaswani2017", "he2016deep", "unknown_year"} {
		if _, ok := byKey[key]; !ok {
			t.Errorf("key %q missing from parsed records", key)
		}
	}
}
