// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"math"
	"reflect"
	"testing"

	"github.com/hqsandbox/True-Citation/pkg/types"
)

// --- Normalization ---

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"lowercase", "Attention Is All You Need", "attention is all you need"},
		{"punctuation stripped", "BERT: Pre-training of Deep Bidirectional Transformers", "bert pretraining of deep bidirectional transformers"},
		{"whitespace collapsed", "  deep   learning \t methods ", "deep learning methods"},
		{"digits kept", "GPT-4 Technical Report", "gpt4 technical report"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTitle(tt.title); got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestNormalizeAuthor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already first-last", "John Smith", "John Smith"},
		{"last-comma-first flipped", "Smith, John", "John Smith"},
		{"braces dropped", "{van der Berg}, Jan", "Jan van der Berg"},
		{"affiliation stripped", "Jane Doe (MIT)", "Jane Doe"},
		{"whitespace collapsed", "  Ada   Lovelace ", "Ada Lovelace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAuthor(tt.in); got != tt.want {
				t.Errorf("NormalizeAuthor(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSurname(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"first last", "John Smith", "smith"},
		{"last comma first", "Smith, John", "smith"},
		{"initials", "J. K. Rowling", "rowling"},
		{"trailing period stripped", "A. Vaswani.", "vaswani"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Surname(tt.in); got != tt.want {
				t.Errorf("Surname(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// --- Similarity primitives ---

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "abc", "abc", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "abc", "", 0.0},
		{"single edit", "kitten", "mitten", 1.0 - 1.0/6.0},
		{"disjoint", "aaaa", "bbbb", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ratio(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ratio(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTokenSortRatioOrderInsensitive(t *testing.T) {
	a := "deep learning for nlp"
	b := "nlp for deep learning"
	if got := TokenSortRatio(a, b); got != 1.0 {
		t.Errorf("TokenSortRatio(%q, %q) = %f, want 1.0", a, b, got)
	}
}

func TestTokenSetRatioSubset(t *testing.T) {
	// A title that is a strict token subset of the other should score 1.0;
	// sources abbreviate or extend titles.
	a := "deep learning"
	b := "deep learning for natural language processing"
	if got := TokenSetRatio(a, b); got != 1.0 {
		t.Errorf("TokenSetRatio(%q, %q) = %f, want 1.0", a, b, got)
	}
}

func TestTitleSimilarityReordered(t *testing.T) {
	got := TitleSimilarity("Attention Is All You Need", "all you need is attention!")
	if got != 1.0 {
		t.Errorf("TitleSimilarity = %f, want 1.0 for reordered tokens", got)
	}
}

func TestTitleSimilarityEmpty(t *testing.T) {
	if got := TitleSimilarity("", "anything"); got != 0.0 {
		t.Errorf("TitleSimilarity with empty title = %f, want 0.0", got)
	}
}

// --- Author overlap ---

func TestAuthorOverlap(t *testing.T) {
	tests := []struct {
		name      string
		record    []string
		candidate []string
		want      float64
		wantKnown bool
	}{
		{"full overlap", []string{"Smith, John"}, []string{"John Smith", "Jane Doe"}, 1.0, true},
		{"extra candidate authors do not penalize", []string{"John Smith"}, []string{"John Smith", "A", "B", "C"}, 1.0, true},
		{"missing expected author penalizes", []string{"John Smith", "Jane Doe"}, []string{"John Smith"}, 0.5, true},
		{"initials vs full name", []string{"J. Smith"}, []string{"John Smith"}, 1.0, true},
		{"no overlap", []string{"John Smith"}, []string{"Alice Jones"}, 0.0, true},
		{"record without authors is unknowable", nil, []string{"John Smith"}, 0.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known := AuthorOverlap(tt.record, tt.candidate)
			if math.Abs(got-tt.want) > 1e-9 || known != tt.wantKnown {
				t.Errorf("AuthorOverlap() = (%f, %v), want (%f, %v)", got, known, tt.want, tt.wantKnown)
			}
		})
	}
}

// --- Scoring ---

func TestScoreDeterministic(t *testing.T) {
	record := types.CitationRecord{
		Key:     "smith2023",
		Title:   "Deep Learning for NLP",
		Authors: []string{"Smith, John"},
		Year:    2023,
	}
	candidate := types.CandidateMatch{
		Source:  types.SourceCrossRef,
		Title:   "Deep Learning Methods for Natural Language Processing",
		Authors: []string{"John Smith", "Jane Doe"},
		Year:    2023,
	}

	first := Score(record, candidate)
	for i := 0; i < 10; i++ {
		if got := Score(record, candidate); !reflect.DeepEqual(got, first) {
			t.Fatalf("Score is not deterministic: %+v != %+v", got, first)
		}
	}
}

func TestScorePerfectMatch(t *testing.T) {
	record := types.CitationRecord{
		Title:   "Attention Is All You Need",
		Authors: []string{"Ashish Vaswani", "Noam Shazeer"},
		Year:    2017,
		Venue:   "NeurIPS",
	}
	candidate := types.CandidateMatch{
		Title:   "Attention Is All You Need",
		Authors: []string{"Ashish Vaswani", "Noam Shazeer"},
		Year:    2017,
		Venue:   "NeurIPS",
	}

	sc := Score(record, candidate)
	if math.Abs(sc.Confidence-1.0) > 1e-9 {
		t.Errorf("Confidence = %f, want 1.0 for a perfect match", sc.Confidence)
	}
	if sc.TitleSim != 1.0 || sc.AuthorSim != 1.0 || !sc.YearMatch || sc.VenueSim != 1.0 {
		t.Errorf("field scores = %+v, want all perfect", sc)
	}
}

func TestScorePartialTitleMatch(t *testing.T) {
	// The canonical suspicious case: title partially overlaps, authors and
	// year agree, venue unknown.
	record := types.CitationRecord{
		Title:   "Deep Learning for NLP",
		Authors: []string{"Smith, John"},
		Year:    2023,
	}
	candidate := types.CandidateMatch{
		Title:   "Deep Learning Methods for Natural Language Processing",
		Authors: []string{"John Smith", "Jane Doe"},
		Year:    2023,
	}

	sc := Score(record, candidate)
	if sc.AuthorSim != 1.0 {
		t.Errorf("AuthorSim = %f, want 1.0", sc.AuthorSim)
	}
	if !sc.YearMatch {
		t.Error("YearMatch = false, want true")
	}
	if sc.VenueSim != VenueNeutral {
		t.Errorf("VenueSim = %f, want neutral", sc.VenueSim)
	}
	// Title only partially overlaps, so confidence must land in the
	// suspicious band rather than clearing verification.
	if sc.Confidence < 0.5 || sc.Confidence >= 0.85 {
		t.Errorf("Confidence = %f, want in [0.5, 0.85)", sc.Confidence)
	}
}

func TestScoreYearHandling(t *testing.T) {
	base := types.CitationRecord{Title: "Some Paper", Authors: []string{"A Author"}}
	cand := types.CandidateMatch{Title: "Some Paper", Authors: []string{"A Author"}}

	tests := []struct {
		name          string
		recordYear    int
		candidateYear int
		wantMatch     bool
	}{
		{"both present equal", 2020, 2020, true},
		{"both present differ", 2020, 2021, false},
		{"record year absent", 0, 2020, true},
		{"candidate year absent", 2020, 0, true},
		{"both absent", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, c := base, cand
			r.Year, c.Year = tt.recordYear, tt.candidateYear
			sc := Score(r, c)
			if sc.YearMatch != tt.wantMatch {
				t.Errorf("YearMatch = %v, want %v", sc.YearMatch, tt.wantMatch)
			}
		})
	}

	// A mismatched year must score strictly below a matched year, and an
	// absent year must land between them.
	r, c := base, cand
	r.Year, c.Year = 2020, 2020
	matched := Score(r, c).Confidence
	c.Year = 0
	neutral := Score(r, c).Confidence
	c.Year = 2021
	mismatched := Score(r, c).Confidence

	if !(mismatched < neutral && neutral < matched) {
		t.Errorf("year scoring order: mismatch %f, neutral %f, match %f; want strictly increasing",
			mismatched, neutral, matched)
	}
}

func TestScoreMonotonicInTitle(t *testing.T) {
	record := types.CitationRecord{
		Title:   "graph neural networks for molecules",
		Authors: []string{"A Author"},
		Year:    2021,
	}

	// Candidate titles ordered by increasing similarity to the record.
	titles := []string{
		"completely unrelated survey of databases",
		"neural networks",
		"graph neural networks",
		"graph neural networks for molecules",
	}

	prev := -1.0
	prevTitle := -1.0
	for _, title := range titles {
		sc := Score(record, types.CandidateMatch{
			Title:   title,
			Authors: []string{"A Author"},
			Year:    2021,
		})
		if sc.TitleSim < prevTitle {
			t.Fatalf("test setup: titles not ordered by similarity (%q: %f < %f)", title, sc.TitleSim, prevTitle)
		}
		if sc.Confidence < prev {
			t.Errorf("confidence decreased while title similarity increased: %q gave %f after %f",
				title, sc.Confidence, prev)
		}
		prev = sc.Confidence
		prevTitle = sc.TitleSim
	}
}

func TestScoreNoAuthorsIsNeutral(t *testing.T) {
	record := types.CitationRecord{Title: "Some Paper"}
	withAuthors := Score(
		types.CitationRecord{Title: "Some Paper", Authors: []string{"Nobody Real"}},
		types.CandidateMatch{Title: "Some Paper", Authors: []string{"Someone Else"}},
	)
	neutral := Score(record, types.CandidateMatch{Title: "Some Paper", Authors: []string{"Someone Else"}})

	if neutral.AuthorSim != 0.5 {
		t.Errorf("AuthorSim without record authors = %f, want neutral 0.5", neutral.AuthorSim)
	}
	if neutral.Confidence <= withAuthors.Confidence {
		t.Errorf("neutral authors (%f) should outscore a hard author mismatch (%f)",
			neutral.Confidence, withAuthors.Confidence)
	}
}
