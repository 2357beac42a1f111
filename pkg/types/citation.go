// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the true-citation pipeline.
// Implements: prd001-verification (CitationRecord, CandidateMatch,
//
//	ScoredCandidate, VerificationResult);
//	prd002-sources (Source);
//	prd004-reporting (Suggestion, Verdict).
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

import (
	"fmt"
	"strings"
)

// Source identifies one of the bibliographic databases an adapter can query.
// The set is closed: new databases are added here and as new adapter variants.
type Source string

const (
	SourceSemanticScholar Source = "semantic_scholar"
	SourceCrossRef        Source = "crossref"
	SourceOpenAlex        Source = "openalex"
	SourceDBLP            Source = "dblp"
	SourceSerpAPI         Source = "google_scholar"
)

// AllSources lists every known source in default priority order (highest
// priority first). Tie-breaking in the classifier follows this order unless
// overridden by configuration.
var AllSources = []Source{
	SourceSemanticScholar,
	SourceCrossRef,
	SourceOpenAlex,
	SourceDBLP,
	SourceSerpAPI,
}

// Verdict is the final classification of a citation.
type Verdict string

const (
	// VerdictVerified means a candidate matched with high confidence.
	VerdictVerified Verdict = "verified"

	// VerdictSuspicious means a candidate partially matched; the citation
	// may be misdescribed.
	VerdictSuspicious Verdict = "suspicious"

	// VerdictError means no credible match was found, or verification could
	// not complete for this record.
	VerdictError Verdict = "error"
)

// Well-known VerificationResult reasons. The dispatcher and classifier use
// these verbatim so reports stay grep-able.
const (
	ReasonNoMatch     = "no matching record found in any source"
	ReasonInterrupted = "verification interrupted"
	ReasonTimedOut    = "timed out"
)

// CitationRecord is one bibliographic entry referenced by the document under
// check. Produced by an upstream parser (bibtex, pdfrefs); the engine never
// mutates it, only derives results alongside it.
type CitationRecord struct {
	// Key uniquely identifies the record within a run (BibTeX key or a
	// generated reference key).
	Key string `json:"key" yaml:"key"`

	// EntryType is the BibTeX entry type (article, inproceedings, misc, ...).
	EntryType string `json:"entry_type,omitempty" yaml:"entry_type,omitempty"`

	// Title is the cited work's title.
	Title string `json:"title" yaml:"title"`

	// Authors lists normalized author names ("First Last") in citation order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the publication year; 0 means unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Venue is the journal or proceedings name, if known.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Volume, Number, Pages, and Publisher are carried verbatim from the
	// source entry so a rebuilt entry loses nothing. They play no part in
	// matching.
	Volume    string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Number    string `json:"number,omitempty" yaml:"number,omitempty"`
	Pages     string `json:"pages,omitempty" yaml:"pages,omitempty"`
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// DOI is the claimed DOI, if any.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// URL is the claimed URL, if any.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// CandidateMatch is a record returned by one external database search,
// normalized into a common shape. Ephemeral: it lives only for the duration
// of one verification.
type CandidateMatch struct {
	// Source identifies which database produced this candidate.
	Source Source `json:"source" yaml:"source"`

	Title   string   `json:"title" yaml:"title"`
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Year    int      `json:"year,omitempty" yaml:"year,omitempty"`
	Venue   string   `json:"venue,omitempty" yaml:"venue,omitempty"`
	DOI     string   `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL     string   `json:"url,omitempty" yaml:"url,omitempty"`

	// RawScore is the source's own relevance signal when it provides one,
	// else 0. Position-based for sources that only rank.
	RawScore float64 `json:"raw_score,omitempty" yaml:"raw_score,omitempty"`
}

// ScoredCandidate is a CandidateMatch plus the matcher's per-field similarity
// scores. Confidence is a deterministic pure function of the field scores.
type ScoredCandidate struct {
	CandidateMatch `yaml:",inline"`

	// TitleSim is the normalized title similarity in [0,1].
	TitleSim float64 `json:"title_sim" yaml:"title_sim"`

	// AuthorSim is the fraction of the record's authors found among the
	// candidate's authors, in [0,1].
	AuthorSim float64 `json:"author_sim" yaml:"author_sim"`

	// YearMatch reports whether the years agree. An absent year on either
	// side is non-disqualifying and reported as true.
	YearMatch bool `json:"year_match" yaml:"year_match"`

	// VenueSim is the venue similarity in [0,1], or -1 when either venue is
	// absent (neutral).
	VenueSim float64 `json:"venue_sim" yaml:"venue_sim"`

	// Confidence is the weighted combination of the field scores, in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// SourceState tracks the lifecycle of one (record, source) request.
type SourceState string

const (
	StatePending   SourceState = "pending"
	StateRetrying  SourceState = "retrying"
	StateSucceeded SourceState = "succeeded"
	StateFailed    SourceState = "failed"
)

// SourceOutcome records how one source behaved for one record. A failed
// outcome degrades coverage for the record; it is never a run-level error.
type SourceOutcome struct {
	Source     Source      `json:"source" yaml:"source"`
	State      SourceState `json:"state" yaml:"state"`
	Candidates int         `json:"candidates" yaml:"candidates"`
	Err        string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// Suggestion is a corrected bibliographic entry built from the best evidence
// for a non-verified citation.
type Suggestion struct {
	Key       string   `json:"key" yaml:"key"`
	EntryType string   `json:"entry_type" yaml:"entry_type"`
	Title     string   `json:"title" yaml:"title"`
	Authors   []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Year      int      `json:"year,omitempty" yaml:"year,omitempty"`
	Venue     string   `json:"venue,omitempty" yaml:"venue,omitempty"`
	Volume    string   `json:"volume,omitempty" yaml:"volume,omitempty"`
	Number    string   `json:"number,omitempty" yaml:"number,omitempty"`
	Pages     string   `json:"pages,omitempty" yaml:"pages,omitempty"`
	Publisher string   `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	DOI       string   `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL       string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// BibTeX renders the suggestion as a BibTeX entry.
func (s Suggestion) BibTeX() string {
	entryType := s.EntryType
	if entryType == "" {
		entryType = "misc"
	}
	lines := []string{fmt.Sprintf("@%s{%s,", entryType, s.Key)}
	if len(s.Authors) > 0 {
		lines = append(lines, fmt.Sprintf("  author = {%s},", strings.Join(s.Authors, " and ")))
	}
	if s.Title != "" {
		lines = append(lines, fmt.Sprintf("  title = {%s},", s.Title))
	}
	if s.Year > 0 {
		lines = append(lines, fmt.Sprintf("  year = {%d},", s.Year))
	}
	if s.Venue != "" {
		key := "journal"
		if entryType == "inproceedings" {
			key = "booktitle"
		}
		lines = append(lines, fmt.Sprintf("  %s = {%s},", key, s.Venue))
	}
	if s.Volume != "" {
		lines = append(lines, fmt.Sprintf("  volume = {%s},", s.Volume))
	}
	if s.Number != "" {
		lines = append(lines, fmt.Sprintf("  number = {%s},", s.Number))
	}
	if s.Pages != "" {
		lines = append(lines, fmt.Sprintf("  pages = {%s},", s.Pages))
	}
	if s.Publisher != "" {
		lines = append(lines, fmt.Sprintf("  publisher = {%s},", s.Publisher))
	}
	if s.DOI != "" {
		lines = append(lines, fmt.Sprintf("  doi = {%s},", s.DOI))
	}
	if s.URL != "" {
		lines = append(lines, fmt.Sprintf("  url = {%s},", s.URL))
	}
	lines = append(lines, "}")
	return strings.Join(lines, "\n")
}

// VerificationResult is the unit handed to the reporting collaborator: one
// per input CitationRecord, never mutated after the classifier finalizes it.
type VerificationResult struct {
	// Record is the original citation under verification.
	Record CitationRecord `json:"record" yaml:"record"`

	// Verdict is the final classification.
	Verdict Verdict `json:"verdict" yaml:"verdict"`

	// Reason is a short human-readable explanation of the verdict.
	Reason string `json:"reason" yaml:"reason"`

	// BestCandidate is the most confident candidate across all sources, or
	// nil when no source returned anything.
	BestCandidate *ScoredCandidate `json:"best_candidate,omitempty" yaml:"best_candidate,omitempty"`

	// Evidence lists all scored candidates, most confident first.
	Evidence []ScoredCandidate `json:"evidence,omitempty" yaml:"evidence,omitempty"`

	// Coverage records the per-source request outcomes, including sources
	// that failed or were skipped.
	Coverage []SourceOutcome `json:"coverage,omitempty" yaml:"coverage,omitempty"`

	// SuggestedCorrection is present only when the verdict is not Verified
	// and the best candidate cleared the plausibility floor.
	SuggestedCorrection *Suggestion `json:"suggested_correction,omitempty" yaml:"suggested_correction,omitempty"`
}
