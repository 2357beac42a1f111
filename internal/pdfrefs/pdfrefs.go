// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfrefs extracts reference-list entries from PDF documents.
// Extraction is best effort: PDF reference lists are free text, so the
// yielded records carry whatever fields the heuristics could recover.
// Implements: prd005-input (R4);
//
//	docs/ARCHITECTURE § Input.
package pdfrefs

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/hqsandbox/True-Citation/pkg/types"
)

var (
	// headingRE finds the start of the reference list.
	headingRE = regexp.MustCompile(`(?mi)^\s*(references?|bibliography)\s*$`)

	// bracketRefRE splits "[n] ..." numbered references.
	bracketRefRE = regexp.MustCompile(`\n\s*\[(\d+)\]\s*`)

	// dottedRefRE splits "n. ..." numbered references.
	dottedRefRE = regexp.MustCompile(`\n\s*(\d+)\.\s+`)

	// blankLineRE splits paragraph-per-reference lists.
	blankLineRE = regexp.MustCompile(`\n\s*\n`)

	yearRE       = regexp.MustCompile(`\(?(19|20)\d{2}\)?`)
	quotedRE     = regexp.MustCompile(`["\x{201c}](.+?)["\x{201d}]`)
	nonLetterRE  = regexp.MustCompile(`[^a-z]`)
	authorSepRE  = regexp.MustCompile(`(?i)\s*(?:;|\s+and\s+|\s*&\s*)\s*`)
)

// maxAuthors caps how many author fragments one reference contributes.
const maxAuthors = 5

// ExtractFile pulls the reference list out of a PDF and parses it into
// citation records.
func ExtractFile(path string) ([]types.CitationRecord, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	var text strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		// A page that fails to render just loses its text.
		if s, err := page.GetPlainText(nil); err == nil {
			text.WriteString(s)
			text.WriteByte('\n')
		}
	}
	return Extract(text.String()), nil
}

// Extract parses the reference list from extracted PDF text.
func Extract(text string) []types.CitationRecord {
	section := referencesSection(text)

	var records []types.CitationRecord
	for i, ref := range splitReferences(section) {
		if rec, ok := parseReference(ref, i+1); ok {
			records = append(records, rec)
		}
	}
	return records
}

// referencesSection returns the text after the reference-list heading. With
// no recognizable heading it falls back to the document's tail, where the
// list usually sits.
func referencesSection(text string) string {
	if loc := headingRE.FindStringIndex(text); loc != nil {
		return text[loc[1]:]
	}
	return text[len(text)*7/10:]
}

// splitReferences breaks the section into individual reference strings,
// preferring "[n]" numbering, then "n." numbering, then blank lines.
func splitReferences(section string) []string {
	for _, re := range []*regexp.Regexp{bracketRefRE, dottedRefRE} {
		parts := re.Split("\n"+section, -1)
		if len(parts) > 2 {
			return parts[1:]
		}
	}
	return blankLineRE.Split(section, -1)
}

// parseReference recovers what it can from one free-text reference.
func parseReference(ref string, index int) (types.CitationRecord, bool) {
	ref = strings.Join(strings.Fields(ref), " ")
	if len(ref) < 20 {
		return types.CitationRecord{}, false
	}

	var year int
	yearLoc := yearRE.FindStringIndex(ref)
	if yearLoc != nil {
		fmt.Sscanf(strings.Trim(ref[yearLoc[0]:yearLoc[1]], "()"), "%d", &year)
	}

	authors := parseAuthors(ref, yearLoc)
	title := parseTitle(ref, yearLoc)
	if title == "" {
		return types.CitationRecord{}, false
	}

	return types.CitationRecord{
		Key:       referenceKey(authors, year, index),
		EntryType: "misc",
		Title:     title,
		Authors:   authors,
		Year:      year,
	}, true
}

// parseAuthors reads the author run preceding the year.
func parseAuthors(ref string, yearLoc []int) []string {
	section := ref
	if yearLoc != nil {
		section = ref[:yearLoc[0]]
	}
	section = strings.TrimRight(strings.TrimSpace(section), ".,")
	if section == "" {
		return nil
	}

	var authors []string
	for _, part := range authorSepRE.Split(section, -1) {
		part = strings.TrimRight(strings.TrimSpace(part), ".,")
		if part == "" || len(part) >= 100 {
			continue
		}
		if !strings.ContainsFunc(part, isASCIILetter) {
			continue
		}
		authors = append(authors, part)
		if len(authors) == maxAuthors {
			break
		}
	}
	return authors
}

// parseTitle reads the title after the year: quoted if present, otherwise
// up to the next sentence break.
func parseTitle(ref string, yearLoc []int) string {
	if yearLoc == nil {
		return ""
	}
	after := strings.TrimLeft(strings.TrimSpace(ref[yearLoc[1]:]), ".),:")
	after = strings.TrimSpace(after)

	if m := quotedRE.FindStringSubmatch(after); m != nil {
		return strings.Trim(m[1], ` "'.,`)
	}
	if idx := strings.IndexByte(after, '.'); idx > 0 {
		return strings.Trim(after[:idx], ` "'.,`)
	}
	if len(after) > 100 {
		after = after[:100]
	}
	return strings.Trim(after, ` "'.,`)
}

// referenceKey derives a stable key: first author's surname plus the year
// when both are known, else a positional key.
func referenceKey(authors []string, year, index int) string {
	if len(authors) > 0 {
		fields := strings.Fields(authors[0])
		if len(fields) > 0 {
			surname := nonLetterRE.ReplaceAllString(strings.ToLower(fields[len(fields)-1]), "")
			if surname != "" && year > 0 {
				return fmt.Sprintf("%s%d", surname, year)
			}
			if surname != "" {
				return fmt.Sprintf("%s_ref%d", surname, index)
			}
		}
	}
	return fmt.Sprintf("ref_%d", index)
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
