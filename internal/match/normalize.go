// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match scores candidate matches against citation records using
// pure, deterministic string similarity. No randomness, no network access,
// no mutable global state: identical inputs always produce identical scores.
// Implements: prd003-matching (R1-R4);
//
//	docs/ARCHITECTURE § Matching.
package match

import (
	"strings"
	"unicode"
)

// NormalizeTitle returns a lowercased, punctuation-stripped,
// whitespace-collapsed version of a title for comparison.
func NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeAuthor returns a canonical "First Last" form of an author name.
// It flips "Last, First" ordering, drops BibTeX braces, strips parenthesized
// affiliations, and collapses whitespace.
func NormalizeAuthor(name string) string {
	name = strings.NewReplacer("{", "", "}", "").Replace(name)

	// Strip a trailing parenthesized affiliation, e.g. "Jane Doe (MIT)".
	if open := strings.Index(name, "("); open >= 0 {
		if close := strings.Index(name[open:], ")"); close >= 0 {
			name = name[:open] + name[open+close+1:]
		}
	}

	// "Last, First" → "First Last". Only the first comma flips; suffixes
	// like "Jr." stay attached to whichever side they were written on.
	if idx := strings.Index(name, ","); idx >= 0 {
		last := strings.TrimSpace(name[:idx])
		first := strings.TrimSpace(name[idx+1:])
		name = strings.TrimSpace(first + " " + last)
	}

	return strings.Join(strings.Fields(name), " ")
}

// Surname extracts the comparison key for an author: the lowercased final
// token of the normalized name. Initials and first-name variations do not
// affect it.
func Surname(name string) string {
	fields := strings.Fields(strings.ToLower(NormalizeAuthor(name)))
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	var b strings.Builder
	for _, r := range last {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// tokens splits a normalized string into its word tokens.
func tokens(s string) []string {
	return strings.Fields(s)
}
