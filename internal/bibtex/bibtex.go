// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibtex parses BibTeX bibliographies and LaTeX citation commands
// into citation records.
// Implements: prd005-input (R1-R3);
//
//	docs/ARCHITECTURE § Input.
package bibtex

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/hqsandbox/True-Citation/internal/match"
	"github.com/hqsandbox/True-Citation/pkg/types"
)

var yearRE = regexp.MustCompile(`\d{4}`)

// andRE splits author lists on the BibTeX "and" separator.
var andRE = regexp.MustCompile(`(?i)\s+and\s+`)

// ParseFile parses a .bib file into citation records in file order.
func ParseFile(path string) ([]types.CitationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bib file: %w", err)
	}
	defer f.Close()
	records, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

// Parse reads a BibTeX bibliography into citation records, in entry order.
// @string abbreviations are expanded; @comment and @preamble blocks are
// skipped. Records without a key are dropped.
func Parse(r io.Reader) ([]types.CitationRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := &parser{src: []rune(string(data)), strings: map[string]string{}}
	var records []types.CitationRecord
	for {
		entry, ok, err := p.nextEntry()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if entry == nil {
			continue
		}
		records = append(records, *entry)
	}
	return records, nil
}

// ParseAuthors splits a BibTeX author field into normalized names.
func ParseAuthors(field string) []string {
	var authors []string
	for _, part := range andRE.Split(field, -1) {
		if n := match.NormalizeAuthor(part); n != "" {
			authors = append(authors, n)
		}
	}
	return authors
}

// ParseYear extracts a four-digit year from a field value; 0 means none.
func ParseYear(field string) int {
	m := yearRE.FindString(field)
	if m == "" {
		return 0
	}
	var year int
	fmt.Sscanf(m, "%d", &year)
	return year
}

// parser is a cursor over the bibliography source.
type parser struct {
	src     []rune
	pos     int
	strings map[string]string
}

// nextEntry returns the next citation record, nil for a skipped block, or
// ok=false at end of input.
func (p *parser) nextEntry() (*types.CitationRecord, bool, error) {
	// Everything outside @...{...} is free-form commentary in BibTeX.
	for p.pos < len(p.src) && p.src[p.pos] != '@' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return nil, false, nil
	}
	p.pos++ // consume '@'

	entryType := strings.ToLower(p.ident())
	if entryType == "" {
		return nil, false, fmt.Errorf("missing entry type at offset %d", p.pos)
	}
	p.skipSpace()
	if p.pos >= len(p.src) || (p.src[p.pos] != '{' && p.src[p.pos] != '(') {
		return nil, false, fmt.Errorf("entry @%s missing opening brace", entryType)
	}
	open := p.src[p.pos]
	closing := rune('}')
	if open == '(' {
		closing = ')'
	}
	p.pos++

	switch entryType {
	case "comment", "preamble":
		if err := p.skipBalanced(open, closing); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	case "string":
		if err := p.parseString(closing); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	p.skipSpace()
	key := p.until(',', closing)
	key = strings.TrimSpace(key)
	if p.pos < len(p.src) && p.src[p.pos] == ',' {
		p.pos++
	}

	fields, err := p.parseFields(closing)
	if err != nil {
		return nil, false, fmt.Errorf("entry %q: %w", key, err)
	}
	if key == "" {
		return nil, true, nil
	}

	venue := fields["journal"]
	if venue == "" {
		venue = fields["booktitle"]
	}
	rec := types.CitationRecord{
		Key:       key,
		EntryType: entryType,
		Title:     cleanValue(fields["title"]),
		Authors:   ParseAuthors(fields["author"]),
		Year:      ParseYear(fields["year"]),
		Venue:     cleanValue(venue),
		Volume:    cleanValue(fields["volume"]),
		Number:    cleanValue(fields["number"]),
		Pages:     cleanValue(fields["pages"]),
		Publisher: cleanValue(fields["publisher"]),
		DOI:       strings.TrimSpace(fields["doi"]),
		URL:       strings.TrimSpace(fields["url"]),
	}
	return &rec, true, nil
}

// parseFields reads name = value pairs until the entry's closing delimiter.
func (p *parser) parseFields(closing rune) (map[string]string, error) {
	fields := map[string]string{}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("unterminated entry")
		}
		if p.src[p.pos] == closing {
			p.pos++
			return fields, nil
		}
		name := strings.ToLower(p.ident())
		if name == "" {
			return nil, fmt.Errorf("malformed field near offset %d", p.pos)
		}
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != '=' {
			return nil, fmt.Errorf("field %q missing '='", name)
		}
		p.pos++
		value, err := p.parseValue()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		fields[name] = value

		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == ',' {
			p.pos++
		}
	}
}

// parseValue reads a field value: braced, quoted, numeric, or an @string
// abbreviation, possibly concatenated with '#'.
func (p *parser) parseValue() (string, error) {
	var parts []string
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return "", fmt.Errorf("unterminated value")
		}
		switch c := p.src[p.pos]; {
		case c == '{':
			p.pos++
			v, err := p.braced()
			if err != nil {
				return "", err
			}
			parts = append(parts, v)
		case c == '"':
			p.pos++
			start := p.pos
			for p.pos < len(p.src) && p.src[p.pos] != '"' {
				p.pos++
			}
			if p.pos >= len(p.src) {
				return "", fmt.Errorf("unterminated quoted value")
			}
			parts = append(parts, string(p.src[start:p.pos]))
			p.pos++
		default:
			word := p.ident()
			if word == "" {
				return "", fmt.Errorf("unexpected %q in value", string(c))
			}
			if sub, ok := p.strings[strings.ToLower(word)]; ok {
				parts = append(parts, sub)
			} else {
				parts = append(parts, word)
			}
		}

		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == '#' {
			p.pos++
			continue
		}
		return strings.Join(parts, ""), nil
	}
}

// parseString records one @string{name = value} abbreviation.
func (p *parser) parseString(closing rune) error {
	p.skipSpace()
	name := strings.ToLower(p.ident())
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '=' {
		return fmt.Errorf("@string %q missing '='", name)
	}
	p.pos++
	value, err := p.parseValue()
	if err != nil {
		return fmt.Errorf("@string %q: %w", name, err)
	}
	if name != "" {
		p.strings[name] = value
	}
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == closing {
		p.pos++
	}
	return nil
}

// braced reads to the matching close brace, keeping nested braces verbatim.
func (p *parser) braced() (string, error) {
	start := p.pos
	depth := 1
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				v := string(p.src[start:p.pos])
				p.pos++
				return v, nil
			}
		}
		p.pos++
	}
	return "", fmt.Errorf("unterminated braced value")
}

// skipBalanced consumes a balanced block after its opening delimiter.
func (p *parser) skipBalanced(open, closing rune) error {
	depth := 1
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		}
		p.pos++
	}
	return fmt.Errorf("unterminated block")
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n' || p.src[p.pos] == '\r') {
		p.pos++
	}
}

// ident reads a run of identifier characters.
func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '{' || c == '}' || c == '(' || c == ')' || c == ',' || c == '=' ||
			c == '#' || c == '"' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		p.pos++
	}
	return string(p.src[start:p.pos])
}

// until reads up to (not including) either stop rune.
func (p *parser) until(a, b rune) string {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != a && p.src[p.pos] != b {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

// cleanValue strips protective braces and collapses whitespace.
func cleanValue(v string) string {
	v = strings.ReplaceAll(v, "{", "")
	v = strings.ReplaceAll(v, "}", "")
	return strings.Join(strings.Fields(v), " ")
}
