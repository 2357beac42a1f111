// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibtex

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// citeRE matches the natbib and biblatex citation commands, including
// starred forms and up to two optional arguments.
var citeRE = regexp.MustCompile(
	`\\(?:cite[pt]?|citeauthor|citeyear|citealt|citealp|citenum|parencite|textcite|autocite)\*?\s*(?:\[[^\]]*\])?\s*(?:\[[^\]]*\])?\s*\{([^}]+)\}`)

// ExtractCitedKeys returns the citation keys referenced across the given
// LaTeX files, deduplicated and sorted.
func ExtractCitedKeys(texPaths []string) ([]string, error) {
	seen := map[string]bool{}
	for _, path := range texPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading tex file: %w", err)
		}
		for _, key := range CitedKeys(string(data)) {
			seen[key] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// CitedKeys extracts citation keys from LaTeX source, in order of first use.
func CitedKeys(content string) []string {
	content = stripComments(content)

	var keys []string
	seen := map[string]bool{}
	for _, m := range citeRE.FindAllStringSubmatch(content, -1) {
		for _, key := range strings.Split(m[1], ",") {
			key = strings.TrimSpace(key)
			if key != "" && !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// stripComments removes LaTeX % comments, leaving escaped \% intact.
func stripComments(content string) string {
	var b strings.Builder
	for _, line := range strings.Split(content, "\n") {
		cut := len(line)
		for i := 0; i < len(line); i++ {
			if line[i] == '%' && (i == 0 || line[i-1] != '\\') {
				cut = i
				break
			}
		}
		b.WriteString(line[:cut])
		b.WriteByte('\n')
	}
	return b.String()
}
