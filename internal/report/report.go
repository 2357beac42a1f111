// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders verification results as markdown, JSON, or HTML
// documents, plus a corrected bibliography.
// Implements: prd004-reporting (R1-R5);
//
//	docs/ARCHITECTURE § Reporting.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hqsandbox/True-Citation/pkg/types"
)

// Summary counts results by verdict.
type Summary struct {
	Total      int `json:"total" yaml:"total"`
	Verified   int `json:"verified" yaml:"verified"`
	Suspicious int `json:"suspicious" yaml:"suspicious"`
	Errors     int `json:"errors" yaml:"errors"`
}

// Report is one verification run's full output.
type Report struct {
	// RunID uniquely identifies the run across report artifacts.
	RunID string `json:"run_id" yaml:"run_id"`

	GeneratedAt time.Time                  `json:"generated_at" yaml:"generated_at"`
	Summary     Summary                    `json:"summary" yaml:"summary"`
	Results     []types.VerificationResult `json:"results" yaml:"results"`
}

// New builds a report over the run's results.
func New(results []types.VerificationResult) *Report {
	r := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		Results:     results,
	}
	for _, res := range results {
		r.Summary.Total++
		switch res.Verdict {
		case types.VerdictVerified:
			r.Summary.Verified++
		case types.VerdictSuspicious:
			r.Summary.Suspicious++
		default:
			r.Summary.Errors++
		}
	}
	return r
}

// Save writes the report in the given format to dir and returns the file
// path. Formats: markdown, json, html.
func (r *Report) Save(dir, format string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	stamp := r.GeneratedAt.Format("20060102_150405")
	var name string
	render := func(w io.Writer) error { return nil }
	switch format {
	case "markdown", "":
		name = fmt.Sprintf("report_%s.md", stamp)
		render = r.WriteMarkdown
	case "json":
		name = fmt.Sprintf("report_%s.json", stamp)
		render = r.WriteJSON
	case "html":
		name = fmt.Sprintf("report_%s.html", stamp)
		render = r.WriteHTML
	default:
		return "", fmt.Errorf("unsupported report format %q (want markdown, json, or html)", format)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()
	if err := render(f); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// SaveCorrectedBib writes the corrected bibliography next to the reports and
// returns the file path.
func (r *Report) SaveCorrectedBib(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("corrected_%s.bib", r.GeneratedAt.Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating bib file: %w", err)
	}
	defer f.Close()
	if err := r.WriteCorrectedBib(f); err != nil {
		return "", fmt.Errorf("writing bib file: %w", err)
	}
	return path, nil
}

// SaveCSL writes the run's bibliography as CSL-YAML next to the reports and
// returns the file path.
func (r *Report) SaveCSL(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("bibliography_%s.yaml", r.GeneratedAt.Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating csl file: %w", err)
	}
	defer f.Close()
	if err := r.WriteCSL(f); err != nil {
		return "", fmt.Errorf("writing csl file: %w", err)
	}
	return path, nil
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCorrectedBib renders a .bib file where every non-verified entry with
// a suggestion is replaced by its corrected form and verified entries pass
// through rebuilt from their records.
func (r *Report) WriteCorrectedBib(w io.Writer) error {
	fmt.Fprintf(w, "%% Corrected bibliography, run %s\n", r.RunID)
	fmt.Fprintf(w, "%% Generated %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	for _, res := range r.Results {
		if res.SuggestedCorrection != nil {
			fmt.Fprintf(w, "%% Original entry was %s; corrected from %s evidence\n",
				res.Verdict, bestSource(res))
			if _, err := fmt.Fprintln(w, res.SuggestedCorrection.BibTeX()); err != nil {
				return err
			}
		} else {
			entry := types.Suggestion{
				Key:       res.Record.Key,
				EntryType: res.Record.EntryType,
				Title:     res.Record.Title,
				Authors:   res.Record.Authors,
				Year:      res.Record.Year,
				Venue:     res.Record.Venue,
				Volume:    res.Record.Volume,
				Number:    res.Record.Number,
				Pages:     res.Record.Pages,
				Publisher: res.Record.Publisher,
				DOI:       res.Record.DOI,
				URL:       res.Record.URL,
			}
			if _, err := fmt.Fprintln(w, entry.BibTeX()); err != nil {
				return err
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}

func bestSource(res types.VerificationResult) types.Source {
	if res.BestCandidate != nil {
		return res.BestCandidate.Source
	}
	return ""
}

// verdictLabel maps verdicts to report badges.
func verdictLabel(v types.Verdict) string {
	switch v {
	case types.VerdictVerified:
		return "VERIFIED"
	case types.VerdictSuspicious:
		return "SUSPICIOUS"
	default:
		return "ERROR"
	}
}
