// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/hqsandbox/True-Citation/pkg/types"
)

// WriteMarkdown renders the report as markdown: a summary table, then the
// problem entries first so reviewers see them without scrolling.
func (r *Report) WriteMarkdown(w io.Writer) error {
	var b strings.Builder

	b.WriteString("# Citation Verification Report\n\n")
	fmt.Fprintf(&b, "Run `%s`, generated %s\n\n", r.RunID, r.GeneratedAt.Format("2006-01-02 15:04:05"))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Verdict | Count | Share |\n")
	b.WriteString("|---------|-------|-------|\n")
	writeSummaryRow(&b, "Verified", r.Summary.Verified, r.Summary.Total)
	writeSummaryRow(&b, "Suspicious", r.Summary.Suspicious, r.Summary.Total)
	writeSummaryRow(&b, "Error", r.Summary.Errors, r.Summary.Total)
	fmt.Fprintf(&b, "| **Total** | **%d** | |\n\n", r.Summary.Total)

	for _, verdict := range []types.Verdict{types.VerdictError, types.VerdictSuspicious, types.VerdictVerified} {
		var group []types.VerificationResult
		for _, res := range r.Results {
			if res.Verdict == verdict {
				group = append(group, res)
			}
		}
		if len(group) == 0 {
			continue
		}

		fmt.Fprintf(&b, "## %s (%d)\n\n", verdictLabel(verdict), len(group))
		for _, res := range group {
			writeMarkdownResult(&b, res)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSummaryRow(b *strings.Builder, label string, count, total int) {
	share := "-"
	if total > 0 {
		share = fmt.Sprintf("%.1f%%", float64(count)/float64(total)*100)
	}
	fmt.Fprintf(b, "| %s | %d | %s |\n", label, count, share)
}

func writeMarkdownResult(b *strings.Builder, res types.VerificationResult) {
	fmt.Fprintf(b, "### [%s]\n\n", res.Record.Key)
	b.WriteString("**Cited as:**\n")
	fmt.Fprintf(b, "- Title: %s\n", orUnknown(res.Record.Title))
	fmt.Fprintf(b, "- Authors: %s\n", orUnknown(strings.Join(res.Record.Authors, ", ")))
	fmt.Fprintf(b, "- Year: %s\n", yearOrUnknown(res.Record.Year))
	if res.Record.DOI != "" {
		fmt.Fprintf(b, "- DOI: %s\n", res.Record.DOI)
	}
	fmt.Fprintf(b, "\n**Verdict:** %s\n\n", res.Reason)

	if best := res.BestCandidate; best != nil {
		fmt.Fprintf(b, "**Best match (%s, confidence %.2f):**\n", best.Source, best.Confidence)
		fmt.Fprintf(b, "- Title: %s (similarity %.2f)\n", best.Title, best.TitleSim)
		fmt.Fprintf(b, "- Authors: %s\n", orUnknown(strings.Join(best.Authors, ", ")))
		fmt.Fprintf(b, "- Year: %s\n", yearOrUnknown(best.Year))
		if best.DOI != "" {
			fmt.Fprintf(b, "- DOI: %s\n", best.DOI)
		}
		if best.URL != "" {
			fmt.Fprintf(b, "- URL: %s\n", best.URL)
		}
		b.WriteString("\n")
	}

	if failed := failedSources(res); len(failed) > 0 {
		fmt.Fprintf(b, "**Sources unavailable:** %s\n\n", strings.Join(failed, ", "))
	}

	if res.SuggestedCorrection != nil {
		b.WriteString("**Suggested correction:**\n\n```bibtex\n")
		b.WriteString(res.SuggestedCorrection.BibTeX())
		b.WriteString("\n```\n\n")
	} else if res.Verdict != types.VerdictVerified {
		b.WriteString("**Suggested correction:** no confident match found\n\n")
	}

	b.WriteString("---\n\n")
}

func failedSources(res types.VerificationResult) []string {
	var failed []string
	for _, oc := range res.Coverage {
		if oc.State == types.StateFailed {
			failed = append(failed, string(oc.Source))
		}
	}
	return failed
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func yearOrUnknown(year int) string {
	if year == 0 {
		return "unknown"
	}
	return fmt.Sprintf("%d", year)
}
