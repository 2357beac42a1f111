// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/hqsandbox/True-Citation/internal/bibtex"
	"github.com/hqsandbox/True-Citation/internal/pdfrefs"
	"github.com/hqsandbox/True-Citation/internal/report"
	"github.com/hqsandbox/True-Citation/internal/sources"
	"github.com/hqsandbox/True-Citation/internal/verify"
	"github.com/hqsandbox/True-Citation/pkg/types"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the citations of a document against bibliographic databases",
	Long: `Verify checks every cited work against the enabled bibliographic sources
and classifies each citation as verified, suspicious, or error.

Input is either a BibTeX file plus the LaTeX files that cite it (only cited
entries are verified), or a PDF whose reference list is extracted directly.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringP("bib", "b", "", "BibTeX file path")
	verifyCmd.Flags().StringArrayP("tex", "t", nil, "LaTeX file path (repeatable)")
	verifyCmd.Flags().StringP("pdf", "p", "", "PDF file path (extract references directly)")
	verifyCmd.Flags().StringP("format", "f", "", "report format: markdown, json, or html")
	verifyCmd.Flags().StringP("output", "o", "", "output directory for reports")
	verifyCmd.Flags().Bool("no-report", false, "print the summary only, write no files")
	verifyCmd.Flags().BoolP("verbose", "v", false, "print per-citation progress and problem details")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	bibPath, _ := cmd.Flags().GetString("bib")
	texPaths, _ := cmd.Flags().GetStringArray("tex")
	pdfPath, _ := cmd.Flags().GetString("pdf")

	if pdfPath == "" && (bibPath == "" || len(texPaths) == 0) {
		return fmt.Errorf("%w: provide --pdf, or --bib together with at least one --tex", errConfig)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("%w: %v", errConfig, err)
	}
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		cfg.Output.Format = format
	}
	if dir, _ := cmd.Flags().GetString("output"); dir != "" {
		cfg.Output.Dir = dir
	}

	records, err := collectRecords(cmd, bibPath, texPaths, pdfPath)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No citations to verify.")
		return nil
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	fmt.Fprintf(cmd.OutOrStdout(), "Verifying %d citations across %d sources...\n\n",
		len(records), len(enabledSources(cfg)))

	client := &http.Client{Timeout: cfg.Verify.Timeout}
	engine := verify.NewEngine(cfg.Verify, sources.NewAdapters(cfg, client))
	if verbose {
		engine.Log = cmd.ErrOrStderr()
		engine.OnResult = func(res types.VerificationResult) {
			fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %s: %s\n", res.Verdict, res.Record.Key, res.Reason)
		}
	}

	results, err := engine.VerifyBatch(cmd.Context(), records)
	if err != nil {
		return err
	}

	rep := report.New(results)
	printSummary(cmd, rep.Summary)

	if noReport, _ := cmd.Flags().GetBool("no-report"); !noReport {
		path, err := rep.Save(cfg.Output.Dir, cfg.Output.Format)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nReport saved: %s\n", path)

		if cfg.Output.CorrectedBib {
			bibOut, err := rep.SaveCorrectedBib(cfg.Output.Dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Corrected bibliography: %s\n", bibOut)
		}

		if cfg.Output.CSL {
			cslOut, err := rep.SaveCSL(cfg.Output.Dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "CSL bibliography: %s\n", cslOut)
		}
	}

	if rep.Summary.Errors > 0 {
		return fmt.Errorf("%d citations could not be verified", rep.Summary.Errors)
	}
	return nil
}

// collectRecords gathers the citation records to verify from the PDF or the
// bib/tex pair. For bib/tex input only entries actually cited are kept, and
// cited keys missing from the bibliography are reported as a warning.
func collectRecords(cmd *cobra.Command, bibPath string, texPaths []string, pdfPath string) ([]types.CitationRecord, error) {
	if pdfPath != "" {
		records, err := pdfrefs.ExtractFile(pdfPath)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d references from %s\n", len(records), pdfPath)
		return records, nil
	}

	entries, err := bibtex.ParseFile(bibPath)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]types.CitationRecord, len(entries))
	for _, e := range entries {
		byKey[e.Key] = e
	}

	cited, err := bibtex.ExtractCitedKeys(texPaths)
	if err != nil {
		return nil, err
	}

	var records []types.CitationRecord
	var missing []string
	for _, key := range cited {
		if rec, ok := byKey[key]; ok {
			records = append(records, rec)
		} else {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d cited keys missing from %s: %v\n",
			len(missing), bibPath, missing)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d bibliography entries, %d cited\n", len(entries), len(records))
	return records, nil
}

func enabledSources(cfg types.Config) []types.Source {
	var enabled []types.Source
	for _, src := range types.AllSources {
		if cfg.Sources()[src].Enabled {
			enabled = append(enabled, src)
		}
	}
	return enabled
}

func printSummary(cmd *cobra.Command, s report.Summary) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-12s %5d\n", "Verified", s.Verified)
	fmt.Fprintf(w, "%-12s %5d\n", "Suspicious", s.Suspicious)
	fmt.Fprintf(w, "%-12s %5d\n", "Error", s.Errors)
	fmt.Fprintf(w, "%-12s %5d\n", "Total", s.Total)
}
