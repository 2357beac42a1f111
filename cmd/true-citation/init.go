// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// starterConfig is written by `true-citation init`. It mirrors the defaults
// so a fresh run behaves identically with or without the file.
const starterConfig = `# true-citation configuration

semantic_scholar:
  enabled: true
  # api_key: ""        # optional, raises the rate limit
  rate_limit: 1

crossref:
  enabled: true
  # email: ""          # joins the polite pool
  rate_limit: 5

openalex:
  enabled: true
  # email: ""          # joins the polite pool
  rate_limit: 5

dblp:
  enabled: true
  rate_limit: 2

serpapi:
  enabled: false       # requires an api_key
  # api_key: ""
  rate_limit: 1

verify:
  timeout: 10s
  max_results: 5
  max_retries: 2
  max_concurrent_records: 3
  verified_threshold: 0.85
  suspicious_threshold: 0.5

output:
  format: markdown     # markdown, json, or html
  dir: output
  corrected_bib: true
  csl: false           # also write the bibliography as CSL-YAML
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter true-citation.yaml in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		const path = "true-citation.yaml"
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%w: %s already exists (use --force to overwrite)", errConfig, path)
		}
		if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
