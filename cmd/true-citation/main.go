// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the true-citation CLI.
// Implements: prd001-verification, prd002-sources, prd004-reporting,
//             prd005-input (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hqsandbox/True-Citation/internal/secrets"
	"github.com/hqsandbox/True-Citation/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the true-citation CLI.
var rootCmd = &cobra.Command{
	Use:   "true-citation",
	Short: "Verify that paper citations reference real, correctly described works",
	Long: `true-citation checks the citations of an academic document against
bibliographic databases (Semantic Scholar, CrossRef, OpenAlex, DBLP, and
optionally Google Scholar via SerpAPI).

Each cited work is searched across all sources concurrently, candidates are
scored by title, author, year, and venue similarity, and every citation ends
up verified, suspicious, or in error. Non-verified citations get a suggested
corrected BibTeX entry built from the best evidence found.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; variables already set win.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./true-citation.yaml or ~/.config/true-citation/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("true-citation")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "true-citation"))
		}
	}

	viper.SetEnvPrefix("TRUE_CITATION")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig merges the config file and secrets over the defaults and
// validates the result.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	// The config structs carry yaml tags; tell the decoder to use them.
	withYAMLTags := func(dc *mapstructure.DecoderConfig) { dc.TagName = "yaml" }
	if err := viper.Unmarshal(&cfg, withYAMLTags); err != nil {
		return cfg, fmt.Errorf("parsing configuration: %w", err)
	}
	secrets.Apply(loadedSecrets, &cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}
