// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by the source adapters.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "true-citation/0.1"). CrossRef and OpenAlex route polite-pool
	// traffic on it.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SourceConfig holds per-database settings.
type SourceConfig struct {
	// Enabled controls whether the adapter participates in verification.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// APIKey authenticates against sources that take one (Semantic Scholar,
	// SerpAPI). Optional for Semantic Scholar, required for SerpAPI.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Email is sent for polite-pool access (CrossRef, OpenAlex).
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// RateLimit is the local request budget in requests per second.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`

	// Mandatory makes missing credentials a startup error instead of
	// degraded coverage.
	Mandatory bool `json:"mandatory,omitempty" yaml:"mandatory,omitempty"`
}

// VerifyConfig holds settings for the verification engine.
type VerifyConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the number of candidates requested per source (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MaxRetries bounds retry attempts for transient request failures
	// (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// MaxConcurrentRecords bounds how many records are verified at once
	// (default 3).
	MaxConcurrentRecords int `json:"max_concurrent_records" yaml:"max_concurrent_records"`

	// BatchTimeout bounds the whole batch; zero disables it.
	BatchTimeout time.Duration `json:"batch_timeout,omitempty" yaml:"batch_timeout,omitempty"`

	// VerifiedThreshold is the minimum confidence for a Verified verdict
	// (default 0.85).
	VerifiedThreshold float64 `json:"verified_threshold" yaml:"verified_threshold"`

	// SuspiciousThreshold is the minimum confidence for a Suspicious verdict
	// (default 0.5); below it the verdict is Error.
	SuspiciousThreshold float64 `json:"suspicious_threshold" yaml:"suspicious_threshold"`

	// CorroborationBest and CorroborationSupport define the promotion rule:
	// a best candidate at or above CorroborationBest (default 0.75) is
	// promoted to Verified when a second source independently reaches
	// CorroborationSupport (default 0.7).
	CorroborationBest    float64 `json:"corroboration_best" yaml:"corroboration_best"`
	CorroborationSupport float64 `json:"corroboration_support" yaml:"corroboration_support"`

	// CorrectionFloor is the minimum best-candidate confidence for a
	// suggested correction (default 0.3).
	CorrectionFloor float64 `json:"correction_floor" yaml:"correction_floor"`

	// SourcePriority orders sources for confidence tie-breaking. Empty means
	// the default order.
	SourcePriority []Source `json:"source_priority,omitempty" yaml:"source_priority,omitempty"`
}

// OutputConfig holds settings for report generation.
type OutputConfig struct {
	// Format selects the report format: markdown, json, or html.
	Format string `json:"format" yaml:"format"`

	// Dir is the directory reports are written to.
	Dir string `json:"dir" yaml:"dir"`

	// CorrectedBib controls whether a corrected .bib file is written.
	CorrectedBib bool `json:"corrected_bib" yaml:"corrected_bib"`

	// CSL controls whether the run's bibliography is also written as
	// CSL-YAML (Pandoc-consumable).
	CSL bool `json:"csl" yaml:"csl"`
}

// Config groups all settings for the true-citation CLI.
type Config struct {
	SemanticScholar SourceConfig `json:"semantic_scholar" yaml:"semantic_scholar"`
	CrossRef        SourceConfig `json:"crossref" yaml:"crossref"`
	OpenAlex        SourceConfig `json:"openalex" yaml:"openalex"`
	DBLP            SourceConfig `json:"dblp" yaml:"dblp"`
	SerpAPI         SourceConfig `json:"serpapi" yaml:"serpapi"`

	Verify VerifyConfig `json:"verify" yaml:"verify"`
	Output OutputConfig `json:"output" yaml:"output"`
}

// DefaultConfig returns the configuration used when no config file is
// present. Rate limits follow each source's documented public budget.
func DefaultConfig() Config {
	return Config{
		SemanticScholar: SourceConfig{Enabled: true, RateLimit: 1},
		CrossRef:        SourceConfig{Enabled: true, RateLimit: 5},
		OpenAlex:        SourceConfig{Enabled: true, RateLimit: 5},
		DBLP:            SourceConfig{Enabled: true, RateLimit: 2},
		SerpAPI:         SourceConfig{Enabled: false, RateLimit: 1},
		Verify: VerifyConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   10 * time.Second,
				UserAgent: "true-citation/0.1 (https://github.com/hqsandbox/True-Citation)",
			},
			MaxResults:           5,
			MaxRetries:           2,
			MaxConcurrentRecords: 3,
			VerifiedThreshold:    0.85,
			SuspiciousThreshold:  0.5,
			CorroborationBest:    0.75,
			CorroborationSupport: 0.7,
			CorrectionFloor:      0.3,
		},
		Output: OutputConfig{
			Format:       "markdown",
			Dir:          "output",
			CorrectedBib: true,
		},
	}
}

// Sources returns the per-source configs keyed by source identifier.
func (c Config) Sources() map[Source]SourceConfig {
	return map[Source]SourceConfig{
		SourceSemanticScholar: c.SemanticScholar,
		SourceCrossRef:        c.CrossRef,
		SourceOpenAlex:        c.OpenAlex,
		SourceDBLP:            c.DBLP,
		SourceSerpAPI:         c.SerpAPI,
	}
}

// Validate checks the configuration before any verification begins.
// Only configuration problems are fatal; a missing optional credential just
// degrades coverage at run time.
func (c Config) Validate() error {
	if c.Verify.Timeout <= 0 {
		return fmt.Errorf("verify.timeout must be positive, got %v", c.Verify.Timeout)
	}
	if c.Verify.MaxConcurrentRecords <= 0 {
		return fmt.Errorf("verify.max_concurrent_records must be positive, got %d", c.Verify.MaxConcurrentRecords)
	}
	if c.Verify.VerifiedThreshold < c.Verify.SuspiciousThreshold {
		return fmt.Errorf("verify.verified_threshold (%.2f) must not be below verify.suspicious_threshold (%.2f)",
			c.Verify.VerifiedThreshold, c.Verify.SuspiciousThreshold)
	}
	for _, th := range []float64{c.Verify.VerifiedThreshold, c.Verify.SuspiciousThreshold, c.Verify.CorrectionFloor} {
		if th < 0 || th > 1 {
			return fmt.Errorf("classification thresholds must lie in [0,1], got %.2f", th)
		}
	}
	if c.SerpAPI.Enabled && c.SerpAPI.APIKey == "" {
		return fmt.Errorf("serpapi is enabled but has no api_key")
	}
	for src, sc := range c.Sources() {
		if !sc.Mandatory {
			continue
		}
		if !sc.Enabled {
			return fmt.Errorf("%s is mandatory but disabled", src)
		}
		switch src {
		case SourceSemanticScholar, SourceSerpAPI:
			if sc.APIKey == "" {
				return fmt.Errorf("%s is mandatory but has no api_key", src)
			}
		case SourceCrossRef, SourceOpenAlex:
			if sc.Email == "" {
				return fmt.Errorf("%s is mandatory but has no email", src)
			}
		}
	}
	return nil
}

// PriorityRank returns the tie-breaking rank of src (lower is better) under
// the configured priority order, falling back to the default order.
func (c VerifyConfig) PriorityRank(src Source) int {
	order := c.SourcePriority
	if len(order) == 0 {
		order = AllSources
	}
	for i, s := range order {
		if s == src {
			return i
		}
	}
	return len(order)
}
