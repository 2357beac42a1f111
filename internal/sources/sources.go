// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources queries bibliographic databases and normalizes their
// responses into candidate matches. Each database (Semantic Scholar,
// CrossRef, OpenAlex, DBLP, SerpAPI) implements the Adapter interface per
// the Strategy pattern; the set of adapters is closed.
// Implements: prd002-sources (R1-R4);
//
//	docs/ARCHITECTURE § Sources.
package sources

import (
	"context"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/hqsandbox/True-Citation/internal/match"
	"github.com/hqsandbox/True-Citation/pkg/types"
)

// Adapter searches a single bibliographic database for candidates matching
// a citation record. Candidates come back in the source's own relevance
// order when it provides one.
type Adapter interface {
	Name() types.Source
	Search(ctx context.Context, record types.CitationRecord, cfg types.VerifyConfig) ([]types.CandidateMatch, error)
}

// NewAdapters builds the adapters enabled by the configuration, in default
// priority order. Each adapter owns its rate limiter, so independently
// constructed adapters throttle independently.
func NewAdapters(cfg types.Config, client *http.Client) []Adapter {
	var adapters []Adapter
	if cfg.SemanticScholar.Enabled {
		adapters = append(adapters, &SemanticScholarAdapter{
			Client:  client,
			APIKey:  cfg.SemanticScholar.APIKey,
			Limiter: newLimiter(cfg.SemanticScholar.RateLimit),
		})
	}
	if cfg.CrossRef.Enabled {
		adapters = append(adapters, &CrossRefAdapter{
			Client:  client,
			Email:   cfg.CrossRef.Email,
			Limiter: newLimiter(cfg.CrossRef.RateLimit),
		})
	}
	if cfg.OpenAlex.Enabled {
		adapters = append(adapters, &OpenAlexAdapter{
			Client:  client,
			Email:   cfg.OpenAlex.Email,
			Limiter: newLimiter(cfg.OpenAlex.RateLimit),
		})
	}
	if cfg.DBLP.Enabled {
		adapters = append(adapters, &DBLPAdapter{
			Client:  client,
			Limiter: newLimiter(cfg.DBLP.RateLimit),
		})
	}
	if cfg.SerpAPI.Enabled {
		adapters = append(adapters, &SerpAPIAdapter{
			Client:  client,
			APIKey:  cfg.SerpAPI.APIKey,
			Limiter: newLimiter(cfg.SerpAPI.RateLimit),
		})
	}
	return adapters
}

// newLimiter builds a per-adapter rate limiter. Exceeding the budget delays
// requests rather than dropping them; a non-positive rate means unlimited.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// candidateLimit clamps the per-source candidate count.
func candidateLimit(cfg types.VerifyConfig) int {
	if cfg.MaxResults <= 0 {
		return 5
	}
	return cfg.MaxResults
}

// positionScore assigns a position-based relevance signal for sources that
// only rank: 1.0 for the first result decaying to 0.1 for the last.
func positionScore(i, total int) float64 {
	if total <= 1 {
		return 1.0
	}
	return 1.0 - float64(i)/float64(total-1)*0.9
}

// normalizeAuthors maps raw source author names into the canonical
// "First Last" form, dropping empties.
func normalizeAuthors(raw []string) []string {
	var authors []string
	for _, a := range raw {
		if n := match.NormalizeAuthor(a); n != "" {
			authors = append(authors, n)
		}
	}
	return authors
}
