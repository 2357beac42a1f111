// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/hqsandbox/True-Citation/internal/httputil"
	"github.com/hqsandbox/True-Citation/pkg/types"

	"golang.org/x/time/rate"
)

// serpAPIBase is the SerpAPI search endpoint. Declared as a var so tests
// can substitute an httptest server.
var serpAPIBase = "https://serpapi.com/search"

// serpYearRE pulls a plausible publication year out of the free-text
// publication summary Google Scholar returns.
var serpYearRE = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// SerpAPIAdapter queries Google Scholar through SerpAPI (R2.5). Scholar
// results carry no DOI and no structured venue, so candidates from this
// adapter lean on title and author evidence.
type SerpAPIAdapter struct {
	Client  *http.Client
	APIKey  string
	Limiter *rate.Limiter
}

// Name returns the adapter identifier.
func (b *SerpAPIAdapter) Name() types.Source { return types.SourceSerpAPI }

// Search queries Google Scholar by title and returns candidates (R2.5).
func (b *SerpAPIAdapter) Search(ctx context.Context, record types.CitationRecord, cfg types.VerifyConfig) ([]types.CandidateMatch, error) {
	if record.Title == "" {
		return nil, fmt.Errorf("empty Google Scholar query")
	}
	if b.APIKey == "" {
		return nil, fmt.Errorf("%w: SerpAPI key not configured", ErrAuth)
	}
	if err := b.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"engine":  {"google_scholar"},
		"q":       {record.Title},
		"api_key": {b.APIKey},
		"num":     {fmt.Sprintf("%d", candidateLimit(cfg))},
	}
	reqURL := serpAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: SerpAPI request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("SerpAPI", resp.StatusCode)
	}

	var sp serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&sp); err != nil {
		return nil, fmt.Errorf("%w: parsing SerpAPI response: %v", ErrMalformed, err)
	}

	total := len(sp.OrganicResults)
	var candidates []types.CandidateMatch
	for i, item := range sp.OrganicResults {
		var year int
		if m := serpYearRE.FindString(item.PublicationInfo.Summary); m != "" {
			year, _ = strconv.Atoi(m)
		}

		var raw []string
		for _, a := range item.PublicationInfo.Authors {
			raw = append(raw, a.Name)
		}

		candidates = append(candidates, types.CandidateMatch{
			Source:   types.SourceSerpAPI,
			Title:    item.Title,
			Authors:  normalizeAuthors(raw),
			Year:     year,
			URL:      item.Link,
			RawScore: positionScore(i, total),
		})
	}
	return candidates, nil
}

// SerpAPI JSON structures.
type serpResponse struct {
	OrganicResults []serpResult `json:"organic_results"`
}

type serpResult struct {
	Title           string       `json:"title"`
	Link            string       `json:"link"`
	PublicationInfo serpPubInfo  `json:"publication_info"`
}

type serpPubInfo struct {
	Summary string       `json:"summary"`
	Authors []serpAuthor `json:"authors"`
}

type serpAuthor struct {
	Name string `json:"name"`
}
