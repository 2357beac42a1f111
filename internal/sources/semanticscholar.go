// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hqsandbox/True-Citation/internal/httputil"
	"github.com/hqsandbox/True-Citation/pkg/types"

	"golang.org/x/time/rate"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,authors,year,venue,externalIds,url"

// SemanticScholarAdapter queries the Semantic Scholar Graph API (R2.1).
type SemanticScholarAdapter struct {
	Client  *http.Client
	APIKey  string
	Limiter *rate.Limiter
}

// Name returns the adapter identifier.
func (b *SemanticScholarAdapter) Name() types.Source { return types.SourceSemanticScholar }

// Search queries Semantic Scholar by title and returns candidates (R2.1).
func (b *SemanticScholarAdapter) Search(ctx context.Context, record types.CitationRecord, cfg types.VerifyConfig) ([]types.CandidateMatch, error) {
	if record.Title == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}
	if err := b.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"query":  {record.Title},
		"limit":  {fmt.Sprintf("%d", candidateLimit(cfg))},
		"fields": {semanticFields},
	}
	reqURL := semanticAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if b.APIKey != "" {
		req.Header.Set("x-api-key", b.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: Semantic Scholar request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("Semantic Scholar", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: parsing Semantic Scholar response: %v", ErrMalformed, err)
	}

	total := len(sr.Data)
	var candidates []types.CandidateMatch
	for i, paper := range sr.Data {
		var raw []string
		for _, a := range paper.Authors {
			raw = append(raw, a.Name)
		}
		candidates = append(candidates, types.CandidateMatch{
			Source:   types.SourceSemanticScholar,
			Title:    paper.Title,
			Authors:  normalizeAuthors(raw),
			Year:     paper.Year,
			Venue:    paper.Venue,
			DOI:      paper.ExternalIDs.DOI,
			URL:      paper.URL,
			RawScore: positionScore(i, total),
		})
	}
	return candidates, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID     string              `json:"paperId"`
	Title       string              `json:"title"`
	Year        int                 `json:"year"`
	Venue       string              `json:"venue"`
	URL         string              `json:"url"`
	Authors     []semanticAuthor    `json:"authors"`
	ExternalIDs semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}
