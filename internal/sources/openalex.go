// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hqsandbox/True-Citation/internal/httputil"
	"github.com/hqsandbox/True-Citation/pkg/types"

	"golang.org/x/time/rate"
)

// openalexAPIBase is the OpenAlex works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openalexAPIBase = "https://api.openalex.org/works"

// OpenAlexAdapter queries the OpenAlex works API (R2.3).
type OpenAlexAdapter struct {
	Client  *http.Client
	Email   string
	Limiter *rate.Limiter
}

// Name returns the adapter identifier.
func (b *OpenAlexAdapter) Name() types.Source { return types.SourceOpenAlex }

// Search queries OpenAlex by title and returns candidates (R2.3).
func (b *OpenAlexAdapter) Search(ctx context.Context, record types.CitationRecord, cfg types.VerifyConfig) ([]types.CandidateMatch, error) {
	if record.Title == "" {
		return nil, fmt.Errorf("empty OpenAlex query")
	}
	if err := b.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"search":   {record.Title},
		"per_page": {fmt.Sprintf("%d", candidateLimit(cfg))},
	}
	if b.Email != "" {
		params.Set("mailto", b.Email)
	}
	reqURL := openalexAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: OpenAlex request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("OpenAlex", resp.StatusCode)
	}

	var oa openalexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oa); err != nil {
		return nil, fmt.Errorf("%w: parsing OpenAlex response: %v", ErrMalformed, err)
	}

	total := len(oa.Results)
	var candidates []types.CandidateMatch
	for i, work := range oa.Results {
		var raw []string
		for _, as := range work.Authorships {
			if as.Author.DisplayName != "" {
				raw = append(raw, as.Author.DisplayName)
			}
		}

		// OpenAlex returns DOIs as full resolver URLs.
		doi := strings.TrimPrefix(work.DOI, "https://doi.org/")

		candidates = append(candidates, types.CandidateMatch{
			Source:   types.SourceOpenAlex,
			Title:    work.Title,
			Authors:  normalizeAuthors(raw),
			Year:     work.PublicationYear,
			Venue:    work.PrimaryLocation.Source.DisplayName,
			DOI:      doi,
			URL:      work.ID,
			RawScore: positionScore(i, total),
		})
	}
	return candidates, nil
}

// OpenAlex API JSON structures.
type openalexResponse struct {
	Results []openalexWork `json:"results"`
}

type openalexWork struct {
	ID              string               `json:"id"`
	DOI             string               `json:"doi"`
	Title           string               `json:"title"`
	PublicationYear int                  `json:"publication_year"`
	Authorships     []openalexAuthorship `json:"authorships"`
	PrimaryLocation openalexLocation     `json:"primary_location"`
}

type openalexAuthorship struct {
	Author openalexAuthor `json:"author"`
}

type openalexAuthor struct {
	DisplayName string `json:"display_name"`
}

type openalexLocation struct {
	Source openalexSource `json:"source"`
}

type openalexSource struct {
	DisplayName string `json:"display_name"`
}
