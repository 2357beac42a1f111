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

// crossrefAPIBase is the CrossRef works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// CrossRefAdapter queries the CrossRef REST API (R2.2). A contact email
// joins the polite pool, which gets better rate limits.
type CrossRefAdapter struct {
	Client  *http.Client
	Email   string
	Limiter *rate.Limiter
}

// Name returns the adapter identifier.
func (b *CrossRefAdapter) Name() types.Source { return types.SourceCrossRef }

// Search queries CrossRef by title, narrowed by the first author's surname
// when known (R2.2).
func (b *CrossRefAdapter) Search(ctx context.Context, record types.CitationRecord, cfg types.VerifyConfig) ([]types.CandidateMatch, error) {
	if record.Title == "" {
		return nil, fmt.Errorf("empty CrossRef query")
	}
	if err := b.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"query.title": {record.Title},
		"rows":        {fmt.Sprintf("%d", candidateLimit(cfg))},
	}
	if len(record.Authors) > 0 {
		fields := strings.Fields(record.Authors[0])
		if len(fields) > 0 {
			params.Set("query.author", fields[len(fields)-1])
		}
	}
	reqURL := crossrefAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	ua := cfg.UserAgent
	if b.Email != "" {
		ua += fmt.Sprintf(" (mailto:%s)", b.Email)
	}
	req.Header.Set("User-Agent", ua)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: CrossRef request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("CrossRef", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("%w: parsing CrossRef response: %v", ErrMalformed, err)
	}

	total := len(cr.Message.Items)
	var candidates []types.CandidateMatch
	for i, item := range cr.Message.Items {
		var raw []string
		for _, a := range item.Author {
			switch {
			case a.Given != "" && a.Family != "":
				raw = append(raw, a.Given+" "+a.Family)
			case a.Family != "":
				raw = append(raw, a.Family)
			}
		}

		var title string
		if len(item.Title) > 0 {
			title = item.Title[0]
		}
		var venue string
		if len(item.ContainerTitle) > 0 {
			venue = item.ContainerTitle[0]
		}
		var year int
		if len(item.Published.DateParts) > 0 && len(item.Published.DateParts[0]) > 0 {
			year = item.Published.DateParts[0][0]
		}

		candidates = append(candidates, types.CandidateMatch{
			Source:   types.SourceCrossRef,
			Title:    title,
			Authors:  normalizeAuthors(raw),
			Year:     year,
			Venue:    venue,
			DOI:      item.DOI,
			URL:      item.URL,
			RawScore: positionScore(i, total),
		})
	}
	return candidates, nil
}

// CrossRef API JSON structures.
type crossrefResponse struct {
	Message crossrefMessage `json:"message"`
}

type crossrefMessage struct {
	Items []crossrefItem `json:"items"`
}

type crossrefItem struct {
	DOI            string          `json:"DOI"`
	URL            string          `json:"URL"`
	Title          []string        `json:"title"`
	ContainerTitle []string        `json:"container-title"`
	Author         []crossrefName  `json:"author"`
	Published      crossrefPartial `json:"published"`
}

type crossrefName struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefPartial struct {
	DateParts [][]int `json:"date-parts"`
}
