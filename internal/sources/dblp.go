// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hqsandbox/True-Citation/internal/httputil"
	"github.com/hqsandbox/True-Citation/pkg/types"

	"golang.org/x/time/rate"
)

// dblpAPIBase is the DBLP publication search endpoint. Declared as a var
// so tests can substitute an httptest server.
var dblpAPIBase = "https://dblp.org/search/publ/api"

// DBLPAdapter queries the DBLP publication search API (R2.4). DBLP needs
// no credentials but is strict about request rates.
type DBLPAdapter struct {
	Client  *http.Client
	Limiter *rate.Limiter
}

// Name returns the adapter identifier.
func (b *DBLPAdapter) Name() types.Source { return types.SourceDBLP }

// Search queries DBLP by title and returns candidates (R2.4).
func (b *DBLPAdapter) Search(ctx context.Context, record types.CitationRecord, cfg types.VerifyConfig) ([]types.CandidateMatch, error) {
	if record.Title == "" {
		return nil, fmt.Errorf("empty DBLP query")
	}
	if err := b.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"q":      {record.Title},
		"format": {"json"},
		"h":      {fmt.Sprintf("%d", candidateLimit(cfg))},
	}
	reqURL := dblpAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: DBLP request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("DBLP", resp.StatusCode)
	}

	var dr dblpResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("%w: parsing DBLP response: %v", ErrMalformed, err)
	}

	hits := dr.Result.Hits.Hit
	total := len(hits)
	var candidates []types.CandidateMatch
	for i, hit := range hits {
		info := hit.Info
		year, _ := strconv.Atoi(info.Year)

		// DBLP puts the DOI inside the electronic edition URL.
		var doi string
		if idx := strings.Index(info.EE, "doi.org/"); idx >= 0 {
			doi = info.EE[idx+len("doi.org/"):]
		}

		candidates = append(candidates, types.CandidateMatch{
			Source:   types.SourceDBLP,
			Title:    strings.TrimSuffix(info.Title, "."),
			Authors:  normalizeAuthors(info.Authors.Names()),
			Year:     year,
			Venue:    info.Venue,
			DOI:      doi,
			URL:      info.EE,
			RawScore: positionScore(i, total),
		})
	}
	return candidates, nil
}

// DBLP API JSON structures.
type dblpResponse struct {
	Result dblpResult `json:"result"`
}

type dblpResult struct {
	Hits dblpHits `json:"hits"`
}

type dblpHits struct {
	Hit []dblpHit `json:"hit"`
}

type dblpHit struct {
	Info dblpInfo `json:"info"`
}

type dblpInfo struct {
	Title   string      `json:"title"`
	Venue   string      `json:"venue"`
	Year    string      `json:"year"`
	EE      string      `json:"ee"`
	Authors dblpAuthors `json:"authors"`
}

// dblpAuthors tolerates DBLP's shape change: "author" is an object for a
// single author and an array otherwise.
type dblpAuthors struct {
	Author json.RawMessage `json:"author"`
}

// Names extracts author names from either the single-object or the array
// encoding.
func (a dblpAuthors) Names() []string {
	if len(a.Author) == 0 {
		return nil
	}
	var list []dblpAuthor
	if err := json.Unmarshal(a.Author, &list); err == nil {
		names := make([]string, 0, len(list))
		for _, one := range list {
			names = append(names, one.Text)
		}
		return names
	}
	var one dblpAuthor
	if err := json.Unmarshal(a.Author, &one); err == nil && one.Text != "" {
		return []string{one.Text}
	}
	return nil
}

type dblpAuthor struct {
	Text string `json:"text"`
}
