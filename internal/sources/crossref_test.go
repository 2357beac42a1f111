// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hqsandbox/True-Citation/pkg/types"
)

func TestCrossRefRequestParams(t *testing.T) {
	var capturedReq *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"message":{"items":[]}}`)
	}))
	defer ts.Close()

	old := crossrefAPIBase
	crossrefAPIBase = ts.URL
	defer func() { crossrefAPIBase = old }()

	b := &CrossRefAdapter{Client: ts.Client(), Email: "me@example.org", Limiter: newLimiter(0)}
	record := types.CitationRecord{
		Title:   "Attention Is All You Need",
		Authors: []string{"Ashish Vaswani", "Noam Shazeer"},
	}
	_, err := b.Search(context.Background(), record, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	q := capturedReq.URL.Query()
	if got := q.Get("query.title"); got != "Attention Is All You Need" {
		t.Errorf("query.title = %q", got)
	}
	if got := q.Get("query.author"); got != "Vaswani" {
		t.Errorf("query.author = %q, want first author's surname", got)
	}
	if got := q.Get("rows"); got != "5" {
		t.Errorf("rows = %q, want 5", got)
	}
	ua := capturedReq.Header.Get("User-Agent")
	if !strings.Contains(ua, "mailto:me@example.org") {
		t.Errorf("User-Agent %q missing polite-pool mailto", ua)
	}
}

func TestCrossRefParsesCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"message": {
				"items": [
					{
						"DOI": "10.1000/test",
						"URL": "https://doi.org/10.1000/test",
						"title": ["Deep Residual Learning for Image Recognition"],
						"container-title": ["CVPR"],
						"author": [
							{"given": "Kaiming", "family": "He"},
							{"family": "Zhang"}
						],
						"published": {"date-parts": [[2016, 6]]}
					}
				]
			}
		}`)
	}))
	defer ts.Close()

	old := crossrefAPIBase
	crossrefAPIBase = ts.URL
	defer func() { crossrefAPIBase = old }()

	b := &CrossRefAdapter{Client: ts.Client(), Limiter: newLimiter(0)}
	got, err := b.Search(context.Background(), types.CitationRecord{Title: "residual"}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}

	c := got[0]
	if c.Source != types.SourceCrossRef {
		t.Errorf("Source = %q", c.Source)
	}
	if c.Title != "Deep Residual Learning for Image Recognition" {
		t.Errorf("Title = %q", c.Title)
	}
	if c.Year != 2016 {
		t.Errorf("Year = %d, want 2016", c.Year)
	}
	if c.Venue != "CVPR" || c.DOI != "10.1000/test" {
		t.Errorf("candidate = %+v", c)
	}
	if len(c.Authors) != 2 || c.Authors[0] != "Kaiming He" || c.Authors[1] != "Zhang" {
		t.Errorf("Authors = %v", c.Authors)
	}
}

func TestCrossRefMissingFieldsTolerated(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"message":{"items":[{"DOI":"10.1/x"}]}}`)
	}))
	defer ts.Close()

	old := crossrefAPIBase
	crossrefAPIBase = ts.URL
	defer func() { crossrefAPIBase = old }()

	b := &CrossRefAdapter{Client: ts.Client(), Limiter: newLimiter(0)}
	got, err := b.Search(context.Background(), types.CitationRecord{Title: "x"}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].Title != "" || got[0].Year != 0 || len(got[0].Authors) != 0 {
		t.Errorf("candidate = %+v, want zero-valued fields", got[0])
	}
}

func TestCrossRefMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>gateway error</html>`)
	}))
	defer ts.Close()

	old := crossrefAPIBase
	crossrefAPIBase = ts.URL
	defer func() { crossrefAPIBase = old }()

	b := &CrossRefAdapter{Client: ts.Client(), Limiter: newLimiter(0)}
	_, err := b.Search(context.Background(), types.CitationRecord{Title: "x"}, testCfg())
	if !IsMalformed(err) {
		t.Errorf("err = %v, want malformed", err)
	}
}
