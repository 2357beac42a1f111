// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/hqsandbox/True-Citation/pkg/types"
)

func testCfg() types.VerifyConfig {
	return types.VerifyConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		MaxResults: 5,
		MaxRetries: 0,
	}
}

func TestNewAdaptersRespectsEnabledFlags(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.SerpAPI.Enabled = false
	cfg.DBLP.Enabled = false

	adapters := NewAdapters(cfg, http.DefaultClient)

	want := []types.Source{
		types.SourceSemanticScholar,
		types.SourceCrossRef,
		types.SourceOpenAlex,
	}
	if len(adapters) != len(want) {
		t.Fatalf("NewAdapters returned %d adapters, want %d", len(adapters), len(want))
	}
	for i, a := range adapters {
		if a.Name() != want[i] {
			t.Errorf("adapter[%d].Name() = %q, want %q", i, a.Name(), want[i])
		}
	}
}

func TestNewAdaptersAllEnabled(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.SerpAPI.Enabled = true
	cfg.SerpAPI.APIKey = "key"

	adapters := NewAdapters(cfg, http.DefaultClient)
	if len(adapters) != 5 {
		t.Fatalf("NewAdapters returned %d adapters, want 5", len(adapters))
	}
	if adapters[4].Name() != types.SourceSerpAPI {
		t.Errorf("last adapter = %q, want %q", adapters[4].Name(), types.SourceSerpAPI)
	}
}

func TestPositionScore(t *testing.T) {
	tests := []struct {
		name  string
		i     int
		total int
		want  float64
	}{
		{"single result", 0, 1, 1.0},
		{"first of five", 0, 5, 1.0},
		{"last of five", 4, 5, 0.1},
		{"middle of three", 1, 3, 0.55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := positionScore(tt.i, tt.total)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("positionScore(%d, %d) = %v, want %v", tt.i, tt.total, got, tt.want)
			}
		})
	}
}

func TestCandidateLimitDefault(t *testing.T) {
	cfg := testCfg()
	cfg.MaxResults = 0
	if got := candidateLimit(cfg); got != 5 {
		t.Errorf("candidateLimit with zero MaxResults = %d, want 5", got)
	}
	cfg.MaxResults = 3
	if got := candidateLimit(cfg); got != 3 {
		t.Errorf("candidateLimit = %d, want 3", got)
	}
}

func TestNormalizeAuthorsDropsEmpties(t *testing.T) {
	got := normalizeAuthors([]string{"Ashish Vaswani", "", "  ", "Noam Shazeer"})
	want := []string{"Ashish Vaswani", "Noam Shazeer"}
	if len(got) != len(want) {
		t.Fatalf("normalizeAuthors returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("normalizeAuthors[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
