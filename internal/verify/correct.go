// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"github.com/hqsandbox/True-Citation/pkg/types"
)

// Suggest builds a corrected entry for a non-verified citation from the best
// candidate's fields (R4.1-R4.3). Returns nil when the citation verified, no
// candidate exists, or the best candidate is too weak to trust as a
// correction.
func Suggest(rec types.CitationRecord, verdict types.Verdict, best *types.ScoredCandidate, cfg types.VerifyConfig) *types.Suggestion {
	if verdict == types.VerdictVerified || best == nil {
		return nil
	}
	if best.Confidence < cfg.CorrectionFloor {
		return nil
	}

	// Candidate fields win; the original record fills gaps so the
	// suggestion stays a complete entry.
	// Sources return no volume, issue, or publisher detail, so those fields
	// carry over from the original entry untouched.
	s := &types.Suggestion{
		Key:       rec.Key,
		EntryType: rec.EntryType,
		Title:     best.Title,
		Authors:   best.Authors,
		Year:      best.Year,
		Venue:     best.Venue,
		Volume:    rec.Volume,
		Number:    rec.Number,
		Pages:     rec.Pages,
		Publisher: rec.Publisher,
		DOI:       best.DOI,
		URL:       best.URL,
	}
	if s.Title == "" {
		s.Title = rec.Title
	}
	if len(s.Authors) == 0 {
		s.Authors = rec.Authors
	}
	if s.Year == 0 {
		s.Year = rec.Year
	}
	if s.Venue == "" {
		s.Venue = rec.Venue
	}
	if s.DOI == "" {
		s.DOI = rec.DOI
	}
	if s.URL == "" {
		s.URL = rec.URL
	}
	return s
}
