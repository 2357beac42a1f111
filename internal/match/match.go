// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"github.com/hqsandbox/True-Citation/pkg/types"
)

// Field weights for the combined confidence. Title similarity dominates,
// author overlap is secondary, year and venue are minor modifiers. These are
// fixed constants: downstream thresholds are tuned against them.
const (
	weightTitle  = 0.5
	weightAuthor = 0.3
	weightYear   = 0.1
	weightVenue  = 0.1

	// neutralCredit is the share of a field's weight granted when the field
	// cannot be compared (year or venue absent on either side). Half credit
	// keeps an unknown field from acting as either a match or a mismatch.
	neutralCredit = 0.5
)

// VenueNeutral marks an incomparable venue in ScoredCandidate.VenueSim.
const VenueNeutral = -1.0

// Score rates one candidate against its source record and returns the
// candidate annotated with per-field scores and a combined confidence.
func Score(record types.CitationRecord, candidate types.CandidateMatch) types.ScoredCandidate {
	sc := types.ScoredCandidate{CandidateMatch: candidate}

	sc.TitleSim = TitleSimilarity(record.Title, candidate.Title)

	authorSim, authorsKnown := AuthorOverlap(record.Authors, candidate.Authors)
	sc.AuthorSim = authorSim

	yearKnown := record.Year > 0 && candidate.Year > 0
	sc.YearMatch = !yearKnown || record.Year == candidate.Year

	venueScore := neutralCredit
	sc.VenueSim = VenueNeutral
	if record.Venue != "" && candidate.Venue != "" {
		sc.VenueSim = Ratio(NormalizeTitle(record.Venue), NormalizeTitle(candidate.Venue))
		venueScore = sc.VenueSim
	}

	yearScore := neutralCredit
	if yearKnown {
		yearScore = 0.0
		if sc.YearMatch {
			yearScore = 1.0
		}
	}

	authorScore := authorSim
	if !authorsKnown {
		authorScore = neutralCredit
		sc.AuthorSim = neutralCredit
	}

	sc.Confidence = weightTitle*sc.TitleSim +
		weightAuthor*authorScore +
		weightYear*yearScore +
		weightVenue*venueScore
	return sc
}

// TitleSimilarity returns the similarity of two titles in [0,1]. Titles are
// normalized first; the result is the best of plain, token-sorted, and
// token-set comparison so reordered or abbreviated titles still score high.
func TitleSimilarity(a, b string) float64 {
	na, nb := NormalizeTitle(a), NormalizeTitle(b)
	if na == "" || nb == "" {
		return 0.0
	}
	best := Ratio(na, nb)
	if r := TokenSortRatio(na, nb); r > best {
		best = r
	}
	if r := TokenSetRatio(na, nb); r > best {
		best = r
	}
	return best
}

// AuthorOverlap returns the fraction of the record's authors (by surname,
// case-insensitive) found among the candidate's authors. Extra candidate
// authors do not penalize; missing expected authors do. The second return
// is false when the record lists no authors, in which case the overlap is
// unknowable and callers should treat it as neutral.
func AuthorOverlap(recordAuthors, candidateAuthors []string) (float64, bool) {
	want := surnameSet(recordAuthors)
	if len(want) == 0 {
		return 0.0, false
	}
	have := surnameSet(candidateAuthors)

	matched := 0
	for surname := range want {
		if have[surname] {
			matched++
		}
	}
	return float64(matched) / float64(len(want)), true
}

func surnameSet(authors []string) map[string]bool {
	set := make(map[string]bool)
	for _, a := range authors {
		if s := Surname(a); s != "" {
			set[s] = true
		}
	}
	return set
}
