// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"fmt"
	"sort"

	"github.com/hqsandbox/True-Citation/pkg/types"
)

// Classify ranks the scored candidates and assigns a verdict (R3.1-R3.5).
// Candidates tie-break first on DOI presence, then on source priority. The
// result's Coverage and SuggestedCorrection are left for the caller.
func Classify(rec types.CitationRecord, scored []types.ScoredCandidate, cfg types.VerifyConfig) types.VerificationResult {
	res := types.VerificationResult{Record: rec}

	if len(scored) == 0 {
		res.Verdict = types.VerdictError
		res.Reason = types.ReasonNoMatch
		return res
	}

	ranked := make([]types.ScoredCandidate, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		iDOI, jDOI := ranked[i].DOI != "", ranked[j].DOI != ""
		if iDOI != jDOI {
			return iDOI
		}
		return cfg.PriorityRank(ranked[i].Source) < cfg.PriorityRank(ranked[j].Source)
	})

	best := ranked[0]
	res.BestCandidate = &best
	res.Evidence = ranked

	switch {
	case best.Confidence >= cfg.VerifiedThreshold:
		res.Verdict = types.VerdictVerified
		res.Reason = fmt.Sprintf("matched %s record with confidence %.2f", best.Source, best.Confidence)

	case best.Confidence >= cfg.CorroborationBest && corroborated(ranked, best, cfg):
		res.Verdict = types.VerdictVerified
		res.Reason = fmt.Sprintf("matched %s record with confidence %.2f, corroborated by a second source",
			best.Source, best.Confidence)

	case best.Confidence >= cfg.SuspiciousThreshold:
		res.Verdict = types.VerdictSuspicious
		res.Reason = fmt.Sprintf("partial match in %s with confidence %.2f", best.Source, best.Confidence)

	default:
		res.Verdict = types.VerdictError
		res.Reason = fmt.Sprintf("best candidate confidence %.2f is below the suspicion threshold", best.Confidence)
	}
	return res
}

// corroborated reports whether a source other than the best candidate's
// independently supports the match (R3.4).
func corroborated(ranked []types.ScoredCandidate, best types.ScoredCandidate, cfg types.VerifyConfig) bool {
	for _, c := range ranked {
		if c.Source != best.Source && c.Confidence >= cfg.CorroborationSupport {
			return true
		}
	}
	return false
}
