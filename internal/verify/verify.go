// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify checks citation records against bibliographic databases and
// classifies each one as verified, suspicious, or error.
// Implements: prd001-verification (R1-R6);
//
//	docs/ARCHITECTURE § Verification.
package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hqsandbox/True-Citation/internal/match"
	"github.com/hqsandbox/True-Citation/internal/sources"
	"github.com/hqsandbox/True-Citation/pkg/types"
)

// Engine verifies batches of citation records. Construct one per run with
// NewEngine; it is safe for a single VerifyBatch call at a time.
type Engine struct {
	cfg      types.VerifyConfig
	adapters []sources.Adapter

	// Log receives per-source warnings as they happen. Defaults to
	// io.Discard.
	Log io.Writer

	// OnResult, when set, is called as each record finalizes, in completion
	// order. Used for CLI progress.
	OnResult func(types.VerificationResult)
}

// NewEngine builds an Engine over the given adapters.
func NewEngine(cfg types.VerifyConfig, adapters []sources.Adapter) *Engine {
	return &Engine{cfg: cfg, adapters: adapters, Log: io.Discard}
}

// VerifyBatch verifies records concurrently and returns one result per
// record, in input order. Source failures degrade coverage for the affected
// record only; the error return is reserved for setup problems.
func (e *Engine) VerifyBatch(ctx context.Context, records []types.CitationRecord) ([]types.VerificationResult, error) {
	if len(e.adapters) == 0 {
		return nil, fmt.Errorf("no sources enabled")
	}

	if e.cfg.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.BatchTimeout)
		defer cancel()
	}

	maxConc := e.cfg.MaxConcurrentRecords
	if maxConc <= 0 {
		maxConc = 3
	}

	results := make([]types.VerificationResult, len(records))
	sem := make(chan struct{}, maxConc)
	var wg sync.WaitGroup
	var mu sync.Mutex // guards Log and OnResult

	for i, rec := range records {
		wg.Add(1)
		go func(i int, rec types.CitationRecord) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = abortedResult(rec, ctx.Err())
				return
			}

			res := e.verifyRecord(ctx, rec, &mu)
			results[i] = res

			if e.OnResult != nil {
				mu.Lock()
				e.OnResult(res)
				mu.Unlock()
			}
		}(i, rec)
	}
	wg.Wait()

	return results, nil
}

// verifyRecord fans the record out to every adapter concurrently, scores
// whatever came back, and classifies.
func (e *Engine) verifyRecord(ctx context.Context, rec types.CitationRecord, mu *sync.Mutex) types.VerificationResult {
	type sourceResult struct {
		source     types.Source
		candidates []types.CandidateMatch
		err        error
	}

	ch := make(chan sourceResult, len(e.adapters))
	var wg sync.WaitGroup

	for _, a := range e.adapters {
		wg.Add(1)
		go func(a sources.Adapter) {
			defer wg.Done()
			reqCtx := ctx
			if e.cfg.Timeout > 0 {
				var cancel context.CancelFunc
				reqCtx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
				defer cancel()
			}
			candidates, err := a.Search(reqCtx, rec, e.cfg)
			ch <- sourceResult{source: a.Name(), candidates: candidates, err: err}
		}(a)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var scored []types.ScoredCandidate
	var coverage []types.SourceOutcome
	for sr := range ch {
		if sr.err != nil {
			coverage = append(coverage, types.SourceOutcome{
				Source: sr.source,
				State:  types.StateFailed,
				Err:    sr.err.Error(),
			})
			mu.Lock()
			fmt.Fprintf(e.Log, "warning: %s %s for %s: %v\n", sr.source, failureKind(sr.err), rec.Key, sr.err)
			mu.Unlock()
			continue
		}
		coverage = append(coverage, types.SourceOutcome{
			Source:     sr.source,
			State:      types.StateSucceeded,
			Candidates: len(sr.candidates),
		})
		for _, c := range sr.candidates {
			scored = append(scored, match.Score(rec, c))
		}
	}

	// The batch context ending mid-record overrides whatever partial
	// evidence accumulated.
	if err := ctx.Err(); err != nil {
		res := abortedResult(rec, err)
		res.Coverage = coverage
		return res
	}

	res := Classify(rec, scored, e.cfg)
	res.Coverage = sortCoverage(coverage, e.cfg)
	res.SuggestedCorrection = Suggest(rec, res.Verdict, res.BestCandidate, e.cfg)
	return res
}

// failureKind labels a source failure for the warning stream using the
// adapter error taxonomy.
func failureKind(err error) string {
	switch {
	case sources.IsRateLimited(err):
		return "rate limited"
	case sources.IsAuthError(err):
		return "rejected credentials"
	case sources.IsMalformed(err):
		return "returned a malformed response"
	case sources.IsUnavailable(err):
		return "unavailable"
	default:
		return "failed"
	}
}

// abortedResult builds the error result for a record the run could not
// finish, distinguishing batch timeout from cancellation.
func abortedResult(rec types.CitationRecord, cause error) types.VerificationResult {
	reason := types.ReasonInterrupted
	if errors.Is(cause, context.DeadlineExceeded) {
		reason = types.ReasonTimedOut
	}
	return types.VerificationResult{
		Record:  rec,
		Verdict: types.VerdictError,
		Reason:  reason,
	}
}

// sortCoverage orders outcomes by source priority so reports read stably.
func sortCoverage(coverage []types.SourceOutcome, cfg types.VerifyConfig) []types.SourceOutcome {
	ordered := make([]types.SourceOutcome, 0, len(coverage))
	order := cfg.SourcePriority
	if len(order) == 0 {
		order = types.AllSources
	}
	for _, src := range order {
		for _, oc := range coverage {
			if oc.Source == src {
				ordered = append(ordered, oc)
			}
		}
	}
	// Keep anything with an unknown source rather than dropping it.
	for _, oc := range coverage {
		if cfg.PriorityRank(oc.Source) >= len(order) {
			ordered = append(ordered, oc)
		}
	}
	return ordered
}
