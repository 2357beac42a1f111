// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the source adapters.
package httputil

import (
	"context"
	"io"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// transient failures. Tests override this to avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

// jitterFrac returns a random fraction in [0,1) used to jitter backoff
// delays. A var so tests can pin it for determinism.
var jitterFrac = rand.Float64

const defaultMaxRetries = 2

// reqState tracks one request through the retry loop. The states make the
// control flow auditable: a request is pending, retrying(attempt), and ends
// succeeded or failed terminal.
type reqState int

const (
	statePending reqState = iota
	stateRetrying
	stateSucceeded
	stateFailedTerminal
)

// DoWithRetry executes an HTTP request, retrying transient failures:
// transport errors, HTTP 5xx, and HTTP 429. The delay doubles each attempt
// starting from RetryBaseDelay, with up to 50% random jitter; a 429 carrying
// a Retry-After header waits at least that long instead. Client errors other
// than 429 are returned immediately and never retried.
//
// When maxRetries is negative the default (2) is used. Before each retry the
// failed response body is drained and closed. If the context is cancelled
// during a backoff wait the function returns ctx.Err(). After exhausting
// retries the last response (or transport error) is returned so the caller
// can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	state := statePending
	var resp *http.Response
	var err error

	for attempt := 0; state != stateSucceeded && state != stateFailedTerminal; attempt++ {
		resp, err = client.Do(req.Clone(ctx))

		switch {
		case err != nil:
			// Transport error (connection reset, timeout): transient.
			if attempt >= maxRetries || ctx.Err() != nil {
				state = stateFailedTerminal
				continue
			}
		case !transientStatus(resp.StatusCode):
			state = stateSucceeded
			continue
		case attempt >= maxRetries:
			// Exhausted retries; hand the last response back as-is.
			state = stateFailedTerminal
			continue
		}

		wait := backoff(attempt)
		if resp != nil {
			if ra := retryAfter(resp); ra > wait {
				wait = ra
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		state = stateRetrying
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return resp, err
}

// transientStatus reports whether an HTTP status warrants a retry: 429 and
// all 5xx. Other 4xx statuses are the caller's fault and never retried.
func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// backoff returns the exponential delay for the given attempt with up to
// 50% added jitter.
func backoff(attempt int) time.Duration {
	base := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
	jitter := time.Duration(jitterFrac() * 0.5 * float64(base))
	return base + jitter
}

// retryAfter parses a Retry-After header as a second count. Zero when the
// header is absent or unparseable.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
