// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"errors"
	"fmt"
)

// Common errors returned by source adapters. All of them are recoverable:
// the dispatcher records them as degraded coverage for the affected record
// and never aborts the run.
var (
	// ErrUnavailable indicates a network failure, timeout, or server error.
	ErrUnavailable = errors.New("source unavailable")

	// ErrRateLimited indicates the source rejected the request for exceeding
	// its rate limit even after local throttling and retries.
	ErrRateLimited = errors.New("source rate limit exceeded")

	// ErrAuth indicates an authentication problem (missing or invalid key).
	ErrAuth = errors.New("source authentication error")

	// ErrMalformed indicates an unparseable response; treated as an empty
	// result from that source.
	ErrMalformed = errors.New("malformed source response")
)

// APIError carries the HTTP detail of a failed source request.
type APIError struct {
	Source     string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s API error (HTTP %d): %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error (HTTP %d)", e.Source, e.StatusCode)
}

// IsRateLimited reports whether err indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 429
}

// IsAuthError reports whether err indicates an authentication problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuth) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && (apiErr.StatusCode == 401 || apiErr.StatusCode == 403)
}

// IsMalformed reports whether err indicates an unparseable response.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}

// IsUnavailable reports whether err indicates the source could not be
// reached or answered with a server error.
func IsUnavailable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 500
}

// statusError maps a non-200 HTTP status to the adapter error taxonomy.
func statusError(source string, code int) error {
	switch {
	case code == 401 || code == 403:
		return fmt.Errorf("%w: %s returned HTTP %d", ErrAuth, source, code)
	case code == 429:
		return fmt.Errorf("%w: %s returned HTTP %d", ErrRateLimited, source, code)
	case code >= 500:
		return fmt.Errorf("%w: %s returned HTTP %d", ErrUnavailable, source, code)
	default:
		return &APIError{Source: source, StatusCode: code}
	}
}
