// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import "errors"

// Exit codes returned by the CLI.
const (
	ExitSuccess     = 0 // Success, no error-verdict citations
	ExitError       = 1 // Runtime failure, or at least one citation in error
	ExitConfigError = 2 // Configuration problem (invalid config, bad flags)
)

// errConfig marks failures that should exit with ExitConfigError.
var errConfig = errors.New("configuration error")

// exitCodeFor maps a command error to the process exit code.
func exitCodeFor(err error) int {
	if errors.Is(err, errConfig) {
		return ExitConfigError
	}
	return ExitError
}
