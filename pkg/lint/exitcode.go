// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lint

import (
	"errors"
	"os/exec"
)

// Runner exit codes. CI consumes exactly these two values; the tool's own
// exit status is never passed through directly.
const (
	// ExitOK means the tool ran and found nothing blocking.
	ExitOK = 0

	// ExitFailure means violations were found or the tool could not run.
	ExitFailure = 1
)

// Normalize collapses a tool exit status to the runner contract.
//
// Description:
//
//	Lint tools use varied nonzero statuses: flake8 exits 1 on
//	violations, golangci-lint can exit 2-7 for its own failures, a
//	missing binary surfaces as 127 from a shell. CI only cares whether
//	the gate passed, so everything nonzero maps to ExitFailure.
//
// Inputs:
//
//	exitCode - The raw exit status from the tool
//
// Outputs:
//
//	int - ExitOK or ExitFailure
func Normalize(exitCode int) int {
	if exitCode == ExitOK {
		return ExitOK
	}
	return ExitFailure
}

// ExitCodeFromError extracts a process exit status from an error chain.
//
// Description:
//
//	Returns ExitOK for nil, the subprocess status for an *exec.ExitError
//	anywhere in the chain, and ExitFailure for every other error (spawn
//	failures, timeouts, cancelled contexts).
//
// Inputs:
//
//	err - The error returned by running the tool
//
// Outputs:
//
//	int - The extracted exit status
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return ExitFailure
}

// isExitError reports whether err carries a subprocess exit status, meaning
// the tool actually ran and exited.
func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
