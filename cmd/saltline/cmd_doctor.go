// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/saltline-io/saltline/pkg/lint"
	"github.com/saltline-io/saltline/pkg/ux"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var doctorJSONOutput bool // Output as JSON

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// doctorCmd checks the local lint tooling.
//
// # Description
//
// Probes every registered linter binary for presence and version, and
// reports whether the configured project has a virtualenv. Exits 1 when
// the linter for the configured language is missing, so CI images can
// verify themselves before gating.
//
// # Examples
//
//	saltline doctor          # Styled tooling table
//	saltline doctor --json   # JSON output for automation
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that lint tooling is installed and usable",
	Run:   runDoctorCommand,
}

// =============================================================================
// COMMAND INITIALIZATION
// =============================================================================

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSONOutput, "json", false,
		"Output as JSON for scripting")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

// DoctorResult holds the probe outcome for output.
type DoctorResult struct {
	Tools     []lint.ToolStatus `json:"tools"`
	VenvPath  string            `json:"venv_path,omitempty"`
	VenvFound bool              `json:"venv_found"`
}

// runDoctorCommand probes the tooling and reports the result.
func runDoctorCommand(cmd *cobra.Command, args []string) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dir, language := resolveLintTarget(nil)

	runner := lint.NewRunner()
	statuses := runner.ProbeTools(ctx)

	result := DoctorResult{Tools: statuses}
	result.VenvPath, result.VenvFound = lint.FindVenv(dir)

	missing := requiredToolMissing(statuses, language)

	if doctorJSONOutput {
		os.Exit(OutputResult(true, "doctor", start, result, missing, nil))
	}

	ux.Title("Saltline Doctor")
	fmt.Print(ux.RenderToolStatuses(statuses))

	if result.VenvFound {
		ux.Muted(fmt.Sprintf("virtualenv: %s", result.VenvPath))
	} else {
		ux.Warning(fmt.Sprintf("no virtualenv under %s, lint will use the system environment", dir))
	}

	if missing {
		ux.Error(fmt.Sprintf("linter for %q is not installed", language))
		os.Exit(CLIExitFailure)
	}
	os.Exit(CLIExitSuccess)
}

// requiredToolMissing reports whether the configured language's linter
// is absent from the probe results.
func requiredToolMissing(statuses []lint.ToolStatus, language string) bool {
	for _, st := range statuses {
		if st.Language == language {
			return !st.Available
		}
	}
	return true
}
