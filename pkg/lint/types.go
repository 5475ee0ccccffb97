// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lint

import (
	"time"
)

// =============================================================================
// SEVERITY
// =============================================================================

// Severity represents the severity level of a lint issue.
type Severity int

const (
	// SeverityInfo represents informational/style issues that never gate a build.
	SeverityInfo Severity = iota

	// SeverityWarning represents issues worth noting that don't gate a build.
	SeverityWarning

	// SeverityError represents issues that fail the gate.
	SeverityError
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// SeverityFromString parses a severity string.
//
// Description:
//
//	Parses common severity strings from different linters.
//	Unknown values default to SeverityWarning.
//
// Inputs:
//
//	s - Severity string (e.g., "error", "warning", "info")
//
// Outputs:
//
//	Severity - The parsed severity level
func SeverityFromString(s string) Severity {
	switch s {
	case "error", "err", "fatal", "critical":
		return SeverityError
	case "warning", "warn":
		return SeverityWarning
	case "info", "note", "style", "hint":
		return SeverityInfo
	default:
		return SeverityWarning
	}
}

// =============================================================================
// LINTER CONFIG
// =============================================================================

// LinterConfig configures how to run a specific linter.
//
// Thread Safety: Treat as immutable after creation.
type LinterConfig struct {
	// Language is the language this linter handles (e.g., "python", "go").
	Language string

	// Command is the linter executable name (e.g., "flake8").
	Command string

	// Args are the arguments for gate mode, including the tree target
	// (e.g., "." or "./..."). Paths are relative to the project directory.
	Args []string

	// ReportArgs are the arguments for report mode, selecting the tool's
	// machine-readable output where it differs from the native one.
	// Empty means Args serve both modes.
	ReportArgs []string

	// Extensions are file extensions this linter handles (e.g., []string{".py"}).
	Extensions []string

	// Timeout is the maximum time to wait for the linter.
	Timeout time.Duration

	// Available indicates whether the linter binary was found in PATH.
	// Set by DetectAvailableLinters.
	Available bool

	// MinVersion is the lowest tool version known to work with the
	// configured flags, as a semver string without the "v" prefix.
	// Empty disables the version preflight.
	MinVersion string
}

// Clone returns a deep copy of the config.
func (c *LinterConfig) Clone() *LinterConfig {
	clone := &LinterConfig{
		Language:   c.Language,
		Command:    c.Command,
		Args:       make([]string, len(c.Args)),
		ReportArgs: make([]string, len(c.ReportArgs)),
		Extensions: make([]string, len(c.Extensions)),
		Timeout:    c.Timeout,
		Available:  c.Available,
		MinVersion: c.MinVersion,
	}
	copy(clone.Args, c.Args)
	copy(clone.ReportArgs, c.ReportArgs)
	copy(clone.Extensions, c.Extensions)
	return clone
}

// reportArgs returns the arguments for report mode.
func (c *LinterConfig) reportArgs() []string {
	if len(c.ReportArgs) > 0 {
		return c.ReportArgs
	}
	return c.Args
}

// =============================================================================
// RESULT
// =============================================================================

// Result contains the outcome of a report-mode run over a project tree.
//
// Thread Safety: Immutable after creation by the runner.
type Result struct {
	// Valid is true if no blocking errors were found.
	Valid bool `json:"valid"`

	// Errors are issues with SeverityError that fail the gate.
	Errors []Issue `json:"errors"`

	// Warnings are issues with SeverityWarning that don't fail the gate.
	Warnings []Issue `json:"warnings"`

	// Infos are informational issues (style, hints).
	Infos []Issue `json:"infos,omitempty"`

	// Duration is how long the linter took to run.
	Duration time.Duration `json:"duration"`

	// Linter is which linter produced this result.
	Linter string `json:"linter"`

	// Language is the language that was linted.
	Language string `json:"language"`

	// ProjectDir is the directory tree that was linted.
	ProjectDir string `json:"project_dir"`

	// ExitCode is the tool's raw exit status. The gate contract collapses
	// it through Normalize; it is preserved here for diagnostics.
	ExitCode int `json:"exit_code"`

	// EnvActivated indicates whether a project virtualenv was found and
	// injected into the tool's environment.
	EnvActivated bool `json:"env_activated"`

	// LinterAvailable indicates whether the linter was found.
	// When false, the result is empty because nothing ran.
	LinterAvailable bool `json:"linter_available"`
}

// HasErrors returns true if there are any blocking errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasIssues returns true if there are any issues of any severity.
func (r *Result) HasIssues() bool {
	return len(r.Errors) > 0 || len(r.Warnings) > 0 || len(r.Infos) > 0
}

// AllIssues returns all issues combined.
func (r *Result) AllIssues() []Issue {
	total := len(r.Errors) + len(r.Warnings) + len(r.Infos)
	issues := make([]Issue, 0, total)
	issues = append(issues, r.Errors...)
	issues = append(issues, r.Warnings...)
	issues = append(issues, r.Infos...)
	return issues
}

// IssueCount returns the total number of issues.
func (r *Result) IssueCount() int {
	return len(r.Errors) + len(r.Warnings) + len(r.Infos)
}

// FixableCount returns the count of issues the tool reports as fixable.
func (r *Result) FixableCount() int {
	count := 0
	for _, issue := range r.AllIssues() {
		if issue.Fixable {
			count++
		}
	}
	return count
}

// =============================================================================
// ISSUE
// =============================================================================

// Issue represents a single diagnostic found by a linter.
//
// Thread Safety: Immutable after creation.
type Issue struct {
	// File is the path to the file containing the issue, relative to the
	// project directory when the tool reports relative paths.
	File string `json:"file"`

	// Line is the 1-indexed line number where the issue occurs.
	Line int `json:"line"`

	// Column is the 1-indexed column number where the issue occurs.
	// May be 0 if the linter doesn't provide column info.
	Column int `json:"column,omitempty"`

	// EndLine is the ending line for multi-line issues.
	// May be 0 if the linter doesn't provide end position.
	EndLine int `json:"end_line,omitempty"`

	// EndColumn is the ending column for the issue.
	EndColumn int `json:"end_column,omitempty"`

	// Rule is the linter rule that triggered (e.g., "E501", "errcheck").
	Rule string `json:"rule"`

	// RuleURL is a link to documentation for the rule.
	RuleURL string `json:"rule_url,omitempty"`

	// Severity is the severity level of the issue.
	Severity Severity `json:"severity"`

	// Message is the human-readable description of the issue.
	Message string `json:"message"`

	// Fixable indicates whether the tool reports an automatic fix for
	// this issue. The runner never applies fixes.
	Fixable bool `json:"fixable,omitempty"`

	// Linter is the name of the linter that found this issue.
	Linter string `json:"linter,omitempty"`
}

// Location returns a formatted location string (file:line:col).
func (i *Issue) Location() string {
	if i.Column > 0 {
		return i.File + ":" + itoa(i.Line) + ":" + itoa(i.Column)
	}
	return i.File + ":" + itoa(i.Line)
}

// itoa is a simple int to string conversion to avoid importing strconv.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	if i < 0 {
		return "-" + itoa(-i)
	}
	var b [20]byte
	n := len(b)
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	return string(b[n:])
}
