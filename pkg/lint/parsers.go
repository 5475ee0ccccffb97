// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lint

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// FLAKE8 PARSER
// =============================================================================

// parseFlake8Output parses the default text output from flake8.
//
// Description:
//
//	flake8 emits one diagnostic per line in the form
//
//	    path:row:col: CODE message
//
//	e.g. "./api/db.py:12:1: F401 'os' imported but unused".
//	Lines that don't match the shape (summary counts, blank lines) are
//	skipped rather than treated as a parse failure, since flake8 mixes
//	them into stdout under some flag combinations.
//
// Inputs:
//
//	data - Raw stdout from flake8
//
// Outputs:
//
//	[]Issue - Parsed issues
//	error - Non-nil only if scanning the output fails
func parseFlake8Output(data []byte) ([]Issue, error) {
	var issues []Issue

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		issue, ok := parseFlake8Line(line)
		if !ok {
			continue
		}
		issues = append(issues, issue)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning flake8 output: %w", err)
	}

	return issues, nil
}

// parseFlake8Line parses a single flake8 diagnostic line.
func parseFlake8Line(line string) (Issue, bool) {
	parts := strings.SplitN(line, ":", 4)
	if len(parts) != 4 {
		return Issue{}, false
	}

	row, err := strconv.Atoi(parts[1])
	if err != nil {
		return Issue{}, false
	}
	col, err := strconv.Atoi(parts[2])
	if err != nil {
		return Issue{}, false
	}

	// Remainder is " CODE message"
	rest := strings.TrimSpace(parts[3])
	code, message, found := strings.Cut(rest, " ")
	if !found || code == "" {
		return Issue{}, false
	}

	return Issue{
		File:     strings.TrimPrefix(parts[0], "./"),
		Line:     row,
		Column:   col,
		Rule:     code,
		Severity: mapFlake8Severity(code),
		Message:  message,
		Linter:   "flake8",
	}, true
}

// mapFlake8Severity maps flake8 rule codes to our Severity.
func mapFlake8Severity(code string) Severity {
	code = strings.ToUpper(code)
	if len(code) == 0 {
		return SeverityWarning
	}

	// E9xx are syntax and tokenize errors, not style
	if strings.HasPrefix(code, "E9") {
		return SeverityError
	}

	switch code[:1] {
	case "F": // pyflakes
		return SeverityError
	case "S": // flake8-bandit (security)
		return SeverityError
	case "E": // pycodestyle errors (style)
		return SeverityWarning
	case "W": // pycodestyle warnings
		return SeverityWarning
	case "C": // mccabe complexity
		return SeverityWarning
	case "D": // pydocstyle
		return SeverityInfo
	default:
		return SeverityWarning
	}
}

// =============================================================================
// GOLANGCI-LINT PARSER
// =============================================================================

// golangciOutput represents the JSON output from golangci-lint.
type golangciOutput struct {
	Issues []golangciIssue `json:"Issues"`
}

type golangciIssue struct {
	FromLinter  string           `json:"FromLinter"`
	Text        string           `json:"Text"`
	Severity    string           `json:"Severity"`
	Pos         golangciPosition `json:"Pos"`
	LineRange   *golangciRange   `json:"LineRange,omitempty"`
	Replacement *golangciReplace `json:"Replacement,omitempty"`
}

type golangciPosition struct {
	Filename string `json:"Filename"`
	Line     int    `json:"Line"`
	Column   int    `json:"Column"`
	Offset   int    `json:"Offset"`
}

type golangciRange struct {
	From int `json:"From"`
	To   int `json:"To"`
}

type golangciReplace struct {
	NeedOnlyDelete bool     `json:"NeedOnlyDelete"`
	NewLines       []string `json:"NewLines"`
}

// parseGolangCIOutput parses JSON output from golangci-lint.
//
// Description:
//
//	golangci-lint --out-format=json produces a JSON object with an
//	"Issues" array. Each issue contains linter name, message, position,
//	and optional replacement information.
//
// Inputs:
//
//	data - Raw JSON output from golangci-lint
//
// Outputs:
//
//	[]Issue - Parsed issues
//	error - Non-nil if JSON parsing fails
func parseGolangCIOutput(data []byte) ([]Issue, error) {
	var output golangciOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parsing golangci-lint output: %w", err)
	}

	if len(output.Issues) == 0 {
		return nil, nil
	}

	issues := make([]Issue, 0, len(output.Issues))
	for _, gi := range output.Issues {
		issue := Issue{
			File:     gi.Pos.Filename,
			Line:     gi.Pos.Line,
			Column:   gi.Pos.Column,
			Rule:     gi.FromLinter,
			Severity: mapGolangCISeverity(gi.Severity),
			Message:  gi.Text,
			Fixable:  gi.Replacement != nil,
			Linter:   "golangci-lint",
		}

		// Set end line if available
		if gi.LineRange != nil {
			issue.EndLine = gi.LineRange.To
		}

		issues = append(issues, issue)
	}

	return issues, nil
}

// mapGolangCISeverity maps golangci-lint severity to our Severity.
func mapGolangCISeverity(s string) Severity {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError
	case "warning":
		return SeverityWarning
	default:
		// golangci-lint doesn't always set severity
		return SeverityWarning
	}
}

// =============================================================================
// ESLINT PARSER
// =============================================================================

// eslintOutput represents the JSON output from ESLint.
type eslintOutput []eslintFile

type eslintFile struct {
	FilePath     string          `json:"filePath"`
	Messages     []eslintMessage `json:"messages"`
	ErrorCount   int             `json:"errorCount"`
	WarningCount int             `json:"warningCount"`
}

type eslintMessage struct {
	RuleID    string     `json:"ruleId"`
	Severity  int        `json:"severity"` // 1 = warning, 2 = error
	Message   string     `json:"message"`
	Line      int        `json:"line"`
	Column    int        `json:"column"`
	EndLine   int        `json:"endLine"`
	EndColumn int        `json:"endColumn"`
	Fix       *eslintFix `json:"fix"`
}

type eslintFix struct {
	Range [2]int `json:"range"`
	Text  string `json:"text"`
}

// parseESLintOutput parses JSON output from ESLint.
//
// Description:
//
//	ESLint --format=json produces an array of file results.
//	Each file result contains messages with severity, rule, and
//	optional fix information.
//
// Inputs:
//
//	data - Raw JSON output from eslint --format=json
//
// Outputs:
//
//	[]Issue - Parsed issues
//	error - Non-nil if JSON parsing fails
func parseESLintOutput(data []byte) ([]Issue, error) {
	var output eslintOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parsing eslint output: %w", err)
	}

	var issues []Issue
	for _, file := range output {
		for _, msg := range file.Messages {
			issue := Issue{
				File:      file.FilePath,
				Line:      msg.Line,
				Column:    msg.Column,
				EndLine:   msg.EndLine,
				EndColumn: msg.EndColumn,
				Rule:      msg.RuleID,
				Severity:  mapESLintSeverity(msg.Severity),
				Message:   msg.Message,
				Fixable:   msg.Fix != nil,
				Linter:    "eslint",
			}
			issues = append(issues, issue)
		}
	}

	return issues, nil
}

// mapESLintSeverity maps ESLint numeric severity to our Severity.
func mapESLintSeverity(severity int) Severity {
	switch severity {
	case 2: // error
		return SeverityError
	case 1: // warning
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// =============================================================================
// PARSER REGISTRY
// =============================================================================

// ParserFunc is a function that parses linter output into issues.
type ParserFunc func(data []byte) ([]Issue, error)

// parserRegistry maps language names to parser functions.
var parserRegistry = map[string]ParserFunc{
	"python":     parseFlake8Output,
	"go":         parseGolangCIOutput,
	"typescript": parseESLintOutput,
	"javascript": parseESLintOutput,
}

// GetParser returns the parser function for a language.
//
// Description:
//
//	Returns the registered parser for the given language, or nil if
//	no parser is registered.
//
// Inputs:
//
//	language - The language identifier
//
// Outputs:
//
//	ParserFunc - The parser function, or nil if not found
func GetParser(language string) ParserFunc {
	return parserRegistry[language]
}

// RegisterParser adds or replaces a parser for a language.
//
// Description:
//
//	Allows custom parsers to be registered for additional linters
//	or to override default behavior.
//
// Inputs:
//
//	language - The language identifier
//	parser - The parser function
func RegisterParser(language string, parser ParserFunc) {
	parserRegistry[language] = parser
}
