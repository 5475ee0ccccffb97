// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package lint executes external linters against a project tree and reduces
// the outcome to either a CI verdict or a structured report.
//
// The package wraps established linters (flake8, golangci-lint, eslint)
// rather than implementing any rules itself. It provides:
//
//   - A gate mode that runs the tool, forwards its output untouched, and
//     surfaces the raw exit status for CI
//   - A report mode that parses tool output into categorized issues
//   - Virtualenv-aware environment preparation for Python projects
//   - Graceful degradation when a linter is not installed
//
// # Architecture
//
// The two modes share configuration, environment preparation, and process
// execution, and diverge only at the output boundary:
//
//	Gate:  Config → PrepareEnv → Exec (stdout/stderr passthrough) → exit code
//	Check: Config → PrepareEnv → Exec (capture) → Parse → Policy → Result
//
// The subprocess always receives the project directory as its working
// directory; the calling process never changes its own.
//
// # Supported Linters
//
//	| Language   | Linter         | Invocation          |
//	|------------|----------------|---------------------|
//	| Python     | flake8         | flake8 .            |
//	| Go         | golangci-lint  | golangci-lint run   |
//	| TypeScript | ESLint         | eslint .            |
//	| JavaScript | ESLint         | eslint .            |
//
// # Exit Contract
//
// Callers that gate CI collapse the tool's exit status through Normalize,
// which maps success to 0 and everything else (violations, crashes, a
// missing binary) to 1. The raw status is preserved on the Result for
// diagnostics.
//
// # Usage
//
//	runner := lint.NewRunner()
//	runner.DetectAvailableLinters()
//
//	// CI gate: forward output, collapse the exit status
//	code, err := runner.Gate(ctx, "backend", "python")
//	if err != nil {
//	    // tool missing, timeout, or spawn failure
//	}
//	os.Exit(lint.Normalize(code))
//
//	// Structured report
//	result, err := runner.Check(ctx, "backend", "python")
//
// # Thread Safety
//
// All exported types are safe for concurrent use.
package lint
