// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saltline-io/saltline/cmd/saltline/config"
	"github.com/saltline-io/saltline/pkg/lint"
	"github.com/saltline-io/saltline/pkg/ux"
	"github.com/saltline-io/saltline/pkg/validation"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	lintDir       string // Project directory override
	lintLanguage  string // Language override
	lintJSON      bool   // Output the structured result as JSON
	lintSummary   bool   // Render a styled report instead of raw output
	lintWatch     bool   // Re-lint on file changes
	lintStrictEnv bool   // Missing virtualenv fails the gate
	lintTimeout   int    // Timeout override in seconds
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// lintCmd is the lint gate command.
//
// # Description
//
// Runs the configured linter over a project tree. The default mode is
// the CI gate: the tool's stdout and stderr pass through untouched and
// the process exits 0 when the tree is clean, 1 otherwise. Report modes
// parse the findings instead of forwarding them.
//
// # Examples
//
//	saltline lint                  # Gate the configured project dir
//	saltline lint services/api     # Gate an explicit directory
//	saltline lint --json           # Structured result for scripting
//	saltline lint --summary        # Styled report for humans
//	saltline lint --watch          # Re-lint on save
//	saltline lint --strict-env     # Missing virtualenv fails the gate
var lintCmd = &cobra.Command{
	Use:   "lint [dir]",
	Short: "Run the lint gate over a project tree",
	Long: `Runs the configured linter over a project tree.

The default mode reproduces the CI gate: linter output is forwarded
byte-for-byte and the exit code collapses to 0 (clean) or 1 (findings
or failure). The linter runs with the project directory as its working
directory; the CLI's own working directory never changes.

Examples:
  saltline lint                  # Gate the configured project dir
  saltline lint services/api     # Gate an explicit directory
  saltline lint --json           # Structured result for scripting
  saltline lint --summary        # Styled report for humans
  saltline lint --watch          # Re-lint on save`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLintCommand,
}

// =============================================================================
// COMMAND INITIALIZATION
// =============================================================================

func init() {
	lintCmd.Flags().StringVarP(&lintDir, "dir", "d", "",
		"Project directory to lint (default from config)")
	lintCmd.Flags().StringVarP(&lintLanguage, "language", "l", "",
		"Language to lint: python, go, typescript, javascript (default from config)")
	lintCmd.Flags().BoolVar(&lintJSON, "json", false,
		"Output the structured result as JSON")
	lintCmd.Flags().BoolVar(&lintSummary, "summary", false,
		"Render a styled report instead of raw linter output")
	lintCmd.Flags().BoolVarP(&lintWatch, "watch", "w", false,
		"Watch the tree and re-lint on changes")
	lintCmd.Flags().BoolVar(&lintStrictEnv, "strict-env", false,
		"Fail when the project has no virtualenv instead of warning")
	lintCmd.Flags().IntVar(&lintTimeout, "timeout", 0,
		"Linter timeout in seconds (default from config)")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

// runLintCommand dispatches to the selected lint mode.
//
// # Description
//
// Resolves the target directory and language from the positional arg,
// flags, and config, builds a runner, and hands off to gate, JSON,
// summary, or watch mode. Every path exits the process with the
// normalized {0,1} contract.
func runLintCommand(cmd *cobra.Command, args []string) {
	dir, language := resolveLintTarget(args)

	language, err := validation.SanitizeLanguage(language)
	if err != nil {
		ux.Error(fmt.Sprintf("lint: %v", err))
		os.Exit(CLIExitFailure)
	}

	strict := lintStrictEnv || config.Global.Lint.StrictEnv
	runner := lint.NewRunner(lint.WithStrictEnv(strict))
	applyLintTimeout(runner, language)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case lintWatch:
		os.Exit(runLintWatch(ctx, runner, dir, language))
	case lintJSON:
		os.Exit(runLintJSON(ctx, runner, dir, language))
	case lintSummary:
		os.Exit(runLintSummary(ctx, runner, dir, language))
	default:
		os.Exit(runLintGate(ctx, runner, dir, language))
	}
}

// resolveLintTarget picks the directory and language to lint.
//
// Precedence: positional argument, then flag, then config, then the
// built-in defaults. When no language is named anywhere, the tree is
// inspected before falling back to python.
func resolveLintTarget(args []string) (string, string) {
	dir := config.Global.Lint.ProjectDir
	if lintDir != "" {
		dir = lintDir
	}
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}
	if dir == "" {
		dir = "backend"
	}

	language := config.Global.Lint.Language
	if lintLanguage != "" {
		language = lintLanguage
	}
	if language == "" {
		language = lint.DetectLanguage(dir)
	}
	if language == "" {
		language = "python"
	}

	return dir, language
}

// applyLintTimeout pushes the flag or config timeout into the runner's
// config registry for the selected language.
func applyLintTimeout(runner *lint.Runner, language string) {
	seconds := config.Global.Lint.TimeoutSeconds
	if lintTimeout > 0 {
		seconds = lintTimeout
	}
	if seconds <= 0 {
		return
	}

	cfg := runner.Configs().Get(language)
	if cfg == nil {
		return
	}
	cfg.Timeout = time.Duration(seconds) * time.Second
	runner.Configs().Register(cfg)
}

// runLintGate is the CI mode: forward output, collapse the exit code.
func runLintGate(ctx context.Context, runner *lint.Runner, dir, language string) int {
	code, err := runner.Gate(ctx, dir, language)
	if err != nil {
		ux.Error(fmt.Sprintf("lint: %v", err))
		return CLIExitFailure
	}
	return lint.Normalize(code)
}

// runLintJSON emits the structured result envelope on stdout.
func runLintJSON(ctx context.Context, runner *lint.Runner, dir, language string) int {
	start := time.Now()
	runner.DetectAvailableLinters()

	result, err := runner.Check(ctx, dir, language)
	if err != nil {
		return OutputResult(true, "lint", start, nil, false, err)
	}
	return OutputResult(true, "lint", start, result, !result.Valid, nil)
}

// runLintSummary renders the styled report for humans.
func runLintSummary(ctx context.Context, runner *lint.Runner, dir, language string) int {
	runner.DetectAvailableLinters()

	var result *lint.Result
	err := ux.WithSpinner(fmt.Sprintf("Linting %s", dir), func() error {
		var checkErr error
		result, checkErr = runner.Check(ctx, dir, language)
		return checkErr
	})
	if err != nil {
		return CLIExitFailure
	}

	fmt.Print(ux.RenderReport(result))
	if !result.Valid {
		return CLIExitFailure
	}
	return CLIExitSuccess
}

// runLintWatch re-lints on file changes until interrupted.
func runLintWatch(ctx context.Context, runner *lint.Runner, dir, language string) int {
	runner.DetectAvailableLinters()

	handler := func(result *lint.Result, err error) {
		if err != nil {
			ux.Error(fmt.Sprintf("lint: %v", err))
			return
		}
		fmt.Print(ux.RenderReport(result))
	}

	watcher, err := lint.NewWatcher(runner, dir, language, handler, lint.DefaultWatchOptions())
	if err != nil {
		ux.Error(fmt.Sprintf("watch: %v", err))
		return CLIExitFailure
	}

	if err := watcher.Start(ctx); err != nil {
		watcher.Stop()
		if errors.Is(err, context.Canceled) {
			return CLIExitSuccess
		}
		ux.Error(fmt.Sprintf("watch: %v", err))
		return CLIExitFailure
	}

	ux.Info(fmt.Sprintf("Watching %s for changes. Ctrl-C to stop.", dir))
	<-ctx.Done()
	watcher.Stop()
	return CLIExitSuccess
}
