// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lint

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/saltline-io/saltline/pkg/validation"
)

// =============================================================================
// RUNNER
// =============================================================================

// Runner executes linters against project trees.
//
// Description:
//
//	Manages linter execution in two modes. Gate mode runs the tool with
//	its output forwarded untouched and surfaces the raw exit status for
//	CI. Check mode captures and parses the output into a categorized
//	Result. Both modes run the tool with the project directory as the
//	subprocess working directory and a virtualenv-aware environment.
//
// Thread Safety: Safe for concurrent use.
type Runner struct {
	configs   *ConfigRegistry
	policies  *PolicyRegistry
	available map[string]bool
	availMu   sync.RWMutex

	stdout io.Writer
	stderr io.Writer

	strictEnv bool
}

// Option configures the Runner.
type Option func(*Runner)

// WithConfigs sets a custom config registry.
func WithConfigs(configs *ConfigRegistry) Option {
	return func(r *Runner) {
		r.configs = configs
	}
}

// WithPolicies sets a custom policy registry.
func WithPolicies(policies *PolicyRegistry) Option {
	return func(r *Runner) {
		r.policies = policies
	}
}

// WithStdout sets the writer that receives the tool's stdout in gate mode.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) {
		r.stdout = w
	}
}

// WithStderr sets the writer that receives the tool's stderr in gate mode.
func WithStderr(w io.Writer) Option {
	return func(r *Runner) {
		r.stderr = w
	}
}

// WithStrictEnv makes a missing project virtualenv an error instead of a
// warning.
func WithStrictEnv(strict bool) Option {
	return func(r *Runner) {
		r.strictEnv = strict
	}
}

// NewRunner creates a new runner.
//
// Description:
//
//	Creates a runner with default or custom configurations. Gate mode
//	writes to os.Stdout and os.Stderr unless overridden. Call
//	DetectAvailableLinters to populate the availability cache used by
//	Check.
//
// Inputs:
//
//	opts - Optional configuration options
//
// Outputs:
//
//	*Runner - The configured runner
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		configs:   NewConfigRegistry(),
		policies:  NewPolicyRegistry(),
		available: make(map[string]bool),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// DetectAvailableLinters checks which linters are installed.
//
// Description:
//
//	Probes the system PATH for each configured linter binary.
//	Updates the Available flag in configurations and returns
//	a map of language to availability.
//
// Outputs:
//
//	map[string]bool - Map of language to whether linter is available
//
// Thread Safety: Safe for concurrent use.
func (r *Runner) DetectAvailableLinters() map[string]bool {
	r.availMu.Lock()
	defer r.availMu.Unlock()

	result := make(map[string]bool)

	for _, lang := range r.configs.Languages() {
		config := r.configs.Get(lang)
		if config == nil {
			continue
		}

		_, err := exec.LookPath(config.Command)
		available := err == nil

		r.available[lang] = available
		r.configs.SetAvailable(lang, available)
		result[lang] = available

		if available {
			slog.Debug("Linter available",
				slog.String("language", lang),
				slog.String("command", config.Command),
			)
		} else {
			slog.Warn("Linter not installed",
				slog.String("language", lang),
				slog.String("command", config.Command),
			)
		}
	}

	return result
}

// IsAvailable returns whether a linter is available for a language.
//
// Description:
//
//	Checks if the linter for the given language has been detected
//	as available. Returns false if language is unknown or linter
//	is not installed.
//
// Inputs:
//
//	language - The language identifier
//
// Outputs:
//
//	bool - True if linter is available
//
// Thread Safety: Safe for concurrent use.
func (r *Runner) IsAvailable(language string) bool {
	r.availMu.RLock()
	defer r.availMu.RUnlock()
	return r.available[language]
}

// =============================================================================
// GATE MODE
// =============================================================================

// Gate runs the linter over a project tree for CI.
//
// Description:
//
//	Resolves the linter for the language, prepares a virtualenv-aware
//	environment, and executes the tool with the project directory as
//	the subprocess working directory. The tool's stdout and stderr are
//	forwarded to the runner's writers byte-for-byte. The returned exit
//	code is the tool's raw status; callers collapse it with Normalize
//	before exiting.
//
// Inputs:
//
//	ctx - Context for cancellation and timeout
//	dir - Project directory to lint
//	language - The language identifier (e.g., "python")
//
// Outputs:
//
//	int - The tool's raw exit status (0 when clean)
//	error - Non-nil if the tool could not run to completion
//
// Errors:
//
//	ErrInvalidInput - Nil context or malformed linter command
//	ErrUnsupportedLanguage - No linter for the language
//	ErrLinterNotInstalled - Linter not found in PATH
//	ErrProjectDir - Project directory missing or not a directory
//	ErrEnvMissing - No virtualenv found in strict mode
//	ErrLinterTimeout - Linter exceeded timeout
//	ErrLinterFailed - Linter process failed to spawn
//
// Thread Safety: Safe for concurrent use.
func (r *Runner) Gate(ctx context.Context, dir, language string) (int, error) {
	if ctx == nil {
		return ExitFailure, fmt.Errorf("%w: ctx must not be nil", ErrInvalidInput)
	}

	ctx, span := startLintSpan(ctx, "Runner.Gate", language, dir)
	defer span.End()
	start := time.Now()

	config := r.configs.Get(language)
	if config == nil {
		return ExitFailure, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}

	if err := validation.ValidateCommand(config.Command); err != nil {
		return ExitFailure, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// A missing tool fails the gate loudly. CI must never pass because
	// the linter wasn't there to complain.
	if _, err := exec.LookPath(config.Command); err != nil {
		recordLintMetrics(ctx, language, "gate", time.Since(start), 0, 0, false)
		return ExitFailure, NewLinterError(config.Command, language, ErrLinterNotInstalled)
	}

	absDir, env, err := r.prepareProject(dir)
	if err != nil {
		recordLintMetrics(ctx, language, "gate", time.Since(start), 0, 0, false)
		return ExitFailure, err
	}

	cmdCtx, cancel := context.WithTimeout(ctx, configTimeout(config))
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, config.Command, config.Args...)
	cmd.Dir = absDir
	cmd.Env = env
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	runErr := cmd.Run()

	if cmdCtx.Err() == context.DeadlineExceeded {
		recordLintMetrics(ctx, language, "gate", time.Since(start), 0, 0, false)
		return ExitFailure, NewLinterError(config.Command, language, ErrLinterTimeout)
	}
	if ctx.Err() != nil {
		return ExitFailure, ctx.Err()
	}

	exitCode := ExitCodeFromError(runErr)
	if runErr != nil && !isExitError(runErr) {
		// The process never ran; exec-level failure rather than findings.
		recordLintMetrics(ctx, language, "gate", time.Since(start), 0, 0, false)
		return ExitFailure, NewLinterError(config.Command, language, ErrLinterFailed).
			WithOutput(runErr.Error())
	}

	setLintSpanExit(span, exitCode)
	recordLintMetrics(ctx, language, "gate", time.Since(start), 0, 0, true)

	slog.Debug("Gate completed",
		slog.String("dir", dir),
		slog.String("linter", config.Command),
		slog.Duration("duration", time.Since(start)),
		slog.Int("exit_code", exitCode),
	)

	return exitCode, nil
}

// =============================================================================
// CHECK MODE
// =============================================================================

// Check runs the linter over a project tree and parses the findings.
//
// Description:
//
//	Like Gate, but captures the tool's output, parses it with the
//	registered parser, and applies the rule policy to categorize
//	issues. When the linter is not installed the result comes back
//	empty with LinterAvailable false instead of an error, so report
//	surfaces degrade gracefully.
//
// Inputs:
//
//	ctx - Context for cancellation and timeout
//	dir - Project directory to lint
//	language - The language identifier (e.g., "python")
//
// Outputs:
//
//	*Result - The result with categorized issues
//	error - Non-nil if the linter failed to execute
//
// Thread Safety: Safe for concurrent use.
func (r *Runner) Check(ctx context.Context, dir, language string) (*Result, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx must not be nil", ErrInvalidInput)
	}

	ctx, span := startLintSpan(ctx, "Runner.Check", language, dir)
	defer span.End()
	start := time.Now()

	config := r.configs.Get(language)
	if config == nil {
		recordLintMetrics(ctx, language, "check", time.Since(start), 0, 0, false)
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}

	if err := validation.ValidateCommand(config.Command); err != nil {
		recordLintMetrics(ctx, language, "check", time.Since(start), 0, 0, false)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := exec.LookPath(config.Command); err != nil {
		// Return empty result with flag indicating linter unavailable
		setLintSpanResult(span, 0, 0, false)
		recordLintMetrics(ctx, language, "check", time.Since(start), 0, 0, true)
		return &Result{
			Valid:           true, // Don't block when linter unavailable
			Errors:          make([]Issue, 0),
			Warnings:        make([]Issue, 0),
			Duration:        time.Since(start),
			Linter:          config.Command,
			Language:        language,
			ProjectDir:      dir,
			LinterAvailable: false,
		}, nil
	}

	absDir, env, err := r.prepareProject(dir)
	if err != nil {
		recordLintMetrics(ctx, language, "check", time.Since(start), 0, 0, false)
		return nil, err
	}
	_, activated := FindVenv(absDir)

	output, exitCode, err := r.executeCapture(ctx, config, absDir, env)
	if err != nil {
		recordLintMetrics(ctx, language, "check", time.Since(start), 0, 0, false)
		return nil, err
	}

	issues, err := r.parseOutput(language, output)
	if err != nil {
		recordLintMetrics(ctx, language, "check", time.Since(start), 0, 0, false)
		return nil, fmt.Errorf("%w: %v", ErrParseOutput, err)
	}

	policy := r.policies.Get(language)
	errors, warnings, infos := ApplyPolicy(issues, policy)

	result := &Result{
		Valid:           len(errors) == 0,
		Errors:          errors,
		Warnings:        warnings,
		Infos:           infos,
		Duration:        time.Since(start),
		Linter:          config.Command,
		Language:        language,
		ProjectDir:      dir,
		ExitCode:        exitCode,
		EnvActivated:    activated,
		LinterAvailable: true,
	}

	setLintSpanResult(span, len(errors), len(warnings), true)
	recordLintMetrics(ctx, language, "check", time.Since(start), len(errors), len(warnings), true)

	slog.Debug("Check completed",
		slog.String("dir", dir),
		slog.String("linter", config.Command),
		slog.Duration("duration", result.Duration),
		slog.Int("errors", len(errors)),
		slog.Int("warnings", len(warnings)),
	)

	return result, nil
}

// =============================================================================
// EXECUTION
// =============================================================================

// prepareProject resolves the project directory and builds the subprocess
// environment for it.
func (r *Runner) prepareProject(dir string) (string, []string, error) {
	absDir, err := resolveProjectDir(dir)
	if err != nil {
		return "", nil, err
	}

	env, activated := PrepareEnv(absDir)
	if !activated {
		if r.strictEnv {
			return "", nil, fmt.Errorf("%w: no virtualenv under %s", ErrEnvMissing, dir)
		}
		// The original gate assumed activation succeeded without
		// checking. Surface the gap instead of guessing.
		slog.Warn("No virtualenv found, using ambient environment",
			slog.String("dir", dir),
		)
	}

	return absDir, env, nil
}

// resolveProjectDir validates the target and returns its absolute path.
func resolveProjectDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("%w: empty path", ErrProjectDir)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrProjectDir, dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrProjectDir, dir)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return absDir, nil
}

// executeCapture runs the linter subprocess with captured output.
func (r *Runner) executeCapture(ctx context.Context, config *LinterConfig, absDir string, env []string) ([]byte, int, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, configTimeout(config))
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, config.Command, config.reportArgs()...)
	cmd.Dir = absDir
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	// Check for timeout
	if cmdCtx.Err() == context.DeadlineExceeded {
		return nil, ExitFailure, NewLinterError(config.Command, config.Language, ErrLinterTimeout).
			WithOutput(stderr.String())
	}

	// Check for context cancellation
	if ctx.Err() != nil {
		return nil, ExitFailure, ctx.Err()
	}

	// Linters exit nonzero when they find issues. Only fail when there is
	// no stdout to parse (actual failure).
	if err != nil && stdout.Len() == 0 {
		return nil, ExitCodeFromError(err), NewLinterError(config.Command, config.Language, ErrLinterFailed).
			WithOutput(stderr.String())
	}

	return stdout.Bytes(), ExitCodeFromError(err), nil
}

// parseOutput parses linter output based on language.
func (r *Runner) parseOutput(language string, output []byte) ([]Issue, error) {
	// Skip empty output
	if len(bytes.TrimSpace(output)) == 0 {
		return nil, nil
	}

	parser := GetParser(language)
	if parser == nil {
		return nil, fmt.Errorf("no parser for language: %s", language)
	}

	return parser(output)
}

// configTimeout returns the config timeout with a fallback.
func configTimeout(config *LinterConfig) time.Duration {
	if config.Timeout > 0 {
		return config.Timeout
	}
	return 2 * time.Minute
}

// Configs returns the config registry for customization.
func (r *Runner) Configs() *ConfigRegistry {
	return r.configs
}

// Policies returns the policy registry for customization.
func (r *Runner) Policies() *PolicyRegistry {
	return r.policies
}
