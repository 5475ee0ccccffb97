// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"testing"
	"time"

	"github.com/saltline-io/saltline/cmd/saltline/config"
	"github.com/saltline-io/saltline/pkg/lint"
)

// saveLintState snapshots the flag vars and config singleton a test
// mutates, and restores them on cleanup.
func saveLintState(t *testing.T) {
	t.Helper()
	origDir := lintDir
	origLang := lintLanguage
	origTimeout := lintTimeout
	origGlobal := config.Global
	t.Cleanup(func() {
		lintDir = origDir
		lintLanguage = origLang
		lintTimeout = origTimeout
		config.Global = origGlobal
	})
}

// TestResolveLintTarget_Defaults verifies the built-in fallbacks.
func TestResolveLintTarget_Defaults(t *testing.T) {
	saveLintState(t)
	lintDir = ""
	lintLanguage = ""
	config.Global = config.SaltlineConfig{}

	dir, language := resolveLintTarget(nil)
	if dir != "backend" {
		t.Errorf("dir = %q, want backend", dir)
	}
	if language != "python" {
		t.Errorf("language = %q, want python", language)
	}
}

// TestResolveLintTarget_Config verifies config values are picked up.
func TestResolveLintTarget_Config(t *testing.T) {
	saveLintState(t)
	lintDir = ""
	lintLanguage = ""
	config.Global = config.SaltlineConfig{
		Lint: config.LintConfig{ProjectDir: "services/api", Language: "go"},
	}

	dir, language := resolveLintTarget(nil)
	if dir != "services/api" {
		t.Errorf("dir = %q, want services/api", dir)
	}
	if language != "go" {
		t.Errorf("language = %q, want go", language)
	}
}

// TestResolveLintTarget_FlagBeatsConfig verifies flag precedence.
func TestResolveLintTarget_FlagBeatsConfig(t *testing.T) {
	saveLintState(t)
	lintDir = "flagged"
	lintLanguage = "typescript"
	config.Global = config.SaltlineConfig{
		Lint: config.LintConfig{ProjectDir: "services/api", Language: "go"},
	}

	dir, language := resolveLintTarget(nil)
	if dir != "flagged" {
		t.Errorf("dir = %q, want flagged", dir)
	}
	if language != "typescript" {
		t.Errorf("language = %q, want typescript", language)
	}
}

// TestResolveLintTarget_ArgBeatsFlag verifies positional precedence.
func TestResolveLintTarget_ArgBeatsFlag(t *testing.T) {
	saveLintState(t)
	lintDir = "flagged"
	lintLanguage = ""
	config.Global = config.SaltlineConfig{}

	dir, _ := resolveLintTarget([]string{"positional"})
	if dir != "positional" {
		t.Errorf("dir = %q, want positional", dir)
	}
}

// TestApplyLintTimeout_Flag verifies the flag pushes into the registry.
func TestApplyLintTimeout_Flag(t *testing.T) {
	saveLintState(t)
	lintTimeout = 45
	config.Global = config.SaltlineConfig{}

	runner := lint.NewRunner()
	applyLintTimeout(runner, "python")

	cfg := runner.Configs().Get("python")
	if cfg == nil {
		t.Fatal("python config missing")
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", cfg.Timeout)
	}
}

// TestApplyLintTimeout_FlagBeatsConfig verifies override order.
func TestApplyLintTimeout_FlagBeatsConfig(t *testing.T) {
	saveLintState(t)
	lintTimeout = 30
	config.Global = config.SaltlineConfig{
		Lint: config.LintConfig{TimeoutSeconds: 300},
	}

	runner := lint.NewRunner()
	applyLintTimeout(runner, "python")

	cfg := runner.Configs().Get("python")
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want flag's 30s", cfg.Timeout)
	}
}

// TestApplyLintTimeout_UnknownLanguage verifies a registry miss is harmless.
func TestApplyLintTimeout_UnknownLanguage(t *testing.T) {
	saveLintState(t)
	lintTimeout = 30

	runner := lint.NewRunner()
	applyLintTimeout(runner, "cobol")
}

// TestApplyLintTimeout_Unset verifies the tool default survives.
func TestApplyLintTimeout_Unset(t *testing.T) {
	saveLintState(t)
	lintTimeout = 0
	config.Global = config.SaltlineConfig{}

	runner := lint.NewRunner()
	before := runner.Configs().Get("python").Timeout
	applyLintTimeout(runner, "python")
	after := runner.Configs().Get("python").Timeout

	if before != after {
		t.Errorf("Timeout changed from %v to %v with nothing set", before, after)
	}
}

// TestLintCommandRegistered verifies the command tree wiring.
func TestLintCommandRegistered(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		if c.Name() == "lint" {
			for _, flag := range []string{"dir", "language", "json", "summary", "watch", "strict-env", "timeout"} {
				if c.Flags().Lookup(flag) == nil {
					t.Errorf("lint command missing --%s flag", flag)
				}
			}
			return
		}
	}
	t.Fatal("lint command not registered on root")
}
