// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// fixtureProject creates a small python project tree to lint.
func fixtureProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.py"), []byte("print('ok')\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// installFakeFlake8 writes a fake flake8 script and returns its directory.
func installFakeFlake8(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "flake8"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

// gateEnv builds a hermetic child environment: an isolated HOME so the
// first-run config never lands in the developer's, and PATH holding only
// the fake tool directory.
func gateEnv(t *testing.T, toolDir string) []string {
	t.Helper()

	env := []string{
		"HOME=" + t.TempDir(),
		"PATH=" + toolDir,
	}
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "PATH=") || strings.HasPrefix(kv, "HOME=") {
			continue
		}
		env = append(env, kv)
	}
	return env
}

// runGate executes `saltline lint <dir>` and returns the combined output
// and exit code.
func runGate(t *testing.T, toolDir, projectDir string) (string, int) {
	t.Helper()

	cmd := exec.Command(cliBinary, "lint", projectDir)
	cmd.Env = gateEnv(t, toolDir)

	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("running the gate: %v\n%s", err, out)
		}
		return string(out), exitErr.ExitCode()
	}
	return string(out), 0
}

func TestGate_CleanTree(t *testing.T) {
	requireE2E(t)

	toolDir := installFakeFlake8(t, "#!/bin/sh\nexit 0\n")
	out, code := runGate(t, toolDir, fixtureProject(t))

	if code != 0 {
		t.Errorf("exit code = %d, want 0\n%s", code, out)
	}
}

func TestGate_FindingsForwardedVerbatim(t *testing.T) {
	requireE2E(t)

	finding := "app.py:1:1: F401 'os' imported but unused"
	toolDir := installFakeFlake8(t, "#!/bin/sh\necho \""+finding+"\"\nexit 1\n")

	out, code := runGate(t, toolDir, fixtureProject(t))
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out, finding) {
		t.Errorf("linter output not forwarded:\n%s", out)
	}
}

func TestGate_ToolCrashCollapsesToOne(t *testing.T) {
	requireE2E(t)

	// golangci-lint style: the tool can exit with its own failure codes.
	toolDir := installFakeFlake8(t, "#!/bin/sh\nexit 3\n")
	_, code := runGate(t, toolDir, fixtureProject(t))

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestGate_MissingLinterFailsClosed(t *testing.T) {
	requireE2E(t)

	// Empty PATH: a gate that cannot find its linter must fail, not pass.
	out, code := runGate(t, t.TempDir(), fixtureProject(t))

	if code != 1 {
		t.Errorf("exit code = %d, want 1\n%s", code, out)
	}
}

func TestGate_StderrForwarded(t *testing.T) {
	requireE2E(t)

	toolDir := installFakeFlake8(t, "#!/bin/sh\necho 'config error' >&2\nexit 1\n")
	out, code := runGate(t, toolDir, fixtureProject(t))

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out, "config error") {
		t.Errorf("linter stderr not forwarded:\n%s", out)
	}
}
