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
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// venvDirNames are the virtualenv directory names probed under a project
// directory, in order of preference.
var venvDirNames = []string{"venv", ".venv"}

// =============================================================================
// ENVIRONMENT PREPARATION
// =============================================================================

// FindVenv locates a virtualenv under the project directory.
//
// Description:
//
//	Probes the conventional virtualenv locations ("venv", then ".venv")
//	and returns the absolute path of the first one that has a bin
//	directory.
//
// Inputs:
//
//	projectDir - The project directory to probe
//
// Outputs:
//
//	string - Absolute path to the virtualenv root, or empty
//	bool - True if a virtualenv was found
func FindVenv(projectDir string) (string, bool) {
	for _, name := range venvDirNames {
		root := filepath.Join(projectDir, name)
		info, err := os.Stat(filepath.Join(root, "bin"))
		if err != nil || !info.IsDir() {
			continue
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			abs = root
		}
		return abs, true
	}
	return "", false
}

// PrepareEnv builds the subprocess environment for a project directory.
//
// Description:
//
//	Reproduces the observable effect of "source venv/bin/activate" on a
//	child process: the virtualenv's bin directory is prepended to PATH,
//	VIRTUAL_ENV points at the virtualenv root, and PYTHONHOME is dropped.
//	Without a virtualenv the ambient environment is returned unchanged.
//	The caller decides whether a missing virtualenv is fatal.
//
// Inputs:
//
//	projectDir - The project directory to prepare for
//
// Outputs:
//
//	[]string - Environment for the linter subprocess
//	bool - True if a virtualenv was found and injected
func PrepareEnv(projectDir string) ([]string, bool) {
	venv, ok := FindVenv(projectDir)
	if !ok {
		return os.Environ(), false
	}

	env := environWithout("PATH", "VIRTUAL_ENV", "PYTHONHOME")
	env = append(env,
		"VIRTUAL_ENV="+venv,
		"PATH="+filepath.Join(venv, "bin")+string(os.PathListSeparator)+os.Getenv("PATH"),
	)
	return env, true
}

// environWithout returns a copy of os.Environ with the named keys removed.
func environWithout(keys ...string) []string {
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}

	ambient := os.Environ()
	env := make([]string, 0, len(ambient))
	for _, kv := range ambient {
		key, _, _ := strings.Cut(kv, "=")
		if drop[key] {
			continue
		}
		env = append(env, kv)
	}
	return env
}

// =============================================================================
// TOOL PREFLIGHT
// =============================================================================

// ToolStatus describes the installed state of one linter binary.
//
// Thread Safety: Immutable after creation.
type ToolStatus struct {
	// Language is the language the tool lints.
	Language string `json:"language"`

	// Command is the binary name that was probed.
	Command string `json:"command"`

	// Available is true if the binary was found in PATH.
	Available bool `json:"available"`

	// Path is the resolved binary path when available.
	Path string `json:"path,omitempty"`

	// Version is the detected tool version, when it could be parsed.
	Version string `json:"version,omitempty"`

	// VersionOK is true when no minimum is configured, the version could
	// not be determined, or the detected version meets the minimum.
	VersionOK bool `json:"version_ok"`
}

// ProbeTools inspects every registered linter binary.
//
// Description:
//
//	For each configured language, resolves the binary in PATH and asks
//	it for its version. Used by the doctor command and available to
//	callers that want a preflight before gating.
//
// Inputs:
//
//	ctx - Context for cancellation
//
// Outputs:
//
//	[]ToolStatus - One entry per registered language, sorted by language
//
// Thread Safety: Safe for concurrent use.
func (r *Runner) ProbeTools(ctx context.Context) []ToolStatus {
	langs := r.configs.Languages()
	sort.Strings(langs)

	statuses := make([]ToolStatus, 0, len(langs))
	for _, lang := range langs {
		config := r.configs.Get(lang)
		if config == nil {
			continue
		}

		status := ToolStatus{
			Language:  lang,
			Command:   config.Command,
			VersionOK: true,
		}

		path, err := exec.LookPath(config.Command)
		if err == nil {
			status.Available = true
			status.Path = path

			version, verr := ToolVersion(ctx, config.Command)
			if verr == nil && version != "" {
				status.Version = version
				if config.MinVersion != "" {
					status.VersionOK = MeetsMinVersion(version, config.MinVersion)
				}
			}
		}

		statuses = append(statuses, status)
	}
	return statuses
}

// ToolVersion asks a linter binary for its version.
//
// Description:
//
//	Runs "<command> --version" with a short timeout and extracts the
//	first dotted version number from the output. Tools vary in where
//	they put it: flake8 leads with it, golangci-lint buries it mid
//	sentence, eslint prefixes it with "v".
//
// Inputs:
//
//	ctx - Context for cancellation
//	command - The binary name (must be in PATH)
//
// Outputs:
//
//	string - The version (e.g., "7.1.1"), or empty if not found
//	error - Non-nil if the command failed to run
func ToolVersion(ctx context.Context, command string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, command, "--version")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s --version: %w: %s", command, err, stderr.String())
	}

	return parseToolVersion(stdout.String()), nil
}

// parseToolVersion extracts the first dotted version number from output.
func parseToolVersion(output string) string {
	for _, field := range strings.Fields(output) {
		candidate := strings.TrimPrefix(field, "v")
		candidate = strings.TrimRight(candidate, ",;)")
		if isVersionNumber(candidate) {
			return candidate
		}
	}
	return ""
}

// isVersionNumber reports whether s looks like a dotted version (1.2 or 1.2.3).
func isVersionNumber(s string) bool {
	dots := 0
	for _, r := range s {
		switch {
		case r == '.':
			dots++
		case r < '0' || r > '9':
			return false
		}
	}
	return dots >= 1 && dots <= 2 && s[0] != '.' && s[len(s)-1] != '.'
}

// MeetsMinVersion reports whether a detected version satisfies a minimum.
//
// Description:
//
//	Compares semver-style versions. Unparseable versions pass rather
//	than fail, so a tool with an unusual version string never blocks
//	the gate.
//
// Inputs:
//
//	version - The detected version (e.g., "7.1.1")
//	min - The required minimum (e.g., "3.8.0")
//
// Outputs:
//
//	bool - True if version >= min or either side is unparseable
func MeetsMinVersion(version, min string) bool {
	v := "v" + strings.TrimPrefix(version, "v")
	m := "v" + strings.TrimPrefix(min, "v")
	if !semver.IsValid(v) || !semver.IsValid(m) {
		return true
	}
	return semver.Compare(v, m) >= 0
}
