// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lint

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestFindVenv(t *testing.T) {
	dir := t.TempDir()

	if _, found := FindVenv(dir); found {
		t.Error("found a virtualenv in an empty directory")
	}

	venvBin := filepath.Join(dir, "venv", "bin")
	if err := os.MkdirAll(venvBin, 0o755); err != nil {
		t.Fatal(err)
	}

	venv, found := FindVenv(dir)
	if !found {
		t.Fatal("virtualenv not found")
	}
	if !filepath.IsAbs(venv) {
		t.Errorf("venv path %q is not absolute", venv)
	}
	if filepath.Base(venv) != "venv" {
		t.Errorf("venv path = %q, want .../venv", venv)
	}
}

func TestFindVenv_DotVenv(t *testing.T) {
	dir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(dir, ".venv", "bin"), 0o755); err != nil {
		t.Fatal(err)
	}

	venv, found := FindVenv(dir)
	if !found {
		t.Fatal(".venv not found")
	}
	if filepath.Base(venv) != ".venv" {
		t.Errorf("venv path = %q, want .../.venv", venv)
	}
}

func TestFindVenv_PrefersVenvOverDotVenv(t *testing.T) {
	dir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(dir, "venv", "bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, ".venv", "bin"), 0o755); err != nil {
		t.Fatal(err)
	}

	venv, found := FindVenv(dir)
	if !found {
		t.Fatal("virtualenv not found")
	}
	if filepath.Base(venv) != "venv" {
		t.Errorf("venv path = %q, want venv preferred over .venv", venv)
	}
}

func TestFindVenv_RequiresBinDir(t *testing.T) {
	dir := t.TempDir()

	// A bare "venv" directory without bin/ is not a usable virtualenv.
	if err := os.MkdirAll(filepath.Join(dir, "venv"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, found := FindVenv(dir); found {
		t.Error("directory without bin/ treated as a virtualenv")
	}
}

func TestPrepareEnv_NoVenv(t *testing.T) {
	dir := t.TempDir()

	env, activated := PrepareEnv(dir)
	if activated {
		t.Error("activated reported without a virtualenv")
	}
	if len(env) == 0 {
		t.Error("expected ambient environment to be returned")
	}
}

func TestPrepareEnv_InjectsVenv(t *testing.T) {
	dir := t.TempDir()
	venvBin := filepath.Join(dir, "venv", "bin")
	if err := os.MkdirAll(venvBin, 0o755); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PYTHONHOME", "/should/be/dropped")
	t.Setenv("VIRTUAL_ENV", "/stale/venv")

	env, activated := PrepareEnv(dir)
	if !activated {
		t.Fatal("virtualenv not activated")
	}

	var gotPath, gotVenv string
	for _, kv := range env {
		key, value, _ := strings.Cut(kv, "=")
		switch key {
		case "PATH":
			gotPath = value
		case "VIRTUAL_ENV":
			gotVenv = value
		case "PYTHONHOME":
			t.Errorf("PYTHONHOME leaked into subprocess env: %q", kv)
		}
	}

	absVenv, _ := filepath.Abs(filepath.Join(dir, "venv"))
	if gotVenv != absVenv {
		t.Errorf("VIRTUAL_ENV = %q, want %q", gotVenv, absVenv)
	}

	wantPrefix := filepath.Join(absVenv, "bin") + string(os.PathListSeparator)
	if !strings.HasPrefix(gotPath, wantPrefix) {
		t.Errorf("PATH = %q, want prefix %q", gotPath, wantPrefix)
	}
}

func TestEnvironWithout(t *testing.T) {
	t.Setenv("SALTLINE_TEST_DROP", "1")
	t.Setenv("SALTLINE_TEST_KEEP", "1")

	env := environWithout("SALTLINE_TEST_DROP")

	for _, kv := range env {
		if strings.HasPrefix(kv, "SALTLINE_TEST_DROP=") {
			t.Error("dropped key still present")
		}
	}

	found := false
	for _, kv := range env {
		if strings.HasPrefix(kv, "SALTLINE_TEST_KEEP=") {
			found = true
		}
	}
	if !found {
		t.Error("unrelated key was dropped")
	}
}

func TestParseToolVersion(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			name:   "flake8",
			output: "7.1.1 (mccabe: 0.7.0, pycodestyle: 2.12.1, pyflakes: 3.2.0) CPython 3.12.4 on Linux",
			want:   "7.1.1",
		},
		{
			name:   "golangci-lint",
			output: "golangci-lint has version 1.61.0 built with go1.23.1 from abc123 on 2024-09-30",
			want:   "1.61.0",
		},
		{
			name:   "eslint",
			output: "v9.12.0",
			want:   "9.12.0",
		},
		{
			name:   "word starting with v",
			output: "verbose output with no version",
			want:   "",
		},
		{
			name:   "empty",
			output: "",
			want:   "",
		},
		{
			name:   "trailing punctuation",
			output: "tool (version 2.4.1)",
			want:   "2.4.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseToolVersion(tt.output); got != tt.want {
				t.Errorf("parseToolVersion(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}

func TestIsVersionNumber(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"7.1.1", true},
		{"1.2", true},
		{"10.20.30", true},
		{"1", false},
		{"1.2.3.4", false},
		{"1.2a", false},
		{".1.2", false},
		{"1.2.", false},
		{"", false},
		{"abc", false},
	}

	for _, tt := range tests {
		if got := isVersionNumber(tt.input); got != tt.want {
			t.Errorf("isVersionNumber(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestMeetsMinVersion(t *testing.T) {
	tests := []struct {
		version string
		min     string
		want    bool
	}{
		{"7.1.1", "3.8.0", true},
		{"3.8.0", "3.8.0", true},
		{"3.7.9", "3.8.0", false},
		{"1.61.0", "1.50.0", true},
		{"1.49.0", "1.50.0", false},
		{"3.8", "3.8.0", true},
		{"weird", "3.8.0", true}, // unparseable passes
		{"7.1.1", "weird", true}, // unparseable passes
	}

	for _, tt := range tests {
		got := MeetsMinVersion(tt.version, tt.min)
		if got != tt.want {
			t.Errorf("MeetsMinVersion(%q, %q) = %v, want %v", tt.version, tt.min, got, tt.want)
		}
	}
}

func TestToolVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	dir := t.TempDir()
	writeFakeTool(t, dir, "fakever", "#!/bin/sh\necho \"7.1.1 (mccabe: 0.7.0) CPython 3.12.4 on Linux\"\n")
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	version, err := ToolVersion(context.Background(), "fakever")
	if err != nil {
		t.Fatalf("ToolVersion failed: %v", err)
	}
	if version != "7.1.1" {
		t.Errorf("version = %q, want 7.1.1", version)
	}
}

func TestToolVersion_CommandFails(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	dir := t.TempDir()
	writeFakeTool(t, dir, "brokenver", "#!/bin/sh\necho \"broken\" >&2\nexit 1\n")
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	if _, err := ToolVersion(context.Background(), "brokenver"); err == nil {
		t.Error("expected error from failing tool")
	}
}

func TestRunner_ProbeTools_NothingInstalled(t *testing.T) {
	// Empty PATH means no linter can be resolved.
	t.Setenv("PATH", t.TempDir())

	runner := NewRunner()
	statuses := runner.ProbeTools(context.Background())

	if len(statuses) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(statuses))
	}

	wantOrder := []string{"go", "javascript", "python", "typescript"}
	for i, status := range statuses {
		if status.Language != wantOrder[i] {
			t.Errorf("statuses[%d].Language = %q, want %q", i, status.Language, wantOrder[i])
		}
		if status.Available {
			t.Errorf("%s reported available with empty PATH", status.Language)
		}
		if !status.VersionOK {
			t.Errorf("%s VersionOK = false for an uninstalled tool", status.Language)
		}
	}
}

func TestRunner_ProbeTools_FakeFlake8(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	dir := t.TempDir()
	writeFakeTool(t, dir, "flake8", "#!/bin/sh\necho \"7.1.1 (mccabe: 0.7.0) CPython 3.12.4 on Linux\"\n")
	t.Setenv("PATH", dir)

	runner := NewRunner()
	statuses := runner.ProbeTools(context.Background())

	var python *ToolStatus
	for i := range statuses {
		if statuses[i].Language == "python" {
			python = &statuses[i]
		}
	}
	if python == nil {
		t.Fatal("no python status")
	}

	if !python.Available {
		t.Error("fake flake8 not detected")
	}
	if python.Version != "7.1.1" {
		t.Errorf("version = %q, want 7.1.1", python.Version)
	}
	if !python.VersionOK {
		t.Error("7.1.1 should satisfy the 3.8.0 minimum")
	}
}
