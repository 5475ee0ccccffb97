// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// TestDefaultConfig verifies the defaults match the documented contract.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != CurrentConfigVersion {
		t.Errorf("Version = %q, want %q", cfg.Version, CurrentConfigVersion)
	}
	if cfg.Lint.ProjectDir != "backend" {
		t.Errorf("Lint.ProjectDir = %q, want %q", cfg.Lint.ProjectDir, "backend")
	}
	if cfg.Lint.Language != "python" {
		t.Errorf("Lint.Language = %q, want %q", cfg.Lint.Language, "python")
	}
	if cfg.Lint.TimeoutSeconds != 120 {
		t.Errorf("Lint.TimeoutSeconds = %d, want 120", cfg.Lint.TimeoutSeconds)
	}
	if cfg.Lint.StrictEnv {
		t.Error("Lint.StrictEnv should default to false")
	}
	if cfg.Backend.URL != "http://localhost:8000" {
		t.Errorf("Backend.URL = %q, want http://localhost:8000", cfg.Backend.URL)
	}
	if cfg.Backend.HealthTimeoutSeconds != 5 {
		t.Errorf("Backend.HealthTimeoutSeconds = %d, want 5", cfg.Backend.HealthTimeoutSeconds)
	}
}

// TestConfigYAMLUnmarshal verifies a hand-written file parses into the
// expected fields.
func TestConfigYAMLUnmarshal(t *testing.T) {
	doc := `
version: "1.0"
lint:
  project_dir: services/api
  language: go
  timeout_seconds: 60
  strict_env: true
backend:
  url: http://backend:8000
  health_timeout_seconds: 10
`
	var cfg SaltlineConfig
	if err := yaml.Unmarshal([]byte(doc), &cfg); err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}

	if cfg.Lint.ProjectDir != "services/api" {
		t.Errorf("Lint.ProjectDir = %q, want services/api", cfg.Lint.ProjectDir)
	}
	if cfg.Lint.Language != "go" {
		t.Errorf("Lint.Language = %q, want go", cfg.Lint.Language)
	}
	if !cfg.Lint.StrictEnv {
		t.Error("Lint.StrictEnv should be true")
	}
	if cfg.Backend.URL != "http://backend:8000" {
		t.Errorf("Backend.URL = %q, want http://backend:8000", cfg.Backend.URL)
	}
	if cfg.Backend.HealthTimeoutSeconds != 10 {
		t.Errorf("Backend.HealthTimeoutSeconds = %d, want 10", cfg.Backend.HealthTimeoutSeconds)
	}
}

// TestLintTimeout verifies duration conversion.
func TestLintTimeout(t *testing.T) {
	c := LintConfig{TimeoutSeconds: 60}
	if got := c.Timeout(); got != 60*time.Second {
		t.Errorf("Timeout() = %v, want 60s", got)
	}

	c = LintConfig{}
	if got := c.Timeout(); got != 0 {
		t.Errorf("Timeout() = %v, want 0 for unset", got)
	}
}

// TestHealthTimeout verifies the floor.
func TestHealthTimeout(t *testing.T) {
	c := BackendConfig{HealthTimeoutSeconds: 10}
	if got := c.HealthTimeout(); got != 10*time.Second {
		t.Errorf("HealthTimeout() = %v, want 10s", got)
	}

	c = BackendConfig{}
	if got := c.HealthTimeout(); got != 5*time.Second {
		t.Errorf("HealthTimeout() = %v, want 5s floor", got)
	}
}

// TestNormalize verifies connection fields are backfilled and lint
// fields stay as written.
func TestNormalize(t *testing.T) {
	cfg := SaltlineConfig{}
	cfg.normalize()

	if cfg.Version != CurrentConfigVersion {
		t.Errorf("Version = %q, want backfilled %q", cfg.Version, CurrentConfigVersion)
	}
	if cfg.Backend.URL == "" {
		t.Error("Backend.URL should be backfilled")
	}

	// An empty language is meaningful (tree detection), so the lint
	// section is left alone.
	if cfg.Lint.ProjectDir != "" || cfg.Lint.Language != "" {
		t.Errorf("lint fields should stay empty, got %+v", cfg.Lint)
	}

	// Explicit values survive.
	cfg = SaltlineConfig{Lint: LintConfig{ProjectDir: "api", Language: "go"}}
	cfg.normalize()
	if cfg.Lint.ProjectDir != "api" || cfg.Lint.Language != "go" {
		t.Errorf("explicit values were overwritten: %+v", cfg.Lint)
	}
}
