// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import "time"

// CurrentConfigVersion is written into newly created config files.
const CurrentConfigVersion = "1.0"

// SaltlineConfig is the CLI configuration persisted at
// ~/.saltline/saltline.yaml.
type SaltlineConfig struct {
	// Version tracks the config schema for future migrations.
	Version string `yaml:"version"`

	// Lint controls the lint gate defaults.
	Lint LintConfig `yaml:"lint"`

	// Backend points the CLI at a running backend service.
	Backend BackendConfig `yaml:"backend"`
}

// LintConfig holds the lint command defaults. Flags override these.
type LintConfig struct {
	// ProjectDir is the directory linted when no target is given.
	ProjectDir string `yaml:"project_dir"`

	// Language selects the linter (e.g. "python", "go"). Empty means
	// the lint command detects the language from the project tree.
	Language string `yaml:"language"`

	// TimeoutSeconds bounds a single linter run. Zero keeps the
	// linter's built-in default.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// StrictEnv makes a missing virtualenv fail the gate.
	StrictEnv bool `yaml:"strict_env"`
}

// BackendConfig holds the backend service connection settings.
type BackendConfig struct {
	URL                  string `yaml:"url"`
	HealthTimeoutSeconds int    `yaml:"health_timeout_seconds"`
}

// Timeout returns the lint timeout as a duration, zero when unset.
func (c LintConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HealthTimeout returns the health probe timeout with a sane floor.
func (c BackendConfig) HealthTimeout() time.Duration {
	if c.HealthTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.HealthTimeoutSeconds) * time.Second
}

// DefaultConfig returns the config written on first run.
func DefaultConfig() SaltlineConfig {
	return SaltlineConfig{
		Version: CurrentConfigVersion,
		Lint: LintConfig{
			ProjectDir:     "backend",
			Language:       "python",
			TimeoutSeconds: 120,
			StrictEnv:      false,
		},
		Backend: BackendConfig{
			URL:                  "http://localhost:8000",
			HealthTimeoutSeconds: 5,
		},
	}
}

// normalize fills connection fields an older or hand-edited config file
// left empty. Lint fields stay as written; the lint command resolves
// empty values itself, and an empty language there means tree detection.
func (c *SaltlineConfig) normalize() {
	def := DefaultConfig()
	if c.Version == "" {
		c.Version = def.Version
	}
	if c.Backend.URL == "" {
		c.Backend.URL = def.Backend.URL
	}
	if c.Backend.HealthTimeoutSeconds <= 0 {
		c.Backend.HealthTimeoutSeconds = def.Backend.HealthTimeoutSeconds
	}
}
