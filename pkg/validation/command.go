// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for configuration-provided values that end
// up in subprocess invocations. Linters run through exec without a shell, but
// a command name carrying path separators, whitespace, or shell
// metacharacters is a misconfiguration; these validators reject it before
// PATH resolution.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// commandPattern matches bare linter executable names.
// Allows: letters, digits, dots (python3.11), underscores, plus signs (g++),
// hyphens (golangci-lint)
// Max length: 64 characters
var commandPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._+\-]{0,63}$`)

// languagePattern matches language identifiers used for registry lookups.
// Allows: lowercase letters, digits, plus signs (c++), underscores, hyphens
// Max length: 32 characters
var languagePattern = regexp.MustCompile(`^[a-z][a-z0-9+_\-]{0,31}$`)

// ValidateCommand validates a linter executable name before PATH resolution.
//
// Valid commands:
//   - 1-64 characters
//   - Letters A-Z a-z, digits 0-9
//   - Dots (.) for versioned names like python3.11
//   - Underscores, plus signs (g++), hyphens (golangci-lint)
//   - No path separators, whitespace, or shell metacharacters
//
// Returns an error if the command is invalid.
//
// Example:
//
//	if err := validation.ValidateCommand(cfg.Command); err != nil {
//	    return fmt.Errorf("invalid linter config: %w", err)
//	}
//	// Safe to resolve with exec.LookPath
func ValidateCommand(command string) error {
	if command == "" {
		return fmt.Errorf("command cannot be empty")
	}

	if !commandPattern.MatchString(command) {
		return fmt.Errorf("invalid command format: %q (must be 1-64 alphanumeric chars, dots, underscores, plus signs, or hyphens)", command)
	}

	return nil
}

// ValidateLanguage validates a language identifier before registry lookup.
//
// Valid languages:
//   - 1-32 characters
//   - Lowercase letters a-z, digits 0-9
//   - Plus signs (c++), underscores, hyphens
//
// Returns an error if the language is invalid.
func ValidateLanguage(language string) error {
	if language == "" {
		return fmt.Errorf("language cannot be empty")
	}

	if !languagePattern.MatchString(language) {
		return fmt.Errorf("invalid language format: %q (must be 1-32 lowercase alphanumeric chars, plus signs, underscores, or hyphens)", language)
	}

	return nil
}

// SanitizeLanguage normalizes and validates a language identifier.
// Returns the lowercase language if valid, or an error if invalid.
//
// Use this when you need both validation and normalization:
//
//	lang, err := validation.SanitizeLanguage(userInput)
//	if err != nil {
//	    return err
//	}
//	// lang is lowercase and validated
func SanitizeLanguage(language string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(language))
	if err := ValidateLanguage(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}
