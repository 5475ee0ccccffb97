// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lint

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// DEFAULT LINTER CONFIGS
// =============================================================================

// DefaultPythonConfig is the configuration for flake8.
//
// Description:
//
//	flake8 wraps pyflakes, pycodestyle, and mccabe behind one command.
//	Its default text output doubles as its machine format
//	(path:line:col: CODE message), so gate and report mode share the
//	same invocation. Exit status is 1 when violations are found.
var DefaultPythonConfig = LinterConfig{
	Language:   "python",
	Command:    "flake8",
	Args:       []string{"."},
	Extensions: []string{".py", ".pyi"},
	Timeout:    120 * time.Second,
	MinVersion: "3.8.0",
}

// DefaultGoConfig is the configuration for golangci-lint.
//
// Description:
//
//	golangci-lint is the standard Go linter aggregator. Gate mode uses
//	the native text output and exit status; report mode switches to the
//	JSON envelope with --issues-exit-code=0 so findings never look like
//	a crashed tool.
var DefaultGoConfig = LinterConfig{
	Language: "go",
	Command:  "golangci-lint",
	Args: []string{
		"run",
		"--timeout=2m",
		"./...",
	},
	ReportArgs: []string{
		"run",
		"--out-format=json",
		"--issues-exit-code=0",
		"--timeout=2m",
		"./...",
	},
	Extensions: []string{".go"},
	Timeout:    3 * time.Minute,
	MinVersion: "1.50.0",
}

// DefaultTSConfig is the configuration for ESLint (TypeScript/JavaScript).
//
// Description:
//
//	ESLint is the standard linter for JavaScript and TypeScript.
//	Note: ESLint requires a project config (eslint.config.js or
//	.eslintrc) to work properly.
var DefaultTSConfig = LinterConfig{
	Language: "typescript",
	Command:  "eslint",
	Args: []string{
		"--no-error-on-unmatched-pattern",
		".",
	},
	ReportArgs: []string{
		"--format=json",
		"--no-error-on-unmatched-pattern",
		".",
	},
	Extensions: []string{".ts", ".tsx", ".mts", ".cts"},
	Timeout:    2 * time.Minute,
	MinVersion: "8.0.0",
}

// DefaultJSConfig is an alias for the TypeScript config (same linter).
var DefaultJSConfig = LinterConfig{
	Language: "javascript",
	Command:  "eslint",
	Args: []string{
		"--no-error-on-unmatched-pattern",
		".",
	},
	ReportArgs: []string{
		"--format=json",
		"--no-error-on-unmatched-pattern",
		".",
	},
	Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
	Timeout:    2 * time.Minute,
	MinVersion: "8.0.0",
}

// =============================================================================
// CONFIG REGISTRY
// =============================================================================

// ConfigRegistry manages linter configurations for different languages.
//
// Thread Safety: Safe for concurrent use after initialization.
type ConfigRegistry struct {
	mu      sync.RWMutex
	configs map[string]*LinterConfig

	// extensionMap maps file extensions to languages for quick lookup.
	extensionMap map[string]string
}

// NewConfigRegistry creates a new registry with default configurations.
func NewConfigRegistry() *ConfigRegistry {
	r := &ConfigRegistry{
		configs:      make(map[string]*LinterConfig),
		extensionMap: make(map[string]string),
	}
	r.registerDefaults()
	return r
}

// registerDefaults adds the default linter configurations.
func (r *ConfigRegistry) registerDefaults() {
	r.Register(&DefaultPythonConfig)
	r.Register(&DefaultGoConfig)
	r.Register(&DefaultTSConfig)
	r.Register(&DefaultJSConfig)
}

// Register adds or updates a linter configuration.
//
// Description:
//
//	Registers a linter configuration for a language.
//	Also updates the extension map for language detection.
//
// Inputs:
//
//	config - The linter configuration to register
//
// Thread Safety: Safe for concurrent use.
func (r *ConfigRegistry) Register(config *LinterConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.configs[config.Language] = config.Clone()

	// Update extension map
	for _, ext := range config.Extensions {
		r.extensionMap[ext] = config.Language
	}
}

// Get returns the configuration for a language.
//
// Description:
//
//	Returns a clone of the configuration for thread safety.
//	Returns nil if no configuration exists for the language.
//
// Inputs:
//
//	language - The language identifier (e.g., "python", "go")
//
// Outputs:
//
//	*LinterConfig - The configuration, or nil if not found
//
// Thread Safety: Safe for concurrent use.
func (r *ConfigRegistry) Get(language string) *LinterConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	config, ok := r.configs[language]
	if !ok {
		return nil
	}
	return config.Clone()
}

// GetByExtension returns the configuration for a file extension.
//
// Description:
//
//	Looks up the language from the extension and returns the config.
//	Returns nil if no linter handles the extension.
//
// Inputs:
//
//	ext - File extension including dot (e.g., ".py", ".go")
//
// Outputs:
//
//	*LinterConfig - The configuration, or nil if not found
//
// Thread Safety: Safe for concurrent use.
func (r *ConfigRegistry) GetByExtension(ext string) *LinterConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lang, ok := r.extensionMap[ext]
	if !ok {
		return nil
	}

	config, ok := r.configs[lang]
	if !ok {
		return nil
	}
	return config.Clone()
}

// Languages returns all registered language names.
//
// Thread Safety: Safe for concurrent use.
func (r *ConfigRegistry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	langs := make([]string, 0, len(r.configs))
	for lang := range r.configs {
		langs = append(langs, lang)
	}
	return langs
}

// SetAvailable marks a linter as available or unavailable.
//
// Description:
//
//	Updates the Available flag for a linter configuration.
//	Called by the runner after detecting installed linters.
//
// Inputs:
//
//	language - The language identifier
//	available - Whether the linter is available
//
// Thread Safety: Safe for concurrent use.
func (r *ConfigRegistry) SetAvailable(language string, available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if config, ok := r.configs[language]; ok {
		config.Available = available
	}
}

// =============================================================================
// LANGUAGE DETECTION
// =============================================================================

// LanguageFromPath detects the language from a file path.
//
// Description:
//
//	Determines the programming language based on file extension.
//	Returns empty string for unknown extensions.
//
// Inputs:
//
//	filePath - Path to the file (can be relative or absolute)
//
// Outputs:
//
//	string - Language identifier (e.g., "python", "go") or empty string
func LanguageFromPath(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".py", ".pyi":
		return "python"
	case ".go":
		return "go"
	case ".ts", ".tsx", ".mts", ".cts":
		return "typescript"
	case ".js", ".jsx", ".mjs", ".cjs":
		return "javascript"
	default:
		return ""
	}
}

// DetectLanguage picks the dominant language of a project directory.
//
// Description:
//
//	Walks the top two levels of the tree counting files per language
//	and returns the most common one. Hidden directories, virtualenvs,
//	and vendor trees are skipped. Returns empty string when nothing
//	lintable is found.
//
// Inputs:
//
//	dir - Project directory to inspect
//
// Outputs:
//
//	string - Language identifier or empty string
func DetectLanguage(dir string) string {
	counts := make(map[string]int)

	var walk func(d string, depth int)
	walk = func(d string, depth int) {
		if depth > 2 {
			return
		}
		entries, err := os.ReadDir(d)
		if err != nil {
			return
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() {
				if skipDirName(name) {
					continue
				}
				walk(filepath.Join(d, name), depth+1)
				continue
			}
			if lang := LanguageFromPath(name); lang != "" {
				counts[lang]++
			}
		}
	}
	walk(dir, 0)

	best := ""
	bestCount := 0
	for lang, count := range counts {
		if count > bestCount {
			best = lang
			bestCount = count
		}
	}
	return best
}

// skipDirName reports whether a directory should be excluded from language
// detection and watching.
func skipDirName(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "venv", "node_modules", "vendor", "__pycache__", "dist", "build":
		return true
	}
	return false
}
