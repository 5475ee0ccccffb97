// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// generate_lint_docs generates a markdown reference for the built-in linter
// configurations and rule policies.
//
// Usage:
//
//	go run scripts/generate_lint_docs.go > docs/linters.md
//
// The generated documentation includes:
//   - Supported languages with their gate and report invocations
//   - Rule policies (blocking, warning, ignored patterns)
//   - Extension routing used for language detection
package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/saltline-io/saltline/pkg/lint"
)

func main() {
	configs := lint.NewConfigRegistry()
	policies := lint.NewPolicyRegistry()

	languages := configs.Languages()
	sort.Strings(languages)

	generateMarkdown(configs, policies, languages)
}

// generateMarkdown outputs the full markdown documentation.
func generateMarkdown(configs *lint.ConfigRegistry, policies *lint.PolicyRegistry, languages []string) {
	fmt.Println("# Linter Reference")
	fmt.Println()
	fmt.Println("## Overview")
	fmt.Println()
	fmt.Println("This document is a reference for the linters the lint gate knows how to run.")
	fmt.Println("The built-in configurations and rule policies live in `pkg/lint` and can be")
	fmt.Println("overridden per run through the config registry.")
	fmt.Println()
	fmt.Printf("**Generated:** %s\n", time.Now().Format("2006-01-02 15:04:05 UTC"))
	fmt.Println()

	// Statistics
	linters := make(map[string]bool)
	extensions := 0
	blockRules := 0
	warnRules := 0
	ignoreRules := 0
	for _, lang := range languages {
		cfg := configs.Get(lang)
		if cfg == nil {
			continue
		}
		linters[cfg.Command] = true
		extensions += len(cfg.Extensions)

		if policy := policies.Get(lang); policy != nil {
			blockRules += len(policy.BlockOn)
			warnRules += len(policy.WarnOn)
			ignoreRules += len(policy.Ignore)
		}
	}

	fmt.Println("## Summary Statistics")
	fmt.Println()
	fmt.Println("| Metric | Count |")
	fmt.Println("|--------|-------|")
	fmt.Printf("| Languages | %d |\n", len(languages))
	fmt.Printf("| Distinct Linters | %d |\n", len(linters))
	fmt.Printf("| Routed Extensions | %d |\n", extensions)
	fmt.Printf("| Blocking Rule Patterns | %d |\n", blockRules)
	fmt.Printf("| Warning Rule Patterns | %d |\n", warnRules)
	fmt.Printf("| Ignored Rule Patterns | %d |\n", ignoreRules)
	fmt.Println()

	// Quick reference table
	fmt.Println("---")
	fmt.Println()
	fmt.Println("## Quick Reference")
	fmt.Println()
	fmt.Println("| Language | Linter | Extensions | Timeout | Min Version |")
	fmt.Println("|----------|--------|------------|---------|-------------|")

	for _, lang := range languages {
		cfg := configs.Get(lang)
		if cfg == nil {
			continue
		}

		minVersion := cfg.MinVersion
		if minVersion == "" {
			minVersion = "none"
		}

		fmt.Printf("| `%s` | `%s` | %s | %s | %s |\n",
			lang,
			cfg.Command,
			"`"+strings.Join(cfg.Extensions, "`, `")+"`",
			cfg.Timeout,
			minVersion,
		)
	}
	fmt.Println()

	// Detailed sections per language
	fmt.Println("---")
	fmt.Println()
	for _, lang := range languages {
		cfg := configs.Get(lang)
		if cfg == nil {
			continue
		}
		printLanguageDetails(lang, cfg, policies.Get(lang))
	}

	// Extension routing index
	fmt.Println("---")
	fmt.Println()
	fmt.Println("## Extension Routing")
	fmt.Println()
	fmt.Println("This index maps file extensions to the language whose linter handles them.")
	fmt.Println("Language detection walks the project tree and counts matches per language.")
	fmt.Println()

	extIndex := make(map[string]string)
	for _, lang := range languages {
		cfg := configs.Get(lang)
		if cfg == nil {
			continue
		}
		for _, ext := range cfg.Extensions {
			extIndex[ext] = lang
		}
	}

	exts := make([]string, 0, len(extIndex))
	for ext := range extIndex {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	fmt.Println("| Extension | Language |")
	fmt.Println("|-----------|----------|")
	for _, ext := range exts {
		fmt.Printf("| `%s` | `%s` |\n", ext, extIndex[ext])
	}
	fmt.Println()

	// Footer
	fmt.Println("---")
	fmt.Println()
	fmt.Println("*This document is auto-generated from the built-in registries in `pkg/lint`.*")
	fmt.Println()
	fmt.Println("*To regenerate: `go run scripts/generate_lint_docs.go > docs/linters.md`*")
}

// printLanguageDetails prints the configuration and policy for one language.
func printLanguageDetails(lang string, cfg *lint.LinterConfig, policy *lint.RulePolicy) {
	fmt.Printf("## `%s`\n", lang)
	fmt.Println()

	reportInvocation := "same as gate"
	if len(cfg.ReportArgs) > 0 {
		reportInvocation = "`" + invocation(cfg.Command, cfg.ReportArgs) + "`"
	}

	minVersion := cfg.MinVersion
	if minVersion == "" {
		minVersion = "none"
	}

	fmt.Println("| Property | Value |")
	fmt.Println("|----------|-------|")
	fmt.Printf("| **Linter** | `%s` |\n", cfg.Command)
	fmt.Printf("| **Gate Invocation** | `%s` |\n", invocation(cfg.Command, cfg.Args))
	fmt.Printf("| **Report Invocation** | %s |\n", reportInvocation)
	fmt.Printf("| **Extensions** | `%s` |\n", strings.Join(cfg.Extensions, "`, `"))
	fmt.Printf("| **Timeout** | %s |\n", cfg.Timeout)
	fmt.Printf("| **Min Version** | %s |\n", minVersion)
	fmt.Println()

	if policy == nil {
		fmt.Println("No rule policy registered. Report mode keeps every finding at the")
		fmt.Println("severity the tool assigned.")
		fmt.Println()
		return
	}

	fmt.Println("Gate verdicts follow the tool's own exit status; the policy below only")
	fmt.Println("affects how report mode categorizes findings.")
	fmt.Println()

	printRuleList("Blocking rules", policy.BlockOn)
	printRuleList("Warning rules", policy.WarnOn)
	printRuleList("Ignored rules", policy.Ignore)
}

// printRuleList prints one policy bucket as an inline code list.
func printRuleList(title string, rules []string) {
	if len(rules) == 0 {
		return
	}

	fmt.Printf("**%s:**\n", title)
	fmt.Println()
	fmt.Print("`")
	fmt.Print(strings.Join(rules, "`, `"))
	fmt.Println("`")
	fmt.Println()
}

// invocation renders a command line from a command and its arguments.
func invocation(command string, args []string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}
