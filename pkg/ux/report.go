// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"strings"
	"time"

	"github.com/saltline-io/saltline/pkg/lint"
)

// RenderReport renders a lint result as human-readable text.
//
// Description:
//
//	Produces one line per issue (errors first, then warnings) followed
//	by a summary line. In machine personality the issue lines use the
//	plain "file:line:col: RULE message" form that flake8 itself emits,
//	so scripts can parse the output either way.
//
// Inputs:
//
//	result - The lint result to render. Must not be nil.
//
// Outputs:
//
//	string - The rendered report, ending with a newline.
func RenderReport(result *lint.Result) string {
	if result == nil {
		return ""
	}

	machine := GetPersonality().Level == PersonalityMachine

	var b strings.Builder

	if !result.LinterAvailable {
		if machine {
			fmt.Fprintf(&b, "SKIP: %s not installed\n", result.Linter)
		} else {
			fmt.Fprintf(&b, "%s %s\n",
				IconPending.Render(),
				Styles.Muted.Render(result.Linter+" not installed, lint skipped"))
		}
		return b.String()
	}

	for _, issue := range result.Errors {
		writeIssueLine(&b, issue, IconError, machine)
	}
	for _, issue := range result.Warnings {
		writeIssueLine(&b, issue, IconWarning, machine)
	}

	b.WriteString(renderSummary(result, machine))
	return b.String()
}

// writeIssueLine writes one issue in either styled or plain form.
func writeIssueLine(b *strings.Builder, issue lint.Issue, icon Icon, machine bool) {
	if machine {
		fmt.Fprintf(b, "%s: %s %s\n", issue.Location(), issue.Rule, issue.Message)
		return
	}
	fmt.Fprintf(b, "%s %s %s %s\n",
		icon.Render(),
		Styles.Bold.Render(issue.Location()),
		Styles.Subtitle.Render(issue.Rule),
		issue.Message)
}

// renderSummary builds the trailing summary line.
func renderSummary(result *lint.Result, machine bool) string {
	errs := len(result.Errors)
	warns := len(result.Warnings)
	meta := fmt.Sprintf("(%s, %s)", result.Linter, formatDuration(result.Duration))

	if machine {
		return fmt.Sprintf("SUMMARY: errors=%d warnings=%d linter=%s\n",
			errs, warns, result.Linter)
	}

	if errs == 0 && warns == 0 {
		return fmt.Sprintf("%s %s %s\n",
			IconSuccess.Render(),
			Styles.Success.Render("No issues found"),
			Styles.Muted.Render(meta))
	}

	icon := IconWarning
	if errs > 0 {
		icon = IconError
	}
	return fmt.Sprintf("\n%s %s  %s %s\n",
		icon.Render(),
		Styles.Error.Render(fmt.Sprintf("%d %s", errs, plural("error", errs))),
		Styles.Warning.Render(fmt.Sprintf("%d %s", warns, plural("warning", warns))),
		Styles.Muted.Render(meta))
}

// RenderToolStatuses renders doctor-style output for probed lint tools.
//
// One line per tool:
//
//	✓ python      flake8 7.1.1
//	✗ go          golangci-lint not installed
func RenderToolStatuses(statuses []lint.ToolStatus) string {
	machine := GetPersonality().Level == PersonalityMachine

	var b strings.Builder
	for _, st := range statuses {
		writeToolLine(&b, st, machine)
	}
	return b.String()
}

// writeToolLine writes one probed tool in either styled or plain form.
func writeToolLine(b *strings.Builder, st lint.ToolStatus, machine bool) {
	if machine {
		state := "missing"
		if st.Available {
			state = "ok"
			if !st.VersionOK {
				state = "outdated"
			}
		}
		fmt.Fprintf(b, "%s\t%s\t%s\t%s\n", state, st.Language, st.Command, st.Version)
		return
	}

	switch {
	case !st.Available:
		fmt.Fprintf(b, "%s %-12s %s\n",
			IconError.Render(),
			st.Language,
			Styles.Muted.Render(st.Command+" not installed"))
	case !st.VersionOK:
		fmt.Fprintf(b, "%s %-12s %s %s\n",
			IconWarning.Render(),
			st.Language,
			st.Command,
			Styles.Warning.Render(st.Version+" (below minimum)"))
	default:
		version := st.Version
		if version == "" {
			version = "version unknown"
		}
		fmt.Fprintf(b, "%s %-12s %s %s\n",
			IconSuccess.Render(),
			st.Language,
			st.Command,
			Styles.Muted.Render(version))
	}
}

// formatDuration renders durations compactly (412ms, 1.2s).
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
