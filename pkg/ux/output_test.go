// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

// Helper to capture stdout
func captureStdout(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// Helper to capture stderr
func captureStderr(f func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	f()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// =============================================================================
// Icon.Render Tests
// =============================================================================

func TestIcon_Render_Styled(t *testing.T) {
	styled := []Icon{IconSuccess, IconWarning, IconError, IconPending}
	for _, icon := range styled {
		if icon.Render() == "" {
			t.Errorf("expected non-empty result for %q", icon)
		}
	}
}

func TestIcon_Render_Default(t *testing.T) {
	// Icons without specific styling render as themselves
	icons := []Icon{IconArrow, IconBullet, IconWatch}
	for _, icon := range icons {
		result := icon.Render()
		if result != string(icon) {
			t.Errorf("expected %q for %q, got %q", string(icon), icon, result)
		}
	}
}

// =============================================================================
// Title Tests
// =============================================================================

func TestTitle_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStdout(func() {
		Title("Saltline Doctor")
	})

	// In machine mode, Title should output nothing
	if output != "" {
		t.Errorf("expected no output in machine mode, got %q", output)
	}
}

func TestTitle_StandardMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityStandard)

	output := captureStdout(func() {
		Title("Saltline Doctor")
	})

	if !strings.Contains(output, "Saltline Doctor") {
		t.Errorf("expected title text in output, got %q", output)
	}
}

// =============================================================================
// Success / Warning / Error / Info Tests
// =============================================================================

func TestSuccess_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStdout(func() {
		Success("lint passed")
	})

	if output != "OK: lint passed\n" {
		t.Errorf("expected 'OK: lint passed', got %q", output)
	}
}

func TestSuccess_StandardMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityStandard)

	output := captureStdout(func() {
		Success("lint passed")
	})

	if !strings.Contains(output, "lint passed") {
		t.Errorf("expected message in output, got %q", output)
	}
}

func TestWarning_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStderr(func() {
		Warning("venv not found")
	})

	if output != "WARN: venv not found\n" {
		t.Errorf("expected 'WARN: venv not found', got %q", output)
	}
}

func TestError_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStderr(func() {
		Error("flake8 not installed")
	})

	if output != "ERROR: flake8 not installed\n" {
		t.Errorf("expected 'ERROR: flake8 not installed', got %q", output)
	}
}

func TestError_MinimalMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMinimal)

	output := captureStdout(func() {
		Error("flake8 not installed")
	})

	if !strings.Contains(output, "flake8 not installed") {
		t.Errorf("expected message in output, got %q", output)
	}
}

func TestInfo_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStdout(func() {
		Info("watching for changes")
	})

	if output != "watching for changes\n" {
		t.Errorf("expected plain message, got %q", output)
	}
}

func TestMuted_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStdout(func() {
		Muted("details")
	})

	if output != "" {
		t.Errorf("expected no output in machine mode, got %q", output)
	}
}

// =============================================================================
// Box Tests
// =============================================================================

func TestBox_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStdout(func() {
		Box("Version", "saltline 1.0.0")
	})

	if output != "Version: saltline 1.0.0\n" {
		t.Errorf("expected plain key-value, got %q", output)
	}
}

func TestBox_StandardMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityStandard)

	output := captureStdout(func() {
		Box("Version", "saltline 1.0.0")
	})

	if !strings.Contains(output, "Version") || !strings.Contains(output, "saltline 1.0.0") {
		t.Errorf("expected box content in output, got %q", output)
	}
}

func TestWarningBox_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStderr(func() {
		WarningBox("Env", "no virtualenv found")
	})

	if output != "WARN Env: no virtualenv found\n" {
		t.Errorf("expected plain warning, got %q", output)
	}
}
