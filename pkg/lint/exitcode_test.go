// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lint

import (
	"errors"
	"os/exec"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		exitCode int
		want     int
	}{
		{0, ExitOK},
		{1, ExitFailure},
		{2, ExitFailure},  // flake8 usage error
		{17, ExitFailure}, // historical tool quirk
		{127, ExitFailure},
		{-1, ExitFailure},
		{255, ExitFailure},
	}

	for _, tt := range tests {
		if got := Normalize(tt.exitCode); got != tt.want {
			t.Errorf("Normalize(%d) = %d, want %d", tt.exitCode, got, tt.want)
		}
	}
}

func TestExitCodeFromError_Nil(t *testing.T) {
	if got := ExitCodeFromError(nil); got != 0 {
		t.Errorf("ExitCodeFromError(nil) = %d, want 0", got)
	}
}

func TestExitCodeFromError_PlainError(t *testing.T) {
	if got := ExitCodeFromError(errors.New("boom")); got != 1 {
		t.Errorf("ExitCodeFromError(plain) = %d, want 1", got)
	}
}

func TestExitCodeFromError_ExitError(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	err := exec.Command("sh", "-c", "exit 3").Run()
	if err == nil {
		t.Fatal("expected command to fail")
	}

	if got := ExitCodeFromError(err); got != 3 {
		t.Errorf("ExitCodeFromError = %d, want 3", got)
	}
}

func TestIsExitError(t *testing.T) {
	if isExitError(nil) {
		t.Error("isExitError(nil) = true")
	}
	if isExitError(errors.New("boom")) {
		t.Error("plain error reported as exit error")
	}

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	runErr := exec.Command("sh", "-c", "exit 2").Run()
	if !isExitError(runErr) {
		t.Error("real exit status not reported as exit error")
	}
}
