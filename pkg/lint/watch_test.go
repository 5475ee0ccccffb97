// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lint

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcher_Validation(t *testing.T) {
	handler := func(result *Result, err error) {}

	_, err := NewWatcher(nil, t.TempDir(), "python", handler, WatchOptions{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil runner: error = %v, want ErrInvalidInput", err)
	}

	_, err = NewWatcher(NewRunner(), t.TempDir(), "python", nil, WatchOptions{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil handler: error = %v, want ErrInvalidInput", err)
	}
}

func TestNewWatcher_DefaultOptions(t *testing.T) {
	w, err := NewWatcher(NewRunner(), t.TempDir(), "python",
		func(result *Result, err error) {}, WatchOptions{})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Stop()

	if w.opts.Debounce != 400*time.Millisecond {
		t.Errorf("Debounce = %v, want 400ms", w.opts.Debounce)
	}
	if w.opts.BufferSize != 1000 {
		t.Errorf("BufferSize = %d, want 1000", w.opts.BufferSize)
	}
	if len(w.opts.IgnorePatterns) == 0 {
		t.Error("IgnorePatterns is empty")
	}
}

func TestDefaultWatchOptions(t *testing.T) {
	opts := DefaultWatchOptions()

	if opts.Debounce != 400*time.Millisecond {
		t.Errorf("Debounce = %v, want 400ms", opts.Debounce)
	}
	if opts.BufferSize != 1000 {
		t.Errorf("BufferSize = %d, want 1000", opts.BufferSize)
	}
}

func TestWatcher_ShouldIgnore(t *testing.T) {
	w := &Watcher{opts: DefaultWatchOptions(), absDir: "/project"}

	tests := []struct {
		path string
		want bool
	}{
		{"/project/app.py.swp", true},
		{"/project/app.py~", true},
		{"/project/cache.pyc", true},
		{"/project/notes.tmp", true},
		{"/project/app.py", false},
		{"/project/src/app.py", false},
		{"/project/venv/lib/site.py", true},
		{"/project/__pycache__/mod.pyc", true},
		{"/project/.git/index.lock", true},
		{"/project/node_modules/pkg/index.js", true},
	}

	for _, tt := range tests {
		if got := w.shouldIgnore(tt.path); got != tt.want {
			t.Errorf("shouldIgnore(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcher_ShouldIgnore_HiddenParent(t *testing.T) {
	// A project living under a hidden parent directory must not have every
	// event ignored; only components inside the project count.
	w := &Watcher{opts: DefaultWatchOptions(), absDir: "/home/user/.config/project"}

	if w.shouldIgnore("/home/user/.config/project/app.py") {
		t.Error("file inside project ignored because of a hidden parent")
	}
	if !w.shouldIgnore("/home/user/.config/project/venv/site.py") {
		t.Error("virtualenv file inside project not ignored")
	}
}

func TestWatcher_Start_NilContext(t *testing.T) {
	w, err := NewWatcher(NewRunner(), t.TempDir(), "python",
		func(result *Result, err error) {}, WatchOptions{})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(nil); !errors.Is(err, ErrInvalidInput) { //nolint:staticcheck
		t.Errorf("Start(nil) error = %v, want ErrInvalidInput", err)
	}
}

func TestWatcher_Start_BadDir(t *testing.T) {
	w, err := NewWatcher(NewRunner(), filepath.Join(t.TempDir(), "missing"), "python",
		func(result *Result, err error) {}, WatchOptions{})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(context.Background()); !errors.Is(err, ErrProjectDir) {
		t.Errorf("Start error = %v, want ErrProjectDir", err)
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	w, err := NewWatcher(NewRunner(), t.TempDir(), "python",
		func(result *Result, err error) {}, WatchOptions{})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	w.Stop()
	w.Stop() // must not panic
}

func TestWatcher_Integration(t *testing.T) {
	requireShell(t)
	installFakeFlake8(t, "#!/bin/sh\nexit 0\n")

	projectDir := t.TempDir()
	results := make(chan *Result, 16)

	runner := NewRunner()
	w, err := NewWatcher(runner, projectDir, "python",
		func(result *Result, err error) {
			if err == nil {
				results <- result
			}
		},
		WatchOptions{Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Start runs an initial pass before watching.
	select {
	case result := <-results:
		if !result.Valid {
			t.Error("initial run on clean project reported invalid")
		}
	default:
		t.Fatal("no initial result delivered by Start")
	}

	// A source change must trigger a debounced re-run.
	if err := os.WriteFile(filepath.Join(projectDir, "app.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-results:
	case <-time.After(5 * time.Second):
		t.Fatal("no lint run triggered by file change")
	}
}
