// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lint

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// WATCH OPTIONS
// =============================================================================

// WatchOptions configures continuous lint mode.
type WatchOptions struct {
	// Debounce is how long to wait after the last change before re-linting.
	// Editors fire bursts of events per save; one run per burst is enough.
	Debounce time.Duration

	// IgnorePatterns are glob patterns matched against base names of
	// changed files. Directory names from skipDirName are always ignored.
	IgnorePatterns []string

	// BufferSize is the event channel buffer size.
	BufferSize int
}

// DefaultWatchOptions returns sensible defaults for watch mode.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		Debounce:       400 * time.Millisecond,
		IgnorePatterns: []string{"*.swp", "*.swx", "*.tmp", "*~", "*.pyc"},
		BufferSize:     1000,
	}
}

// WatchHandler receives the result of each triggered lint run.
// The error is non-nil when the run itself failed.
type WatchHandler func(result *Result, err error)

// =============================================================================
// WATCHER
// =============================================================================

// Watcher re-lints a project tree whenever files under it change.
//
// Description:
//
//	Watches the project directory recursively with fsnotify, debounces
//	change bursts, and triggers a Check run per burst. Results are
//	delivered to the handler in run order; runs never overlap.
//
// Thread Safety: Start and Stop are safe to call from different
// goroutines. Stop is idempotent.
type Watcher struct {
	runner   *Runner
	dir      string
	absDir   string
	language string
	handler  WatchHandler
	opts     WatchOptions

	fsw      *fsnotify.Watcher
	events   chan string
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWatcher creates a watcher for a project directory.
//
// Description:
//
//	Validates inputs and allocates the underlying fsnotify watcher.
//	Nothing is watched until Start.
//
// Inputs:
//
//	runner - The runner used for re-lint runs
//	dir - Project directory to watch and lint
//	language - The language identifier passed to Check
//	handler - Callback for each run's result
//	opts - Watch options (zero values fall back to defaults)
//
// Outputs:
//
//	*Watcher - The configured watcher
//	error - Non-nil if inputs are invalid or fsnotify setup fails
func NewWatcher(runner *Runner, dir, language string, handler WatchHandler, opts WatchOptions) (*Watcher, error) {
	if runner == nil {
		return nil, fmt.Errorf("%w: runner must not be nil", ErrInvalidInput)
	}
	if handler == nil {
		return nil, fmt.Errorf("%w: handler must not be nil", ErrInvalidInput)
	}

	defaults := DefaultWatchOptions()
	if opts.Debounce <= 0 {
		opts.Debounce = defaults.Debounce
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaults.BufferSize
	}
	if opts.IgnorePatterns == nil {
		opts.IgnorePatterns = defaults.IgnorePatterns
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	return &Watcher{
		runner:   runner,
		dir:      dir,
		language: language,
		handler:  handler,
		opts:     opts,
		fsw:      fsw,
		events:   make(chan string, opts.BufferSize),
		stop:     make(chan struct{}),
	}, nil
}

// Start begins watching and runs an initial lint pass.
//
// Description:
//
//	Registers the project tree with fsnotify, runs one Check so the
//	handler sees the current state, then reacts to change bursts until
//	the context ends or Stop is called. Start does not block.
//
// Inputs:
//
//	ctx - Context governing the watch loops and lint runs
//
// Outputs:
//
//	error - Non-nil if the tree could not be registered
func (w *Watcher) Start(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("%w: ctx must not be nil", ErrInvalidInput)
	}

	absDir, err := resolveProjectDir(w.dir)
	if err != nil {
		return err
	}
	w.absDir = absDir

	if err := w.addRecursive(absDir); err != nil {
		return err
	}

	// Initial pass so the handler reflects the tree as it is now.
	w.runOnce(ctx)

	w.wg.Add(2)
	go w.watchLoop(ctx)
	go w.debounceLoop(ctx)

	slog.Info("Watching for changes",
		slog.String("dir", w.dir),
		slog.String("language", w.language),
	)

	return nil
}

// Stop halts the watcher and waits for its loops to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		w.fsw.Close()
	})
	w.wg.Wait()
}

// addRecursive registers dir and every non-ignored subdirectory.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDirName(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// watchLoop forwards relevant fsnotify events to the debounce loop.
func (w *Watcher) watchLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.shouldIgnore(event.Name) {
				continue
			}

			// New directories need their own watch registration.
			if event.Op.Has(fsnotify.Create) {
				if isDir, err := statDir(event.Name); err == nil && isDir {
					if err := w.addRecursive(event.Name); err != nil {
						slog.Warn("Failed to watch new directory",
							slog.String("path", event.Name),
							slog.Any("error", err),
						)
					}
					continue
				}
			}

			select {
			case w.events <- event.Name:
			default:
				// Buffer full; the pending run covers this change anyway.
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("File watcher error", slog.Any("error", err))
		}
	}
}

// debounceLoop batches change events and triggers one run per burst.
func (w *Watcher) debounceLoop(ctx context.Context) {
	defer w.wg.Done()

	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case path := <-w.events:
			slog.Debug("Change detected", slog.String("path", path))
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.opts.Debounce)
			pending = true
		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			w.runOnce(ctx)
		}
	}
}

// runOnce performs a single lint run and reports it to the handler.
func (w *Watcher) runOnce(ctx context.Context) {
	result, err := w.runner.Check(ctx, w.dir, w.language)
	w.handler(result, err)
}

// shouldIgnore reports whether a changed path is irrelevant to linting.
// Directory components are checked relative to the watch root, so a
// project living under a hidden parent is not ignored wholesale.
func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.opts.IgnorePatterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}

	rel := path
	if w.absDir != "" {
		if r, err := filepath.Rel(w.absDir, path); err == nil {
			rel = r
		}
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part != "." && part != ".." && skipDirName(part) {
			return true
		}
	}
	return false
}

// statDir reports whether path exists and is a directory.
func statDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
