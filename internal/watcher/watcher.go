// Package watcher keeps the index in sync with a corpus directory by
// triggering a reindex when files change.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/ports/driving"
	"github.com/ragdoll-labs/ragdoll-cli/internal/logger"
)

// DefaultDebounce batches rapid bursts of filesystem events (editor
// save dances, bulk copies) into a single reindex.
const DefaultDebounce = 2 * time.Second

// Watcher triggers reindexing when the corpus directory changes.
type Watcher struct {
	dir      string
	indexer  driving.Indexer
	debounce time.Duration
}

// New creates a watcher over the given corpus directory. debounce
// values of zero or below fall back to DefaultDebounce.
func New(dir string, indexer driving.Indexer, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dir:      dir,
		indexer:  indexer,
		debounce: debounce,
	}
}

// Watch blocks, reindexing on changes, until ctx is cancelled. New
// subdirectories are picked up as they appear. Reindex failures are
// logged and do not stop the watch.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := w.addRecursive(fsw, w.dir); err != nil {
		return err
	}

	logger.Info("watching %s for changes", w.dir)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if isHidden(event.Name) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(fsw, event.Name); err != nil {
						logger.Warn("watching new directory %s: %v", event.Name, err)
					}
				}
			}
			logger.Debug("corpus change: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-timerC:
			timer = nil
			timerC = nil
			if _, err := w.indexer.Reindex(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warn("reindex after change failed: %v", err)
			}
		}
	}
}

// addRecursive watches dir and all its non-hidden subdirectories.
func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

// isHidden reports whether the path's base name starts with a dot.
func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
