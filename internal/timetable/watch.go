package timetable

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange whenever the file at path is written, created or
// renamed over. It watches the parent directory so editors that replace the
// file atomically are still seen. The watcher stops when ctx is done.
func Watch(ctx context.Context, path string, onChange func(), logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					logger.Debug("timetable changed", "path", target, "op", ev.Op.String())
					onChange()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("timetable watcher error", "error", err)
			}
		}
	}()
	return nil
}

// Watch invalidates f whenever its file changes.
func (f *File) Watch(ctx context.Context, logger *log.Logger) error {
	return Watch(ctx, f.path, f.Invalidate, logger)
}
