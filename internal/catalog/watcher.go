package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDebounce is how long Watch waits after the last change
// before reloading.
const DefaultReloadDebounce = 200 * time.Millisecond

// Watch reloads fc whenever its backing file changes, until ctx is done.
// The parent directory is watched so editors that replace the file on save
// are picked up. Failed reloads are logged and the previous contents kept.
func Watch(ctx context.Context, logger *slog.Logger, fc *FileCatalog, debounce time.Duration) error {
	if fc.Path() == "" {
		return fmt.Errorf("catalog has no backing file")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}

	target, err := filepath.Abs(fc.Path())
	if err != nil {
		return fmt.Errorf("resolving catalog path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	go func() {
		defer watcher.Close()

		timer := time.NewTimer(debounce)
		if !timer.Stop() {
			<-timer.C
		}

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				timer.Reset(debounce)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Catalog watcher error", "error", err)

			case <-timer.C:
				if err := fc.Reload(); err != nil {
					logger.Warn("Catalog reload failed, keeping previous contents", "path", target, "error", err)
				}
			}
		}
	}()

	logger.Info("Watching catalog for changes", "path", target)
	return nil
}
