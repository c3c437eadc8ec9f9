package config

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/ubrstats/ubr/pkg/logger"
)

// Watch monitors a config file and calls onChange with the newly loaded
// Config each time the file is written. It blocks until ctx is cancelled.
// The serving layer uses this to hot-swap classifier tunables without a
// restart.
//
// If a reload fails (e.g., invalid YAML), the error is logged and the
// previous config stays active; onChange is not called.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("%w: watch %s: %w", ErrLoadConfig, path, err)
	}

	log := logger.Get().Named("config")
	log.Info(ctx, "watching config for changes", logger.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save atomically via rename, which arrives as
			// Create; reload on those as well as plain writes.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := LoadFile(path)
			if err != nil {
				log.Warn(ctx, "config reload failed, keeping previous",
					logger.String("path", path), logger.Error(err))
				continue
			}

			log.Info(ctx, "config reloaded", logger.String("path", path))
			onChange(cfg)

			// Re-add in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn(ctx, "config watcher error", logger.Error(err))
		}
	}
}
