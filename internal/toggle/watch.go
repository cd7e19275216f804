package toggle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ErrMarkerRemoved is returned by WatchRemoval once the marker is deleted
var ErrMarkerRemoved = errors.New("marker removed")

// WatchRemoval blocks until the marker at path is removed or renamed away,
// or ctx is done. The marker's directory is watched because the running
// instance keeps the file open, which suppresses delete events on the file.
func WatchRemoval(ctx context.Context, path string, logger zerolog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	name := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(name)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(name), err)
	}

	// The marker may have gone before the watch was in place
	if _, err := os.Stat(name); os.IsNotExist(err) {
		return ErrMarkerRemoved
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name {
				continue
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug().Str("op", ev.Op.String()).Str("file", ev.Name).Msg("marker removed")
				return ErrMarkerRemoved
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("marker watch error")
		}
	}
}
