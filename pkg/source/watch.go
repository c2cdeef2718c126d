package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/luxo-ai/infinite-scroll/pkg/log"
)

// DefaultDebounce is the quiet period [Watch] waits for after a change
// before calling back.
const DefaultDebounce = 100 * time.Millisecond

// Watch calls fn after the file at path changes, until ctx is done.
//
// The parent directory is watched, so editors that replace the file through
// a rename are picked up. Bursts of events within debounce are coalesced into
// one call. fn runs on the watcher goroutine.
func Watch(ctx context.Context, path string, debounce time.Duration, fn func()) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}

	err = watcher.Add(filepath.Dir(absPath))
	if err != nil {
		_ = watcher.Close()

		return fmt.Errorf("add path to watcher: %w", err)
	}

	logger := log.WithContext(ctx)
	logger.DebugContext(ctx, "watching source", slog.String("path", absPath))

	go func() {
		defer func() {
			err := watcher.Close()
			if err != nil {
				logger.ErrorContext(ctx, "close watcher", slog.Any("error", err))
			}
		}()

		var (
			timer   *time.Timer
			pending <-chan time.Time
		)

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}

				return

			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(evt.Name) != absPath || evt.Has(fsnotify.Chmod) {
					continue
				}

				logger.DebugContext(ctx, "source changed", slog.String("event", evt.String()))

				if timer == nil {
					timer = time.NewTimer(debounce)
				} else {
					timer.Reset(debounce)
				}

				pending = timer.C

			case <-pending:
				pending = nil

				fn()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				logger.ErrorContext(ctx, "watch source", slog.Any("error", err))
			}
		}
	}()

	return nil
}
