// Package watcher triggers re-ingestion when the raw document directory changes.
package watcher

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Formats reports which file names are worth reacting to.
type Formats interface {
	Supported(name string) bool
}

// Watcher debounces file events into rebuild calls.
type Watcher struct {
	dir      string
	formats  Formats
	debounce time.Duration
	rebuild  func(ctx context.Context) error
	logger   *zap.Logger
	done     chan struct{}
}

// New creates a watcher on dir. rebuild runs on the watcher goroutine, so
// rebuilds never overlap.
func New(
	dir string, formats Formats, debounce time.Duration, rebuild func(ctx context.Context) error, logger *zap.Logger,
) *Watcher {
	return &Watcher{
		dir:      dir,
		formats:  formats,
		debounce: debounce,
		rebuild:  rebuild,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins watching. The directory is created if missing. Watching stops
// when ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return fmt.Errorf("watcher: ensure %s: %w", w.dir, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	if err := fw.Add(w.dir); err != nil {
		_ = fw.Close()
		return fmt.Errorf("watcher: add %s: %w", w.dir, err)
	}

	w.logger.Info("Watching raw directory", zap.String("dir", w.dir), zap.Duration("debounce", w.debounce))
	go w.loop(ctx, fw)
	return nil
}

// Done is closed once the watcher goroutine has exited.
func (w *Watcher) Done() <-chan struct{} { return w.done }

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	defer close(w.done)
	defer fw.Close() //nolint:errcheck // shutting down

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Raw directory changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error", zap.Error(err))
		case <-timer.C:
			if err := w.rebuild(ctx); err != nil {
				w.logger.Error("Rebuild after change failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !w.formats.Supported(event.Name) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
