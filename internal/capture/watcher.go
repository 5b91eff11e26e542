package capture

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
	"github.com/shopmatch-labs/shopmatch-cli/internal/logger"
)

// debounceWindow coalesces the write bursts editors and downloaders
// produce for a single file.
const debounceWindow = 500 * time.Millisecond

// Handler receives the products of one capture file.
type Handler func(ctx context.Context, products []domain.RawProduct) error

// Watcher watches a capture directory and feeds new or rewritten
// capture files to a handler.
type Watcher struct {
	dir     string
	handler Handler
	fw      *fsnotify.Watcher
}

// NewWatcher creates a watcher for dir. Call Run to start it.
func NewWatcher(dir string, handler Handler) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{dir: dir, handler: handler, fw: fw}, nil
}

// Run blocks, dispatching capture files to the handler until the
// context is cancelled. Handler errors are logged, not fatal: one bad
// capture must not stop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fw.Close()

	logger.Info("Watching %s for capture files", w.dir)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounceWindow)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case now := <-ticker.C:
			for path, seen := range pending {
				if now.Sub(seen) < debounceWindow {
					continue
				}
				delete(pending, path)
				w.dispatch(ctx, path)
			}
		}
	}
}

// dispatch reads one settled capture file and hands it to the handler.
func (w *Watcher) dispatch(ctx context.Context, path string) {
	products, err := ReadFile(path)
	if err != nil {
		logger.Warn("Skipping capture file %s: %v", path, err)
		return
	}
	if len(products) == 0 {
		logger.Debug("Capture file %s held no products", path)
		return
	}
	logger.Debug("Capture file %s: %d products", path, len(products))
	if err := w.handler(ctx, products); err != nil {
		logger.Warn("Handling capture file %s: %v", path, err)
	}
}
