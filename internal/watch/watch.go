// Package watch re-runs a handler whenever a watched chapter is saved.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/valpere/chapfix/internal/chapter"
)

// DefaultDebounce absorbs the burst of events an editor save produces.
const DefaultDebounce = 500 * time.Millisecond

// Handler is called with the paths that changed since the last call.
type Handler func(ctx context.Context, paths []string)

type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	pending  map[string]time.Time
	debounce time.Duration
	log      *zap.Logger
}

// New watches the directories holding files. Events for other files in
// those directories, proposal files included, are ignored.
func New(files []string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]bool),
		pending:  make(map[string]time.Time),
		debounce: debounce,
		log:      log,
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		f = filepath.Clean(f)
		w.files[f] = true
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		log.Debug("watching", zap.String("dir", dir))
	}

	return w, nil
}

// Run blocks until ctx is done, calling handle with debounced changes.
// The watcher is closed on return.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	defer w.watcher.Close()

	tick := max(w.debounce/5, 10*time.Millisecond)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", zap.Error(err))

		case <-ticker.C:
			if paths := w.due(time.Now()); len(paths) > 0 {
				handle(ctx, paths)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	name := filepath.Clean(event.Name)
	if chapter.IsAutofix(name) || !w.files[name] {
		return
	}
	w.log.Debug("chapter changed", zap.String("file", name), zap.String("op", event.Op.String()))
	w.pending[name] = time.Now()
}

// due returns the pending paths quiet for at least the debounce interval.
func (w *Watcher) due(now time.Time) []string {
	var paths []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			paths = append(paths, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(paths)
	return paths
}
