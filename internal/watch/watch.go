// Package watch marks a rebuild flag when watched files change on disk.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/roadkit/internal/logger"
)

// Marker is anything that can be told a rebuild is needed.
type Marker interface {
	Mark()
}

// Watcher watches files and marks its Marker on write or create events.
// Editors that save by rename replace the file, so the parent directory is
// watched and events are filtered by path.
type Watcher struct {
	watcher *fsnotify.Watcher
	marker  Marker
	log     *zap.Logger

	mu      sync.Mutex
	files   map[string]bool
	dirs    map[string]bool
	started bool
	done    chan struct{}
}

// New creates a watcher that marks m.
func New(m Marker) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		watcher: w,
		marker:  m,
		log:     logger.Named("watch"),
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
		done:    make(chan struct{}),
	}, nil
}

// Add starts watching files.
func (w *Watcher) Add(files ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		dir := filepath.Dir(absPath)
		if !w.dirs[dir] {
			if err := w.watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			w.dirs[dir] = true
		}
		w.files[absPath] = true
		w.log.Debug("watching file", zap.String("path", absPath))
	}
	return nil
}

// Start begins delivering events in a goroutine.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true

	go func() {
		defer close(w.done)
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				w.handle(event)

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.log.Warn("watcher error", zap.Error(err))
			}
		}
	}()
}

func (w *Watcher) handle(event fsnotify.Event) {
	// Only trigger on write or create events
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	path, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	watched := w.files[path]
	w.mu.Unlock()
	if !watched {
		return
	}
	w.log.Debug("file changed", zap.String("path", path), zap.Stringer("op", event.Op))
	w.marker.Mark()
}

// Close stops the watcher and waits for the event goroutine if it was started.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if started {
		<-w.done
	}
	return err
}
