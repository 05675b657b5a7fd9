package site

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Holder publishes the current site to concurrent readers.
type Holder struct {
	cur atomic.Pointer[Site]

	mu      sync.Mutex
	changed chan struct{}
}

// NewHolder returns a Holder serving s.
func NewHolder(s *Site) *Holder {
	h := &Holder{changed: make(chan struct{})}
	h.cur.Store(s)
	return h
}

// Load returns the current site.
func (h *Holder) Load() *Site { return h.cur.Load() }

// Store replaces the current site and wakes everyone waiting on
// Changed.
func (h *Holder) Store(s *Site) {
	h.cur.Store(s)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.changed != nil {
		close(h.changed)
	}
	h.changed = make(chan struct{})
}

// Changed returns a channel that is closed by the next Store. Take it
// before Load so no replacement is missed.
func (h *Holder) Changed() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.changed == nil {
		h.changed = make(chan struct{})
	}
	return h.changed
}

// Watch reloads path into h whenever it is written until ctx is done.
// A document that fails to parse is logged and the previous one stays
// live.
func Watch(ctx context.Context, path string, h *Holder, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Editors replace files by rename, so watch the directory.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", path, err)
	}

	target := filepath.Clean(path)
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
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				s, err := Load(path)
				if err != nil {
					logger.Warn("site reload failed", "path", path, "error", err)
					continue
				}
				h.Store(s)
				logger.Info("site reloaded", "path", path, "projects", len(s.Projects))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("site watcher error", "error", err)
			}
		}
	}()
	return nil
}
