package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/jotter/pkg/core"
)

const debounceDelay = 50 * time.Millisecond

type watchWorker struct {
	*worker.BaseWorker
	store     *Store
	dir       string
	pattern   string
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	known     map[string]bool
	cancel    context.CancelFunc
}

func newWatchWorker(store *Store, pattern string, events chan<- core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		store:      store,
		dir:        filepath.Dir(store.Path),
		pattern:    pattern,
		events:     events,
		known:      make(map[string]bool),
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(w.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.scanKnown()
	w.watcher = watcher
	w.debouncer = newDebouncer(debounceDelay)
	w.store.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"pattern":           w.pattern,
		}
	})
}

// scanKnown records which matching files already exist, so that the rename
// performed by an atomic save is reported as a modification.
func (w *watchWorker) scanKnown() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() && w.matches(e.Name()) {
			w.known[e.Name()] = true
		}
	}
}

func (w *watchWorker) matches(rel string) bool {
	base := filepath.Base(rel)
	if strings.HasPrefix(base, TempFilePrefix) || strings.HasSuffix(base, LockSuffix) {
		return false
	}
	ok, err := doublestar.Match(w.pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// mapEventType translates an fsnotify operation into a core event type.
// An empty result means the event is not interesting.
func (w *watchWorker) mapEventType(rel string, event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if !w.known[rel] {
			return ""
		}
		delete(w.known, rel)
		return core.EventDelete
	case event.Has(fsnotify.Create):
		if w.known[rel] {
			return core.EventModify
		}
		w.known[rel] = true
		return core.EventCreate
	case event.Has(fsnotify.Write):
		w.known[rel] = true
		return core.EventModify
	default:
		return ""
	}
}

func (w *watchWorker) processFilesystemEvent(ctx context.Context, event fsnotify.Event) bool {
	w.store.logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	rel, err := filepath.Rel(w.dir, event.Name)
	if err != nil || !w.matches(rel) {
		return false
	}

	eType := w.mapEventType(rel, event)
	if eType == "" {
		return false
	}

	w.sendEvent(ctx, core.Event{
		Type:      eType,
		Path:      filepath.ToSlash(rel),
		Timestamp: time.Now().Unix(),
	})
	return true
}

// sendEvent enqueues an event via the debouncer, protecting against channel closure during shutdown.
func (w *watchWorker) sendEvent(ctx context.Context, event core.Event) {
	w.debouncer.add(event, func(e core.Event) {
		defer func() {
			_ = recover()
		}()
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

func (w *watchWorker) handleWatcherError(err error) {
	w.store.logger.Error("fsnotify error", "error", err)
	if w.store.config.ErrorHandler != nil {
		w.store.config.ErrorHandler(err)
	}
}

func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.store.logger.Enabled(ctx, slog.LevelDebug) {
				w.store.logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.store.logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.loop(ctx)

	// Timers still in flight may write to events; wait for them before the channel is closed.
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleWatcherError(wErr)
		}
	}
}
