package fs

import (
	"sync"
	"time"

	"github.com/aretw0/jotter/pkg/core"
)

// debouncer coalesces bursts of events for the same path into one event,
// emitted once the path has been quiet for delay.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	wg      sync.WaitGroup
	stopped bool
	timers  map[string]*time.Timer
	pending map[string]core.Event
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]core.Event),
	}
}

func (d *debouncer) add(e core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	key := e.Path
	if prev, ok := d.pending[key]; ok {
		e = coalesce(prev, e)
	}
	d.pending[key] = e

	if t, ok := d.timers[key]; ok && t.Stop() {
		d.wg.Done()
	}

	var t *time.Timer
	d.wg.Add(1)
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.timers[key] != t {
			// Superseded by a later add; that timer emits.
			d.mu.Unlock()
			return
		}
		ev := d.pending[key]
		delete(d.timers, key)
		delete(d.pending, key)
		d.mu.Unlock()

		emit(ev)
	})
	d.timers[key] = t
}

// coalesce merges a newer event into a pending one for the same path.
func coalesce(prev, next core.Event) core.Event {
	switch {
	case prev.Type == core.EventCreate && next.Type == core.EventModify:
		next.Type = core.EventCreate
	case prev.Type == core.EventDelete && next.Type == core.EventCreate:
		next.Type = core.EventModify
	}
	return next
}

// stopAndWait drops pending events and waits up to timeout for running emits.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
		delete(d.pending, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
