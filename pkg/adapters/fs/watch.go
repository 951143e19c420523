package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/jotter/pkg/core"
)

// Watch emits an event whenever a file in the data directory matching pattern
// changes. An empty pattern watches the data file itself. Patterns use
// doublestar syntax and are matched against the path relative to the directory.
//
// The watcher runs under a supervisor that restarts it on failure. The
// returned channel is closed after ctx is done and the watcher has stopped.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = filepath.Base(s.Path)
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern: %q", pattern)
	}

	events := make(chan core.Event, 16)

	spec := supervisor.Spec{
		Name: "fs-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			return newWatchWorker(s, pattern, events), nil
		},
		Backoff: supervisor.Backoff{
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Multiplier:      2,
			ResetDuration:   30 * time.Second,
			MaxRestarts:     5,
			MaxDuration:     time.Minute,
		},
		RestartPolicy: supervisor.RestartOnFailure,
	}

	sup := supervisor.New("jotter-watcher", supervisor.StrategyOneForOne, spec)
	if err := sup.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	s.logger.Debug("watcher started", "dir", filepath.Dir(s.Path), "pattern", pattern)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()

		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := sup.Stop(stopCtx)
		close(events)
		return err
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("watcher shutdown failed", "error", err)
		if s.config.ErrorHandler != nil {
			s.config.ErrorHandler(err)
		}
	}))

	return events, nil
}
