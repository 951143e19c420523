package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jotter/pkg/adapters/fs"
	"github.com/aretw0/jotter/pkg/core"
)

func nextEvent(t *testing.T, events <-chan core.Event) core.Event {
	t.Helper()

	select {
	case e, ok := <-events:
		require.True(t, ok, "events channel closed")
		return e
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for event")
		return core.Event{}
	}
}

func waitActive(t *testing.T, store *fs.Store) {
	t.Helper()

	require.Eventually(t, func() bool {
		state, ok := store.State().(fs.StoreState)
		return ok && state.WatcherActive
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStore_Watch(t *testing.T) {
	t.Run("Reports Saves Of The Data File", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		store := setupStore(t, fs.Config{})
		require.NoError(t, store.Save(ctx, nil))

		events, err := store.Watch(ctx, "")
		require.NoError(t, err)
		waitActive(t, store)

		repo := core.NewRepository(store)
		_, err = repo.Create(ctx, core.CreateInput{Title: "A", Content: "alpha"})
		require.NoError(t, err)

		e := nextEvent(t, events)
		assert.Equal(t, core.EventModify, e.Type)
		assert.Equal(t, "notes.json", e.Path)
	})

	t.Run("Create And Delete", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		store := setupStore(t, fs.Config{})
		events, err := store.Watch(ctx, "*.json")
		require.NoError(t, err)
		waitActive(t, store)

		require.NoError(t, store.Save(ctx, nil))
		e := nextEvent(t, events)
		assert.Equal(t, core.EventCreate, e.Type)

		require.NoError(t, os.Remove(store.Path))
		e = nextEvent(t, events)
		assert.Equal(t, core.EventDelete, e.Type)
	})

	t.Run("Ignores Non Matching Files", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		store := setupStore(t, fs.Config{})
		events, err := store.Watch(ctx, "")
		require.NoError(t, err)
		waitActive(t, store)

		dir := filepath.Dir(store.Path)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
		require.NoError(t, store.Save(ctx, nil))

		e := nextEvent(t, events)
		assert.Equal(t, "notes.json", e.Path)
	})

	t.Run("Closes On Cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		store := setupStore(t, fs.Config{})
		events, err := store.Watch(ctx, "")
		require.NoError(t, err)
		waitActive(t, store)

		cancel()

		require.Eventually(t, func() bool {
			select {
			case _, ok := <-events:
				return !ok
			default:
				return false
			}
		}, 3*time.Second, 10*time.Millisecond)
	})

	t.Run("Invalid Pattern", func(t *testing.T) {
		store := setupStore(t, fs.Config{})

		_, err := store.Watch(context.Background(), "[")
		assert.Error(t, err)
	})
}
