package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jotter/pkg/core"
)

func TestAcquireLock(t *testing.T) {
	t.Run("Creates And Removes Lock File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.json.lock")

		unlock, err := acquireLock(context.Background(), path, time.Second)
		require.NoError(t, err)
		assert.FileExists(t, path)

		unlock()
		assert.NoFileExists(t, path)
	})

	t.Run("Times Out While Held", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.json.lock")

		unlock, err := acquireLock(context.Background(), path, time.Second)
		require.NoError(t, err)
		defer unlock()

		_, err = acquireLock(context.Background(), path, 50*time.Millisecond)
		assert.ErrorIs(t, err, core.ErrLockTimeout)
	})

	t.Run("Waits For Release", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.json.lock")

		unlock, err := acquireLock(context.Background(), path, time.Second)
		require.NoError(t, err)

		go func() {
			time.Sleep(30 * time.Millisecond)
			unlock()
		}()

		unlock2, err := acquireLock(context.Background(), path, 2*time.Second)
		require.NoError(t, err)
		unlock2()
	})

	t.Run("Honours Context", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.json.lock")
		require.NoError(t, os.WriteFile(path, []byte("1\n"), 0644))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		_, err := acquireLock(ctx, path, 0)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
