package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jotter/internal/platform"
	"github.com/aretw0/jotter/pkg/adapters/fs"
	"github.com/aretw0/jotter/pkg/adapters/memory"
	"github.com/aretw0/jotter/pkg/adapters/sqlite"
	"github.com/aretw0/jotter/pkg/core"
	"github.com/aretw0/jotter/pkg/git"
)

func TestInit(t *testing.T) {
	t.Run("Default Adapter Is FS", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "notes.json")

		store, err := platform.Init(path)
		require.NoError(t, err)

		fsStore, ok := store.(*fs.Store)
		require.True(t, ok, "expected fs store, got %T", store)
		assert.Equal(t, path, fsStore.Path)
		assert.DirExists(t, filepath.Dir(path))
	})

	t.Run("Directory Argument", func(t *testing.T) {
		dir := t.TempDir()

		store, err := platform.Init(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, fs.DefaultFileName), store.(*fs.Store).Path)
	})

	t.Run("Must Exist", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "notes.json")

		_, err := platform.Init(path, platform.WithMustExist(true))
		assert.Error(t, err)
	})

	t.Run("Versioning With AutoInit", func(t *testing.T) {
		if !git.IsInstalled() {
			t.Skip("git not installed")
		}
		dir := filepath.Join(t.TempDir(), "vault")

		_, err := platform.Init(filepath.Join(dir, "notes.json"),
			platform.WithVersioning(true),
			platform.WithAutoInit(true),
		)
		require.NoError(t, err)
		assert.DirExists(t, filepath.Join(dir, ".git"))
	})

	t.Run("Versioning Without AutoInit", func(t *testing.T) {
		if !git.IsInstalled() {
			t.Skip("git not installed")
		}
		dir := t.TempDir()

		_, err := platform.Init(filepath.Join(dir, "notes.json"), platform.WithVersioning(true))
		assert.Error(t, err)
	})

	t.Run("SQLite Adapter", func(t *testing.T) {
		dir := t.TempDir()

		store, err := platform.Init(dir, platform.WithAdapter(platform.AdapterSQLite))
		require.NoError(t, err)

		sqlStore, ok := store.(*sqlite.Store)
		require.True(t, ok)
		defer sqlStore.Close()
		assert.Equal(t, filepath.Join(dir, sqlite.DefaultFileName), sqlStore.Path)
		assert.FileExists(t, sqlStore.Path)
	})

	t.Run("Memory Adapter", func(t *testing.T) {
		store, err := platform.Init("", platform.WithAdapter(platform.AdapterMemory))
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, store)
	})

	t.Run("Unknown Adapter", func(t *testing.T) {
		_, err := platform.Init(t.TempDir(), platform.WithAdapter("s3"))
		assert.ErrorContains(t, err, "unknown adapter")
	})

	t.Run("Injected Store", func(t *testing.T) {
		injected := memory.NewStore()

		store, err := platform.Init("ignored", platform.WithStore(injected))
		require.NoError(t, err)
		assert.Same(t, injected, store)
	})

	t.Run("Invalid Codec", func(t *testing.T) {
		_, err := platform.Init(t.TempDir(), platform.WithCodec(".txt", "not a codec"))
		assert.ErrorContains(t, err, "fs.Codec")
	})

	t.Run("Read Only Skips Directory Creation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ro", "notes.json")

		_, err := platform.Init(path, platform.WithReadOnly(true))
		require.NoError(t, err)
		_, statErr := os.Stat(filepath.Dir(path))
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	repo, err := platform.New(filepath.Join(t.TempDir(), "notes.json"),
		platform.WithClock(func() time.Time { return fixed }),
		platform.WithLockTimeout(time.Second),
	)
	require.NoError(t, err)

	note, err := repo.Create(ctx, core.CreateInput{Title: "T", Content: "C"})
	require.NoError(t, err)
	assert.Equal(t, fixed, note.CreatedAt)

	fsStore, ok := repo.Store().(*fs.Store)
	require.True(t, ok)
	state := fsStore.State().(fs.StoreState)
	assert.True(t, state.LockFile)
}
