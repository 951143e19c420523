package jotter_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jotter"
	"github.com/aretw0/jotter/pkg/core"
)

func setupRepo(t *testing.T, opts ...jotter.Option) (*jotter.Repository, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data", "notes.json")
	repo, err := jotter.New(path, opts...)
	require.NoError(t, err)
	return repo, path
}

func TestScenario_FileBacked(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	shopping, err := repo.Create(ctx, jotter.CreateInput{Title: "Shopping", Content: "Milk, eggs"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), shopping.ID)
	assert.Equal(t, shopping.CreatedAt, shopping.UpdatedAt)

	todo, err := repo.Create(ctx, jotter.CreateInput{Title: "Todo", Content: "Call Bob"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), todo.ID)

	found, err := repo.Search(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Todo", found[0].Title)

	deleted, err := repo.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted.ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, todo.ID, all[0].ID)

	_, err = repo.Get(ctx, 1)
	assert.ErrorIs(t, err, core.ErrNotFound)

	updated, err := repo.Update(ctx, 2, jotter.UpdateInput{Content: core.String("Call Alice")})
	require.NoError(t, err)
	assert.Equal(t, "Todo", updated.Title)
	assert.Equal(t, "Call Alice", updated.Content)
	assert.True(t, updated.UpdatedAt.After(todo.UpdatedAt))

	// The file holds exactly what the repository reports.
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var persisted []map[string]any
	require.NoError(t, json.Unmarshal(data, &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, float64(2), persisted[0]["id"])
	assert.Equal(t, "Call Alice", persisted[0]["content"])
	assert.Contains(t, persisted[0], "createdAt")
	assert.Contains(t, persisted[0], "updatedAt")
}

func TestInvalidInputs(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	_, err := core.ParseID("abc")
	assert.ErrorIs(t, err, core.ErrInvalidID)

	_, err = repo.Create(ctx, jotter.CreateInput{Title: "", Content: "x"})
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.NoFileExists(t, path)
}

func TestCorruptFile(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, core.ErrStore)
	assert.ErrorIs(t, err, core.ErrCorrupt)

	_, err = repo.Create(ctx, jotter.CreateInput{Title: "a", Content: "b"})
	assert.ErrorIs(t, err, core.ErrCorrupt)

	// Never overwritten.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(data))
}

func TestConcurrentProcesses(t *testing.T) {
	// Two repositories over one file stand in for two processes; the lock
	// file serializes their load-mutate-save sequences.
	path := filepath.Join(t.TempDir(), "notes.json")
	first, err := jotter.New(path, jotter.WithLockTimeout(0))
	require.NoError(t, err)
	second, err := jotter.New(path, jotter.WithLockTimeout(0))
	require.NoError(t, err)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		for _, repo := range []*jotter.Repository{first, second} {
			wg.Add(1)
			go func(r *jotter.Repository) {
				defer wg.Done()
				_, err := r.Create(ctx, jotter.CreateInput{Title: "t", Content: "c"})
				assert.NoError(t, err)
			}(repo)
		}
	}
	wg.Wait()

	notes, err := first.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 20)

	seen := make(map[int64]bool)
	for _, n := range notes {
		assert.False(t, seen[n.ID], "duplicate id %d", n.ID)
		seen[n.ID] = true
	}
}

func TestRepositoriesSharingAFile(t *testing.T) {
	// Without a lock file, repositories in one process still exclude each other.
	path := filepath.Join(t.TempDir(), "notes.json")
	first, err := jotter.New(path)
	require.NoError(t, err)
	second, err := jotter.New(path)
	require.NoError(t, err)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, repo := range []*jotter.Repository{first, second} {
			wg.Add(1)
			go func(r *jotter.Repository) {
				defer wg.Done()
				_, err := r.Create(ctx, jotter.CreateInput{Title: "t", Content: "c"})
				assert.NoError(t, err)
			}(repo)
		}
	}
	wg.Wait()

	notes, err := second.List(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 100)
	for i, n := range notes {
		assert.Equal(t, int64(i+1), n.ID)
	}
}

func TestYAMLDataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yaml")
	repo, err := jotter.New(path)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.Create(ctx, jotter.CreateInput{Title: "Yaml", Content: "works"})
	require.NoError(t, err)

	reopened, err := jotter.New(path, jotter.WithReadOnly(true))
	require.NoError(t, err)
	notes, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Yaml", notes[0].Title)

	_, err = reopened.Delete(ctx, 1)
	assert.ErrorIs(t, err, core.ErrReadOnly)
}
