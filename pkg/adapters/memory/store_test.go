package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jotter/pkg/adapters/memory"
	"github.com/aretw0/jotter/pkg/core"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Starts Empty", func(t *testing.T) {
		s := memory.NewStore()
		notes, err := s.Load(ctx)
		require.NoError(t, err)
		assert.NotNil(t, notes)
		assert.Empty(t, notes)
	})

	t.Run("Save Does Not Alias Caller Memory", func(t *testing.T) {
		s := memory.NewStore()
		notes := []core.Note{{ID: 1, Title: "a", Content: "b", CreatedAt: time.Now(), UpdatedAt: time.Now()}}
		require.NoError(t, s.Save(ctx, notes))

		notes[0].Title = "mutated"

		loaded, err := s.Load(ctx)
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "a", loaded[0].Title)

		loaded[0].Title = "mutated again"
		again, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "a", again[0].Title)
	})

	t.Run("Read Only Rejects Save", func(t *testing.T) {
		s := memory.NewStore(memory.WithReadOnly(true))
		err := s.Save(ctx, nil)
		assert.ErrorIs(t, err, core.ErrReadOnly)
	})

	t.Run("Fault Hooks", func(t *testing.T) {
		boom := errors.New("boom")
		s := memory.NewStore(memory.WithNotes(core.Note{ID: 7}))
		s.FailSave = boom
		assert.ErrorIs(t, s.Save(ctx, nil), boom)

		loaded, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, loaded, 1)

		s.FailLoad = boom
		_, err = s.Load(ctx)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Repositories Share The Store Lock", func(t *testing.T) {
		s := memory.NewStore()
		first := core.NewRepository(s)
		second := core.NewRepository(s)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			for _, repo := range []*core.Repository{first, second} {
				wg.Add(1)
				go func(r *core.Repository) {
					defer wg.Done()
					_, err := r.Create(ctx, core.CreateInput{Title: "t", Content: "c"})
					assert.NoError(t, err)
				}(repo)
			}
		}
		wg.Wait()

		notes, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, notes, 40)
	})

	t.Run("State", func(t *testing.T) {
		s := memory.NewStore(memory.WithNotes(core.Note{ID: 1}, core.Note{ID: 2}))
		require.NoError(t, s.Save(ctx, []core.Note{{ID: 1}}))

		state, ok := s.State().(memory.StoreState)
		require.True(t, ok)
		assert.Equal(t, 1, state.Notes)
		assert.Equal(t, 1, state.Saves)
		assert.Equal(t, "memory", s.ComponentType())
	})
}
