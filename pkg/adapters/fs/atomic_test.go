package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Creates New File", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "notes.json")

		require.NoError(t, writeFileAtomic(filename, []byte("[]\n"), 0644))

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(got))
	})

	t.Run("Replaces Existing File", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "notes.json")
		require.NoError(t, os.WriteFile(filename, []byte(`[{"id":1}]`), 0644))

		require.NoError(t, writeFileAtomic(filename, []byte("[]\n"), 0644))

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(got))
	})

	t.Run("Leaves No Temp Files", func(t *testing.T) {
		dir := t.TempDir()
		filename := filepath.Join(dir, "notes.json")

		for i := 0; i < 3; i++ {
			require.NoError(t, writeFileAtomic(filename, []byte("[]\n"), 0644))
		}

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, strings.HasPrefix(e.Name(), TempFilePrefix), "leftover temp file %s", e.Name())
		}
		assert.Len(t, entries, 1)
	})

	t.Run("Applies Permissions", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "notes.json")

		require.NoError(t, writeFileAtomic(filename, []byte("[]\n"), 0600))

		info, err := os.Stat(filename)
		require.NoError(t, err)
		// Windows only honours the write bit.
		t.Logf("file permissions: %v", info.Mode())
	})

	t.Run("Fails If Directory Missing", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "missing", "notes.json")

		assert.Error(t, writeFileAtomic(filename, []byte("[]\n"), 0644))
	})
}
