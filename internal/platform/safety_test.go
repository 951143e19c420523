package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDataPath(t *testing.T) {
	t.Parallel()

	tempRoot := os.TempDir()
	devBase := filepath.Join(tempRoot, "jotter-dev")

	tests := []struct {
		name      string
		userPath  string
		forceTemp bool
		expected  string
	}{
		{
			name:     "Normal Mode - Default",
			userPath: "",
			expected: DefaultDataFile,
		},
		{
			name:     "Normal Mode - Specific Path",
			userPath: "/some/path/notes.json",
			expected: "/some/path/notes.json",
		},
		{
			name:      "Dev Mode - Absolute Path",
			userPath:  "/some/path/notes.json",
			forceTemp: true,
			expected:  filepath.Join(devBase, "notes.json"),
		},
		{
			name:      "Dev Mode - Keeps File Name",
			userPath:  "/srv/../srv/jot.yaml",
			forceTemp: true,
			expected:  filepath.Join(devBase, "jot.yaml"),
		},
		{
			name:      "Dev Mode - Exception for Temp Dir",
			userPath:  filepath.Join(tempRoot, "my-test", "notes.json"),
			forceTemp: true,
			expected:  filepath.Join(tempRoot, "my-test", "notes.json"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveDataPath(tt.userPath, tt.forceTemp))
		})
	}
}

func TestIsDevRun(t *testing.T) {
	// Running under go test.
	assert.True(t, IsDevRun())
}
