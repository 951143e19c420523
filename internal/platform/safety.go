package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun reports whether the process was built by `go run` or `go test`.
// Both build into temporary directories; test binaries end in ".test".
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}

	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveDataPath returns the data file to use. With forceTemp the file is
// re-rooted under a namespaced temp directory, unless it already lives inside
// the system temp directory (e.g. t.TempDir()).
func ResolveDataPath(userPath string, forceTemp bool) string {
	if userPath == "" {
		userPath = DefaultDataFile
	}
	if !forceTemp {
		return userPath
	}

	clean := filepath.Clean(userPath)
	if abs, err := filepath.Abs(clean); err == nil {
		rel, err := filepath.Rel(os.TempDir(), abs)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return clean
		}
	}

	return filepath.Join(os.TempDir(), "jotter-dev", filepath.Base(clean))
}
