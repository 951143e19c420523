package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDataFile is used when no data file is configured or discovered.
var DefaultDataFile = filepath.Join("data", "notes.json")

// FindDataFile walks upwards from startDir looking for name, either directly
// or inside a "data" directory. It returns the absolute path of the first match.
func FindDataFile(startDir, name string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, candidate := range []string{
			filepath.Join(dir, name),
			filepath.Join(dir, "data", name),
		} {
			if isFile(candidate) {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found above %s", name, abs)
}

// normalizeDataPath turns a directory argument into the data file inside it.
func normalizeDataPath(path, defaultName string) string {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return filepath.Join(path, defaultName)
	}
	return path
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
