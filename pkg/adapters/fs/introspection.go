package fs

import (
	"sort"
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path          string     `json:"path"`
	Format        string     `json:"format"`
	Codecs        []string   `json:"codecs"`
	ReadOnly      bool       `json:"read_only"`
	Strict        bool       `json:"strict"`
	Versioning    bool       `json:"versioning"`
	LockFile      bool       `json:"lock_file"`
	WatcherActive bool       `json:"watcher_active"`
	LastLoadCount int        `json:"last_load_count"`
	LastSave      *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	format := s.Format()

	s.mu.RLock()
	defer s.mu.RUnlock()

	codecs := make([]string, 0, len(s.codecs))
	for ext := range s.codecs {
		codecs = append(codecs, ext)
	}
	sort.Strings(codecs)

	return StoreState{
		Path:          s.Path,
		Format:        format,
		Codecs:        codecs,
		ReadOnly:      s.config.ReadOnly,
		Strict:        s.config.Strict,
		Versioning:    s.config.Versioning,
		LockFile:      s.config.LockFile,
		WatcherActive: s.watcherActive,
		LastLoadCount: s.lastLoadCount,
		LastSave:      s.lastSave,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}
