// Package fs implements core.Store on a single flat file.
//
// The whole collection lives in one file whose format follows its extension
// (JSON by default, YAML for .yaml/.yml). Writes go through a temp file and a
// rename, so the file always holds a complete collection. Optionally the file
// is guarded by a lock file for cross-process writers and versioned with git.
package fs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/jotter/pkg/core"
	"github.com/aretw0/jotter/pkg/git"
)

// DefaultFileName is the data file name used when only a directory is known.
const DefaultFileName = "notes.json"

// Config holds the configuration for the file store.
type Config struct {
	Path        string      // Data file, e.g. "data/notes.json"
	Perm        os.FileMode // Data file permissions. Zero means 0644.
	MustExist   bool        // Parent directory must exist; Initialize will not create it.
	ReadOnly    bool        // Save fails with core.ErrReadOnly and Initialize touches nothing.
	Versioning  bool        // Commit the data file to git after every Save.
	AutoInit    bool        // Run git init when versioning and the directory is not a repository.
	LockFile    bool        // Guard load-mutate-save with "<Path>.lock".
	LockTimeout time.Duration
	Strict      bool // Reject records with unknown fields.
	Logger      *slog.Logger
	// ErrorHandler receives runtime watcher failures, which are otherwise only logged.
	ErrorHandler func(error)
}

// Store implements core.Store using one file on disk.
type Store struct {
	Path   string
	config Config
	git    *git.Client
	logger *slog.Logger

	mu            sync.RWMutex
	codecs        map[string]Codec
	watcherActive bool
	lastSave      *time.Time
	lastLoadCount int
}

// NewStore creates a new file-backed store. No I/O happens until Initialize, Load or Save.
func NewStore(config Config) *Store {
	if config.Path == "" {
		config.Path = DefaultFileName
	}
	if config.Perm == 0 {
		config.Perm = 0644
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Store{
		Path:   config.Path,
		config: config,
		git:    git.NewClient(filepath.Dir(config.Path), config.Logger),
		logger: logger,
		codecs: DefaultCodecs(config.Strict),
	}
}

// RegisterCodec registers (or overrides) the codec used for an extension.
func (s *Store) RegisterCodec(ext string, c Codec) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codecs[strings.ToLower(ext)] = c
}

// Format returns the extension whose codec handles the data file.
func (s *Store) Format() string {
	ext := strings.ToLower(filepath.Ext(s.Path))

	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.codecs[ext]; ok {
		return ext
	}
	return ".json"
}

func (s *Store) codec() Codec {
	format := s.Format()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.codecs[format]
}

// Initialize prepares the directory holding the data file and, when versioning
// is enabled, the git repository around it.
func (s *Store) Initialize(ctx context.Context) error {
	dir := filepath.Dir(s.Path)

	if s.config.ReadOnly {
		s.logger.Debug("read-only store, skipping initialization", "path", s.Path)
		return nil
	}

	// 1. Directory Initialization
	if s.config.MustExist {
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			return fmt.Errorf("data directory does not exist: %s", dir)
		}
		if err != nil {
			return fmt.Errorf("failed to stat data directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", dir)
		}
	} else {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	// 2. Git Initialization
	if !s.config.Versioning {
		return nil
	}
	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}
	if !s.git.IsRepo() {
		if !s.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", dir)
		}
		if err := s.git.Init(ctx); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		s.logger.Info("initialized git repository", "dir", dir)
	}

	return nil
}

// Load reads the data file. A missing or blank file is an empty collection.
func (s *Store) Load(ctx context.Context) ([]core.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		s.logger.Debug("data file missing, starting empty", "path", s.Path)
		s.recordLoad(0)
		return []core.Note{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		s.recordLoad(0)
		return []core.Note{}, nil
	}

	notes, err := s.codec().Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrCorrupt, s.Path, err)
	}

	s.recordLoad(len(notes))
	return notes, nil
}

// Save serializes the complete collection and atomically replaces the data file.
//
// Workflow:
//  1. Reject writes in read-only mode.
//  2. Encode with the codec chosen by extension.
//  3. Write to a temp file and rename it over the data file.
//  4. (If versioning) 'git add' and 'git commit' with the change reason from ctx.
func (s *Store) Save(ctx context.Context, notes []core.Note) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := s.codec().Encode(notes)
	if err != nil {
		return fmt.Errorf("failed to serialize notes: %w", err)
	}

	if err := writeFileAtomic(s.Path, data, s.config.Perm); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	s.recordSave()
	s.logger.Debug("notes saved", "path", s.Path, "count", len(notes))

	if s.config.Versioning {
		if err := s.commit(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) commit(ctx context.Context) error {
	name := filepath.Base(s.Path)

	changed, err := s.git.HasChanges(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to git status: %w", err)
	}
	if !changed {
		return nil
	}

	if err := s.git.Add(ctx, name); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}

	msg := core.ChangeReason(ctx, "update notes")
	if err := s.git.Commit(ctx, msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// Lock implements core.Locker. It always takes the process-wide lock for the
// data file; with LockFile (and a writable store) it also holds "<Path>.lock".
func (s *Store) Lock(ctx context.Context) (func(), error) {
	lockCtx := ctx
	if s.config.LockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.config.LockTimeout)
		defer cancel()
	}

	unlock, err := core.LockKey(lockCtx, lockKey(s.Path))
	if err != nil {
		if ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %s", core.ErrLockTimeout, s.Path)
		}
		return nil, err
	}
	if !s.config.LockFile || s.config.ReadOnly {
		return unlock, nil
	}

	unlockFile, err := acquireLock(ctx, s.Path+LockSuffix, s.config.LockTimeout)
	if err != nil {
		unlock()
		return nil, err
	}
	return func() {
		unlockFile()
		unlock()
	}, nil
}

// History returns the change reasons recorded for the data file, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]string, error) {
	if !s.config.Versioning {
		return nil, fmt.Errorf("versioning is disabled")
	}
	if limit <= 0 {
		limit = 20
	}
	return s.git.Log(ctx, filepath.Base(s.Path), limit)
}

func (s *Store) recordLoad(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLoadCount = count
}

func (s *Store) recordSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastSave = &now
}

var _ core.Store = (*Store)(nil)
var _ core.Locker = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
