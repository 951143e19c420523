// Package sqlite implements core.Store on an embedded SQLite database.
//
// The collection is still treated as a whole: Save replaces every row inside
// one transaction, and Load returns the rows in collection order.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aretw0/jotter/pkg/core"
)

//go:embed schema.sql
var schema string

// DefaultFileName is the database file name used when only a directory is known.
const DefaultFileName = "notes.db"

// Config holds the configuration for the sqlite store.
type Config struct {
	Path     string // Database file
	ReadOnly bool
	Logger   *slog.Logger
}

// Store persists the collection in a single "notes" table.
type Store struct {
	Path     string
	readOnly bool
	logger   *slog.Logger

	mu       sync.Mutex
	db       *sql.DB
	lastSave *time.Time
	rows     int
}

// NewStore creates a new sqlite store. The database is opened by Initialize.
func NewStore(config Config) *Store {
	if config.Path == "" {
		config.Path = DefaultFileName
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		Path:     config.Path,
		readOnly: config.ReadOnly,
		logger:   logger,
	}
}

// Initialize opens the database and applies the schema.
func (s *Store) Initialize(ctx context.Context) error {
	_, err := s.conn(ctx)
	return err
}

// conn opens the database on first use.
func (s *Store) conn(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	dsn := s.Path
	if s.readOnly {
		if _, err := os.Stat(s.Path); err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		dsn = "file:" + s.Path + "?mode=ro"
	} else if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if !s.readOnly {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}

	s.logger.Debug("database opened", "path", s.Path, "read_only", s.readOnly)
	s.db = db
	return db, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Load returns every row in collection order.
func (s *Store) Load(ctx context.Context) ([]core.Note, error) {
	if s.readOnly {
		if _, err := os.Stat(s.Path); errors.Is(err, os.ErrNotExist) {
			return []core.Note{}, nil
		}
	}

	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT id, title, content, created_at, updated_at FROM notes ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []core.Note{}
	for rows.Next() {
		var (
			n                core.Note
			created, updated string
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		if n.CreatedAt, err = time.Parse(core.TimeLayout, created); err != nil {
			return nil, fmt.Errorf("%w: note %d: created_at: %w", core.ErrCorrupt, n.ID, err)
		}
		if n.UpdatedAt, err = time.Parse(core.TimeLayout, updated); err != nil {
			return nil, fmt.Errorf("%w: note %d: updated_at: %w", core.ErrCorrupt, n.ID, err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	return notes, nil
}

// Save replaces all rows with notes in one transaction.
func (s *Store) Save(ctx context.Context, notes []core.Note) error {
	if s.readOnly {
		return core.ErrReadOnly
	}

	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM notes"); err != nil {
		return fmt.Errorf("clear notes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO notes (id, position, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, n := range notes {
		_, err := stmt.ExecContext(ctx,
			n.ID, i, n.Title, n.Content,
			n.CreatedAt.UTC().Format(core.TimeLayout),
			n.UpdatedAt.UTC().Format(core.TimeLayout),
		)
		if err != nil {
			return fmt.Errorf("insert note %d: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.mu.Lock()
	now := time.Now()
	s.lastSave = &now
	s.rows = len(notes)
	s.mu.Unlock()

	s.logger.Debug("notes saved", "path", s.Path, "count", len(notes), "reason", core.ChangeReason(ctx, ""))
	return nil
}

// Lock implements core.Locker with the process-wide lock for the database file.
// Writers in other processes are left to SQLite's own locking.
func (s *Store) Lock(ctx context.Context) (func(), error) {
	key := s.Path
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}
	return core.LockKey(ctx, "sqlite:"+filepath.Clean(key))
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Path     string     `json:"path"`
	ReadOnly bool       `json:"read_only"`
	Open     bool       `json:"open"`
	Rows     int        `json:"rows"`
	LastSave *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StoreState{
		Path:     s.Path,
		ReadOnly: s.readOnly,
		Open:     s.db != nil,
		Rows:     s.rows,
		LastSave: s.lastSave,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite"
}

var _ core.Store = (*Store)(nil)
var _ core.Locker = (*Store)(nil)
var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
