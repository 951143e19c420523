// Package memory provides an in-process core.Store.
//
// It keeps the collection in memory only and is meant for tests and for
// embedding the repository where durability is not needed.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/jotter/pkg/core"
)

// Store implements core.Store on a mutex-guarded slice.
type Store struct {
	mu       sync.RWMutex
	notes    []core.Note
	readOnly bool
	saves    int

	// FailSave, when set, is returned by Save before anything is stored.
	FailSave error
	// FailLoad, when set, is returned by Load.
	FailLoad error
}

// Option configures a Store.
type Option func(*Store)

// WithNotes seeds the store.
func WithNotes(notes ...core.Note) Option {
	return func(s *Store) {
		s.notes = core.Clone(notes)
	}
}

// WithReadOnly makes Save fail with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return func(s *Store) {
		s.readOnly = enabled
	}
}

// NewStore creates an empty in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{notes: []core.Note{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize implements core.Store. There is nothing to prepare.
func (s *Store) Initialize(ctx context.Context) error {
	return ctx.Err()
}

// Load returns a copy of the stored collection.
func (s *Store) Load(ctx context.Context) ([]core.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailLoad != nil {
		return nil, s.FailLoad
	}
	return core.Clone(s.notes), nil
}

// Save replaces the stored collection with a copy of notes.
func (s *Store) Save(ctx context.Context, notes []core.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readOnly {
		return core.ErrReadOnly
	}
	if s.FailSave != nil {
		return s.FailSave
	}

	s.notes = core.Clone(notes)
	s.saves++
	return nil
}

// Lock implements core.Locker so that repositories sharing this store share
// one exclusion scope.
func (s *Store) Lock(ctx context.Context) (func(), error) {
	return core.LockKey(ctx, fmt.Sprintf("memory:%p", s))
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Notes    int  `json:"notes"`
	Saves    int  `json:"saves"`
	ReadOnly bool `json:"read_only"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Notes:    len(s.notes),
		Saves:    s.saves,
		ReadOnly: s.readOnly,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory"
}

var _ core.Store = (*Store)(nil)
var _ core.Locker = (*Store)(nil)
var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
