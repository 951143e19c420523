package core

import "context"

// Store defines the contract for durably persisting the whole note collection.
// Implementations write the complete collection on every Save; there are no
// incremental writes.
type Store interface {
	// Initialize ensures the underlying storage is ready (e.g., create directories, git init, schema migration).
	Initialize(ctx context.Context) error

	// Load reads the persisted collection.
	// A missing artifact yields an empty collection. Undecodable data is an error wrapping ErrCorrupt.
	Load(ctx context.Context) ([]Note, error)

	// Save replaces the persisted collection with notes.
	Save(ctx context.Context, notes []Note) error
}

// Locker is implemented by stores that can exclude other processes while a
// load-mutate-save sequence is in flight.
type Locker interface {
	// Lock blocks until the lock is held, ctx is done or the store gives up.
	Lock(ctx context.Context) (unlock func(), err error)
}

// Watchable defines an interface for stores that can report external changes.
type Watchable interface {
	// Watch emits events for artifacts matching pattern until ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
