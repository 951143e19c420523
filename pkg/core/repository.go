package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository enforces the Note invariants on top of a Store.
//
// Every operation loads the full collection, computes the result and, for
// mutations, saves the full collection back. The load-mutate-save sequence runs
// under the repository mutex and under the store's Locker when it offers one.
// The bundled stores key that lock by the file (or instance) they persist to,
// so repositories sharing a store never hand out the same id.
type Repository struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time

	mu sync.RWMutex

	statsMu sync.Mutex
	stats   operationStats
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithRepositoryLogger sets the logger used by the repository.
func WithRepositoryLogger(logger *slog.Logger) RepositoryOption {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock overrides the time source used for createdAt/updatedAt.
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRepository creates a new Repository backed by store.
func NewRepository(store Store, opts ...RepositoryOption) *Repository {
	r := &Repository{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store exposes the underlying store (for capability checks such as Watchable).
func (r *Repository) Store() Store {
	return r.store
}

// List returns every note in collection order.
func (r *Repository) List(ctx context.Context) ([]Note, error) {
	log := r.begin("list")

	r.mu.RLock()
	defer r.mu.RUnlock()

	notes, err := r.load(ctx, log)
	r.record("list", err)
	return notes, err
}

// Get returns the note with the given id.
func (r *Repository) Get(ctx context.Context, id int64) (Note, error) {
	log := r.begin("get", "id", id)

	r.mu.RLock()
	defer r.mu.RUnlock()

	notes, err := r.load(ctx, log)
	if err != nil {
		r.record("get", err)
		return Note{}, err
	}

	idx := indexOf(notes, id)
	if idx < 0 {
		err := fmt.Errorf("%w: %d", ErrNotFound, id)
		r.record("get", err)
		return Note{}, err
	}

	r.record("get", nil)
	return notes[idx], nil
}

// Search returns the notes whose title or content contains query, ignoring
// case, in collection order. A blank query behaves like List.
func (r *Repository) Search(ctx context.Context, query string) ([]Note, error) {
	log := r.begin("search", "query", query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	notes, err := r.load(ctx, log)
	if err != nil {
		r.record("search", err)
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		r.record("search", nil)
		return notes, nil
	}

	matches := make([]Note, 0)
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Title), needle) ||
			strings.Contains(strings.ToLower(n.Content), needle) {
			matches = append(matches, n)
		}
	}

	log.Debug("search finished", "matches", len(matches), "total", len(notes))
	r.record("search", nil)
	return matches, nil
}

// Create validates in, assigns the next id and appends the new note.
func (r *Repository) Create(ctx context.Context, in CreateInput) (Note, error) {
	log := r.begin("create")

	in, err := in.Normalize()
	if err != nil {
		log.Debug("rejected invalid input", "error", err)
		r.record("create", err)
		return Note{}, err
	}

	var created Note
	err = r.mutate(ctx, log, func(notes []Note) ([]Note, string, error) {
		id, err := nextID(notes)
		if err != nil {
			return nil, "", err
		}

		ts := r.timestamp()
		created = Note{
			ID:        id,
			Title:     in.Title,
			Content:   in.Content,
			CreatedAt: ts,
			UpdatedAt: ts,
		}
		return append(notes, created), fmt.Sprintf("create note %d", created.ID), nil
	})
	r.record("create", err)
	if err != nil {
		return Note{}, err
	}

	log.Info("note created", "id", created.ID)
	return created, nil
}

// Update replaces the supplied fields of the note with the given id and
// refreshes its updatedAt, even when nothing else changed.
func (r *Repository) Update(ctx context.Context, id int64, in UpdateInput) (Note, error) {
	log := r.begin("update", "id", id)

	var updated Note
	err := r.mutate(ctx, log, func(notes []Note) ([]Note, string, error) {
		idx := indexOf(notes, id)
		if idx < 0 {
			return nil, "", fmt.Errorf("%w: %d", ErrNotFound, id)
		}

		prev := notes[idx]
		updated = in.apply(prev)
		updated.ID = prev.ID
		updated.CreatedAt = prev.CreatedAt
		updated.UpdatedAt = r.advance(prev.UpdatedAt)

		notes[idx] = updated
		return notes, fmt.Sprintf("update note %d", id), nil
	})
	r.record("update", err)
	if err != nil {
		return Note{}, err
	}

	log.Info("note updated", "id", id)
	return updated, nil
}

// Delete removes the note with the given id.
func (r *Repository) Delete(ctx context.Context, id int64) (Deleted, error) {
	log := r.begin("delete", "id", id)

	err := r.mutate(ctx, log, func(notes []Note) ([]Note, string, error) {
		kept := make([]Note, 0, len(notes))
		for _, n := range notes {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		if len(kept) == len(notes) {
			return nil, "", fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return kept, fmt.Sprintf("delete note %d", id), nil
	})
	r.record("delete", err)
	if err != nil {
		return Deleted{}, err
	}

	log.Info("note deleted", "id", id)
	return Deleted{ID: id}, nil
}

// mutate runs one load-mutate-save sequence under the repository lock.
// fn returns the new collection and the change reason; an error from fn aborts
// the sequence without saving.
func (r *Repository) mutate(ctx context.Context, log *slog.Logger, fn func([]Note) ([]Note, string, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if locker, ok := r.store.(Locker); ok {
		unlock, err := locker.Lock(ctx)
		if err != nil {
			log.Error("failed to acquire store lock", "error", err)
			return fmt.Errorf("%w: failed to acquire lock: %w", ErrStore, err)
		}
		defer unlock()
	}

	notes, err := r.load(ctx, log)
	if err != nil {
		return err
	}

	next, reason, err := fn(notes)
	if err != nil {
		return err
	}

	saveCtx := ctx
	if ChangeReason(ctx, "") == "" {
		saveCtx = context.WithValue(ctx, ChangeReasonKey, reason)
	}

	if err := r.store.Save(saveCtx, next); err != nil {
		log.Error("failed to save notes", "error", err)
		return fmt.Errorf("%w: failed to save notes: %w", ErrStore, err)
	}
	return nil
}

func (r *Repository) load(ctx context.Context, log *slog.Logger) ([]Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notes, err := r.store.Load(ctx)
	if err != nil {
		log.Error("failed to load notes", "error", err)
		return nil, fmt.Errorf("%w: failed to load notes: %w", ErrStore, err)
	}
	return Clone(notes), nil
}

func (r *Repository) begin(op string, args ...any) *slog.Logger {
	log := r.logger.With("op", op, "op_id", uuid.NewString())
	log.Debug("operation started", args...)
	return log
}

// timestamp returns the current time at the precision the collection is persisted with.
func (r *Repository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

// advance returns a timestamp strictly after prev.
func (r *Repository) advance(prev time.Time) time.Time {
	ts := r.timestamp()
	if !ts.After(prev) {
		ts = prev.Add(time.Millisecond)
	}
	return ts
}

func indexOf(notes []Note, id int64) int {
	for i, n := range notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// nextID is max(id)+1, or 1 for an empty collection. It fails once the
// highest id is math.MaxInt64.
func nextID(notes []Note) (int64, error) {
	var highest int64
	for _, n := range notes {
		if n.ID > highest {
			highest = n.ID
		}
	}
	if highest == math.MaxInt64 {
		return 0, fmt.Errorf("%w: note id space exhausted", ErrStore)
	}
	return highest + 1, nil
}
