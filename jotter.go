package jotter

import (
	"log/slog"
	"time"

	"github.com/aretw0/jotter/internal/platform"
	"github.com/aretw0/jotter/pkg/core"
)

// --- Types ---

// Note is a public alias for the domain entity.
type Note = core.Note

// Repository is a public alias for the note repository.
type Repository = core.Repository

// CreateInput and UpdateInput are the inputs of Create and Update.
type (
	CreateInput = core.CreateInput
	UpdateInput = core.UpdateInput
)

// --- Configuration ---

// Option defines a functional option for configuring jotter.
type Option = platform.Option

// Adapter names.
const (
	AdapterFS     = platform.AdapterFS
	AdapterMemory = platform.AdapterMemory
	AdapterSQLite = platform.AdapterSQLite
)

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithStore injects a custom store; adapter selection is skipped.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithLogger sets the logger for the store and the repository.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithCodec registers a custom fs.Codec for a data file extension.
func WithCodec(ext string, c any) Option {
	return platform.WithCodec(ext, c)
}

// WithAutoInit runs git init when versioning a directory that is not a repository.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning commits the data file to git after every change.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithMustExist requires the data directory to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLockTimeout guards mutations with a lock file shared across processes.
func WithLockTimeout(timeout time.Duration) Option {
	return platform.WithLockTimeout(timeout)
}

// WithStrict rejects persisted records carrying unknown fields.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithReadOnly makes every mutation fail with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithForceTemp redirects the data file into a temporary directory.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the temp-dir sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New opens the collection at path and returns a repository over it.
func New(path string, opts ...Option) (*core.Repository, error) {
	return platform.New(path, opts...)
}

// Init builds and initializes the store without a repository.
func Init(path string, opts ...Option) (core.Store, error) {
	return platform.Init(path, opts...)
}

// --- Utils ---

// FindDataFile looks upwards from startDir for a file named name.
func FindDataFile(startDir, name string) (string, error) {
	return platform.FindDataFile(startDir, name)
}

// IsDevRun reports whether the process runs under `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}
