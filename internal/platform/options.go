package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/jotter/pkg/core"
)

// options holds the internal configuration for a jotter repository.
type options struct {
	store   core.Store
	logger  *slog.Logger
	adapter string
	clock   func() time.Time
	config  map[string]interface{}
	codecs  map[string]any
}

// Option defines a functional option for configuring jotter.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterFS,
		config:  make(map[string]interface{}),
		codecs:  make(map[string]any),
	}
}

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterMemory = "memory"
	AdapterSQLite = "sqlite"
)

// WithAdapter selects the storage adapter by name ("fs", "memory" or "sqlite").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithStore injects a ready-made store. Adapter selection is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLogger sets the logger for the store and the repository.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock overrides the time source used for note timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithCodec registers a custom codec for a data file extension (fs adapter).
// The codec must implement fs.Codec; this is checked during Init.
func WithCodec(ext string, c any) Option {
	return func(o *options) {
		o.codecs[ext] = c
	}
}

// WithAutoInit runs git init when versioning is enabled and the data
// directory is not yet a repository.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithVersioning commits the data file to git after every change.
// By default, versioning is disabled.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["versioning"] = enabled
	}
}

// WithMustExist requires the data directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithLockTimeout enables the lock file guarding mutations across processes.
// A zero timeout waits until the operation's context is done.
func WithLockTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.config["lock_file"] = true
		o.config["lock_timeout"] = timeout
	}
}

// WithStrict rejects persisted records carrying unknown fields.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.config["strict"] = strict
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Create, Update and Delete fail with core.ErrReadOnly.
// 2. Initialization (mkdir, git init, schema) is skipped.
// 3. Dev safety is bypassed (the real path is used).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithForceTemp redirects the data file into a temporary directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
// By default (true) the data file is redirected into a temporary directory
// unless it already lives there.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures,
// which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

func (o *options) bool(key string) bool {
	v, _ := o.config[key].(bool)
	return v
}
