package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/jotter/pkg/adapters/fs"
	"github.com/aretw0/jotter/pkg/adapters/memory"
	"github.com/aretw0/jotter/pkg/adapters/sqlite"
	"github.com/aretw0/jotter/pkg/core"
)

// Init builds the configured store and prepares it for use.
// The uri argument is adapter-specific: the data file (or its directory) for
// "fs" and "sqlite", ignored for "memory".
func Init(uri string, opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o.initStore(context.Background(), uri)
}

func (o *options) initStore(ctx context.Context, uri string) (core.Store, error) {
	// 1. Injected store
	if o.store != nil {
		return o.store, nil
	}

	// 2. Adapter selection
	var store core.Store
	var err error

	switch o.adapter {
	case AdapterFS, "":
		store, err = initFS(uri, o)
	case AdapterSQLite:
		store = initSQLite(uri, o)
	case AdapterMemory:
		store = initMemory(o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	// 3. Initialization
	if err := store.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize %s store: %w", o.adapter, err)
	}

	return store, nil
}

// resolvePath applies dev safety: under `go run`/`go test` writes go to a temp
// directory unless the store is read-only or safety was disabled.
func (o *options) resolvePath(uri, defaultName string) string {
	readOnly := o.bool("read_only")
	devSafety := true
	if v, ok := o.config["dev_safety"].(bool); ok {
		devSafety = v
	}
	bypassSafety := readOnly || !devSafety

	useTemp := o.bool("temp_dir") || (IsDevRun() && !bypassSafety)
	if uri == "" {
		uri = filepath.Join(filepath.Dir(DefaultDataFile), defaultName)
	}
	uri = normalizeDataPath(uri, defaultName)
	resolved := ResolveDataPath(uri, useTemp)

	if o.logger != nil && useTemp && resolved != uri {
		o.logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", uri, "resolved_path", resolved)
	}
	return resolved
}

func initFS(uri string, o *options) (*fs.Store, error) {
	lockTimeout, _ := o.config["lock_timeout"].(time.Duration)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	store := fs.NewStore(fs.Config{
		Path:         o.resolvePath(uri, fs.DefaultFileName),
		MustExist:    o.bool("must_exist"),
		ReadOnly:     o.bool("read_only"),
		Versioning:   o.bool("versioning"),
		AutoInit:     o.bool("auto_init"),
		LockFile:     o.bool("lock_file"),
		LockTimeout:  lockTimeout,
		Strict:       o.bool("strict"),
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})

	for ext, c := range o.codecs {
		codec, ok := c.(fs.Codec)
		if !ok {
			return nil, fmt.Errorf("codec for %s must implement fs.Codec", ext)
		}
		store.RegisterCodec(ext, codec)
	}

	return store, nil
}

func initSQLite(uri string, o *options) *sqlite.Store {
	return sqlite.NewStore(sqlite.Config{
		Path:     o.resolvePath(uri, sqlite.DefaultFileName),
		ReadOnly: o.bool("read_only"),
		Logger:   o.logger,
	})
}

func initMemory(o *options) *memory.Store {
	return memory.NewStore(memory.WithReadOnly(o.bool("read_only")))
}
