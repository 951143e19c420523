// Package jotter is the composition root for the jotter note store.
//
// It wires the domain layer (pkg/core) to a storage adapter (pkg/adapters/...)
// and exposes functional options for configuring both.
//
// A jotter collection is an ordered list of short notes persisted as a whole
// in one artifact: by default a pretty-printed JSON file, optionally YAML or
// an SQLite database. Every operation loads the collection, works on it in
// memory and, for mutations, writes the complete collection back.
//
// Features:
//
//   - **Whole-collection persistence**: atomic replace of the data file on every change.
//   - **Dense ids**: new notes get one more than the highest id present.
//   - **Serialized mutations**: a process-wide lock per data file plus an optional lock file.
//   - **Versioning**: optional git commit per change, with the change as message.
//   - **Watching**: supervised fsnotify watcher for external edits.
//
// Usage:
//
//	repo, err := jotter.New("./data/notes.json",
//		jotter.WithLockTimeout(time.Second),
//		jotter.WithLogger(logger),
//	)
//
//	note, err := repo.Create(ctx, jotter.CreateInput{Title: "Shopping", Content: "Milk"})
package jotter
