package platform

import (
	"github.com/aretw0/jotter/pkg/core"
)

// New builds the configured store and the repository on top of it.
//
//	repo, err := jotter.New("./data/notes.json", jotter.WithLockTimeout(time.Second))
func New(uri string, opts ...Option) (*core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	var ropts []core.RepositoryOption
	if o.logger != nil {
		ropts = append(ropts, core.WithRepositoryLogger(o.logger))
	}
	if o.clock != nil {
		ropts = append(ropts, core.WithClock(o.clock))
	}

	return core.NewRepository(store, ropts...), nil
}
