package core

import (
	"time"

	"github.com/aretw0/introspection"
)

type operationStats struct {
	counts    map[string]int
	failures  int
	lastError string
	lastOpAt  *time.Time
}

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	StoreType  string         `json:"store_type"`
	Operations map[string]int `json:"operations"`
	Failures   int            `json:"failures"`
	LastError  string         `json:"last_error,omitempty"`
	LastOpAt   *time.Time     `json:"last_operation_at,omitempty"`
}

func (r *Repository) record(op string, err error) {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()

	if r.stats.counts == nil {
		r.stats.counts = make(map[string]int)
	}
	r.stats.counts[op]++
	now := time.Now()
	r.stats.lastOpAt = &now
	if err != nil && Kind(err) == KindStore {
		r.stats.failures++
		r.stats.lastError = err.Error()
	}
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()

	storeType := "unknown"
	if r.store != nil {
		storeType = "store"
		if comp, ok := r.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}

	ops := make(map[string]int, len(r.stats.counts))
	for k, v := range r.stats.counts {
		ops[k] = v
	}

	return RepositoryState{
		StoreType:  storeType,
		Operations: ops,
		Failures:   r.stats.failures,
		LastError:  r.stats.lastError,
		LastOpAt:   r.stats.lastOpAt,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
