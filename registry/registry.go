// Package registry maps task keys to factories producing executable
// orchestration and activity logic. Registries are built at configuration
// time and frozen before the worker starts reading work items.
package registry

import (
	"sync"

	"github.com/duratask/worker-go/core"
)

// Factory instantiates executable logic for one work item, given the shared
// worker context.
type Factory[T any] func(wctx *core.WorkerContext) T

type Registry[T any] struct {
	mu sync.Mutex

	entries map[core.TaskKey]Factory[T]
	frozen  bool
}

func New[T any]() *Registry[T] {
	return &Registry[T]{
		entries: map[core.TaskKey]Factory[T]{},
	}
}

// Add registers a factory under the given key. Entries are write-once:
// registering a duplicate key is a configuration error, never a silent
// overwrite. The empty key and nil factories are rejected.
func (r *Registry[T]) Add(key core.TaskKey, factory Factory[T]) error {
	if key.IsZero() {
		return &ErrInvalidTaskKey{key}
	}

	if factory == nil {
		return &ErrNilFactory{key}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return &ErrRegistryFrozen{key}
	}

	if _, ok := r.entries[key]; ok {
		return &ErrTaskAlreadyRegistered{key}
	}
	r.entries[key] = factory

	return nil
}

// Freeze makes the registry immutable. Further Add calls fail; lookups need
// no synchronization with executions after this point.
func (r *Registry[T]) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frozen = true
}

func (r *Registry[T]) Lookup(key core.TaskKey) (Factory[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if factory, ok := r.entries[key]; ok {
		return factory, nil
	}

	return nil, &ErrTaskNotFound{key}
}
