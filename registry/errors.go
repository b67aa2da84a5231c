package registry

import (
	"fmt"

	"github.com/duratask/worker-go/core"
)

// Registration errors are configuration errors: they surface immediately to
// the caller building the registry and are never deferred to runtime.

type ErrInvalidTaskKey struct {
	Key core.TaskKey
}

func (e *ErrInvalidTaskKey) Error() string {
	return fmt.Sprintf("invalid task key %q", e.Key)
}

type ErrNilFactory struct {
	Key core.TaskKey
}

func (e *ErrNilFactory) Error() string {
	return fmt.Sprintf("nil factory for task %q", e.Key)
}

type ErrTaskAlreadyRegistered struct {
	Key core.TaskKey
}

func (e *ErrTaskAlreadyRegistered) Error() string {
	return fmt.Sprintf("task %q already registered", e.Key)
}

type ErrRegistryFrozen struct {
	Key core.TaskKey
}

func (e *ErrRegistryFrozen) Error() string {
	return fmt.Sprintf("registering task %q: registry is frozen", e.Key)
}

type ErrTaskNotFound struct {
	Key core.TaskKey
}

func (e *ErrTaskNotFound) Error() string {
	return fmt.Sprintf("task %q not found", e.Key)
}
