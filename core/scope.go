package core

import "sync"

// Scope is a simple dependency-resolution scope shared by all executions.
// Values are provided by the host process before or after the worker starts
// and resolved from concurrently running task implementations.
type Scope struct {
	mu     sync.RWMutex
	values map[string]any
}

func NewScope() *Scope {
	return &Scope{
		values: map[string]any{},
	}
}

func (s *Scope) Provide(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[name] = value
}

func (s *Scope) Resolve(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[name]
	return v, ok
}
