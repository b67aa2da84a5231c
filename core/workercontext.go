package core

import (
	"log/slog"

	"github.com/duratask/worker-go/converter"
)

// WorkerContext is process-wide state shared by every execution. It is
// created once when the worker is constructed, lives for the process
// lifetime, and is never replaced.
type WorkerContext struct {
	Converter converter.Converter

	Logger *slog.Logger

	// Scope resolves shared dependencies for task implementations.
	Scope *Scope

	// DynamicActivities holds activities registered after startup. It is
	// consulted only when the static registry misses.
	DynamicActivities *DynamicActivities
}

func NewWorkerContext(c converter.Converter, logger *slog.Logger) *WorkerContext {
	return &WorkerContext{
		Converter:         c,
		Logger:            logger,
		Scope:             NewScope(),
		DynamicActivities: NewDynamicActivities(),
	}
}
