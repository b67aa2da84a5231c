// Package sidecar provides the control-plane client for the coordination
// sidecar: a liveness probe, the server-streaming work-item call, and the
// unary completion calls.
package sidecar

import (
	"context"

	"github.com/duratask/worker-go/protocol"
)

// Client is the control channel to the sidecar. A live connection carries at
// most one active work-item stream at a time; completion calls are
// independent unary calls and never read from the stream.
type Client interface {
	// Hello is a unary liveness probe with no payload, used to fail fast
	// before opening the work-item stream.
	Hello(ctx context.Context) error

	// GetWorkItems opens the server-streaming call yielding work items. The
	// stream may terminate with a transient-connectivity or cancellation
	// status at any time, requiring reconnection.
	GetWorkItems(ctx context.Context) (WorkItemStream, error)

	CompleteOrchestratorTask(ctx context.Context, res *protocol.OrchestratorResponse) error

	CompleteActivityTask(ctx context.Context, res *protocol.ActivityResponse) error
}

type WorkItemStream interface {
	Recv() (*protocol.WorkItem, error)
}
