// Package executor defines the boundary to the deterministic replay
// executor. The executor itself lives outside this module; the worker
// resolves orchestration logic from its registry and hands it to an
// implementation of OrchestrationExecutor together with the reconstructed
// replay state.
package executor

import (
	"context"

	"github.com/duratask/worker-go/protocol"
	"github.com/duratask/worker-go/replay"
	"github.com/duratask/worker-go/task"
)

// ExecutionResult is the outcome of one orchestration replay: an optional
// custom status and the ordered actions the orchestration decided on. At
// most one action is a CompleteOrchestration action.
type ExecutionResult struct {
	CustomStatus *string

	Actions []*protocol.OrchestratorAction
}

// OrchestrationExecutor drives registered orchestration logic against a
// reconstructed replay state. It returns an error on unrecoverable internal
// failure; the worker converts errors and panics into a failed execution
// result for that single work item.
type OrchestrationExecutor interface {
	Execute(ctx context.Context, state *replay.State, orchestrator task.Orchestrator) (*ExecutionResult, error)
}
