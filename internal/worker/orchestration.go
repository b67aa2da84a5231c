package worker

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duratask/worker-go/core"
	"github.com/duratask/worker-go/executor"
	im "github.com/duratask/worker-go/internal/metrics"
	"github.com/duratask/worker-go/internal/metrickeys"
	"github.com/duratask/worker-go/internal/workererrors"
	"github.com/duratask/worker-go/log"
	"github.com/duratask/worker-go/metrics"
	"github.com/duratask/worker-go/protocol"
	"github.com/duratask/worker-go/registry"
	"github.com/duratask/worker-go/replay"
	"github.com/duratask/worker-go/sidecar"
	"github.com/duratask/worker-go/task"
)

// OrchestrationTaskHandler executes orchestration-replay requests: it
// reconstructs replay state, resolves the registered orchestration, runs it
// through the replay executor, and reports the resulting actions back to the
// sidecar.
type OrchestrationTaskHandler struct {
	client sidecar.Client

	orchestrations *registry.Registry[task.Orchestrator]
	executor       executor.OrchestrationExecutor
	wctx           *core.WorkerContext

	logger  *slog.Logger
	tracer  trace.Tracer
	metrics metrics.Client
}

func NewOrchestrationTaskHandler(
	client sidecar.Client,
	orchestrations *registry.Registry[task.Orchestrator],
	exec executor.OrchestrationExecutor,
	wctx *core.WorkerContext,
	logger *slog.Logger,
	tracer trace.Tracer,
	mc metrics.Client,
) *OrchestrationTaskHandler {
	return &OrchestrationTaskHandler{
		client:         client,
		orchestrations: orchestrations,
		executor:       exec,
		wctx:           wctx,
		logger:         logger,
		tracer:         tracer,
		metrics:        mc,
	}
}

// Handle processes one orchestrator request. A failed replay-state
// reconstruction is fatal for the work item: the error propagates and no
// response is sent. Every other failure is converted into a failed
// completion action and reported in-band.
func (h *OrchestrationTaskHandler) Handle(ctx context.Context, req *protocol.OrchestratorRequest) error {
	h.logger.DebugContext(ctx, "received orchestrator request",
		log.InstanceIDKey, req.InstanceID,
		log.PastEventsKey, len(req.PastEvents),
		log.NewEventsKey, len(req.NewEvents))

	state, err := replay.NewState(req.InstanceID, req.PastEvents, req.NewEvents)
	if err != nil {
		return fmt.Errorf("reconstructing replay state: %w", err)
	}

	ctx, span := h.tracer.Start(ctx, "OrchestratorTaskExecution", trace.WithAttributes(
		attribute.String("orchestration", state.Name()),
		attribute.String("instance_id", req.InstanceID),
	))
	defer span.End()

	timer := im.NewTimer(h.metrics, metrickeys.OrchestratorTaskProcessed,
		metrics.Tags{metrickeys.OrchestrationName: state.Name()})
	defer timer.Stop()

	var result *executor.ExecutionResult

	factory, err := h.orchestrations.Lookup(state.Key())
	if err != nil {
		result = failedResult(fmt.Sprintf("No task orchestration named '%s' was found.", state.Name()))
	} else {
		orchestrator := factory(h.wctx)

		result, err = h.execute(ctx, state, orchestrator)
		if err != nil {
			h.logger.ErrorContext(ctx, "orchestration execution failed",
				log.InstanceIDKey, req.InstanceID, "error", err)
			result = failedResult(workererrors.Details(err))
		}
	}

	h.normalizeFailure(ctx, result)

	res := &protocol.OrchestratorResponse{
		InstanceID:   req.InstanceID,
		CustomStatus: result.CustomStatus,
		Actions:      result.Actions,
	}

	h.logger.DebugContext(ctx, "sending orchestrator response",
		log.InstanceIDKey, req.InstanceID,
		log.ActionCountKey, len(res.Actions))

	if err := h.client.CompleteOrchestratorTask(ctx, res); err != nil {
		return fmt.Errorf("completing orchestrator task: %w", err)
	}

	return nil
}

// execute invokes the replay executor inside a single failure boundary. The
// executor's own invocation and all user logic it runs are covered; a panic
// surfaces as an error carrying its stack.
func (h *OrchestrationTaskHandler) execute(
	ctx context.Context, state *replay.State, orchestrator task.Orchestrator,
) (result *executor.ExecutionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = workererrors.FromPanic(r)
		}
	}()

	return h.executor.Execute(ctx, state, orchestrator)
}

// normalizeFailure rewrites the result payload of a failed completion action
// to the generic failure envelope, so failure detail reaches callers the
// same way regardless of which code path produced it.
func (h *OrchestrationTaskHandler) normalizeFailure(ctx context.Context, result *executor.ExecutionResult) {
	for _, action := range result.Actions {
		complete := action.CompleteOrchestration
		if complete == nil || complete.Status != protocol.OrchestrationStatusFailed {
			continue
		}

		if complete.FailureDetails == nil || complete.FailureDetails.ErrorMessage == "" {
			continue
		}

		envelope, err := workererrors.Serialize(h.wctx.Converter, workererrors.NewFailure(
			"The orchestrator failed with an unhandled exception.",
			complete.FailureDetails.ErrorMessage,
		))
		if err != nil {
			h.logger.ErrorContext(ctx, "serializing failure envelope", "error", err)
			continue
		}

		complete.Result = &envelope
	}
}

func failedResult(message string) *executor.ExecutionResult {
	return &executor.ExecutionResult{
		Actions: []*protocol.OrchestratorAction{
			{
				CompleteOrchestration: &protocol.CompleteOrchestrationAction{
					Status: protocol.OrchestrationStatusFailed,
					FailureDetails: &protocol.FailureDetails{
						ErrorType:    "TaskFailure",
						ErrorMessage: message,
					},
				},
			},
		},
	}
}
