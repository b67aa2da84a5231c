package worker

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duratask/worker-go/core"
	im "github.com/duratask/worker-go/internal/metrics"
	"github.com/duratask/worker-go/internal/metrickeys"
	"github.com/duratask/worker-go/internal/workererrors"
	"github.com/duratask/worker-go/log"
	"github.com/duratask/worker-go/metrics"
	"github.com/duratask/worker-go/protocol"
	"github.com/duratask/worker-go/registry"
	"github.com/duratask/worker-go/sidecar"
	"github.com/duratask/worker-go/task"
)

// ActivityTaskHandler executes activity-invocation requests. Activities are
// resolved from the static registry first, then from the worker context's
// dynamic map. A response is always sent; failures travel in-band as
// serialized failure envelopes.
type ActivityTaskHandler struct {
	client sidecar.Client

	activities *registry.Registry[task.Activity]
	wctx       *core.WorkerContext

	logger  *slog.Logger
	tracer  trace.Tracer
	metrics metrics.Client
}

func NewActivityTaskHandler(
	client sidecar.Client,
	activities *registry.Registry[task.Activity],
	wctx *core.WorkerContext,
	logger *slog.Logger,
	tracer trace.Tracer,
	mc metrics.Client,
) *ActivityTaskHandler {
	return &ActivityTaskHandler{
		client:     client,
		activities: activities,
		wctx:       wctx,
		logger:     logger,
		tracer:     tracer,
		metrics:    mc,
	}
}

func (h *ActivityTaskHandler) Handle(ctx context.Context, req *protocol.ActivityRequest) error {
	h.logger.DebugContext(ctx, "received activity request",
		log.InstanceIDKey, req.OrchestrationInstanceID,
		log.TaskIDKey, req.TaskID,
		log.TaskNameKey, req.Name,
		log.TaskVersionKey, req.Version,
		log.InputSizeKey, len(req.Input))

	timer := im.NewTimer(h.metrics, metrickeys.ActivityTaskProcessed,
		metrics.Tags{metrickeys.ActivityName: req.Name})
	defer timer.Stop()

	output := h.run(ctx, req)

	res := &protocol.ActivityResponse{
		InstanceID: req.OrchestrationInstanceID,
		TaskID:     req.TaskID,
		Output:     output,
	}

	h.logger.DebugContext(ctx, "sending activity response",
		log.InstanceIDKey, req.OrchestrationInstanceID,
		log.TaskIDKey, req.TaskID,
		log.OutputSizeKey, len(output))

	if err := h.client.CompleteActivityTask(ctx, res); err != nil {
		return fmt.Errorf("completing activity task: %w", err)
	}

	return nil
}

func (h *ActivityTaskHandler) run(ctx context.Context, req *protocol.ActivityRequest) string {
	activity, ok := h.resolve(core.NewTaskKey(req.Name, req.Version))
	if !ok {
		return h.failureOutput(ctx, fmt.Sprintf("No task activity named '%s' was found.", req.Name), "")
	}

	ctx = task.WithActivityInfo(ctx, task.ActivityInfo{
		Name:                    req.Name,
		Version:                 req.Version,
		TaskID:                  req.TaskID,
		OrchestrationInstanceID: req.OrchestrationInstanceID,
	})

	ctx, span := h.tracer.Start(ctx, "ActivityTaskExecution", trace.WithAttributes(
		attribute.String("activity", req.Name),
		attribute.String("instance_id", req.OrchestrationInstanceID),
		attribute.Int("task_id", int(req.TaskID)),
	))
	defer span.End()

	output, err := h.invoke(ctx, activity, req.Input)
	if err != nil {
		h.logger.ErrorContext(ctx, "activity execution failed",
			log.InstanceIDKey, req.OrchestrationInstanceID,
			log.TaskIDKey, req.TaskID,
			log.TaskNameKey, req.Name,
			"error", err)

		return h.failureOutput(ctx,
			fmt.Sprintf("Task activity '%s' (#%d) failed with an unhandled exception.", req.Name, req.TaskID),
			workererrors.Details(err))
	}

	return output
}

// resolve checks the static registry first and falls back to the dynamic
// activity map on a miss.
func (h *ActivityTaskHandler) resolve(key core.TaskKey) (task.Activity, bool) {
	if factory, err := h.activities.Lookup(key); err == nil {
		return factory(h.wctx), true
	}

	return h.wctx.DynamicActivities.Get(key)
}

// invoke runs the activity inside a failure boundary; panics surface as
// errors carrying their stack.
func (h *ActivityTaskHandler) invoke(ctx context.Context, activity task.Activity, input string) (output string, err error) {
	defer func() {
		if r := recover(); r != nil {
			output = ""
			err = workererrors.FromPanic(r)
		}
	}()

	return activity.Run(ctx, input)
}

func (h *ActivityTaskHandler) failureOutput(ctx context.Context, message, details string) string {
	envelope, err := workererrors.Serialize(h.wctx.Converter, workererrors.NewFailure(message, details))
	if err != nil {
		h.logger.ErrorContext(ctx, "serializing failure envelope", "error", err)
		return message
	}

	return envelope
}
