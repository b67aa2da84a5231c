package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/duratask/worker-go/internal/metrickeys"
	"github.com/duratask/worker-go/internal/workererrors"
	"github.com/duratask/worker-go/log"
	"github.com/duratask/worker-go/metrics"
	"github.com/duratask/worker-go/protocol"
	"github.com/duratask/worker-go/sidecar"
)

// Dispatcher is the single sequential reader of the work-item stream. Each
// received item is executed independently; the loop only ever blocks on the
// next stream read and, after a stream failure, on the reconnect backoff.
type Dispatcher struct {
	cm *ConnectionManager

	orchestrations *OrchestrationTaskHandler
	activities     *ActivityTaskHandler

	logger  *slog.Logger
	clock   clock.Clock
	metrics metrics.Client

	backoffInterval time.Duration
}

func NewDispatcher(
	cm *ConnectionManager,
	orchestrations *OrchestrationTaskHandler,
	activities *ActivityTaskHandler,
	logger *slog.Logger,
	clk clock.Clock,
	mc metrics.Client,
	backoffInterval time.Duration,
) *Dispatcher {
	return &Dispatcher{
		cm:              cm,
		orchestrations:  orchestrations,
		activities:      activities,
		logger:          logger,
		clock:           clk,
		metrics:         mc,
		backoffInterval: backoffInterval,
	}
}

// Run reads work items until ctx, the shutdown signal, is canceled. Stream
// failures lead through a fixed backoff into reconnection; they never
// terminate the loop. Dispatched executions are not awaited.
func (d *Dispatcher) Run(ctx context.Context, stream sidecar.WorkItemStream) {
	for {
		item, err := stream.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return
			}

			d.logStreamError(ctx, err)

			if !d.sleep(ctx) {
				return
			}

			s, ok := d.reconnect(ctx)
			if !ok {
				return
			}
			stream = s

			continue
		}

		d.dispatch(item)
	}
}

func (d *Dispatcher) logStreamError(ctx context.Context, err error) {
	switch status.Code(err) {
	case codes.Canceled:
		d.logger.InfoContext(ctx, "sidecar disconnected", "error", err)
	case codes.Unavailable:
		d.logger.WarnContext(ctx, "sidecar unavailable", "error", err)
	default:
		d.logger.ErrorContext(ctx, "unexpected error reading work items", "error", err)
	}
}

// sleep waits out the fixed backoff interval. It returns false when the
// shutdown signal interrupted the wait.
func (d *Dispatcher) sleep(ctx context.Context) bool {
	t := d.clock.Timer(d.backoffInterval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// reconnect re-establishes the work-item stream, cycling through the backoff
// on repeated failure. It returns false only on shutdown.
func (d *Dispatcher) reconnect(ctx context.Context) (sidecar.WorkItemStream, bool) {
	for {
		stream, err := d.cm.Connect(ctx)
		if err == nil {
			d.metrics.Counter(metrickeys.StreamReconnects, metrics.Tags{}, 1)
			return stream, true
		}

		if ctx.Err() != nil {
			return nil, false
		}

		d.logStreamError(ctx, err)

		if !d.sleep(ctx) {
			return nil, false
		}
	}
}

func (d *Dispatcher) dispatch(item *protocol.WorkItem) {
	d.metrics.Counter(metrickeys.WorkItemsReceived, metrics.Tags{metrickeys.WorkItemKind: item.Kind()}, 1)

	switch {
	case item.OrchestratorRequest != nil:
		req := item.OrchestratorRequest
		d.spawn(req.InstanceID, func(ctx context.Context) error {
			return d.orchestrations.Handle(ctx, req)
		})

	case item.ActivityRequest != nil:
		req := item.ActivityRequest
		d.spawn(req.OrchestrationInstanceID, func(ctx context.Context) error {
			return d.activities.Handle(ctx, req)
		})

	default:
		d.metrics.Counter(metrickeys.WorkItemsDropped, metrics.Tags{}, 1)
		d.logger.Warn("dropping unknown work item", log.WorkItemKindKey, item.Kind())
	}
}

// spawn runs fn as an independent execution. Failures, including panics from
// user code, are logged with the best-available instance correlation id and
// discarded; they never reach the read loop.
func (d *Dispatcher) spawn(instanceID string, fn func(context.Context) error) {
	go func() {
		// Executions outlive the read loop's shutdown signal.
		ctx := context.Background()

		defer func() {
			if r := recover(); r != nil {
				err := workererrors.FromPanic(r)
				d.logger.Error("work item execution panicked",
					log.InstanceIDKey, instanceID, "error", err)
			}
		}()

		if err := fn(ctx); err != nil {
			d.logger.Error("work item execution failed",
				log.InstanceIDKey, instanceID, "error", err)
		}
	}()
}
