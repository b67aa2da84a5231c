package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/duratask/worker-go/log"
	"github.com/duratask/worker-go/sidecar"
)

// ConnectionManager owns the control-channel handle. It probes the sidecar
// for liveness and opens the work-item stream, retrying with a fixed
// interval when the sidecar is unreachable.
type ConnectionManager struct {
	client sidecar.Client

	logger *slog.Logger

	retryInterval time.Duration
}

func NewConnectionManager(client sidecar.Client, logger *slog.Logger, retryInterval time.Duration) *ConnectionManager {
	return &ConnectionManager{
		client:        client,
		logger:        logger,
		retryInterval: retryInterval,
	}
}

// Connect performs the liveness probe and opens the work-item stream, both
// bound to ctx. An unreachable sidecar surfaces as a gRPC Unavailable error.
func (cm *ConnectionManager) Connect(ctx context.Context) (sidecar.WorkItemStream, error) {
	return cm.connect(ctx, ctx)
}

func (cm *ConnectionManager) connect(probeCtx, streamCtx context.Context) (sidecar.WorkItemStream, error) {
	if err := cm.client.Hello(probeCtx); err != nil {
		return nil, fmt.Errorf("probing sidecar: %w", err)
	}

	stream, err := cm.client.GetWorkItems(streamCtx)
	if err != nil {
		return nil, fmt.Errorf("opening work-item stream: %w", err)
	}

	return stream, nil
}

// Establish retries connecting indefinitely with the fixed retry interval,
// logging each failed attempt. Canceling ctx, during the probe or during the
// wait, aborts with the cancellation error. The opened stream is bound to
// streamCtx, the dispatch loop's shutdown signal, so canceling the start-up
// ctx afterwards does not sever a live stream.
func (cm *ConnectionManager) Establish(ctx, streamCtx context.Context) (sidecar.WorkItemStream, error) {
	var stream sidecar.WorkItemStream

	connect := func() error {
		s, err := cm.connect(ctx, streamCtx)
		if err != nil {
			return err
		}

		stream = s
		return nil
	}

	notify := func(err error, wait time.Duration) {
		cm.logger.WarnContext(ctx, "could not connect to sidecar", "error", err, log.RetryInKey, wait)
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(cm.retryInterval), ctx)
	if err := backoff.RetryNotify(connect, b, notify); err != nil {
		return nil, fmt.Errorf("connecting to sidecar: %w", err)
	}

	return stream, nil
}
