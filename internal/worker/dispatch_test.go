package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/duratask/worker-go/internal/metrickeys"
	"github.com/duratask/worker-go/protocol"
	"github.com/duratask/worker-go/task"
)

type loop struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startLoop(d *Dispatcher, stream *scriptedStream) *loop {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		d.Run(ctx, stream)
	}()

	return &loop{cancel: cancel, done: done}
}

// stop shuts the loop down through the stream it is currently reading from.
func (l *loop) stop(t *testing.T, current *scriptedStream) {
	t.Helper()

	l.cancel()
	current.fail(status.Error(codes.Canceled, "shutting down"))

	select {
	case <-l.done:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatch loop did not stop")
	}
}

func TestDispatcher_ReconnectsAfterStreamFailure(t *testing.T) {
	first := newScriptedStream()
	second := newScriptedStream()
	client := newFakeClient(second)

	h := newHarness(client, &fakeExecutor{})
	h.registerActivity(t, "Echo", echoActivity())
	h.activities.Freeze()

	mc := newCountingMetrics()
	d := h.newDispatcher(5*time.Millisecond, mc)
	l := startLoop(d, first)

	first.send(activityItem("Echo", 1, "instance-1", `"a"`))
	res := recvActivityResponse(t, client)
	assert.Equal(t, `"a"`, res.Output)

	first.fail(status.Error(codes.Unavailable, "sidecar restarting"))

	// After the backoff the loop reconnects and resumes on the new stream.
	second.send(activityItem("Echo", 2, "instance-1", `"b"`))
	res = recvActivityResponse(t, client)
	assert.Equal(t, `"b"`, res.Output)

	assert.Equal(t, int64(1), mc.count(metrickeys.StreamReconnects))

	l.stop(t, second)
}

func TestDispatcher_ShutdownDuringBackoff(t *testing.T) {
	stream := newScriptedStream()
	client := newFakeClient()

	h := newHarness(client, &fakeExecutor{})
	d := h.newDispatcher(time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		d.Run(ctx, stream)
	}()

	stream.fail(status.Error(codes.Unavailable, "sidecar restarting"))

	// Let the loop enter the backoff wait, then shut down.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatch loop did not stop during backoff")
	}

	// No reconnection was attempted.
	_, streams := client.calls()
	assert.Zero(t, streams)
}

func TestDispatcher_DoesNotBlockOnSlowExecutions(t *testing.T) {
	release := make(chan struct{})
	slow := task.ActivityFunc(func(ctx context.Context, input string) (string, error) {
		<-release
		return `"slow"`, nil
	})

	stream := newScriptedStream()
	client := newFakeClient()

	h := newHarness(client, &fakeExecutor{})
	h.registerActivity(t, "Slow", slow)
	h.registerActivity(t, "Fast", echoActivity())
	h.activities.Freeze()

	d := h.newDispatcher(5*time.Millisecond, nil)
	l := startLoop(d, stream)

	stream.send(activityItem("Slow", 1, "instance-1", ""))
	stream.send(activityItem("Fast", 2, "instance-1", `"quick"`))

	// The fast item completes while the slow one is still running.
	res := recvActivityResponse(t, client)
	assert.Equal(t, int32(2), res.TaskID)

	close(release)
	res = recvActivityResponse(t, client)
	assert.Equal(t, int32(1), res.TaskID)

	l.stop(t, stream)
}

func TestDispatcher_SurvivesFailingExecutions(t *testing.T) {
	stream := newScriptedStream()
	client := newFakeClient()

	h := newHarness(client, &fakeExecutor{})
	h.registerActivity(t, "Echo", echoActivity())
	h.activities.Freeze()

	d := h.newDispatcher(5*time.Millisecond, nil)
	l := startLoop(d, stream)

	// Replay-state reconstruction fails for this item; the error is logged
	// and the loop keeps reading.
	stream.send(orchestratorItem("instance-1"))

	stream.send(activityItem("Echo", 1, "instance-1", `"still here"`))
	res := recvActivityResponse(t, client)
	assert.Equal(t, `"still here"`, res.Output)

	l.stop(t, stream)
}

func TestDispatcher_DropsUnknownWorkItems(t *testing.T) {
	stream := newScriptedStream()
	client := newFakeClient()

	h := newHarness(client, &fakeExecutor{})
	h.registerActivity(t, "Echo", echoActivity())
	h.activities.Freeze()

	mc := newCountingMetrics()
	d := h.newDispatcher(5*time.Millisecond, mc)
	l := startLoop(d, stream)

	stream.send(&protocol.WorkItem{})

	stream.send(activityItem("Echo", 1, "instance-1", `"ok"`))
	res := recvActivityResponse(t, client)
	assert.Equal(t, `"ok"`, res.Output)

	assert.Equal(t, int64(1), mc.count(metrickeys.WorkItemsDropped))
	assert.Equal(t, int64(2), mc.count(metrickeys.WorkItemsReceived))

	l.stop(t, stream)
}
