package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestConnectionManager_Connect(t *testing.T) {
	stream := newScriptedStream()
	client := newFakeClient(stream)

	cm := NewConnectionManager(client, testLogger(), 5*time.Millisecond)

	got, err := cm.Connect(context.Background())
	require.NoError(t, err)
	assert.Same(t, stream, got)

	hello, streams := client.calls()
	assert.Equal(t, 1, hello)
	assert.Equal(t, 1, streams)
}

func TestConnectionManager_Connect_ProbeFails(t *testing.T) {
	client := newFakeClient()
	client.helloErr = status.Error(codes.Unavailable, "connection refused")

	cm := NewConnectionManager(client, testLogger(), 5*time.Millisecond)

	_, err := cm.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, codes.Unavailable, status.Code(err))

	// The stream is never opened when the probe fails.
	_, streams := client.calls()
	assert.Zero(t, streams)
}

func TestConnectionManager_Establish_RetriesUntilConnected(t *testing.T) {
	stream := newScriptedStream()
	client := newFakeClient(stream)
	client.helloErrs = []error{
		status.Error(codes.Unavailable, "connection refused"),
		status.Error(codes.Unavailable, "connection refused"),
	}

	cm := NewConnectionManager(client, testLogger(), time.Millisecond)

	got, err := cm.Establish(context.Background(), context.Background())
	require.NoError(t, err)
	assert.Same(t, stream, got)

	hello, _ := client.calls()
	assert.Equal(t, 3, hello)
}

func TestConnectionManager_Establish_CanceledDuringBackoff(t *testing.T) {
	client := newFakeClient()
	client.helloErr = status.Error(codes.Unavailable, "connection refused")

	cm := NewConnectionManager(client, testLogger(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	start := time.Now()
	_, err := cm.Establish(ctx, context.Background())
	require.Error(t, err)

	// Cancellation interrupts the wait instead of riding it out.
	assert.Less(t, time.Since(start), time.Minute)
}
