package replay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duratask/worker-go/core"
	"github.com/duratask/worker-go/history"
)

func startedEvent(name, version, input string) *history.Event {
	return history.NewEvent(time.Now(), history.EventType_ExecutionStarted, &history.ExecutionStartedAttributes{
		Name:    name,
		Version: version,
		Input:   input,
	})
}

func TestNewState_MissingStartEvent(t *testing.T) {
	_, err := NewState("instance-1", nil, nil)
	require.ErrorIs(t, err, ErrMissingStartEvent)
	assert.Contains(t, err.Error(), "instance-1")

	// A history without the marker fails even when other events exist.
	events := []*history.Event{
		history.NewEvent(time.Now(), history.EventType_OrchestratorStarted, &history.OrchestratorStartedAttributes{}),
		history.NewEvent(time.Now(), history.EventType_TimerFired, &history.TimerFiredAttributes{}),
	}

	_, err = NewState("instance-1", events, nil)
	require.ErrorIs(t, err, ErrMissingStartEvent)
}

func TestNewState_MarkerInPastEvents(t *testing.T) {
	past := []*history.Event{
		history.NewEvent(time.Now(), history.EventType_OrchestratorStarted, &history.OrchestratorStartedAttributes{}),
		startedEvent("Transfer", "v2", `{"amount":42}`),
	}
	newEvents := []*history.Event{
		history.NewEvent(time.Now(), history.EventType_TaskCompleted, &history.TaskCompletedAttributes{}, history.ScheduleEventID(1)),
	}

	s, err := NewState("instance-1", past, newEvents)
	require.NoError(t, err)

	assert.Equal(t, "instance-1", s.InstanceID())
	assert.Equal(t, "Transfer", s.Name())
	assert.Equal(t, "v2", s.Version())
	assert.Equal(t, `{"amount":42}`, s.Input())
	assert.Equal(t, core.NewTaskKey("Transfer", "v2"), s.Key())
	assert.Equal(t, past, s.PastEvents())
	assert.Equal(t, newEvents, s.NewEvents())
}

func TestNewState_MarkerInNewEvents(t *testing.T) {
	newEvents := []*history.Event{
		history.NewEvent(time.Now(), history.EventType_OrchestratorStarted, &history.OrchestratorStartedAttributes{}),
		startedEvent("Transfer", "", ""),
	}

	s, err := NewState("instance-1", nil, newEvents)
	require.NoError(t, err)

	assert.Equal(t, "Transfer", s.Name())
	assert.Equal(t, "", s.Version())
	assert.Equal(t, core.NewTaskKey("Transfer", ""), s.Key())
}

func TestNewState_FirstMarkerWins(t *testing.T) {
	past := []*history.Event{startedEvent("First", "", "")}
	newEvents := []*history.Event{startedEvent("Second", "", "")}

	s, err := NewState("instance-1", past, newEvents)
	require.NoError(t, err)
	assert.Equal(t, "First", s.Name())
}

func TestNewState_Deterministic(t *testing.T) {
	past := []*history.Event{startedEvent("Transfer", "v1", `"in"`)}

	a, err := NewState("instance-1", past, nil)
	require.NoError(t, err)

	b, err := NewState("instance-1", past, nil)
	require.NoError(t, err)

	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, a.Input(), b.Input())
}

func TestNewState_IgnoresNilEvents(t *testing.T) {
	past := []*history.Event{nil, startedEvent("Transfer", "", "")}

	s, err := NewState("instance-1", past, nil)
	require.NoError(t, err)
	assert.Equal(t, "Transfer", s.Name())
}
