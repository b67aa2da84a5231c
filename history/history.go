package history

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

type EventType uint

const (
	_ EventType = iota

	EventType_OrchestratorStarted

	EventType_ExecutionStarted
	EventType_ExecutionCompleted
	EventType_ExecutionTerminated

	EventType_TaskScheduled
	EventType_TaskCompleted
	EventType_TaskFailed

	EventType_TimerScheduled
	EventType_TimerFired

	EventType_SignalReceived
)

func (et EventType) String() string {
	switch et {
	case EventType_OrchestratorStarted:
		return "OrchestratorStarted"

	case EventType_ExecutionStarted:
		return "ExecutionStarted"
	case EventType_ExecutionCompleted:
		return "ExecutionCompleted"
	case EventType_ExecutionTerminated:
		return "ExecutionTerminated"

	case EventType_TaskScheduled:
		return "TaskScheduled"
	case EventType_TaskCompleted:
		return "TaskCompleted"
	case EventType_TaskFailed:
		return "TaskFailed"

	case EventType_TimerScheduled:
		return "TimerScheduled"
	case EventType_TimerFired:
		return "TimerFired"

	case EventType_SignalReceived:
		return "SignalReceived"
	default:
		return "Unknown"
	}
}

type Event struct {
	// ID is a unique identifier for this event
	ID string `json:"id,omitempty"`

	Type EventType `json:"type,omitempty"`

	Timestamp time.Time `json:"ts,omitempty"`

	// ScheduleEventID correlates events belonging together. For example, a
	// scheduled task and its completion/failure event carry the same id.
	ScheduleEventID int64 `json:"sid,omitempty"`

	// Attributes are event type specific attributes
	Attributes any `json:"attr,omitempty"`
}

func (e *Event) String() string {
	return strconv.Itoa(int(e.Type))
}

type EventOption func(e *Event)

func ScheduleEventID(scheduleEventID int64) EventOption {
	return func(e *Event) {
		e.ScheduleEventID = scheduleEventID
	}
}

func NewEvent(timestamp time.Time, eventType EventType, attributes any, opts ...EventOption) *Event {
	e := &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Timestamp:  timestamp,
		Attributes: attributes,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}
