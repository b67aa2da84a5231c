package history

import (
	"encoding/json"
	"fmt"
)

func (e *Event) UnmarshalJSON(data []byte) error {
	type Aevent Event
	a := &struct {
		// Attributes allows us to defer unmarshaling the attributes until the
		// event type is known. Has to match the struct tag in Event.
		Attributes json.RawMessage `json:"attr,omitempty"`
		*Aevent
	}{
		Aevent: (*Aevent)(e),
	}

	if err := json.Unmarshal(data, a); err != nil {
		return err
	}

	attributes, err := DeserializeAttributes(e.Type, a.Attributes)
	if err != nil {
		return err
	}

	e.Attributes = attributes

	return nil
}

func DeserializeAttributes(eventType EventType, attributes []byte) (attr any, err error) {
	switch eventType {
	case EventType_OrchestratorStarted:
		attr = &OrchestratorStartedAttributes{}

	case EventType_ExecutionStarted:
		attr = &ExecutionStartedAttributes{}
	case EventType_ExecutionCompleted:
		attr = &ExecutionCompletedAttributes{}
	case EventType_ExecutionTerminated:
		attr = &ExecutionTerminatedAttributes{}

	case EventType_TaskScheduled:
		attr = &TaskScheduledAttributes{}
	case EventType_TaskCompleted:
		attr = &TaskCompletedAttributes{}
	case EventType_TaskFailed:
		attr = &TaskFailedAttributes{}

	case EventType_TimerScheduled:
		attr = &TimerScheduledAttributes{}
	case EventType_TimerFired:
		attr = &TimerFiredAttributes{}

	case EventType_SignalReceived:
		attr = &SignalReceivedAttributes{}

	default:
		return nil, fmt.Errorf("unknown event type %d during deserialization", eventType)
	}

	if len(attributes) == 0 {
		return attr, nil
	}

	if err := json.Unmarshal(attributes, attr); err != nil {
		return nil, fmt.Errorf("deserializing attributes for event type %v: %w", eventType, err)
	}

	return attr, nil
}
