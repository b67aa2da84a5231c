package history

import "time"

// OrchestratorStartedAttributes marks the start of one replay pass; the
// event's timestamp is the orchestration's current time.
type OrchestratorStartedAttributes struct{}

type ExecutionStartedAttributes struct {
	Name string `json:"name,omitempty"`

	Version string `json:"version,omitempty"`

	Input string `json:"input,omitempty"`
}

type ExecutionCompletedAttributes struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type ExecutionTerminatedAttributes struct {
	Input string `json:"input,omitempty"`
}

type TaskScheduledAttributes struct {
	Name string `json:"name,omitempty"`

	Version string `json:"version,omitempty"`

	Input string `json:"input,omitempty"`
}

type TaskCompletedAttributes struct {
	Result string `json:"result,omitempty"`
}

type TaskFailedAttributes struct {
	Reason string `json:"reason,omitempty"`
}

type TimerScheduledAttributes struct {
	FireAt time.Time `json:"fire_at,omitempty"`
}

type TimerFiredAttributes struct {
	FireAt time.Time `json:"fire_at,omitempty"`
}

type SignalReceivedAttributes struct {
	Name string `json:"name,omitempty"`

	Input string `json:"input,omitempty"`
}
