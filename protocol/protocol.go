// Package protocol defines the messages exchanged with the sidecar over the
// control channel. Messages are JSON-encoded on the wire; see Codec.
package protocol

import (
	"time"

	"github.com/duratask/worker-go/history"
)

// WorkItem is one unit of work received from the sidecar. Exactly one arm of
// the union is set; items with no known arm are logged and dropped.
type WorkItem struct {
	OrchestratorRequest *OrchestratorRequest `json:"orchestratorRequest,omitempty"`
	ActivityRequest     *ActivityRequest     `json:"activityRequest,omitempty"`
}

// Kind describes which arm of the union is set.
func (wi *WorkItem) Kind() string {
	switch {
	case wi.OrchestratorRequest != nil:
		return "orchestrator"
	case wi.ActivityRequest != nil:
		return "activity"
	default:
		return "unknown"
	}
}

type OrchestratorRequest struct {
	InstanceID string `json:"instanceId"`

	PastEvents []*history.Event `json:"pastEvents,omitempty"`
	NewEvents  []*history.Event `json:"newEvents,omitempty"`
}

type OrchestratorResponse struct {
	InstanceID string `json:"instanceId"`

	CustomStatus *string `json:"customStatus,omitempty"`

	Actions []*OrchestratorAction `json:"actions,omitempty"`
}

type ActivityRequest struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`

	// TaskID is scoped to the owning orchestration instance.
	TaskID int32 `json:"taskId"`

	OrchestrationInstanceID string `json:"orchestrationInstanceId"`

	Input string `json:"input,omitempty"`
}

type ActivityResponse struct {
	InstanceID string `json:"instanceId"`

	TaskID int32 `json:"taskId"`

	Output string `json:"output,omitempty"`
}

type OrchestrationStatus string

const (
	OrchestrationStatusRunning        OrchestrationStatus = "Running"
	OrchestrationStatusCompleted      OrchestrationStatus = "Completed"
	OrchestrationStatusFailed         OrchestrationStatus = "Failed"
	OrchestrationStatusTerminated     OrchestrationStatus = "Terminated"
	OrchestrationStatusContinuedAsNew OrchestrationStatus = "ContinuedAsNew"
)

// OrchestratorAction is one decision produced by an orchestration replay.
// Exactly one arm of the union is set. At most one action in a response may
// be a CompleteOrchestration action.
type OrchestratorAction struct {
	ID int32 `json:"id"`

	CompleteOrchestration *CompleteOrchestrationAction `json:"completeOrchestration,omitempty"`
	ScheduleTask          *ScheduleTaskAction          `json:"scheduleTask,omitempty"`
	CreateTimer           *CreateTimerAction           `json:"createTimer,omitempty"`
}

type CompleteOrchestrationAction struct {
	Status OrchestrationStatus `json:"orchestrationStatus"`

	Result *string `json:"result,omitempty"`

	FailureDetails *FailureDetails `json:"failureDetails,omitempty"`
}

type ScheduleTaskAction struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Input   *string `json:"input,omitempty"`
}

type CreateTimerAction struct {
	FireAt time.Time `json:"fireAt"`
}

type FailureDetails struct {
	ErrorType    string  `json:"errorType,omitempty"`
	ErrorMessage string  `json:"errorMessage,omitempty"`
	StackTrace   *string `json:"stackTrace,omitempty"`
}

type HelloRequest struct{}

type HelloResponse struct{}

type GetWorkItemsRequest struct{}

type CompleteTaskResponse struct{}
