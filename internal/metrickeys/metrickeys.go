package metrickeys

const (
	Prefix = "duratask."

	WorkItemsReceived = Prefix + "work_items.received"
	WorkItemsDropped  = Prefix + "work_items.dropped"

	OrchestratorTaskProcessed = Prefix + "orchestrator.task.processed"
	ActivityTaskProcessed     = Prefix + "activity.task.processed"

	StreamReconnects = Prefix + "stream.reconnects"
)

// Tag names
const (
	WorkItemKind = "kind"

	OrchestrationName = "orchestration"
	ActivityName      = "activity"
)
