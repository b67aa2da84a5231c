// Package log holds the structured-log field keys used across the worker.
package log

const (
	NamespaceKey = "duratask"

	InstanceIDKey = NamespaceKey + ".instance.id"

	TaskIDKey      = NamespaceKey + ".task.id"
	TaskNameKey    = NamespaceKey + ".task.name"
	TaskVersionKey = NamespaceKey + ".task.version"

	WorkItemKindKey = NamespaceKey + ".work_item.kind"

	ActionCountKey = NamespaceKey + ".actions"

	PastEventsKey = NamespaceKey + ".events.past"
	NewEventsKey  = NamespaceKey + ".events.new"

	InputSizeKey  = NamespaceKey + ".input_bytes"
	OutputSizeKey = NamespaceKey + ".output_bytes"

	RetryInKey = NamespaceKey + ".retry_in"
)
