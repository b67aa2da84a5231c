package task

import "context"

// ActivityInfo describes the invocation an activity is running for.
type ActivityInfo struct {
	Name    string
	Version string

	// TaskID is scoped to the owning orchestration instance.
	TaskID int32

	OrchestrationInstanceID string
}

type activityInfoKey struct{}

// WithActivityInfo returns a context carrying the invocation info. The worker
// installs this before running an activity.
func WithActivityInfo(ctx context.Context, info ActivityInfo) context.Context {
	return context.WithValue(ctx, activityInfoKey{}, info)
}

// ActivityInfoFromContext returns the invocation info for the current
// activity execution.
func ActivityInfoFromContext(ctx context.Context) (ActivityInfo, bool) {
	info, ok := ctx.Value(activityInfoKey{}).(ActivityInfo)
	return info, ok
}
