package task

// Orchestrator is orchestration logic driven by the replay executor. The
// concrete calling contract is defined by the executor implementation; the
// worker runtime resolves orchestrators from the registry and hands them to
// the executor as opaque values.
type Orchestrator = interface{}

// Named can be implemented by orchestrator or activity types to override the
// name derived from the implementation type.
type Named interface {
	TaskName() string
}
