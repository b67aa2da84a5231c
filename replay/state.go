// Package replay reconstructs the ordered view of an orchestration
// instance's history that the replay executor resumes deterministic
// execution from.
package replay

import (
	"errors"
	"fmt"

	"github.com/duratask/worker-go/core"
	"github.com/duratask/worker-go/history"
)

// ErrMissingStartEvent indicates that the combined past and new events
// contain no execution-started marker. Reconstruction fails before any user
// logic runs.
var ErrMissingStartEvent = errors.New("history contains no execution-started event")

// State is the reconstructed replay state for one orchestration instance.
// Past events are folded first to establish the baseline, then new events
// advance it. Given identical inputs the fold is deterministic.
type State struct {
	instanceID string

	pastEvents []*history.Event
	newEvents  []*history.Event

	started *history.ExecutionStartedAttributes
}

func NewState(instanceID string, pastEvents, newEvents []*history.Event) (*State, error) {
	s := &State{
		instanceID: instanceID,
		pastEvents: pastEvents,
		newEvents:  newEvents,
	}

	for _, e := range pastEvents {
		s.apply(e)
	}

	for _, e := range newEvents {
		s.apply(e)
	}

	if s.started == nil {
		return nil, fmt.Errorf("reconstructing instance %q: %w", instanceID, ErrMissingStartEvent)
	}

	return s, nil
}

func (s *State) apply(e *history.Event) {
	if e == nil || s.started != nil {
		return
	}

	if e.Type != history.EventType_ExecutionStarted {
		return
	}

	if attr, ok := e.Attributes.(*history.ExecutionStartedAttributes); ok {
		s.started = attr
	}
}

func (s *State) InstanceID() string {
	return s.instanceID
}

// Name is the orchestration name derived from the execution-started marker.
func (s *State) Name() string {
	return s.started.Name
}

// Version is the orchestration version derived from the execution-started
// marker; empty means unversioned.
func (s *State) Version() string {
	return s.started.Version
}

// Input is the serialized orchestration input.
func (s *State) Input() string {
	return s.started.Input
}

func (s *State) Key() core.TaskKey {
	return core.NewTaskKey(s.Name(), s.Version())
}

func (s *State) PastEvents() []*history.Event {
	return s.pastEvents
}

func (s *State) NewEvents() []*history.Event {
	return s.newEvents
}
