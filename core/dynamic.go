package core

import (
	"fmt"
	"strings"
	"sync"

	"github.com/duratask/worker-go/task"
)

// DynamicActivities is the always-mutable registry of activities added at
// runtime, outside the frozen static registry. Additions happen at arbitrary
// times while lookups come from concurrently executing handlers. Names match
// case-insensitively.
type DynamicActivities struct {
	mu         sync.RWMutex
	activities map[TaskKey]task.Activity
}

func NewDynamicActivities() *DynamicActivities {
	return &DynamicActivities{
		activities: map[TaskKey]task.Activity{},
	}
}

func (d *DynamicActivities) Add(key TaskKey, a task.Activity) error {
	if key.IsZero() {
		return fmt.Errorf("invalid dynamic activity key %q", key)
	}

	if a == nil {
		return fmt.Errorf("dynamic activity %q is nil", key)
	}

	nk := normalizeKey(key)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.activities[nk]; ok {
		return fmt.Errorf("dynamic activity %q already registered", key)
	}
	d.activities[nk] = a

	return nil
}

func (d *DynamicActivities) Get(key TaskKey) (task.Activity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	a, ok := d.activities[normalizeKey(key)]
	return a, ok
}

func normalizeKey(key TaskKey) TaskKey {
	return TaskKey{Name: strings.ToLower(key.Name), Version: key.Version}
}
