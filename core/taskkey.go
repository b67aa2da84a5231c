package core

// TaskKey identifies registered orchestration or activity logic. An empty
// Version means the task is unversioned. Equality is structural.
type TaskKey struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

func NewTaskKey(name, version string) TaskKey {
	return TaskKey{Name: name, Version: version}
}

// IsZero reports whether the key is the invalid empty key. Keys without a
// name must never be registered or looked up successfully.
func (k TaskKey) IsZero() bool {
	return k.Name == ""
}

func (k TaskKey) String() string {
	if k.Version == "" {
		return k.Name
	}

	return k.Name + "/" + k.Version
}
