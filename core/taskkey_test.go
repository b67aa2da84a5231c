package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskKey_IsZero(t *testing.T) {
	assert.True(t, TaskKey{}.IsZero())
	assert.True(t, NewTaskKey("", "v1").IsZero())
	assert.False(t, NewTaskKey("Transfer", "").IsZero())
}

func TestTaskKey_String(t *testing.T) {
	assert.Equal(t, "Transfer", NewTaskKey("Transfer", "").String())
	assert.Equal(t, "Transfer/v2", NewTaskKey("Transfer", "v2").String())
}

func TestTaskKey_Equality(t *testing.T) {
	assert.Equal(t, NewTaskKey("Transfer", "v1"), NewTaskKey("Transfer", "v1"))

	// Versions distinguish keys, and names are case-sensitive.
	assert.NotEqual(t, NewTaskKey("Transfer", "v1"), NewTaskKey("Transfer", "v2"))
	assert.NotEqual(t, NewTaskKey("Transfer", ""), NewTaskKey("transfer", ""))
}
