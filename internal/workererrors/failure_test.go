package workererrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duratask/worker-go/converter"
)

func TestSerialize(t *testing.T) {
	envelope, err := Serialize(converter.DefaultConverter, NewFailure("failed", "stack"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"failed","details":"stack"}`, envelope)

	// Empty details are omitted.
	envelope, err = Serialize(converter.DefaultConverter, NewFailure("failed", ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"failed"}`, envelope)
}

func TestFromPanic(t *testing.T) {
	var err error

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = FromPanic(r)
			}
		}()

		panic("kaboom")
	}()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")

	details := Details(err)
	assert.Contains(t, details, "kaboom")

	// The stack trace points at the panic site.
	assert.Contains(t, details, "failure_test.go")
}

func TestDetails_PlainError(t *testing.T) {
	err := fmt.Errorf("wrapping: %w", errors.New("boom"))
	assert.Equal(t, "wrapping: boom", Details(err))
}
