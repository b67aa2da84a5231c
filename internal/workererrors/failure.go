// Package workererrors converts user-logic failures into the in-band failure
// envelopes the sidecar protocol surfaces to callers.
package workererrors

import (
	"github.com/duratask/worker-go/converter"
)

// Failure is the generic failure envelope serialized in place of a regular
// result payload.
type Failure struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func NewFailure(message, details string) *Failure {
	return &Failure{
		Message: message,
		Details: details,
	}
}

// Serialize renders the envelope with the configured converter.
func Serialize(c converter.Converter, f *Failure) (string, error) {
	data, err := c.To(f)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
