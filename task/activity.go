package task

import (
	"context"
	"fmt"

	"github.com/duratask/worker-go/converter"
)

// Activity is executable activity logic. Input and output are raw serialized
// payloads; Typed adapts callbacks that work with Go values instead.
type Activity interface {
	Run(ctx context.Context, input string) (string, error)
}

// ActivityFunc adapts a plain function to the Activity interface.
type ActivityFunc func(ctx context.Context, input string) (string, error)

func (f ActivityFunc) Run(ctx context.Context, input string) (string, error) {
	return f(ctx, input)
}

// Typed wraps a callback taking and returning Go values. The converter
// deserializes the raw input into In and serializes the Out result. An empty
// input leaves In at its zero value.
func Typed[In, Out any](c converter.Converter, fn func(ctx context.Context, input In) (Out, error)) Activity {
	return ActivityFunc(func(ctx context.Context, input string) (string, error) {
		var in In
		if input != "" {
			if err := c.From(converter.Payload(input), &in); err != nil {
				return "", fmt.Errorf("converting activity input: %w", err)
			}
		}

		out, err := fn(ctx, in)
		if err != nil {
			return "", err
		}

		data, err := c.To(out)
		if err != nil {
			return "", fmt.Errorf("converting activity result: %w", err)
		}

		return string(data), nil
	})
}
