package converter

// Payload is a serialized user value as it travels over the control channel.
type Payload []byte

// Converter serializes and deserializes user payloads: orchestration inputs,
// activity inputs and results, and failure envelopes.
type Converter interface {
	To(v any) (Payload, error)
	From(data Payload, vptr any) error
}

// DefaultConverter is used whenever no converter is configured explicitly.
var DefaultConverter Converter = &jsonConverter{}
