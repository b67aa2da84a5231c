package protocol

import "encoding/json"

// Codec is the gRPC codec for the control channel. The sidecar protocol
// exchanges JSON messages, so no generated stubs are required on either end.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return "json"
}
