package data

import "encoding/json"

// Serializer converts documents to and from their persisted JSON form. Each
// backend adapter receives its serializer at construction; there is no
// process-global serializer configuration.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(b []byte, v any) error
}

type jsonSerializer struct{}

func (jsonSerializer) Marshal(v any) ([]byte, error)   { return json.Marshal(v) }
func (jsonSerializer) Unmarshal(b []byte, v any) error { return json.Unmarshal(b, v) }

// DefaultSerializer returns the standard JSON serializer.
func DefaultSerializer() Serializer { return jsonSerializer{} }
