package protocol

import "encoding/json"

// Codec serializes payloads to and from their single-line wire form.
// Framing and routing never look inside a payload, so the concrete
// encoding can be swapped without touching the coordinator or workers.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec is the default codec and matches the historical wire format.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// DefaultCodec is used by both coordinator and workers unless a caller
// injects its own.
var DefaultCodec Codec = JSONCodec{}
