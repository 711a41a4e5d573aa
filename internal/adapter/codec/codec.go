// Package codec encodes enriched observations for the sink topic and the
// HTTP API. Both encodings use the json struct tags, so field names match
// across formats.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec marshals values in one wire format.
type Codec interface {
	Name() string
	ContentType() string
	Encode(w io.Writer, v any) error
	Decode(r io.Reader, v any) error
}

// Marshal encodes v into a byte slice with c.
func Marshal(c Codec, v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ForName returns the codec for "json" or "msgpack".
func ForName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON{}, nil
	case "msgpack":
		return Msgpack{}, nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
}

// JSON is the default codec.
type JSON struct{}

func (JSON) Name() string        { return "json" }
func (JSON) ContentType() string { return "application/json" }

func (JSON) Encode(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func (JSON) Decode(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

// Msgpack is the MessagePack codec.
type Msgpack struct{}

func (Msgpack) Name() string        { return "msgpack" }
func (Msgpack) ContentType() string { return "application/x-msgpack" }

func (Msgpack) Encode(w io.Writer, v any) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	return enc.Encode(v)
}

func (Msgpack) Decode(r io.Reader, v any) error {
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
