// Package codec persists automata. Structured formats go through a
// Document and a Codec; DOT is written and read directly.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownFormat      = errors.New("unknown format")
	ErrUnknownCompression = errors.New("unknown compression")
	ErrInvalidDocument    = errors.New("invalid automaton document")
	ErrInvalidDOT         = errors.New("invalid DOT graph")
)

// Format names an encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
	FormatDOT     Format = "dot"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatMsgpack, FormatDOT}
}

// ParseFormat also accepts "yml" and "mpk".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	case "dot", "gv":
		return FormatDOT, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Codec turns values into bytes and back.
type Codec interface {
	Encode(v interface{}) ([]byte, error)
	Decode(data []byte, v interface{}) error
	Name() string
}

// CodecFor returns the codec of a structured format. DOT has none.
func CodecFor(f Format) (Codec, error) {
	switch f {
	case FormatJSON:
		return NewJSONCodec(), nil
	case FormatYAML:
		return NewYAMLCodec(), nil
	case FormatMsgpack:
		return NewMsgPackCodec(), nil
	}
	return nil, fmt.Errorf("%w: no codec for %q", ErrUnknownFormat, f)
}

// JSONCodec writes indented JSON.
type JSONCodec struct{}

func NewJSONCodec() Codec { return &JSONCodec{} }

func (c *JSONCodec) Encode(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (c *JSONCodec) Decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (c *JSONCodec) Name() string { return "json" }

type YAMLCodec struct{}

func NewYAMLCodec() Codec { return &YAMLCodec{} }

func (c *YAMLCodec) Encode(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

func (c *YAMLCodec) Decode(data []byte, v interface{}) error {
	return yaml.Unmarshal(data, v)
}

func (c *YAMLCodec) Name() string { return "yaml" }

// MsgPackCodec is the compact binary form.
type MsgPackCodec struct{}

func NewMsgPackCodec() Codec { return &MsgPackCodec{} }

func (c *MsgPackCodec) Encode(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (c *MsgPackCodec) Decode(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}

func (c *MsgPackCodec) Name() string { return "msgpack" }
