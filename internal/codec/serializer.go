package codec

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"automata/internal/automaton"
)

// Compression is applied after encoding.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

func ParseCompression(s string) (Compression, error) {
	switch Compression(s) {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionZstd:
		return CompressionZstd, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCompression, s)
}

// SerializationConfig picks the codec and compression of a Serializer.
type SerializationConfig struct {
	Codec       Codec
	Compression Compression
}

// Serializer encodes then compresses, and the reverse.
type Serializer struct {
	config SerializationConfig
}

func NewSerializer(config SerializationConfig) *Serializer {
	return &Serializer{config: config}
}

func (s *Serializer) Serialize(v interface{}) ([]byte, error) {
	data, err := s.config.Codec.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("codec encoding failed: %w", err)
	}
	data, err = compress(data, s.config.Compression)
	if err != nil {
		return nil, fmt.Errorf("compression failed: %w", err)
	}
	return data, nil
}

func (s *Serializer) Deserialize(data []byte, v interface{}) error {
	data, err := decompress(data, s.config.Compression)
	if err != nil {
		return fmt.Errorf("decompression failed: %w", err)
	}
	if err := s.config.Codec.Decode(data, v); err != nil {
		return fmt.Errorf("codec decoding failed: %w", err)
	}
	return nil
}

func compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case "", CompressionNone:
		return data, nil
	case CompressionZstd:
		encoder, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer encoder.Close()
		return encoder.EncodeAll(data, nil), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, c)
}

func decompress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case "", CompressionNone:
		return data, nil
	case CompressionZstd:
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer decoder.Close()
		return decoder.DecodeAll(data, nil)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, c)
}

// Marshal writes a in the given format and compression.
func Marshal(a *automaton.Automaton, f Format, c Compression) ([]byte, error) {
	if f == FormatDOT {
		var buf bytes.Buffer
		if err := WriteDOT(&buf, a); err != nil {
			return nil, err
		}
		return compress(buf.Bytes(), c)
	}
	codec, err := CodecFor(f)
	if err != nil {
		return nil, err
	}
	return NewSerializer(SerializationConfig{Codec: codec, Compression: c}).Serialize(NewDocument(a))
}

// Unmarshal reads an automaton written by Marshal, or by hand, and
// validates it.
func Unmarshal(data []byte, f Format, c Compression) (*automaton.Automaton, error) {
	if f == FormatDOT {
		raw, err := decompress(data, c)
		if err != nil {
			return nil, err
		}
		return ReadDOT(bytes.NewReader(raw))
	}
	codec, err := CodecFor(f)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := NewSerializer(SerializationConfig{Codec: codec, Compression: c}).Deserialize(data, &doc); err != nil {
		return nil, err
	}
	return doc.Automaton()
}
