package entry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/sprite-ai/refmark/internal/model"
)

// File extensions for supported codecs.
const (
	jsonExtension = ".json"
	yamlExtension = ".yaml"
)

const defaultIndent = "  "

// Codec defines how an entry is serialized and deserialized.
type Codec interface {
	// Encode writes the entry to the writer.
	Encode(w io.Writer, e *model.Entry) error
	// Decode reads one entry from the reader.
	Decode(r io.Reader, e *model.Entry) error
	// Extension returns the file extension for this codec (e.g. ".json").
	Extension() string
}

// JSONCodec implements Codec using JSON encoding with optional indentation.
type JSONCodec struct {
	// Indent specifies the indentation string. Empty string means compact JSON.
	Indent string
}

// NewJSONCodec creates a JSON codec with pretty-printing (2-space indent).
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

// Encode implements Codec.Encode using JSON encoding.
func (c *JSONCodec) Encode(w io.Writer, e *model.Entry) error {
	enc := json.NewEncoder(w)
	if c.Indent != "" {
		enc.SetIndent("", c.Indent)
	}
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// Decode implements Codec.Decode using JSON decoding.
func (c *JSONCodec) Decode(r io.Reader, e *model.Entry) error {
	if err := json.NewDecoder(r).Decode(e); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	return nil
}

// Extension implements Codec.Extension for JSON files.
func (c *JSONCodec) Extension() string {
	return jsonExtension
}

// YAMLCodec implements Codec using YAML encoding.
type YAMLCodec struct{}

// NewYAMLCodec creates a YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Encode implements Codec.Encode using YAML encoding.
func (c *YAMLCodec) Encode(w io.Writer, e *model.Entry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return nil
}

// Decode implements Codec.Decode using YAML decoding.
func (c *YAMLCodec) Decode(r io.Reader, e *model.Entry) error {
	if err := yaml.NewDecoder(r).Decode(e); err != nil {
		return fmt.Errorf("yaml decode: %w", err)
	}
	return nil
}

// Extension implements Codec.Extension for YAML files.
func (c *YAMLCodec) Extension() string {
	return yamlExtension
}

// CodecFor returns the codec registered for a format name or file extension
// ("json", ".yaml", "yml", ...). Unknown names fall back to JSON.
func CodecFor(name string) Codec {
	switch name {
	case "yaml", "yml", ".yaml", ".yml":
		return NewYAMLCodec()
	default:
		return NewJSONCodec()
	}
}

// DecodeError reports a payload that could not be decoded into an entry.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode entry: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encode writes e with codec, JSON when codec is nil.
func Encode(w io.Writer, e *model.Entry, codec Codec) error {
	if codec == nil {
		codec = NewJSONCodec()
	}
	return codec.Encode(w, e)
}

// Decode parses a serialized entry. Empty or whitespace-only input yields
// (nil, nil). Malformed input yields a *DecodeError and no entry. Decoding
// does not fold groups again; the hidden flags are taken as stored.
func Decode(data []byte, codec Codec) (*model.Entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if codec == nil {
		codec = NewJSONCodec()
	}

	var e model.Entry
	if err := codec.Decode(bytes.NewReader(data), &e); err != nil {
		return nil, &DecodeError{Err: err}
	}
	e.AttachEvents()
	return &e, nil
}
