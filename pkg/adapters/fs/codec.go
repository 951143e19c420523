package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/jotter/pkg/core"
)

// Codec defines how the whole collection is written to and read from bytes.
type Codec interface {
	// Decode parses data into a collection.
	Decode(data []byte) ([]core.Note, error)
	// Encode converts the collection to bytes.
	Encode(notes []core.Note) ([]byte, error)
}

// DefaultCodecs returns the standard set of codecs keyed by file extension.
func DefaultCodecs(strict bool) map[string]Codec {
	return map[string]Codec{
		".json": NewJSONCodec(strict),
		".yaml": NewYAMLCodec(strict),
		".yml":  NewYAMLCodec(strict),
	}
}

// --- JSON Codec ---

// JSONCodec handles collections stored as a pretty-printed JSON array.
type JSONCodec struct {
	// Strict rejects records carrying unknown fields.
	Strict bool
}

// NewJSONCodec creates a new JSON codec.
func NewJSONCodec(strict bool) *JSONCodec {
	return &JSONCodec{Strict: strict}
}

func (c *JSONCodec) Decode(data []byte) ([]core.Note, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	if c.Strict {
		decoder.DisallowUnknownFields()
	}

	var notes []core.Note
	if err := decoder.Decode(&notes); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if decoder.More() {
		return nil, errors.New("invalid json: trailing data after collection")
	}

	return core.Clone(notes), nil
}

// jsonRecord is the on-disk shape of a note, with timestamps in core.TimeLayout.
type jsonRecord struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func (c *JSONCodec) Encode(notes []core.Note) ([]byte, error) {
	records := make([]jsonRecord, len(notes))
	for i, n := range notes {
		records[i] = jsonRecord{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			CreatedAt: n.CreatedAt.UTC().Format(core.TimeLayout),
			UpdatedAt: n.UpdatedAt.UTC().Format(core.TimeLayout),
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// --- YAML Codec ---

// YAMLCodec handles collections stored as a YAML sequence.
type YAMLCodec struct {
	// Strict rejects records carrying unknown fields.
	Strict bool
}

// NewYAMLCodec creates a new YAML codec.
func NewYAMLCodec(strict bool) *YAMLCodec {
	return &YAMLCodec{Strict: strict}
}

func (c *YAMLCodec) Decode(data []byte) ([]core.Note, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(c.Strict)

	var notes []core.Note
	if err := decoder.Decode(&notes); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	return core.Clone(notes), nil
}

func (c *YAMLCodec) Encode(notes []core.Note) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(core.Clone(notes)); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
