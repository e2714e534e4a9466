package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"routegraph/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports graph data from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.GraphSnapshot, error) {
	var w wireSnapshot
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON: %v", ErrMalformed, err)
	}

	return fromWire(w)
}

// Export exports graph data to JSON
func (c *JSONCodec) Export(snapshot *domain.GraphSnapshot, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(toWire(snapshot)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
