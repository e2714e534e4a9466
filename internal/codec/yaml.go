package codec

import (
	"errors"
	"fmt"
	"io"

	"routegraph/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse imports graph data from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.GraphSnapshot, error) {
	var w wireSnapshot
	decoder := yaml.NewDecoder(r)
	// An empty document is an empty graph
	if err := decoder.Decode(&w); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrMalformed, err)
	}

	return fromWire(w)
}

// Export exports graph data to YAML
func (c *YAMLCodec) Export(snapshot *domain.GraphSnapshot, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(toWire(snapshot)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}
