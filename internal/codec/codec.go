// Package codec reads and writes session graphs in the wire format shared
// with map clients and optimizers:
//
//	{"session": {...}, "markers": [[lat, lng], ...], "edges": [[from, to, weight], ...]}
package codec

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"routegraph/internal/domain"
)

// ErrUnsupportedFormat is returned for format names without a codec
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrMalformed wraps documents that cannot be decoded into a graph
var ErrMalformed = errors.New("malformed graph document")

// Importer interface for importing graph data from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.GraphSnapshot, error)
	Format() string
}

// Exporter interface for exporting graph data to various formats
type Exporter interface {
	Export(snapshot *domain.GraphSnapshot, w io.Writer) error
	Format() string
}

// Codec is both an Importer and an Exporter
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec for a format name ("json", "yaml" or "yml")
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ForPath picks a codec from the file extension, defaulting to JSON
func ForPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAMLCodec()
	default:
		return NewJSONCodec()
	}
}

// wireSnapshot is the shared serialized shape for both codecs
type wireSnapshot struct {
	Session *wireSession `json:"session,omitempty" yaml:"session,omitempty"`
	Markers [][]float64  `json:"markers" yaml:"markers,flow"`
	Edges   [][]float64  `json:"edges" yaml:"edges,flow"`
}

type wireSession struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Version int64  `json:"version,omitempty" yaml:"version,omitempty"`
}

func toWire(s *domain.GraphSnapshot) wireSnapshot {
	w := wireSnapshot{
		Markers: make([][]float64, len(s.Markers)),
		Edges:   make([][]float64, len(s.Edges)),
	}
	if s.Session != nil {
		w.Session = &wireSession{ID: s.Session.ID, Name: s.Session.Name, Version: s.Session.Version}
	}
	for i, m := range s.Markers {
		pair := m.Pair()
		w.Markers[i] = pair[:]
	}
	for i, e := range s.Edges {
		triple := e.Triple()
		w.Edges[i] = triple[:]
	}
	return w
}

func fromWire(w wireSnapshot) (*domain.GraphSnapshot, error) {
	snapshot := domain.NewGraphSnapshot()
	if w.Session != nil {
		snapshot.Session = &domain.Session{ID: w.Session.ID, Name: w.Session.Name, Version: w.Session.Version}
	}
	for i, m := range w.Markers {
		if len(m) != 2 {
			return nil, fmt.Errorf("%w: marker %d: want [lat, lng], got %d values", ErrMalformed, i, len(m))
		}
		snapshot.AddMarker(domain.Coordinate{Lat: m[0], Lng: m[1]})
	}
	for i, e := range w.Edges {
		if len(e) != 3 {
			return nil, fmt.Errorf("%w: edge %d: want [from, to, weight], got %d values", ErrMalformed, i, len(e))
		}
		from, to := int(e[0]), int(e[1])
		if float64(from) != e[0] || float64(to) != e[1] {
			return nil, fmt.Errorf("%w: edge %d: marker indices must be integers", ErrMalformed, i)
		}
		snapshot.AddEdge(domain.NewEdge(from, to, e[2]))
	}
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return snapshot, nil
}
