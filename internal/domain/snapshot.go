package domain

import "fmt"

// GraphSnapshot is a complete session graph for import/export operations
type GraphSnapshot struct {
	Session *Session `json:"session,omitempty" yaml:"session,omitempty"`
	Markers []Marker `json:"markers" yaml:"markers"`
	Edges   []Edge   `json:"edges" yaml:"edges"`
}

// NewGraphSnapshot creates an empty snapshot
func NewGraphSnapshot() *GraphSnapshot {
	return &GraphSnapshot{
		Markers: make([]Marker, 0),
		Edges:   make([]Edge, 0),
	}
}

// AddMarker appends a marker, assigning the next index
func (s *GraphSnapshot) AddMarker(c Coordinate) {
	s.Markers = append(s.Markers, Marker{Index: len(s.Markers), Coordinate: c})
}

// AddEdge adds an edge to the snapshot
func (s *GraphSnapshot) AddEdge(edge Edge) {
	s.Edges = append(s.Edges, edge)
}

// Coordinates returns the marker coordinates in index order
func (s *GraphSnapshot) Coordinates() []Coordinate {
	return Coordinates(s.Markers)
}

// Graph converts the snapshot to a Graph
func (s *GraphSnapshot) Graph() *Graph {
	g := NewGraph()
	g.Markers = append(g.Markers, s.Coordinates()...)
	g.Edges = append(g.Edges, s.Edges...)
	return g
}

// Validate checks marker indices are contiguous from zero, coordinates are
// valid and every edge references an existing marker.
func (s *GraphSnapshot) Validate() error {
	for i, m := range s.Markers {
		if m.Index != i {
			return fmt.Errorf("%w: marker at position %d has index %d", ErrInvalidGraph, i, m.Index)
		}
		if err := m.Coordinate.Validate(); err != nil {
			return fmt.Errorf("marker %d: %w", i, err)
		}
	}
	for _, e := range s.Edges {
		if err := e.Validate(len(s.Markers)); err != nil {
			return err
		}
	}
	return nil
}
