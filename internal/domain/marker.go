package domain

import "time"

// Marker is a stored point with its index in the session's marker sequence.
type Marker struct {
	Index      int       `json:"index" yaml:"index"`
	Coordinate           `yaml:",inline"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at,omitempty"`
}

// NewMarker creates a marker at the given index
func NewMarker(index int, c Coordinate) *Marker {
	return &Marker{
		Index:      index,
		Coordinate: c,
		CreatedAt:  time.Now(),
	}
}

// Coordinates extracts the coordinates of markers in order.
func Coordinates(markers []Marker) []Coordinate {
	coords := make([]Coordinate, len(markers))
	for i, m := range markers {
		coords[i] = m.Coordinate
	}
	return coords
}
