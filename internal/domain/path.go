package domain

import "fmt"

// Path is an ordered list of marker indices produced by an optimizer.
type Path []int

// Empty reports whether the path visits no markers
func (p Path) Empty() bool {
	return len(p) == 0
}

// Validate checks every index against a marker sequence of length n.
func (p Path) Validate(n int) error {
	for k, idx := range p {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: path[%d] = %d with %d markers", ErrIndexOutOfRange, k, idx, n)
		}
	}
	return nil
}

// Resolve maps path onto markers, preserving path order exactly. Repeated
// indices are kept and nothing is reordered.
//
// An empty path yields an empty, non-nil result and no error.
func Resolve(path Path, markers []Coordinate) ([]Coordinate, error) {
	if err := path.Validate(len(markers)); err != nil {
		return nil, err
	}

	coords := make([]Coordinate, len(path))
	for k, idx := range path {
		coords[k] = markers[idx]
	}
	return coords, nil
}

// Route is a resolved path ready for drawing.
type Route struct {
	Path           Path         `json:"path" yaml:"path"`
	Coordinates    []Coordinate `json:"coordinates" yaml:"coordinates"`
	DistanceMeters float64      `json:"distance_meters" yaml:"distance_meters"`
}

// NewRoute resolves path against markers and measures it with metric.
func NewRoute(path Path, markers []Coordinate, metric DistanceMetric) (*Route, error) {
	coords, err := Resolve(path, markers)
	if err != nil {
		return nil, err
	}
	if path == nil {
		path = Path{}
	}
	return &Route{
		Path:           path,
		Coordinates:    coords,
		DistanceMeters: RouteLength(coords, metric),
	}, nil
}

// Empty reports whether the route visits no markers. An empty route is a
// valid result, distinct from a resolution failure.
func (r *Route) Empty() bool {
	return len(r.Coordinates) == 0
}
