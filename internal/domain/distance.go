package domain

import (
	"fmt"
	"math"
	"strings"
)

// EarthRadiusMeters is the mean earth radius used by the default metrics.
const EarthRadiusMeters = 6371008.8

// Metric names accepted by MetricByName
const (
	MetricHaversine       = "haversine"
	MetricEquirectangular = "equirectangular"
)

// DistanceMetric computes the distance in meters between two coordinates.
// Implementations must be symmetric, non-negative and return zero for
// identical points.
type DistanceMetric interface {
	Distance(a, b Coordinate) float64
}

// MetricFunc adapts a plain function to DistanceMetric
type MetricFunc func(a, b Coordinate) float64

// Distance calls f(a, b)
func (f MetricFunc) Distance(a, b Coordinate) float64 {
	return f(a, b)
}

// Haversine is the great-circle distance on a sphere.
type Haversine struct {
	RadiusMeters float64
}

// Distance returns the great-circle distance between a and b.
func (h Haversine) Distance(a, b Coordinate) float64 {
	// Absolute deltas keep the result bit-for-bit symmetric.
	dLat := toRadians(math.Abs(a.Lat - b.Lat))
	dLng := toRadians(math.Abs(a.Lng - b.Lng))

	sLat := math.Sin(dLat / 2)
	sLng := math.Sin(dLng / 2)
	x := sLat*sLat + math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*sLng*sLng
	x = math.Min(1, math.Max(0, x))

	return radiusOrDefault(h.RadiusMeters) * 2 * math.Atan2(math.Sqrt(x), math.Sqrt(1-x))
}

// Equirectangular is a planar approximation that is accurate for the short
// hops between markers of one session and cheaper than Haversine.
type Equirectangular struct {
	RadiusMeters float64
}

// Distance returns the projected planar distance between a and b.
func (e Equirectangular) Distance(a, b Coordinate) float64 {
	dLng := math.Abs(a.Lng - b.Lng)
	if dLng > 180 {
		dLng = 360 - dLng
	}
	x := toRadians(dLng) * math.Cos(toRadians((a.Lat+b.Lat)/2))
	y := toRadians(math.Abs(a.Lat - b.Lat))
	return radiusOrDefault(e.RadiusMeters) * math.Hypot(x, y)
}

func radiusOrDefault(r float64) float64 {
	if r <= 0 {
		return EarthRadiusMeters
	}
	return r
}

// MetricByName resolves a configured metric name. An empty name selects
// Haversine; radius <= 0 selects EarthRadiusMeters.
func MetricByName(name string, radius float64) (DistanceMetric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MetricHaversine:
		return Haversine{RadiusMeters: radius}, nil
	case MetricEquirectangular:
		return Equirectangular{RadiusMeters: radius}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
}

// DistanceMatrix computes the full NxN distance matrix between coords.
// The diagonal is zero and the matrix is symmetric.
func DistanceMatrix(coords []Coordinate, metric DistanceMetric) ([][]float64, error) {
	if metric == nil {
		metric = Haversine{}
	}
	if err := validateAll(coords); err != nil {
		return nil, err
	}

	n := len(coords)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := metric.Distance(coords[i], coords[j])
			matrix[i][j] = d
			matrix[j][i] = d
		}
	}
	return matrix, nil
}

// RouteLength sums the distances between consecutive coordinates.
func RouteLength(coords []Coordinate, metric DistanceMetric) float64 {
	if metric == nil {
		metric = Haversine{}
	}
	var total float64
	for i := 1; i < len(coords); i++ {
		total += metric.Distance(coords[i-1], coords[i])
	}
	return total
}

func validateAll(coords []Coordinate) error {
	for i, c := range coords {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("marker %d: %w", i, err)
		}
	}
	return nil
}
