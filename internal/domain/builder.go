package domain

import "fmt"

// GraphBuilder computes star edges for a newly observed point.
type GraphBuilder struct {
	metric DistanceMetric
}

// NewGraphBuilder creates a builder using metric. A nil metric selects
// Haversine.
func NewGraphBuilder(metric DistanceMetric) *GraphBuilder {
	if metric == nil {
		metric = Haversine{}
	}
	return &GraphBuilder{metric: metric}
}

// Metric returns the distance metric used by the builder
func (b *GraphBuilder) Metric() DistanceMetric {
	return b.metric
}

// InsertNode connects p to every marker in existing. The new node's index
// is len(existing) and every returned edge is (i, newIndex, distance).
//
// existing must be a consistent snapshot of the marker sequence. If any
// coordinate is invalid the call fails as a whole and returns no edges.
func (b *GraphBuilder) InsertNode(existing []Coordinate, p Coordinate) ([]Edge, int, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, fmt.Errorf("new point: %w", err)
	}
	if err := validateAll(existing); err != nil {
		return nil, 0, err
	}

	newIndex := len(existing)
	edges := make([]Edge, 0, newIndex)
	for i, c := range existing {
		edges = append(edges, NewEdge(i, newIndex, b.metric.Distance(c, p)))
	}

	return edges, newIndex, nil
}
