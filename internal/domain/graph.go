package domain

// Graph holds one session's marker sequence and accumulated edges.
//
// Graph is not synchronized. Its owner must serialize Insert calls so that
// every insertion reads the marker sequence left by the previous one.
type Graph struct {
	Markers []Coordinate `json:"markers" yaml:"markers"`
	Edges   []Edge       `json:"edges" yaml:"edges"`
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		Markers: make([]Coordinate, 0),
		Edges:   make([]Edge, 0),
	}
}

// Insert appends p as a new marker and adds its star edges. On error the
// graph is left untouched.
func (g *Graph) Insert(b *GraphBuilder, p Coordinate) ([]Edge, int, error) {
	edges, idx, err := b.InsertNode(g.Markers, p)
	if err != nil {
		return nil, 0, err
	}

	g.Markers = append(g.Markers, p)
	g.Edges = append(g.Edges, edges...)
	return edges, idx, nil
}

// Snapshot converts the graph to a snapshot with contiguous marker indices
func (g *Graph) Snapshot() *GraphSnapshot {
	s := NewGraphSnapshot()
	for _, c := range g.Markers {
		s.AddMarker(c)
	}
	s.Edges = append(s.Edges, g.Edges...)
	return s
}

// Len returns the number of markers
func (g *Graph) Len() int {
	return len(g.Markers)
}
