package domain

import (
	"errors"
	"testing"
)

func TestNewGraph(t *testing.T) {
	g := NewGraph()
	if g.Markers == nil || g.Edges == nil {
		t.Error("expected initialized collections")
	}
	if g.Len() != 0 {
		t.Errorf("expected empty graph, got %d markers", g.Len())
	}
}

func TestGraphInsert(t *testing.T) {
	b := NewGraphBuilder(nil)

	t.Run("accumulates star edges", func(t *testing.T) {
		g := NewGraph()
		for i, c := range abuDhabiMarkers {
			edges, idx, err := g.Insert(b, c)
			if err != nil {
				t.Fatalf("insert %d: unexpected error: %v", i, err)
			}
			if idx != i {
				t.Errorf("expected index %d, got %d", i, idx)
			}
			if len(edges) != i {
				t.Errorf("expected %d edges, got %d", i, len(edges))
			}
		}
		// 0 + 1 + 2 edges
		if len(g.Edges) != 3 {
			t.Errorf("expected 3 edges in total, got %d", len(g.Edges))
		}
		if g.Len() != 3 {
			t.Errorf("expected 3 markers, got %d", g.Len())
		}
	})

	t.Run("failed insert leaves graph untouched", func(t *testing.T) {
		g := NewGraph()
		if _, _, err := g.Insert(b, Coordinate{1, 1}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, _, err := g.Insert(b, Coordinate{91, 1})
		if !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("expected ErrInvalidCoordinate, got %v", err)
		}
		if g.Len() != 1 || len(g.Edges) != 0 {
			t.Errorf("expected graph unchanged, got %d markers and %d edges", g.Len(), len(g.Edges))
		}
	})

	t.Run("duplicate insertion is kept", func(t *testing.T) {
		g := NewGraph()
		p := Coordinate{24.47, 54.36}
		g.Insert(b, p)
		g.Insert(b, p)
		if g.Len() != 2 {
			t.Errorf("expected 2 markers, got %d", g.Len())
		}
		if len(g.Edges) != 1 || g.Edges[0].Weight != 0 {
			t.Errorf("expected one zero-weight edge, got %v", g.Edges)
		}
	})
}

func TestGraphToSnapshot(t *testing.T) {
	g := NewGraph()
	b := NewGraphBuilder(nil)
	for _, c := range abuDhabiMarkers {
		g.Insert(b, c)
	}

	s := g.Snapshot()
	if err := s.Validate(); err != nil {
		t.Fatalf("snapshot should be valid: %v", err)
	}
	if len(s.Markers) != g.Len() || len(s.Edges) != len(g.Edges) {
		t.Errorf("snapshot has %d markers and %d edges, want %d and %d",
			len(s.Markers), len(s.Edges), g.Len(), len(g.Edges))
	}
	if s.Markers[2].Index != 2 || s.Markers[2].Coordinate != abuDhabiMarkers[2] {
		t.Errorf("unexpected marker %+v", s.Markers[2])
	}
}
