package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"routegraph/internal/cache"
	"routegraph/internal/codec"
	"routegraph/internal/domain"
	"routegraph/internal/optimizer"
	"routegraph/internal/repository"
)

// GraphService provides business logic for session graph operations
type GraphService struct {
	repo      repository.Repository
	builder   *domain.GraphBuilder
	optimizer optimizer.Optimizer
	routes    *cache.RouteCache
	eventBus  *EventBus

	mu   sync.RWMutex
	area domain.ServiceArea
}

// NewGraphService creates a new graph service. A nil optimizer visits
// markers in insertion order and a nil cache gets the default capacity.
func NewGraphService(repo repository.Repository, builder *domain.GraphBuilder, opt optimizer.Optimizer, routes *cache.RouteCache, eventBus *EventBus) *GraphService {
	if builder == nil {
		builder = domain.NewGraphBuilder(nil)
	}
	if opt == nil {
		opt = optimizer.Sequential{}
	}
	if routes == nil {
		routes = cache.NewRouteCache()
	}
	if eventBus == nil {
		eventBus = NewEventBus()
	}
	return &GraphService{
		repo:      repo,
		builder:   builder,
		optimizer: opt,
		routes:    routes,
		eventBus:  eventBus,
	}
}

// ============================================================================
// Sessions
// ============================================================================

// CreateSession starts a new, empty session graph
func (s *GraphService) CreateSession(ctx context.Context, name string) (*domain.Session, error) {
	session := domain.NewSession(name)
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventSessionCreated,
		Payload: session,
	})

	return session, nil
}

// GetSession retrieves a session by ID
func (s *GraphService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return s.repo.GetSession(ctx, id)
}

// ListSessions returns all sessions
func (s *GraphService) ListSessions(ctx context.Context) ([]domain.Session, error) {
	return s.repo.ListSessions(ctx)
}

// DeleteSession removes a session with its markers, edges and cached routes
func (s *GraphService) DeleteSession(ctx context.Context, id string) error {
	if err := s.repo.DeleteSession(ctx, id); err != nil {
		return err
	}
	s.routes.Invalidate(id)

	s.eventBus.Publish(Event{
		Type:      EventSessionDeleted,
		SessionID: id,
	})

	return nil
}

// ============================================================================
// Markers and edges
// ============================================================================

// InsertResult is the marker added by InsertNode and its star edges
type InsertResult struct {
	Marker *domain.Marker `json:"marker"`
	Edges  []domain.Edge  `json:"edges"`
}

// InsertNode adds p to the session graph. The point must be a valid
// coordinate inside the service area. The same physical point may be
// inserted more than once; each insertion is a new marker.
func (s *GraphService) InsertNode(ctx context.Context, sessionID string, p domain.Coordinate) (*InsertResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.ServiceArea().Check(p); err != nil {
		return nil, err
	}

	marker, edges, err := s.repo.InsertNode(ctx, sessionID, p, s.builder)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:      EventMarkerInserted,
		SessionID: sessionID,
		Payload:   InsertResult{Marker: marker, Edges: edges},
	})

	return &InsertResult{Marker: marker, Edges: edges}, nil
}

// ListMarkers returns the session's markers in index order
func (s *GraphService) ListMarkers(ctx context.Context, sessionID string) ([]domain.Marker, error) {
	return s.repo.ListMarkers(ctx, sessionID)
}

// ListEdges returns the session's edges
func (s *GraphService) ListEdges(ctx context.Context, sessionID string) ([]domain.Edge, error) {
	return s.repo.ListEdges(ctx, sessionID)
}

// GetGraph returns the complete session graph
func (s *GraphService) GetGraph(ctx context.Context, sessionID string) (*domain.GraphSnapshot, error) {
	return s.repo.GetGraph(ctx, sessionID)
}

// DistanceMatrix returns pairwise distances between the session's markers
func (s *GraphService) DistanceMatrix(ctx context.Context, sessionID string) ([][]float64, error) {
	markers, err := s.repo.ListMarkers(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return domain.DistanceMatrix(domain.Coordinates(markers), s.builder.Metric())
}

// ============================================================================
// Routes
// ============================================================================

// ResolvePath maps a caller-supplied path onto the session's markers
func (s *GraphService) ResolvePath(ctx context.Context, sessionID string, path domain.Path) (*domain.Route, error) {
	markers, err := s.repo.ListMarkers(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return domain.NewRoute(path, domain.Coordinates(markers), s.builder.Metric())
}

// OptimizedRoute asks the optimizer for a visiting order over the session
// graph and resolves it. Paths are cached per session version, so any
// insertion or import forces a fresh optimization.
func (s *GraphService) OptimizedRoute(ctx context.Context, sessionID string) (*domain.Route, error) {
	snapshot, err := s.repo.GetGraph(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	key := cache.RouteKey{SessionID: sessionID, Version: snapshot.Session.Version}
	markers := snapshot.Coordinates()

	path, cached := s.routes.Get(key)
	if !cached {
		path, err = s.optimizer.Optimize(ctx, optimizer.Problem{
			Markers: markers,
			Edges:   snapshot.Edges,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to optimize route: %w", err)
		}
		if err := path.Validate(len(markers)); err != nil {
			return nil, fmt.Errorf("failed to optimize route: %w: %w", optimizer.ErrOptimizerFailed, err)
		}
		s.routes.Put(key, path)
	}

	route, err := domain.NewRoute(path, markers, s.builder.Metric())
	if err != nil {
		return nil, err
	}

	if !cached {
		s.eventBus.Publish(Event{
			Type:      EventRouteComputed,
			SessionID: sessionID,
			Payload: map[string]interface{}{
				"version": snapshot.Session.Version,
				"route":   route,
			},
		})
	}

	return route, nil
}

// CacheStats reports route cache counters
func (s *GraphService) CacheStats() cache.Stats {
	return s.routes.Stats()
}

// ============================================================================
// Import / export
// ============================================================================

// ImportResult represents the result of an import operation
type ImportResult struct {
	SessionID string `json:"session_id"`
	Format    string `json:"format"`
	Markers   int    `json:"markers"`
	Edges     int    `json:"edges"`
}

// Import replaces the session graph with one parsed from r
func (s *GraphService) Import(ctx context.Context, sessionID, format string, r io.Reader) (*ImportResult, error) {
	c, err := codec.ForFormat(format)
	if err != nil {
		return nil, err
	}

	snapshot, err := c.Parse(r)
	if err != nil {
		return nil, err
	}

	area := s.ServiceArea()
	for _, m := range snapshot.Markers {
		if err := area.Check(m.Coordinate); err != nil {
			return nil, fmt.Errorf("marker %d: %w", m.Index, err)
		}
	}

	if err := s.repo.ImportSnapshot(ctx, sessionID, snapshot); err != nil {
		return nil, err
	}
	s.routes.Invalidate(sessionID)

	result := &ImportResult{
		SessionID: sessionID,
		Format:    c.Format(),
		Markers:   len(snapshot.Markers),
		Edges:     len(snapshot.Edges),
	}

	s.eventBus.Publish(Event{
		Type:      EventGraphImported,
		SessionID: sessionID,
		Payload:   result,
	})

	return result, nil
}

// Export writes the session graph to w in the given format
func (s *GraphService) Export(ctx context.Context, sessionID, format string, w io.Writer) error {
	c, err := codec.ForFormat(format)
	if err != nil {
		return err
	}

	snapshot, err := s.repo.GetGraph(ctx, sessionID)
	if err != nil {
		return err
	}

	return c.Export(snapshot, w)
}

// ============================================================================
// Service area
// ============================================================================

// ServiceArea returns the active service area
func (s *GraphService) ServiceArea() domain.ServiceArea {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.area
}

// SetServiceArea replaces the active service area. Existing markers are
// not re-checked.
func (s *GraphService) SetServiceArea(area domain.ServiceArea) error {
	if err := area.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	changed := s.area != area
	s.area = area
	s.mu.Unlock()

	if changed {
		s.eventBus.Publish(Event{
			Type:    EventServiceAreaChanged,
			Payload: area,
		})
	}
	return nil
}
