package repository

import (
	"context"

	"routegraph/internal/domain"
)

// Repository defines the interface for session graph data access
type Repository interface {
	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	ListSessions(ctx context.Context) ([]domain.Session, error)
	DeleteSession(ctx context.Context, id string) error

	// Read operations
	ListMarkers(ctx context.Context, sessionID string) ([]domain.Marker, error)
	ListEdges(ctx context.Context, sessionID string) ([]domain.Edge, error)
	GetGraph(ctx context.Context, sessionID string) (*domain.GraphSnapshot, error)

	// InsertNode appends p to the session's marker sequence together with the
	// star edges computed by builder. The marker snapshot read, the edge
	// computation and both appends happen atomically per session.
	InsertNode(ctx context.Context, sessionID string, p domain.Coordinate, builder *domain.GraphBuilder) (*domain.Marker, []domain.Edge, error)

	// Bulk operations
	ImportSnapshot(ctx context.Context, sessionID string, snapshot *domain.GraphSnapshot) error

	// Close releases resources
	Close() error
}
