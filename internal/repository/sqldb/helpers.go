package sqldb

import (
	"time"

	"routegraph/internal/domain"
)

// ============================================================================
// Schema Evolution Guide
// ============================================================================
//
// To add a new column to a table:
// 1. Add field to the row struct (below)
// 2. Update scanArgs() - APPEND to end to match column order
// 3. Update the columns constant - APPEND to end
// 4. Update toDomain() to map the new field
// 5. Update the insert args helper if the column is writable
// 6. Add the column to BOTH dialect schemas in dialect.go
//
// CRITICAL: Column order must match between the columns constant and
// scanArgs().

// ============================================================================
// Session Row Scanner
// ============================================================================

// sessionRow holds all columns from a session query for scanning
type sessionRow struct {
	ID          string
	Name        string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	MarkerCount int
	EdgeCount   int
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match sessionColumns order exactly:
// id, name, version, created_at, updated_at, marker_count, edge_count
func (r *sessionRow) scanArgs() []any {
	return []any{
		&r.ID,          // 1
		&r.Name,        // 2
		&r.Version,     // 3
		&r.CreatedAt,   // 4
		&r.UpdatedAt,   // 5
		&r.MarkerCount, // 6
		&r.EdgeCount,   // 7
	}
}

// toDomain converts the scanned row to a domain.Session
func (r *sessionRow) toDomain() *domain.Session {
	return &domain.Session{
		ID:          r.ID,
		Name:        r.Name,
		Version:     r.Version,
		MarkerCount: r.MarkerCount,
		EdgeCount:   r.EdgeCount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// sessionColumns is the SELECT column list for session queries, aliased on s
const sessionColumns = `s.id, s.name, s.version, s.created_at, s.updated_at,
	(SELECT COUNT(*) FROM markers m WHERE m.session_id = s.id),
	(SELECT COUNT(*) FROM edges e WHERE e.session_id = s.id)`

// ============================================================================
// Marker Row Scanner
// ============================================================================

// markerRow holds all columns from a marker query for scanning
type markerRow struct {
	Index     int
	Lat       float64
	Lng       float64
	CreatedAt time.Time
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match markerColumns order exactly: idx, lat, lng, created_at
func (r *markerRow) scanArgs() []any {
	return []any{&r.Index, &r.Lat, &r.Lng, &r.CreatedAt}
}

// toDomain converts the scanned row to a domain.Marker
func (r *markerRow) toDomain() domain.Marker {
	return domain.Marker{
		Index:      r.Index,
		Coordinate: domain.Coordinate{Lat: r.Lat, Lng: r.Lng},
		CreatedAt:  r.CreatedAt,
	}
}

const markerColumns = `idx, lat, lng, created_at`

// markerInsertArgs prepares arguments for marker INSERT
// Returns: session_id, idx, lat, lng, created_at
func markerInsertArgs(sessionID string, m *domain.Marker) []any {
	return []any{sessionID, m.Index, m.Lat, m.Lng, m.CreatedAt}
}

// ============================================================================
// Edge Row Scanner
// ============================================================================

// edgeRow holds all columns from an edge query for scanning
type edgeRow struct {
	From   int
	To     int
	Weight float64
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match edgeColumns order exactly: from_idx, to_idx, weight
func (r *edgeRow) scanArgs() []any {
	return []any{&r.From, &r.To, &r.Weight}
}

// toDomain converts the scanned row to a domain.Edge
func (r *edgeRow) toDomain() domain.Edge {
	return domain.NewEdge(r.From, r.To, r.Weight)
}

const edgeColumns = `from_idx, to_idx, weight`

// edgeInsertArgs prepares arguments for edge INSERT
// Returns: session_id, from_idx, to_idx, weight
func edgeInsertArgs(sessionID string, e domain.Edge) []any {
	return []any{sessionID, e.From, e.To, e.Weight}
}
