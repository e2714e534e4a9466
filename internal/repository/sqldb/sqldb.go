package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"routegraph/internal/domain"
)

// Repository implements repository.Repository on database/sql
type Repository struct {
	db      *sql.DB
	dialect *dialect
}

// New creates a SQLite repository at dbPath
func New(dbPath string) (*Repository, error) {
	return Open(DriverSQLite, dbPath)
}

// Open creates a repository for the given driver ("sqlite" or "mysql") and
// data source
func Open(driver, dsn string) (*Repository, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}

	source, err := d.dsn(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.name, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if d.maxOpenConns > 0 {
		db.SetMaxOpenConns(d.maxOpenConns)
	}

	repo := &Repository{db: db, dialect: d}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

// Driver returns the dialect name in use
func (r *Repository) Driver() string {
	return r.dialect.name
}

func (r *Repository) migrate() error {
	for _, stmt := range r.dialect.schema {
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// Sessions
// ============================================================================

// CreateSession stores a new, empty session
func (r *Repository) CreateSession(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		session.ID = domain.GenerateSessionID()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, session.ID, session.Name, session.Version, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session with its marker and edge counts
func (r *Repository) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return querySession(ctx, r.db, id)
}

// ListSessions returns all sessions, newest first
func (r *Repository) ListSessions(ctx context.Context) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM sessions s ORDER BY s.created_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]domain.Session, 0)
	for rows.Next() {
		var row sessionRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes a session with all its markers and edges
func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM edges WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete edges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM markers WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete markers: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	return tx.Commit()
}

// ============================================================================
// Markers and edges
// ============================================================================

// ListMarkers returns the session's markers in index order
func (r *Repository) ListMarkers(ctx context.Context, sessionID string) ([]domain.Marker, error) {
	if err := r.sessionExists(ctx, r.db, sessionID); err != nil {
		return nil, err
	}
	return queryMarkers(ctx, r.db, sessionID)
}

// ListEdges returns the session's edges in insertion order
func (r *Repository) ListEdges(ctx context.Context, sessionID string) ([]domain.Edge, error) {
	if err := r.sessionExists(ctx, r.db, sessionID); err != nil {
		return nil, err
	}
	return queryEdges(ctx, r.db, sessionID)
}

// GetGraph loads the complete session graph. Session, markers and edges are
// read in one transaction so the version matches the returned markers.
func (r *Repository) GetGraph(ctx context.Context, sessionID string) (*domain.GraphSnapshot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	session, err := querySession(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	markers, err := queryMarkers(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	edges, err := queryEdges(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &domain.GraphSnapshot{
		Session: session,
		Markers: markers,
		Edges:   edges,
	}, nil
}

// InsertNode appends p and its star edges to the session in one transaction
func (r *Repository) InsertNode(ctx context.Context, sessionID string, p domain.Coordinate, builder *domain.GraphBuilder) (*domain.Marker, []domain.Edge, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Locks the session row on mysql so concurrent inserts queue here.
	var version int64
	err = tx.QueryRowContext(ctx, `SELECT version FROM sessions WHERE id = ?`+r.dialect.lockSession, sessionID).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query session: %w", err)
	}

	existing, err := queryMarkers(ctx, tx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	edges, idx, err := builder.InsertNode(domain.Coordinates(existing), p)
	if err != nil {
		return nil, nil, err
	}

	marker := domain.NewMarker(idx, p)
	marker.CreatedAt = marker.CreatedAt.UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO markers (session_id, idx, lat, lng, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, markerInsertArgs(sessionID, marker)...); err != nil {
		return nil, nil, fmt.Errorf("failed to insert marker: %w", err)
	}

	if err := insertEdges(ctx, tx, sessionID, edges); err != nil {
		return nil, nil, err
	}

	if err := bumpVersion(ctx, tx, sessionID, marker.CreatedAt); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit insert: %w", err)
	}

	return marker, edges, nil
}

// ImportSnapshot replaces the session's markers and edges with snapshot
func (r *Repository) ImportSnapshot(ctx context.Context, sessionID string, snapshot *domain.GraphSnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.sessionExists(ctx, tx, sessionID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM edges WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to clear edges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM markers WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to clear markers: %w", err)
	}

	now := time.Now().UTC()
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO markers (session_id, idx, lat, lng, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare marker insert: %w", err)
	}
	defer stmt.Close()

	for i := range snapshot.Markers {
		m := snapshot.Markers[i]
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		if _, err := stmt.ExecContext(ctx, markerInsertArgs(sessionID, &m)...); err != nil {
			return fmt.Errorf("failed to insert marker %d: %w", m.Index, err)
		}
	}

	if err := insertEdges(ctx, tx, sessionID, snapshot.Edges); err != nil {
		return err
	}

	if err := bumpVersion(ctx, tx, sessionID, now); err != nil {
		return err
	}

	return tx.Commit()
}

// Close releases resources
func (r *Repository) Close() error {
	return r.db.Close()
}

// ============================================================================
// Query helpers shared by *sql.DB and *sql.Tx
// ============================================================================

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *Repository) sessionExists(ctx context.Context, q queryer, id string) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to query session: %w", err)
	}
	return nil
}

func querySession(ctx context.Context, q queryer, id string) (*domain.Session, error) {
	var row sessionRow
	err := q.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions s WHERE s.id = ?`, id).
		Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return row.toDomain(), nil
}

func queryMarkers(ctx context.Context, q queryer, sessionID string) ([]domain.Marker, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+markerColumns+` FROM markers WHERE session_id = ? ORDER BY idx
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query markers: %w", err)
	}
	defer rows.Close()

	markers := make([]domain.Marker, 0)
	for rows.Next() {
		var row markerRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan marker: %w", err)
		}
		markers = append(markers, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating markers: %w", err)
	}
	return markers, nil
}

func queryEdges(ctx context.Context, q queryer, sessionID string) ([]domain.Edge, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+edgeColumns+` FROM edges WHERE session_id = ? ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	edges := make([]domain.Edge, 0)
	for rows.Next() {
		var row edgeRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edges: %w", err)
	}
	return edges, nil
}

func insertEdges(ctx context.Context, tx *sql.Tx, sessionID string, edges []domain.Edge) error {
	if len(edges) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO edges (session_id, from_idx, to_idx, weight)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range edges {
		if _, err := stmt.ExecContext(ctx, edgeInsertArgs(sessionID, e)...); err != nil {
			return fmt.Errorf("failed to insert edge %s: %w", e, err)
		}
	}
	return nil
}

func bumpVersion(ctx context.Context, tx *sql.Tx, sessionID string, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE sessions SET version = version + 1, updated_at = ? WHERE id = ?
	`, at, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session version: %w", err)
	}
	return nil
}
