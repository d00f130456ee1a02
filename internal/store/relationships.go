package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/codemap-labs/codemap/pkg/models"
)

const relationshipColumns = `id, project_id, source_id, target_id, rel_type, confidence, deleted, created_at`

func scanRelationship(row interface{ Scan(...any) error }) (models.Relationship, error) {
	var r models.Relationship
	err := row.Scan(&r.ID, &r.ProjectID, &r.SourceID, &r.TargetID, &r.Type,
		&r.Confidence, &r.Deleted, &r.CreatedAt)
	return r, err
}

type CreateRelationshipParams struct {
	ProjectID  uuid.UUID
	SourceID   uuid.UUID
	TargetID   uuid.UUID
	Type       models.RelType
	Confidence float64
}

// CreateRelationshipIfAbsent inserts an edge unless an identical
// (source, target, type) edge already exists. Returns whether a row was
// written, so the builder can count real insertions.
func (s *Store) CreateRelationshipIfAbsent(ctx context.Context, p CreateRelationshipParams) (bool, error) {
	confidence := p.Confidence
	if confidence <= 0 {
		confidence = 1.0
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO relationships (project_id, source_id, target_id, rel_type, confidence)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (source_id, target_id, rel_type) WHERE NOT deleted
		 DO NOTHING`,
		p.ProjectID, p.SourceID, p.TargetID, p.Type, confidence)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ListRelationshipsByProject(ctx context.Context, projectID uuid.UUID) ([]models.Relationship, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+relationshipColumns+` FROM relationships
		 WHERE project_id = $1 AND NOT deleted
		 ORDER BY created_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Relationship
	for rows.Next() {
		r, err := scanRelationship(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// CountRelationshipsByType returns edge counts per rel_type for the run
// summary.
func (s *Store) CountRelationshipsByType(ctx context.Context, projectID uuid.UUID) (map[models.RelType]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT rel_type, count(*) FROM relationships
		 WHERE project_id = $1 AND NOT deleted
		 GROUP BY rel_type`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.RelType]int)
	for rows.Next() {
		var rt models.RelType
		var n int
		if err := rows.Scan(&rt, &n); err != nil {
			return nil, err
		}
		counts[rt] = n
	}
	return counts, rows.Err()
}
