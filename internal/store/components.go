package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/codemap-labs/codemap/pkg/models"
)

const componentColumns = `id, project_id, file_id, name, type, parent_id, hash, origin, deleted, created_at, updated_at`

func scanComponent(row interface{ Scan(...any) error }) (models.Component, error) {
	var c models.Component
	err := row.Scan(&c.ID, &c.ProjectID, &c.FileID, &c.Name, &c.Type, &c.ParentID,
		&c.Hash, &c.Origin, &c.Deleted, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

type CreateComponentParams struct {
	ProjectID uuid.UUID
	FileID    uuid.UUID
	Name      string
	Type      models.ComponentType
	ParentID  *uuid.UUID
	Hash      string
	Origin    models.Origin
}

func (s *Store) CreateComponent(ctx context.Context, p CreateComponentParams) (models.Component, error) {
	origin := p.Origin
	if origin == "" {
		origin = models.OriginDeclared
	}
	row := s.pool.QueryRow(ctx,
		`INSERT INTO components (project_id, file_id, name, type, parent_id, hash, origin)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+componentColumns,
		p.ProjectID, p.FileID, p.Name, p.Type, p.ParentID, p.Hash, origin)
	return scanComponent(row)
}

// FindComponent looks up a non-deleted component by the resolve-or-create
// dedup key (project, name, type). Returns pgx.ErrNoRows when absent.
func (s *Store) FindComponent(ctx context.Context, projectID uuid.UUID, name string, ctype models.ComponentType) (models.Component, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+componentColumns+` FROM components
		 WHERE project_id = $1 AND name = $2 AND type = $3 AND NOT deleted
		 ORDER BY created_at
		 LIMIT 1`, projectID, name, ctype)
	return scanComponent(row)
}

func (s *Store) GetComponentByID(ctx context.Context, id uuid.UUID) (models.Component, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+componentColumns+` FROM components WHERE id = $1 AND NOT deleted`, id)
	return scanComponent(row)
}

func (s *Store) ListComponentsByProject(ctx context.Context, projectID uuid.UUID) ([]models.Component, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+componentColumns+` FROM components
		 WHERE project_id = $1 AND NOT deleted
		 ORDER BY created_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (s *Store) ListComponentsByType(ctx context.Context, projectID uuid.UUID, ctype models.ComponentType) ([]models.Component, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+componentColumns+` FROM components
		 WHERE project_id = $1 AND type = $2 AND NOT deleted
		 ORDER BY created_at`, projectID, ctype)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// CountComponentsByOrigin returns the number of components per origin for the
// run summary.
func (s *Store) CountComponentsByOrigin(ctx context.Context, projectID uuid.UUID, origin models.Origin) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM components
		 WHERE project_id = $1 AND origin = $2 AND NOT deleted`, projectID, origin).Scan(&n)
	return n, err
}
