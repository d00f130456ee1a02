package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/codemap-labs/codemap/pkg/models"
)

const tableColumns = `id, project_id, component_id, name, owner, comments, deleted, created_at`

func scanTable(row interface{ Scan(...any) error }) (models.Table, error) {
	var t models.Table
	err := row.Scan(&t.ID, &t.ProjectID, &t.ComponentID, &t.Name, &t.Owner,
		&t.Comments, &t.Deleted, &t.CreatedAt)
	return t, err
}

type CreateTableParams struct {
	ProjectID   uuid.UUID
	ComponentID uuid.UUID
	Name        string
	Owner       string
	Comments    *string
}

func (s *Store) CreateTable(ctx context.Context, p CreateTableParams) (models.Table, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO tables (project_id, component_id, name, owner, comments)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+tableColumns,
		p.ProjectID, p.ComponentID, p.Name, p.Owner, p.Comments)
	return scanTable(row)
}

func (s *Store) FindTableByComponent(ctx context.Context, componentID uuid.UUID) (models.Table, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+tableColumns+` FROM tables
		 WHERE component_id = $1 AND NOT deleted
		 LIMIT 1`, componentID)
	return scanTable(row)
}

func (s *Store) ListTablesByProject(ctx context.Context, projectID uuid.UUID) ([]models.Table, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+tableColumns+` FROM tables
		 WHERE project_id = $1 AND NOT deleted
		 ORDER BY name`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const columnColumns = `id, project_id, component_id, table_id, name, data_type, nullable, pk_position, comments, deleted, created_at`

func scanColumn(row interface{ Scan(...any) error }) (models.Column, error) {
	var c models.Column
	err := row.Scan(&c.ID, &c.ProjectID, &c.ComponentID, &c.TableID, &c.Name,
		&c.DataType, &c.Nullable, &c.PKPosition, &c.Comments, &c.Deleted, &c.CreatedAt)
	return c, err
}

type CreateColumnParams struct {
	ProjectID   uuid.UUID
	ComponentID uuid.UUID
	TableID     uuid.UUID
	Name        string
	DataType    string
	Nullable    bool
	PKPosition  *int
	Comments    *string
}

func (s *Store) CreateColumn(ctx context.Context, p CreateColumnParams) (models.Column, error) {
	dataType := p.DataType
	if dataType == "" {
		dataType = "UNKNOWN"
	}
	row := s.pool.QueryRow(ctx,
		`INSERT INTO columns (project_id, component_id, table_id, name, data_type, nullable, pk_position, comments)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+columnColumns,
		p.ProjectID, p.ComponentID, p.TableID, p.Name, dataType, p.Nullable, p.PKPosition, p.Comments)
	return scanColumn(row)
}

func (s *Store) ListColumnsByTable(ctx context.Context, tableID uuid.UUID) ([]models.Column, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+columnColumns+` FROM columns
		 WHERE table_id = $1 AND NOT deleted
		 ORDER BY pk_position NULLS LAST, name`, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Column
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
