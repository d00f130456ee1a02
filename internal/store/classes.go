package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/codemap-labs/codemap/pkg/models"
)

const classColumns = `id, project_id, file_id, name, qualified_name, parent_class_id, deleted, created_at`

func scanClass(row interface{ Scan(...any) error }) (models.Class, error) {
	var c models.Class
	err := row.Scan(&c.ID, &c.ProjectID, &c.FileID, &c.Name, &c.QualifiedName,
		&c.ParentClassID, &c.Deleted, &c.CreatedAt)
	return c, err
}

type CreateClassParams struct {
	ProjectID     uuid.UUID
	FileID        uuid.UUID
	Name          string
	QualifiedName string
	ParentClassID *uuid.UUID
}

func (s *Store) CreateClass(ctx context.Context, p CreateClassParams) (models.Class, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO classes (project_id, file_id, name, qualified_name, parent_class_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+classColumns,
		p.ProjectID, p.FileID, p.Name, p.QualifiedName, p.ParentClassID)
	return scanClass(row)
}

func (s *Store) GetClassByQualifiedName(ctx context.Context, projectID uuid.UUID, qname string) (models.Class, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes
		 WHERE project_id = $1 AND qualified_name = $2 AND NOT deleted
		 LIMIT 1`, projectID, qname)
	return scanClass(row)
}

// SetClassParent records the single-inheritance pointer once the parent class
// is known. The parent must be a non-deleted class in the same project; the
// validator enforces this post hoc.
func (s *Store) SetClassParent(ctx context.Context, id, parentID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE classes SET parent_class_id = $2 WHERE id = $1`, id, parentID)
	return err
}

func (s *Store) ListClassesByProject(ctx context.Context, projectID uuid.UUID) ([]models.Class, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+classColumns+` FROM classes
		 WHERE project_id = $1 AND NOT deleted
		 ORDER BY qualified_name`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
