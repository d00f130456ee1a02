package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/codemap-labs/codemap/pkg/models"
)

const projectColumns = `id, name, root_path, total_files, deleted, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.RootPath, &p.TotalFiles, &p.Deleted, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// UpsertProject creates the project or refreshes its root path. One analysis
// run calls this exactly once, so the upsert makes re-runs idempotent.
func (s *Store) UpsertProject(ctx context.Context, name, rootPath string) (models.Project, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO projects (name, root_path)
		 VALUES ($1, $2)
		 ON CONFLICT (name) WHERE NOT deleted
		 DO UPDATE SET root_path = EXCLUDED.root_path, updated_at = now()
		 RETURNING `+projectColumns,
		name, rootPath)
	return scanProject(row)
}

func (s *Store) GetProjectByID(ctx context.Context, id uuid.UUID) (models.Project, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1 AND NOT deleted`, id)
	return scanProject(row)
}

func (s *Store) GetProjectByName(ctx context.Context, name string) (models.Project, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE name = $1 AND NOT deleted`, name)
	return scanProject(row)
}

func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE NOT deleted ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// UpdateProjectFileCount records the total scanned file count after the scan
// stage completes.
func (s *Store) UpdateProjectFileCount(ctx context.Context, id uuid.UUID, total int) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE projects SET total_files = $2, updated_at = now() WHERE id = $1`, id, total)
	return err
}
