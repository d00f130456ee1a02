package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/codemap-labs/codemap/pkg/models"
)

const fileColumns = `id, project_id, name, path, type, hash, line_count, has_error, error_message, deleted, created_at, updated_at`

func scanFile(row interface{ Scan(...any) error }) (models.File, error) {
	var f models.File
	err := row.Scan(&f.ID, &f.ProjectID, &f.Name, &f.Path, &f.Type, &f.Hash,
		&f.LineCount, &f.HasError, &f.ErrorMessage, &f.Deleted, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

type UpsertFileParams struct {
	ProjectID uuid.UUID
	Name      string
	Path      string
	Type      models.FileType
	Hash      string
	LineCount int
}

// UpsertFile inserts a scanned file or refreshes its hash and line count on
// re-scan. (name, path, project) is the non-deleted uniqueness key.
func (s *Store) UpsertFile(ctx context.Context, p UpsertFileParams) (models.File, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO files (project_id, name, path, type, hash, line_count)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (name, path, project_id) WHERE NOT deleted
		 DO UPDATE SET type = EXCLUDED.type, hash = EXCLUDED.hash,
		               line_count = EXCLUDED.line_count, updated_at = now()
		 RETURNING `+fileColumns,
		p.ProjectID, p.Name, p.Path, p.Type, p.Hash, p.LineCount)
	return scanFile(row)
}

// MarkFileError flags a file whose extraction failed, keeping the row so the
// failure is visible in reports.
func (s *Store) MarkFileError(ctx context.Context, id uuid.UUID, message string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE files SET has_error = TRUE, error_message = $2, updated_at = now() WHERE id = $1`,
		id, message)
	return err
}

func (s *Store) ListFilesByProject(ctx context.Context, projectID uuid.UUID) ([]models.File, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+fileColumns+` FROM files
		 WHERE project_id = $1 AND NOT deleted
		 ORDER BY path, name`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

// FindFirstFileByTypes returns the oldest non-deleted file whose type is in
// the given list. Used by the inferred-entity factory's owner-file fallback.
func (s *Store) FindFirstFileByTypes(ctx context.Context, projectID uuid.UUID, types []models.FileType) (models.File, error) {
	typeStrings := make([]string, len(types))
	for i, t := range types {
		typeStrings[i] = string(t)
	}
	row := s.pool.QueryRow(ctx,
		`SELECT `+fileColumns+` FROM files
		 WHERE project_id = $1 AND type = ANY($2::text[]) AND NOT deleted
		 ORDER BY created_at, path
		 LIMIT 1`, projectID, typeStrings)
	return scanFile(row)
}

// FindFirstFile returns the oldest non-deleted file of any type.
func (s *Store) FindFirstFile(ctx context.Context, projectID uuid.UUID) (models.File, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+fileColumns+` FROM files
		 WHERE project_id = $1 AND NOT deleted
		 ORDER BY created_at, path
		 LIMIT 1`, projectID)
	return scanFile(row)
}
