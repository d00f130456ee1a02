package relationship

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/codemap-labs/codemap/internal/store"
	"github.com/codemap-labs/codemap/pkg/models"
)

// fakeStore is an in-memory Store used by the resolver and builder tests.
// Lookups mirror the SQL semantics: non-deleted rows, oldest first.
type fakeStore struct {
	files      []models.File
	components []models.Component
	tables     []models.Table
	columns    []models.Column
	classes    []models.Class
	rels       []models.Relationship
}

func componentParams(projectID, fileID uuid.UUID, name string, ctype models.ComponentType) store.CreateComponentParams {
	return store.CreateComponentParams{
		ProjectID: projectID,
		FileID:    fileID,
		Name:      name,
		Type:      ctype,
		Origin:    models.OriginDeclared,
	}
}

func (f *fakeStore) addFile(projectID uuid.UUID, name, path string, ftype models.FileType) models.File {
	file := models.File{ID: uuid.New(), ProjectID: projectID, Name: name, Path: path, Type: ftype}
	f.files = append(f.files, file)
	return file
}

func (f *fakeStore) FindComponent(_ context.Context, projectID uuid.UUID, name string, ctype models.ComponentType) (models.Component, error) {
	for _, c := range f.components {
		if c.ProjectID == projectID && c.Name == name && c.Type == ctype && !c.Deleted {
			return c, nil
		}
	}
	return models.Component{}, pgx.ErrNoRows
}

func (f *fakeStore) GetComponentByID(_ context.Context, id uuid.UUID) (models.Component, error) {
	for _, c := range f.components {
		if c.ID == id && !c.Deleted {
			return c, nil
		}
	}
	return models.Component{}, pgx.ErrNoRows
}

func (f *fakeStore) CreateComponent(_ context.Context, p store.CreateComponentParams) (models.Component, error) {
	origin := p.Origin
	if origin == "" {
		origin = models.OriginDeclared
	}
	c := models.Component{
		ID:        uuid.New(),
		ProjectID: p.ProjectID,
		FileID:    p.FileID,
		Name:      p.Name,
		Type:      p.Type,
		ParentID:  p.ParentID,
		Hash:      p.Hash,
		Origin:    origin,
	}
	f.components = append(f.components, c)
	return c, nil
}

func (f *fakeStore) CreateTable(_ context.Context, p store.CreateTableParams) (models.Table, error) {
	t := models.Table{
		ID:          uuid.New(),
		ProjectID:   p.ProjectID,
		ComponentID: p.ComponentID,
		Name:        p.Name,
		Owner:       p.Owner,
	}
	f.tables = append(f.tables, t)
	return t, nil
}

func (f *fakeStore) CreateColumn(_ context.Context, p store.CreateColumnParams) (models.Column, error) {
	c := models.Column{
		ID:          uuid.New(),
		ProjectID:   p.ProjectID,
		ComponentID: p.ComponentID,
		TableID:     p.TableID,
		Name:        p.Name,
	}
	f.columns = append(f.columns, c)
	return c, nil
}

func (f *fakeStore) FindTableByComponent(_ context.Context, componentID uuid.UUID) (models.Table, error) {
	for _, t := range f.tables {
		if t.ComponentID == componentID && !t.Deleted {
			return t, nil
		}
	}
	return models.Table{}, pgx.ErrNoRows
}

func (f *fakeStore) FindFirstFileByTypes(_ context.Context, projectID uuid.UUID, types []models.FileType) (models.File, error) {
	for _, file := range f.files {
		if file.ProjectID != projectID || file.Deleted {
			continue
		}
		for _, t := range types {
			if file.Type == t {
				return file, nil
			}
		}
	}
	return models.File{}, pgx.ErrNoRows
}

func (f *fakeStore) FindFirstFile(_ context.Context, projectID uuid.UUID) (models.File, error) {
	for _, file := range f.files {
		if file.ProjectID == projectID && !file.Deleted {
			return file, nil
		}
	}
	return models.File{}, pgx.ErrNoRows
}

func (f *fakeStore) CreateRelationshipIfAbsent(_ context.Context, p store.CreateRelationshipParams) (bool, error) {
	for _, r := range f.rels {
		if r.SourceID == p.SourceID && r.TargetID == p.TargetID && r.Type == p.Type && !r.Deleted {
			return false, nil
		}
	}
	confidence := p.Confidence
	if confidence <= 0 {
		confidence = 1.0
	}
	f.rels = append(f.rels, models.Relationship{
		ID:         uuid.New(),
		ProjectID:  p.ProjectID,
		SourceID:   p.SourceID,
		TargetID:   p.TargetID,
		Type:       p.Type,
		Confidence: confidence,
	})
	return true, nil
}

func (f *fakeStore) CreateClass(_ context.Context, p store.CreateClassParams) (models.Class, error) {
	c := models.Class{
		ID:            uuid.New(),
		ProjectID:     p.ProjectID,
		FileID:        p.FileID,
		Name:          p.Name,
		QualifiedName: p.QualifiedName,
		ParentClassID: p.ParentClassID,
	}
	f.classes = append(f.classes, c)
	return c, nil
}

func (f *fakeStore) GetClassByQualifiedName(_ context.Context, projectID uuid.UUID, qname string) (models.Class, error) {
	for _, c := range f.classes {
		if c.ProjectID == projectID && c.QualifiedName == qname && !c.Deleted {
			return c, nil
		}
	}
	return models.Class{}, pgx.ErrNoRows
}

func (f *fakeStore) SetClassParent(_ context.Context, id, parentID uuid.UUID) error {
	for i := range f.classes {
		if f.classes[i].ID == id {
			f.classes[i].ParentClassID = &parentID
		}
	}
	return nil
}

func (f *fakeStore) componentsOfType(ctype models.ComponentType) []models.Component {
	var out []models.Component
	for _, c := range f.components {
		if c.Type == ctype {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeStore) relsOfType(rt models.RelType) []models.Relationship {
	var out []models.Relationship
	for _, r := range f.rels {
		if r.Type == rt {
			out = append(out, r)
		}
	}
	return out
}
