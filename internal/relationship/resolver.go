// Package relationship resolves component identities and builds the typed
// edge set between them. The resolver is the single gate through which every
// pass obtains a component id, so that a name referenced from ten places maps
// to exactly one row.
package relationship

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/codemap-labs/codemap/internal/config"
	"github.com/codemap-labs/codemap/internal/store"
	"github.com/codemap-labs/codemap/pkg/apperr"
	"github.com/codemap-labs/codemap/pkg/models"
)

// Store is the slice of the metadata store the resolver and builder depend
// on. *store.Store satisfies it; tests substitute an in-memory fake.
type Store interface {
	FindComponent(ctx context.Context, projectID uuid.UUID, name string, ctype models.ComponentType) (models.Component, error)
	GetComponentByID(ctx context.Context, id uuid.UUID) (models.Component, error)
	CreateComponent(ctx context.Context, p store.CreateComponentParams) (models.Component, error)
	CreateTable(ctx context.Context, p store.CreateTableParams) (models.Table, error)
	CreateColumn(ctx context.Context, p store.CreateColumnParams) (models.Column, error)
	FindTableByComponent(ctx context.Context, componentID uuid.UUID) (models.Table, error)
	FindFirstFileByTypes(ctx context.Context, projectID uuid.UUID, types []models.FileType) (models.File, error)
	FindFirstFile(ctx context.Context, projectID uuid.UUID) (models.File, error)
	CreateRelationshipIfAbsent(ctx context.Context, p store.CreateRelationshipParams) (bool, error)
	CreateClass(ctx context.Context, p store.CreateClassParams) (models.Class, error)
	GetClassByQualifiedName(ctx context.Context, projectID uuid.UUID, qname string) (models.Class, error)
	SetClassParent(ctx context.Context, id, parentID uuid.UUID) error
}

// Resolver maps (project, name, type) to a stable component id, synthesizing
// an inferred component when nothing declared matches. All passes run on one
// goroutine, so the lookup-then-create sequence needs no locking.
type Resolver struct {
	store     Store
	keywords  *config.Keywords
	log       *slog.Logger
	projectID uuid.UUID

	cache        map[resolveKey]models.Component
	fallbackFile *models.File
	created      int
}

type resolveKey struct {
	name  string
	ctype models.ComponentType
}

func NewResolver(st Store, kw *config.Keywords, projectID uuid.UUID, log *slog.Logger) *Resolver {
	return &Resolver{
		store:     st,
		keywords:  kw,
		log:       log,
		projectID: projectID,
		cache:     make(map[resolveKey]models.Component),
	}
}

// ResolveOrCreate returns the component for (project, name, type), creating
// an inferred one when no declaration exists. Names matching a reserved SQL
// keyword are never synthesized; the caller drops that single record.
//
// parentID is required for COLUMN components (the owning TABLE component) and
// ignored for types without a parent.
func (r *Resolver) ResolveOrCreate(ctx context.Context, name string, ctype models.ComponentType, parentID *uuid.UUID) (models.Component, error) {
	key := resolveKey{name: name, ctype: ctype}
	if c, ok := r.cache[key]; ok {
		return c, nil
	}

	c, err := r.store.FindComponent(ctx, r.projectID, name, ctype)
	if err == nil {
		r.cache[key] = c
		return c, nil
	}
	if !apperr.IsNotFound(err) {
		return models.Component{}, apperr.StoreUnavailable(err)
	}

	if r.keywords.Contains(name) {
		return models.Component{}, apperr.ReservedKeywordName(name)
	}

	file, err := r.ownerFile(ctx, name)
	if err != nil {
		return models.Component{}, err
	}

	c, err = r.store.CreateComponent(ctx, store.CreateComponentParams{
		ProjectID: r.projectID,
		FileID:    file.ID,
		Name:      name,
		Type:      ctype,
		ParentID:  parentID,
		Hash:      models.InferredHash,
		Origin:    models.OriginInferred,
	})
	if err != nil {
		return models.Component{}, apperr.StoreUnavailable(err)
	}

	switch ctype {
	case models.ComponentTable:
		if err := r.createTableRow(ctx, c); err != nil {
			return models.Component{}, err
		}
	case models.ComponentColumn:
		if err := r.createColumnRow(ctx, c, parentID); err != nil {
			return models.Component{}, err
		}
	}

	r.created++
	r.cache[key] = c
	r.log.Debug("inferred component created",
		"name", name, "type", string(ctype), "file", file.Path)
	return c, nil
}

// CreatedCount returns how many inferred components this resolver synthesized.
func (r *Resolver) CreatedCount() int { return r.created }

func (r *Resolver) createTableRow(ctx context.Context, c models.Component) error {
	_, err := r.store.CreateTable(ctx, store.CreateTableParams{
		ProjectID:   r.projectID,
		ComponentID: c.ID,
		Name:        c.Name,
		Owner:       models.InferredHash,
	})
	if err != nil {
		return apperr.StoreUnavailable(err)
	}
	return nil
}

func (r *Resolver) createColumnRow(ctx context.Context, c models.Component, tableComponentID *uuid.UUID) error {
	if tableComponentID == nil {
		r.log.Warn("column component has no owning table, projection row skipped", "name", c.Name)
		return nil
	}
	table, err := r.store.FindTableByComponent(ctx, *tableComponentID)
	if apperr.IsNotFound(err) {
		parent, perr := r.componentByID(ctx, *tableComponentID)
		if perr != nil {
			return perr
		}
		table, err = r.store.CreateTable(ctx, store.CreateTableParams{
			ProjectID:   r.projectID,
			ComponentID: parent.ID,
			Name:        parent.Name,
			Owner:       models.InferredHash,
		})
	}
	if err != nil {
		return apperr.StoreUnavailable(err)
	}

	_, err = r.store.CreateColumn(ctx, store.CreateColumnParams{
		ProjectID:   r.projectID,
		ComponentID: c.ID,
		TableID:     table.ID,
		Name:        c.Name,
	})
	if err != nil {
		return apperr.StoreUnavailable(err)
	}
	return nil
}

func (r *Resolver) componentByID(ctx context.Context, id uuid.UUID) (models.Component, error) {
	for _, c := range r.cache {
		if c.ID == id {
			return c, nil
		}
	}
	c, err := r.store.GetComponentByID(ctx, id)
	if apperr.IsNotFound(err) {
		return models.Component{}, apperr.ComponentNotFound(id.String())
	}
	if err != nil {
		return models.Component{}, apperr.StoreUnavailable(err)
	}
	return c, nil
}

// ownerFile picks the file an inferred component is attached to. The order
// prefers the files most likely to have referenced the name: mapper XML and
// schema SQL first, then Java sources, then anything. A project with zero
// files means the scan stage never ran; that terminates the run.
func (r *Resolver) ownerFile(ctx context.Context, name string) (models.File, error) {
	if r.fallbackFile != nil {
		return *r.fallbackFile, nil
	}

	f, err := r.store.FindFirstFileByTypes(ctx, r.projectID,
		[]models.FileType{models.FileXML, models.FileSQL})
	if apperr.IsNotFound(err) {
		f, err = r.store.FindFirstFileByTypes(ctx, r.projectID,
			[]models.FileType{models.FileJava})
	}
	if apperr.IsNotFound(err) {
		f, err = r.store.FindFirstFile(ctx, r.projectID)
	}
	if apperr.IsNotFound(err) {
		return models.File{}, apperr.NoFilesInProject(r.projectID.String())
	}
	if err != nil {
		return models.File{}, apperr.InferredFileMissing(name, err)
	}

	r.fallbackFile = &f
	return f, nil
}
