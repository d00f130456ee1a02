package validate

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemap-labs/codemap/pkg/models"
)

type fakeStore struct {
	files         []models.File
	classes       []models.Class
	components    []models.Component
	relationships []models.Relationship
}

func (f *fakeStore) ListFilesByProject(context.Context, uuid.UUID) ([]models.File, error) {
	return f.files, nil
}
func (f *fakeStore) ListClassesByProject(context.Context, uuid.UUID) ([]models.Class, error) {
	return f.classes, nil
}
func (f *fakeStore) ListComponentsByProject(context.Context, uuid.UUID) ([]models.Component, error) {
	return f.components, nil
}
func (f *fakeStore) ListRelationshipsByProject(context.Context, uuid.UUID) ([]models.Relationship, error) {
	return f.relationships, nil
}

type graph struct {
	projectID uuid.UUID
	fs        *fakeStore
}

// newGraph builds a minimal consistent graph: one file, one class, a method,
// a query, a table, and the method→query→table edges.
func newGraph() *graph {
	g := &graph{projectID: uuid.New(), fs: &fakeStore{}}

	file := models.File{ID: uuid.New(), ProjectID: g.projectID, Name: "UserMapper.xml", Path: "mapper"}
	g.fs.files = append(g.fs.files, file)

	class := models.Class{ID: uuid.New(), ProjectID: g.projectID, FileID: file.ID,
		Name: "UserMapper", QualifiedName: "com.acme.UserMapper"}
	g.fs.classes = append(g.fs.classes, class)

	method := g.addComponent("selectUser", models.ComponentMethod, file.ID, &class.ID)
	query := g.addComponent("com.acme.UserMapper.selectUser", models.ComponentSQLSelect, file.ID, nil)
	table := g.addComponent("USERS", models.ComponentTable, file.ID, nil)

	g.addRel(method.ID, query.ID, models.RelCallQuery)
	g.addRel(query.ID, table.ID, models.RelUseTable)
	return g
}

func (g *graph) addComponent(name string, ctype models.ComponentType, fileID uuid.UUID, parentID *uuid.UUID) models.Component {
	c := models.Component{ID: uuid.New(), ProjectID: g.projectID, FileID: fileID,
		Name: name, Type: ctype, ParentID: parentID, Origin: models.OriginDeclared}
	g.fs.components = append(g.fs.components, c)
	return c
}

func (g *graph) addRel(src, dst uuid.UUID, rt models.RelType) models.Relationship {
	r := models.Relationship{ID: uuid.New(), ProjectID: g.projectID,
		SourceID: src, TargetID: dst, Type: rt, Confidence: 1.0}
	g.fs.relationships = append(g.fs.relationships, r)
	return r
}

func (g *graph) run(t *testing.T) *Report {
	t.Helper()
	report, err := New(g.fs, slog.New(slog.NewTextHandler(io.Discard, nil))).Run(context.Background(), g.projectID)
	require.NoError(t, err)
	return report
}

func codes(violations []Violation) []string {
	var out []string
	for _, v := range violations {
		out = append(out, v.Code)
	}
	return out
}

func TestRun_CleanGraph(t *testing.T) {
	report := newGraph().run(t)
	assert.False(t, report.Failed())
	assert.Empty(t, report.Fatal)
}

func TestRun_DanglingRelationshipTarget(t *testing.T) {
	g := newGraph()
	g.addRel(g.fs.components[0].ID, uuid.New(), models.RelUseTable)

	report := g.run(t)
	assert.True(t, report.Failed())
	assert.Equal(t, []string{CodeFKRelationships}, codes(report.Fatal))
}

func TestRun_ComponentWithMissingFile(t *testing.T) {
	g := newGraph()
	g.addComponent("ORPHANS", models.ComponentTable, uuid.New(), nil)

	report := g.run(t)
	assert.Contains(t, codes(report.Fatal), CodeFKComponents)
}

func TestRun_ClassWithMissingParent(t *testing.T) {
	g := newGraph()
	missing := uuid.New()
	g.fs.classes[0].ParentClassID = &missing

	report := g.run(t)
	assert.Contains(t, codes(report.Fatal), CodeFKClasses)
}

func TestRun_SelfRelationship(t *testing.T) {
	g := newGraph()
	table := g.fs.components[2]
	g.addRel(table.ID, table.ID, models.RelJoinExplicit)

	report := g.run(t)
	assert.Contains(t, codes(report.Fatal), CodeSelfRel)
}

func TestRun_DuplicateMethodInFile(t *testing.T) {
	g := newGraph()
	file := g.fs.files[0]
	class := g.fs.classes[0]
	g.addComponent("selectUser", models.ComponentMethod, file.ID, &class.ID)

	report := g.run(t)
	assert.Contains(t, codes(report.Fatal), CodeDupMethod)
}

func TestRun_DuplicateFiles(t *testing.T) {
	g := newGraph()
	g.fs.files = append(g.fs.files, models.File{ID: uuid.New(), ProjectID: g.projectID,
		Name: "UserMapper.xml", Path: "mapper"})

	report := g.run(t)
	assert.Contains(t, codes(report.Fatal), CodeDupFile)
}

func TestRun_APIWithTwoHandlers(t *testing.T) {
	g := newGraph()
	file := g.fs.files[0]
	class := g.fs.classes[0]
	api := g.addComponent("GET_/api/users/{id}", models.ComponentAPIURL, file.ID, nil)
	h1 := g.addComponent("getUser", models.ComponentMethod, file.ID, &class.ID)
	h2 := g.addComponent("getUserLegacy", models.ComponentMethod, file.ID, &class.ID)
	g.addRel(api.ID, h1.ID, models.RelCallMethod)
	g.addRel(api.ID, h2.ID, models.RelCallMethod)

	report := g.run(t)
	assert.Contains(t, codes(report.Fatal), CodeAPIMultiHandler)
}

func TestRun_ColumnParentMustBeTable(t *testing.T) {
	g := newGraph()
	file := g.fs.files[0]
	method := g.fs.components[0]
	g.addComponent("USER_NAME", models.ComponentColumn, file.ID, &method.ID)

	report := g.run(t)
	assert.Contains(t, codes(report.Fatal), CodeBadColumnParent)
}

func TestRun_MethodParentMustBeClass(t *testing.T) {
	g := newGraph()
	file := g.fs.files[0]
	bogus := uuid.New()
	g.addComponent("orphanMethod", models.ComponentMethod, file.ID, &bogus)

	report := g.run(t)
	assert.Contains(t, codes(report.Fatal), CodeBadMethodParent)
}

func TestRun_MethodNoQueryWarnsOnlyForDataAccessClasses(t *testing.T) {
	g := newGraph()
	file := g.fs.files[0]

	mapper := g.fs.classes[0]
	controller := models.Class{ID: uuid.New(), ProjectID: g.projectID, FileID: file.ID,
		Name: "UserController", QualifiedName: "com.acme.UserController"}
	g.fs.classes = append(g.fs.classes, controller)

	g.addComponent("deleteUser", models.ComponentMethod, file.ID, &mapper.ID)
	g.addComponent("getUser", models.ComponentMethod, file.ID, &controller.ID)

	report := g.run(t)
	assert.False(t, report.Failed())

	var warned []string
	for _, w := range report.Warnings {
		if w.Code == CodeWarnMethodNoQuery {
			warned = append(warned, w.Message)
		}
	}
	require.Len(t, warned, 1)
	assert.Contains(t, warned[0], "deleteUser")
}

func TestRun_WarningsNeverFatal(t *testing.T) {
	g := newGraph()
	file := g.fs.files[0]
	g.addComponent("GET_/api/orphan", models.ComponentAPIURL, file.ID, nil)

	report := g.run(t)
	assert.False(t, report.Failed())
	assert.Contains(t, codes(report.Warnings), CodeWarnAPINoHandler)
}
