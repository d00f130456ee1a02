package relationship

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemap-labs/codemap/internal/config"
	"github.com/codemap-labs/codemap/pkg/apperr"
	"github.com/codemap-labs/codemap/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testKeywords() *config.Keywords {
	return config.NewKeywords("SELECT", "FROM", "WHERE", "DUAL", "ON", "USING", "SET")
}

func newTestResolver(fs *fakeStore, projectID uuid.UUID) *Resolver {
	return NewResolver(fs, testKeywords(), projectID, testLogger())
}

func TestResolveOrCreate_Idempotent(t *testing.T) {
	projectID := uuid.New()
	fs := &fakeStore{}
	fs.addFile(projectID, "UserMapper.xml", "mapper/UserMapper.xml", models.FileXML)
	r := newTestResolver(fs, projectID)

	first, err := r.ResolveOrCreate(context.Background(), "USERS", models.ComponentTable, nil)
	require.NoError(t, err)
	second, err := r.ResolveOrCreate(context.Background(), "USERS", models.ComponentTable, nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, fs.componentsOfType(models.ComponentTable), 1)
	assert.Equal(t, 1, r.CreatedCount())
}

func TestResolveOrCreate_ReturnsDeclared(t *testing.T) {
	projectID := uuid.New()
	fs := &fakeStore{}
	file := fs.addFile(projectID, "schema.sql", "db/schema.sql", models.FileSQL)
	declared, err := fs.CreateComponent(context.Background(), componentParams(projectID, file.ID, "USERS", models.ComponentTable))
	require.NoError(t, err)
	r := newTestResolver(fs, projectID)

	got, err := r.ResolveOrCreate(context.Background(), "USERS", models.ComponentTable, nil)
	require.NoError(t, err)
	assert.Equal(t, declared.ID, got.ID)
	assert.Equal(t, 0, r.CreatedCount())
}

func TestResolveOrCreate_RefusesKeyword(t *testing.T) {
	projectID := uuid.New()
	fs := &fakeStore{}
	fs.addFile(projectID, "UserMapper.xml", "mapper/UserMapper.xml", models.FileXML)
	r := newTestResolver(fs, projectID)

	_, err := r.ResolveOrCreate(context.Background(), "DUAL", models.ComponentTable, nil)
	require.Error(t, err)
	assert.True(t, apperr.IsReservedKeyword(err))
	assert.Empty(t, fs.components)
}

func TestResolveOrCreate_InferredTableProjection(t *testing.T) {
	projectID := uuid.New()
	fs := &fakeStore{}
	fs.addFile(projectID, "UserMapper.xml", "mapper/UserMapper.xml", models.FileXML)
	r := newTestResolver(fs, projectID)

	c, err := r.ResolveOrCreate(context.Background(), "USERS_V1", models.ComponentTable, nil)
	require.NoError(t, err)

	assert.Equal(t, models.InferredHash, c.Hash)
	assert.Equal(t, models.OriginInferred, c.Origin)
	require.Len(t, fs.tables, 1)
	assert.Equal(t, c.ID, fs.tables[0].ComponentID)
	assert.Equal(t, "USERS_V1", fs.tables[0].Name)
	assert.Equal(t, "INFERRED", fs.tables[0].Owner)
}

func TestResolveOrCreate_ColumnLinkedToTable(t *testing.T) {
	projectID := uuid.New()
	fs := &fakeStore{}
	fs.addFile(projectID, "UserMapper.xml", "mapper/UserMapper.xml", models.FileXML)
	r := newTestResolver(fs, projectID)

	table, err := r.ResolveOrCreate(context.Background(), "USERS", models.ComponentTable, nil)
	require.NoError(t, err)
	col, err := r.ResolveOrCreate(context.Background(), "USER_NAME", models.ComponentColumn, &table.ID)
	require.NoError(t, err)

	require.Len(t, fs.columns, 1)
	assert.Equal(t, col.ID, fs.columns[0].ComponentID)
	assert.Equal(t, fs.tables[0].ID, fs.columns[0].TableID)
	require.NotNil(t, col.ParentID)
	assert.Equal(t, table.ID, *col.ParentID)
}

func TestResolveOrCreate_ColumnUnderDeclaredTable(t *testing.T) {
	projectID := uuid.New()
	fs := &fakeStore{}
	file := fs.addFile(projectID, "schema.sql", "db/schema.sql", models.FileSQL)
	table, err := fs.CreateComponent(context.Background(), componentParams(projectID, file.ID, "USERS", models.ComponentTable))
	require.NoError(t, err)
	r := newTestResolver(fs, projectID)

	col, err := r.ResolveOrCreate(context.Background(), "USER_NAME", models.ComponentColumn, &table.ID)
	require.NoError(t, err)

	require.Len(t, fs.tables, 1)
	assert.Equal(t, table.ID, fs.tables[0].ComponentID)
	assert.Equal(t, "USERS", fs.tables[0].Name)
	require.Len(t, fs.columns, 1)
	assert.Equal(t, col.ID, fs.columns[0].ComponentID)
	assert.Equal(t, fs.tables[0].ID, fs.columns[0].TableID)
}

func TestResolveOrCreate_FileFallbackOrder(t *testing.T) {
	projectID := uuid.New()
	fs := &fakeStore{}
	javaFile := fs.addFile(projectID, "UserDao.java", "src/UserDao.java", models.FileJava)
	xmlFile := fs.addFile(projectID, "UserMapper.xml", "mapper/UserMapper.xml", models.FileXML)
	r := newTestResolver(fs, projectID)

	c, err := r.ResolveOrCreate(context.Background(), "USERS", models.ComponentTable, nil)
	require.NoError(t, err)
	assert.Equal(t, xmlFile.ID, c.FileID)
	assert.NotEqual(t, javaFile.ID, c.FileID)
}

func TestResolveOrCreate_JavaFallbackWhenNoXML(t *testing.T) {
	projectID := uuid.New()
	fs := &fakeStore{}
	javaFile := fs.addFile(projectID, "UserDao.java", "src/UserDao.java", models.FileJava)
	r := newTestResolver(fs, projectID)

	c, err := r.ResolveOrCreate(context.Background(), "USERS", models.ComponentTable, nil)
	require.NoError(t, err)
	assert.Equal(t, javaFile.ID, c.FileID)
}

func TestResolveOrCreate_FatalWithoutFiles(t *testing.T) {
	projectID := uuid.New()
	fs := &fakeStore{}
	r := newTestResolver(fs, projectID)

	_, err := r.ResolveOrCreate(context.Background(), "USERS", models.ComponentTable, nil)
	require.Error(t, err)
	assert.True(t, apperr.IsFatal(err))
}
