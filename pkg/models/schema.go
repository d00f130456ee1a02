package models

import (
	"time"

	"github.com/google/uuid"
)

// FileType tags a scanned file with its broad language family. It drives
// extractor routing and the inferred-entity owner-file fallback order.
type FileType string

const (
	FileJava FileType = "JAVA"
	FileXML  FileType = "XML"
	FileJSP  FileType = "JSP"
	FileJS   FileType = "JS"
	FileTS   FileType = "TS"
	FileVue  FileType = "VUE"
	FileHTML FileType = "HTML"
	FileCSV  FileType = "CSV"
	FileSQL  FileType = "SQL"
)

// Project is the root of all other entities. One row per analyzed repository
// snapshot, upserted idempotently at the start of a run.
type Project struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	RootPath   string    `json:"root_path"`
	TotalFiles int       `json:"total_files"`
	Deleted    bool      `json:"deleted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// File is the owning container for extracted and synthesized components.
// (Name, Path, ProjectID) is unique among non-deleted rows.
type File struct {
	ID           uuid.UUID `json:"id"`
	ProjectID    uuid.UUID `json:"project_id"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Type         FileType  `json:"type"`
	Hash         string    `json:"hash"`
	LineCount    int       `json:"line_count"`
	HasError     bool      `json:"has_error"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	Deleted      bool      `json:"deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Class is a Java class or interface. ParentClassID, when set, must point at
// a non-deleted class in the same project (single inheritance).
type Class struct {
	ID            uuid.UUID  `json:"id"`
	ProjectID     uuid.UUID  `json:"project_id"`
	FileID        uuid.UUID  `json:"file_id"`
	Name          string     `json:"name"`
	QualifiedName string     `json:"qualified_name"`
	ParentClassID *uuid.UUID `json:"parent_class_id,omitempty"`
	Deleted       bool       `json:"deleted"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Table is the schema-shaped projection of a TABLE component. Owner is the
// database schema owner, or "INFERRED" for tables discovered only through
// SQL-text analysis.
type Table struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	ComponentID uuid.UUID `json:"component_id"`
	Name        string    `json:"name"`
	Owner       string    `json:"owner"`
	Comments    *string   `json:"comments,omitempty"`
	Deleted     bool      `json:"deleted"`
	CreatedAt   time.Time `json:"created_at"`
}

// Column is the schema-shaped projection of a COLUMN component.
type Column struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	ComponentID uuid.UUID `json:"component_id"`
	TableID     uuid.UUID `json:"table_id"`
	Name        string    `json:"name"`
	DataType    string    `json:"data_type"`
	Nullable    bool      `json:"nullable"`
	PKPosition  *int      `json:"pk_position,omitempty"`
	Comments    *string   `json:"comments,omitempty"`
	Deleted     bool      `json:"deleted"`
	CreatedAt   time.Time `json:"created_at"`
}
