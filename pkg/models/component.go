package models

import (
	"time"

	"github.com/google/uuid"
)

// ComponentType discriminates the polymorphic component registry. The set is
// closed: resolution and validation switch exhaustively on these values.
type ComponentType string

const (
	ComponentMethod    ComponentType = "METHOD"
	ComponentTable     ComponentType = "TABLE"
	ComponentColumn    ComponentType = "COLUMN"
	ComponentAPIURL    ComponentType = "API_URL"
	ComponentSQLSelect ComponentType = "SQL_SELECT"
	ComponentSQLInsert ComponentType = "SQL_INSERT"
	ComponentSQLUpdate ComponentType = "SQL_UPDATE"
	ComponentSQLDelete ComponentType = "SQL_DELETE"
	ComponentSQLMerge  ComponentType = "SQL_MERGE"
	ComponentJSP       ComponentType = "JSP"
	ComponentFrontend  ComponentType = "FRONTEND"
	ComponentClass     ComponentType = "CLASS"
)

// IsSQL reports whether the type is one of the SQL statement kinds.
func (t ComponentType) IsSQL() bool {
	switch t {
	case ComponentSQLSelect, ComponentSQLInsert, ComponentSQLUpdate, ComponentSQLDelete, ComponentSQLMerge:
		return true
	}
	return false
}

// Origin records whether a component was extracted from source text or
// synthesized by the resolver because something referenced an undeclared name.
type Origin string

const (
	OriginDeclared Origin = "declared"
	OriginInferred Origin = "inferred"
)

// InferredHash is the hash value stored on synthesized components. Kept
// alongside the explicit Origin column so consumers keyed on the legacy
// sentinel still work.
const InferredHash = "INFERRED"

// Component is the graph node type shared by every analyzable element:
// methods, tables, columns, queries, API endpoints, frontend files.
//
// ParentID is type-dependent: for METHOD it must resolve to a Class id, for
// COLUMN to a TABLE-typed component id. The validator enforces both.
type Component struct {
	ID        uuid.UUID     `json:"id"`
	ProjectID uuid.UUID     `json:"project_id"`
	FileID    uuid.UUID     `json:"file_id"`
	Name      string        `json:"name"`
	Type      ComponentType `json:"type"`
	ParentID  *uuid.UUID    `json:"parent_id,omitempty"`
	Hash      string        `json:"hash"`
	Origin    Origin        `json:"origin"`
	Deleted   bool          `json:"deleted"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
