package models

import (
	"time"

	"github.com/google/uuid"
)

// RelType is the closed vocabulary of directed edge kinds.
//
// The first block is the exported vocabulary; the second block holds the
// builder-internal synonyms used while composing the graph.
type RelType string

const (
	RelCallMethod   RelType = "CALL_METHOD"
	RelCallQuery    RelType = "CALL_QUERY"
	RelUseTable     RelType = "USE_TABLE"
	RelJoinExplicit RelType = "JOIN_EXPLICIT"
	RelJoinImplicit RelType = "JOIN_IMPLICIT"
	RelJoinMergeOn  RelType = "JOIN_MERGEON"

	RelExecutesQuery RelType = "EXECUTES_QUERY"
	RelUsesTable     RelType = "USES_TABLE"
	RelUsesEntity    RelType = "USES_ENTITY"
	RelMapsToTable   RelType = "MAPS_TO_TABLE"
	RelJoinsWith     RelType = "JOINS_WITH"
	RelCallsAPI      RelType = "CALLS_API"
	RelImplementsAPI RelType = "IMPLEMENTS_API"
)

// Relationship is a directed, typed edge between two components.
// Invariants: SourceID != TargetID, both endpoints are existing non-deleted
// components, and (source, target, type) is unique among non-deleted rows.
type Relationship struct {
	ID         uuid.UUID `json:"id"`
	ProjectID  uuid.UUID `json:"project_id"`
	SourceID   uuid.UUID `json:"source_id"`
	TargetID   uuid.UUID `json:"target_id"`
	Type       RelType   `json:"rel_type"`
	Confidence float64   `json:"confidence"`
	Deleted    bool      `json:"deleted"`
	CreatedAt  time.Time `json:"created_at"`
}
