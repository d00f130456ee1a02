// Package extract defines the per-file analysis records that the extractors
// produce and the relationship builder consumes. Each source kind has its own
// record shape; the builder buffers them and wires the graph in one pass at
// the end of the scan.
package extract

import "github.com/codemap-labs/codemap/pkg/models"

// FileInput is one file handed to an extractor.
type FileInput struct {
	Path    string
	Content []byte
	Type    models.FileType
}

// QueryRecord is one SQL statement pulled out of a MyBatis mapper XML file or
// a Java @Query annotation. SQL holds the raw statement text, dynamic tags
// and all; normalization happens in the analysis passes.
type QueryRecord struct {
	QueryID   string // statement id, e.g. "selectUserById"
	Namespace string // mapper namespace, empty for annotation queries
	Kind      string // SELECT, INSERT, UPDATE, DELETE, MERGE
	SQL       string
	FilePath  string
	Line      int
}

// QualifiedID returns the namespace-qualified statement id when a namespace
// is present.
func (q QueryRecord) QualifiedID() string {
	if q.Namespace == "" {
		return q.QueryID
	}
	return q.Namespace + "." + q.QueryID
}

// MethodDecl is one method of a Java class or interface.
type MethodDecl struct {
	Name      string
	Signature string
	Line      int
	EndLine   int
}

// ClassDecl is one Java class or interface with the linkage the builder
// needs: MyBatis mapper methods, JPA repository entity, JPA entity table
// mapping.
type ClassDecl struct {
	Name          string
	QualifiedName string
	IsInterface   bool
	ParentName    string // superclass or first extended interface, unqualified
	Methods       []MethodDecl

	// MyBatis: interface whose method names match mapper XML statement ids.
	IsMapper bool

	// JPA repository: interface extending JpaRepository<Entity, ID> etc.
	RepositoryEntity string

	// JPA entity: @Entity / @Table(name=...). EntityTable is the explicit
	// table name, empty when only @Entity is present (naming convention
	// applies then).
	IsEntity    bool
	EntityTable string

	Line    int
	EndLine int
}

// JavaResult is the extraction output for one Java source file.
type JavaResult struct {
	FilePath string
	Package  string
	Classes  []ClassDecl
	Queries  []QueryRecord      // @Query / @NamedQuery annotation SQL
	Mappings []APIMappingRecord // controller request mappings
}

// APIMappingRecord is one declared backend route: a Spring controller method
// bound to an HTTP verb and URL pattern.
type APIMappingRecord struct {
	Verb       string // GET, POST, PUT, DELETE, PATCH
	URL        string // declared pattern, may contain {placeholders}
	ClassName  string
	MethodName string
	FilePath   string
	Line       int
}

// APICallRecord is one frontend call site: a fetch/axios/$http invocation
// with the URL and verb it targets.
type APICallRecord struct {
	URL      string
	Verb     string
	FilePath string
	Line     int
}
