package relationship

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/codemap-labs/codemap/internal/config"
	"github.com/codemap-labs/codemap/internal/extract"
	"github.com/codemap-labs/codemap/internal/sqlscan"
	"github.com/codemap-labs/codemap/internal/store"
	"github.com/codemap-labs/codemap/pkg/apperr"
	"github.com/codemap-labs/codemap/pkg/models"
)

// Stats counts what one BuildAll run produced, per pass.
type Stats struct {
	MethodQueryEdges   int `json:"method_query_edges"`
	MethodEntityEdges  int `json:"method_entity_edges"`
	QueryTableEdges    int `json:"query_table_edges"`
	JoinEdges          int `json:"join_edges"`
	EntityTableEdges   int `json:"entity_table_edges"`
	APIHandlerEdges    int `json:"api_handler_edges"`
	FrontendAPIEdges   int `json:"frontend_api_edges"`
	ImplementsAPIEdges int `json:"implements_api_edges"`
	InferredComponents int `json:"inferred_components"`
}

// Total returns the number of edges across all passes.
func (s Stats) Total() int {
	return s.MethodQueryEdges + s.MethodEntityEdges + s.QueryTableEdges +
		s.JoinEdges + s.EntityTableEdges + s.APIHandlerEdges +
		s.FrontendAPIEdges + s.ImplementsAPIEdges
}

type queryBatch struct {
	fileID  uuid.UUID
	queries []extract.QueryRecord
}

type javaFile struct {
	fileID uuid.UUID
	result *extract.JavaResult
}

type frontendFile struct {
	fileID uuid.UUID
	path   string
	ftype  models.FileType
	calls  []extract.APICallRecord
}

type mappingBatch struct {
	fileID   uuid.UUID
	mappings []extract.APIMappingRecord
}

type queryEntry struct {
	record    extract.QueryRecord
	component models.Component
}

// Builder buffers per-file extraction results and wires the component graph
// in one BuildAll call. All work is single-threaded; passes run in a fixed
// order because later passes depend on components the earlier ones create.
type Builder struct {
	store     Store
	resolver  *Resolver
	sql       *sqlscan.Analyzer
	log       *slog.Logger
	projectID uuid.UUID

	queryBatches  []queryBatch
	javaFiles     []javaFile
	frontendFiles []frontendFile
	mappingSets   []mappingBatch

	// populated by materialize
	classRows     map[string]models.Class
	classComps    map[string]models.Component
	classDecls    map[string]extract.ClassDecl
	declsBySimple map[string]extract.ClassDecl
	methods       map[string]map[string]models.Component
	queryComps    map[string]models.Component
	queriesByID   map[string][]string
	queryList     []queryEntry
	apiComps      map[string]models.Component
	apiHandlers   map[string]models.Component
}

func NewBuilder(st Store, kw *config.Keywords, projectID uuid.UUID, log *slog.Logger) *Builder {
	return &Builder{
		store:     st,
		resolver:  NewResolver(st, kw, projectID, log),
		sql:       sqlscan.NewAnalyzer(kw),
		log:       log,
		projectID: projectID,

		classRows:     make(map[string]models.Class),
		classComps:    make(map[string]models.Component),
		classDecls:    make(map[string]extract.ClassDecl),
		declsBySimple: make(map[string]extract.ClassDecl),
		methods:       make(map[string]map[string]models.Component),
		queryComps:    make(map[string]models.Component),
		queriesByID:   make(map[string][]string),
		apiComps:      make(map[string]models.Component),
		apiHandlers:   make(map[string]models.Component),
	}
}

// AddXMLQueries buffers the statements extracted from one mapper XML file.
func (b *Builder) AddXMLQueries(fileID uuid.UUID, queries []extract.QueryRecord) {
	if len(queries) > 0 {
		b.queryBatches = append(b.queryBatches, queryBatch{fileID: fileID, queries: queries})
	}
}

// AddJavaResult buffers the classes and annotation queries of one Java file.
// Controller mappings travel separately via AddAPIMappings.
func (b *Builder) AddJavaResult(fileID uuid.UUID, result *extract.JavaResult) {
	b.javaFiles = append(b.javaFiles, javaFile{fileID: fileID, result: result})
	if len(result.Queries) > 0 {
		b.queryBatches = append(b.queryBatches, queryBatch{fileID: fileID, queries: result.Queries})
	}
}

// AddFrontendCalls buffers the API call sites of one frontend file.
func (b *Builder) AddFrontendCalls(fileID uuid.UUID, path string, ftype models.FileType, calls []extract.APICallRecord) {
	if len(calls) > 0 {
		b.frontendFiles = append(b.frontendFiles, frontendFile{fileID: fileID, path: path, ftype: ftype, calls: calls})
	}
}

// AddAPIMappings buffers the declared controller routes of one Java file.
func (b *Builder) AddAPIMappings(fileID uuid.UUID, mappings []extract.APIMappingRecord) {
	if len(mappings) > 0 {
		b.mappingSets = append(b.mappingSets, mappingBatch{fileID: fileID, mappings: mappings})
	}
}

// BuildAll materializes the declared components and runs the edge passes in
// order. Per-record data-quality failures are logged and skipped;
// infrastructure failures abort with the error.
func (b *Builder) BuildAll(ctx context.Context) (Stats, error) {
	var stats Stats

	if err := b.materialize(ctx); err != nil {
		return stats, err
	}
	if err := b.passMethodQuery(ctx, &stats); err != nil {
		return stats, err
	}
	if err := b.passMethodEntity(ctx, &stats); err != nil {
		return stats, err
	}
	if err := b.passQueryTable(ctx, &stats); err != nil {
		return stats, err
	}
	if err := b.passJoins(ctx, &stats); err != nil {
		return stats, err
	}
	if err := b.passEntityTable(ctx, &stats); err != nil {
		return stats, err
	}
	if err := b.passFrontendAPI(ctx, &stats); err != nil {
		return stats, err
	}

	stats.InferredComponents = b.resolver.CreatedCount()
	b.log.Info("relationship build complete",
		"edges", stats.Total(), "inferred", stats.InferredComponents)
	return stats, nil
}

// materialize creates the declared components: class rows and CLASS/METHOD
// components, SQL statement components, API endpoint components for declared
// routes, and one component per frontend file.
func (b *Builder) materialize(ctx context.Context) error {
	for _, jf := range b.javaFiles {
		for _, decl := range jf.result.Classes {
			if err := b.materializeClass(ctx, jf.fileID, decl); err != nil {
				return err
			}
		}
	}
	b.linkClassParents(ctx)

	for _, batch := range b.queryBatches {
		for _, q := range batch.queries {
			name := q.QualifiedID()
			if _, ok := b.queryComps[name]; ok {
				continue
			}
			comp, err := b.createDeclared(ctx, batch.fileID, name, sqlComponentType(q.Kind), nil)
			if err != nil {
				return err
			}
			b.queryComps[name] = comp
			b.queriesByID[q.QueryID] = append(b.queriesByID[q.QueryID], name)
			b.queryList = append(b.queryList, queryEntry{record: q, component: comp})
		}
	}

	for _, set := range b.mappingSets {
		for _, m := range set.mappings {
			key := APIKey(m.Verb, m.URL)
			if _, ok := b.apiComps[key]; !ok {
				comp, err := b.createDeclared(ctx, set.fileID, key, models.ComponentAPIURL, nil)
				if err != nil {
					return err
				}
				b.apiComps[key] = comp
			}
			if handler, ok := b.handlerMethod(m.ClassName, m.MethodName); ok {
				b.apiHandlers[key] = handler
			} else {
				b.log.Warn("declared route has no extracted handler method",
					"url", m.URL, "class", m.ClassName, "method", m.MethodName)
			}
		}
	}

	return nil
}

// handlerMethod finds the METHOD component a declared route points at, by the
// controller's simple class name and method name.
func (b *Builder) handlerMethod(className, methodName string) (models.Component, bool) {
	decl, ok := b.declsBySimple[className]
	if !ok {
		return models.Component{}, false
	}
	mc, ok := b.methods[decl.QualifiedName][methodName]
	return mc, ok
}

func (b *Builder) materializeClass(ctx context.Context, fileID uuid.UUID, decl extract.ClassDecl) error {
	if _, ok := b.classRows[decl.QualifiedName]; ok {
		return nil
	}

	row, err := b.store.GetClassByQualifiedName(ctx, b.projectID, decl.QualifiedName)
	if apperr.IsNotFound(err) {
		row, err = b.store.CreateClass(ctx, store.CreateClassParams{
			ProjectID:     b.projectID,
			FileID:        fileID,
			Name:          decl.Name,
			QualifiedName: decl.QualifiedName,
		})
	}
	if err != nil {
		return apperr.StoreUnavailable(err)
	}

	comp, err := b.createDeclared(ctx, fileID, decl.QualifiedName, models.ComponentClass, nil)
	if err != nil {
		return err
	}

	b.classRows[decl.QualifiedName] = row
	b.classComps[decl.QualifiedName] = comp
	b.classDecls[decl.QualifiedName] = decl
	if _, ok := b.declsBySimple[decl.Name]; !ok {
		b.declsBySimple[decl.Name] = decl
	}

	methodComps := make(map[string]models.Component, len(decl.Methods))
	for _, m := range decl.Methods {
		if _, ok := methodComps[m.Name]; ok {
			// Overloads share one component; the graph is name-keyed.
			continue
		}
		mc, err := b.createDeclared(ctx, fileID, m.Name, models.ComponentMethod, &row.ID)
		if err != nil {
			return err
		}
		methodComps[m.Name] = mc
	}
	b.methods[decl.QualifiedName] = methodComps

	return nil
}

// linkClassParents fills parent_class_id once every class row exists. Parents
// outside the scanned set (JDK or library types) are left unset.
func (b *Builder) linkClassParents(ctx context.Context) {
	for qname, decl := range b.classDecls {
		if decl.ParentName == "" {
			continue
		}
		parent, ok := b.declsBySimple[decl.ParentName]
		if !ok {
			continue
		}
		child := b.classRows[qname]
		parentRow := b.classRows[parent.QualifiedName]
		if err := b.store.SetClassParent(ctx, child.ID, parentRow.ID); err != nil {
			b.log.Warn("class parent link failed", "class", qname, "error", err)
		}
	}
}

func (b *Builder) createDeclared(ctx context.Context, fileID uuid.UUID, name string, ctype models.ComponentType, parentID *uuid.UUID) (models.Component, error) {
	c, err := b.store.FindComponent(ctx, b.projectID, name, ctype)
	if err == nil {
		return c, nil
	}
	if !apperr.IsNotFound(err) {
		return models.Component{}, apperr.StoreUnavailable(err)
	}
	c, err = b.store.CreateComponent(ctx, store.CreateComponentParams{
		ProjectID: b.projectID,
		FileID:    fileID,
		Name:      name,
		Type:      ctype,
		ParentID:  parentID,
		Origin:    models.OriginDeclared,
	})
	if err != nil {
		return models.Component{}, apperr.StoreUnavailable(err)
	}
	return c, nil
}

// passMethodQuery links mapper interface methods to the statements whose id
// matches the method name, namespace-qualified when the mapper namespace is
// the interface's qualified name.
func (b *Builder) passMethodQuery(ctx context.Context, stats *Stats) error {
	for _, qname := range sortedKeys(b.classDecls) {
		decl := b.classDecls[qname]
		if !decl.IsMapper {
			continue
		}
		for _, m := range decl.Methods {
			mcomp, ok := b.methods[qname][m.Name]
			if !ok {
				continue
			}
			qcomp, ok := b.matchQuery(qname, m.Name)
			if !ok {
				b.log.Debug("mapper method has no matching statement",
					"class", qname, "method", m.Name)
				continue
			}
			inserted, err := b.addEdge(ctx, mcomp.ID, qcomp.ID, models.RelCallQuery)
			if err != nil {
				return err
			}
			if inserted {
				stats.MethodQueryEdges++
			}
		}
	}
	return nil
}

func (b *Builder) matchQuery(classQName, methodName string) (models.Component, bool) {
	if c, ok := b.queryComps[classQName+"."+methodName]; ok {
		return c, true
	}
	ids := b.queriesByID[methodName]
	if len(ids) == 0 {
		return models.Component{}, false
	}
	return b.queryComps[ids[0]], true
}

// passMethodEntity links Spring Data repository methods to the table their
// entity maps to.
func (b *Builder) passMethodEntity(ctx context.Context, stats *Stats) error {
	for _, qname := range sortedKeys(b.classDecls) {
		decl := b.classDecls[qname]
		if decl.RepositoryEntity == "" {
			continue
		}
		tcomp, err := b.resolveTable(ctx, b.entityTableName(decl.RepositoryEntity))
		if err != nil {
			return err
		}
		if tcomp == nil {
			continue
		}
		for _, m := range decl.Methods {
			mcomp, ok := b.methods[qname][m.Name]
			if !ok {
				continue
			}
			inserted, err := b.addEdge(ctx, mcomp.ID, tcomp.ID, models.RelUsesEntity)
			if err != nil {
				return err
			}
			if inserted {
				stats.MethodEntityEdges++
			}
		}
	}
	return nil
}

// passQueryTable runs the alias extractor over every collected statement and
// links the statement component to each referenced table.
func (b *Builder) passQueryTable(ctx context.Context, stats *Stats) error {
	for _, entry := range b.queryList {
		aliases := b.sql.ExtractAliases(entry.record.SQL)
		for _, table := range aliases.Tables() {
			tcomp, err := b.resolveTable(ctx, table)
			if err != nil {
				return err
			}
			if tcomp == nil {
				continue
			}
			inserted, err := b.addEdge(ctx, entry.component.ID, tcomp.ID, models.RelUseTable)
			if err != nil {
				return err
			}
			if inserted {
				stats.QueryTableEdges++
			}
		}
	}
	return nil
}

// passJoins runs the join analyzer over every collected statement and links
// the joined tables with the tagged join kind.
func (b *Builder) passJoins(ctx context.Context, stats *Stats) error {
	for _, entry := range b.queryList {
		aliases := b.sql.ExtractAliases(entry.record.SQL)
		for _, edge := range b.sql.AnalyzeJoins(entry.record.SQL, aliases) {
			src, err := b.resolveTable(ctx, edge.Source)
			if err != nil {
				return err
			}
			dst, err := b.resolveTable(ctx, edge.Target)
			if err != nil {
				return err
			}
			if src == nil || dst == nil {
				continue
			}
			inserted, err := b.addEdge(ctx, src.ID, dst.ID, joinRelType(edge.Kind))
			if err != nil {
				return err
			}
			if inserted {
				stats.JoinEdges++
			}
		}
	}
	return nil
}

// passEntityTable links each JPA entity class component to its table.
func (b *Builder) passEntityTable(ctx context.Context, stats *Stats) error {
	for _, qname := range sortedKeys(b.classDecls) {
		decl := b.classDecls[qname]
		if !decl.IsEntity {
			continue
		}
		tcomp, err := b.resolveTable(ctx, b.entityTableName(decl.Name))
		if err != nil {
			return err
		}
		if tcomp == nil {
			continue
		}
		inserted, err := b.addEdge(ctx, b.classComps[qname].ID, tcomp.ID, models.RelMapsToTable)
		if err != nil {
			return err
		}
		if inserted {
			stats.EntityTableEdges++
		}
	}
	return nil
}

// passFrontendAPI links declared routes to their handler methods, frontend
// files to the endpoints they call, and matched endpoints to their handlers.
// A frontend call with no declared counterpart gets an inferred endpoint and
// no handler edge; that is a non-edge, not an error.
func (b *Builder) passFrontendAPI(ctx context.Context, stats *Stats) error {
	for _, key := range sortedKeys(b.apiHandlers) {
		inserted, err := b.addEdge(ctx, b.apiComps[key].ID, b.apiHandlers[key].ID, models.RelCallMethod)
		if err != nil {
			return err
		}
		if inserted {
			stats.APIHandlerEdges++
		}
	}

	for _, ff := range b.frontendFiles {
		ctype := models.ComponentFrontend
		if ff.ftype == models.FileJSP {
			ctype = models.ComponentJSP
		}
		fcomp, err := b.createDeclared(ctx, ff.fileID, ff.path, ctype, nil)
		if err != nil {
			return err
		}

		for _, call := range ff.calls {
			key := APIKey(call.Verb, call.URL)
			acomp, ok := b.apiComps[key]
			if !ok {
				resolved, err := b.resolver.ResolveOrCreate(ctx, key, models.ComponentAPIURL, nil)
				if err != nil {
					if apperr.IsReservedKeyword(err) {
						continue
					}
					return err
				}
				acomp = resolved
				b.apiComps[key] = acomp
			}

			inserted, err := b.addEdge(ctx, fcomp.ID, acomp.ID, models.RelCallsAPI)
			if err != nil {
				return err
			}
			if inserted {
				stats.FrontendAPIEdges++
			}

			if handler, ok := b.apiHandlers[key]; ok {
				inserted, err := b.addEdge(ctx, acomp.ID, handler.ID, models.RelImplementsAPI)
				if err != nil {
					return err
				}
				if inserted {
					stats.ImplementsAPIEdges++
				}
			}
		}
	}
	return nil
}

// resolveTable resolves or creates a TABLE component. A nil component with a
// nil error means the name was refused (reserved keyword) and the caller
// should skip the record.
func (b *Builder) resolveTable(ctx context.Context, name string) (*models.Component, error) {
	c, err := b.resolver.ResolveOrCreate(ctx, name, models.ComponentTable, nil)
	if err != nil {
		if apperr.IsReservedKeyword(err) {
			b.log.Debug("table name refused", "name", name)
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// addEdge is the single insertion point for relationships. Self-loops are
// dropped here so no pass can violate the source != target invariant.
func (b *Builder) addEdge(ctx context.Context, src, dst uuid.UUID, rt models.RelType) (bool, error) {
	if src == dst {
		return false, nil
	}
	inserted, err := b.store.CreateRelationshipIfAbsent(ctx, store.CreateRelationshipParams{
		ProjectID: b.projectID,
		SourceID:  src,
		TargetID:  dst,
		Type:      rt,
	})
	if err != nil {
		return false, apperr.StoreUnavailable(err)
	}
	return inserted, nil
}

// entityTableName maps a JPA entity to its table: the explicit @Table name
// when declared, else the camelCase class name in SNAKE_CASE.
func (b *Builder) entityTableName(entityName string) string {
	if decl, ok := b.declsBySimple[entityName]; ok && decl.EntityTable != "" {
		return strings.ToUpper(decl.EntityTable)
	}
	return camelToSnake(entityName)
}

func camelToSnake(name string) string {
	var sb strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prev < 'A' || prev > 'Z' || nextLower {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(r)
	}
	return strings.ToUpper(sb.String())
}

func sqlComponentType(kind string) models.ComponentType {
	switch strings.ToUpper(kind) {
	case "INSERT":
		return models.ComponentSQLInsert
	case "UPDATE":
		return models.ComponentSQLUpdate
	case "DELETE":
		return models.ComponentSQLDelete
	case "MERGE":
		return models.ComponentSQLMerge
	default:
		return models.ComponentSQLSelect
	}
}

func joinRelType(kind sqlscan.JoinKind) models.RelType {
	switch kind {
	case sqlscan.JoinMergeOn:
		return models.RelJoinMergeOn
	case sqlscan.JoinImplicit:
		return models.RelJoinImplicit
	default:
		return models.RelJoinExplicit
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
