// Package java extracts class structure, persistence linkage, and controller
// request mappings from Java source files using tree-sitter.
package java

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/codemap-labs/codemap/internal/extract"
)

// Extractor is a tree-sitter based Java extractor.
type Extractor struct {
	tsParser *sitter.Parser
}

func New() *Extractor {
	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())
	return &Extractor{tsParser: p}
}

// Extract parses one Java file and returns its declarations plus any
// annotation-carried queries and request mappings.
func (e *Extractor) Extract(input extract.FileInput) (*extract.JavaResult, error) {
	tree, err := e.tsParser.ParseCtx(context.Background(), nil, input.Content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	result := &extract.JavaResult{FilePath: input.Path}

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "package_declaration":
			result.Package = extractPackageName(child, input.Content)

		case "class_declaration":
			e.scanClass(child, input.Content, result)

		case "interface_declaration":
			e.scanInterface(child, input.Content, result)
		}
	}

	return result, nil
}

func (e *Extractor) scanClass(node *sitter.Node, src []byte, result *extract.JavaResult) {
	name := identifierOf(node, src)
	if name == "" {
		return
	}

	decl := extract.ClassDecl{
		Name:          name,
		QualifiedName: qualifyJava(result.Package, name),
		Line:          int(node.StartPoint().Row) + 1,
		EndLine:       int(node.EndPoint().Row) + 1,
	}

	if super := findChild(node, "superclass"); super != nil {
		decl.ParentName = extractTypeIdent(super, src)
	}

	annotations := nodeAnnotations(node, src)
	isController := false
	basePath := ""
	for _, anno := range annotations {
		switch {
		case strings.HasPrefix(anno, "@Entity"):
			decl.IsEntity = true
		case strings.HasPrefix(anno, "@Table"):
			decl.IsEntity = true
			decl.EntityTable = extractAnnotationParam(anno, "name")
		case strings.HasPrefix(anno, "@RestController"), strings.HasPrefix(anno, "@Controller"):
			isController = true
		case strings.HasPrefix(anno, "@RequestMapping"):
			basePath = annotationPath(anno)
		}
	}

	if body := findChild(node, "class_body"); body != nil {
		e.scanMembers(body, src, &decl, result, isController, basePath)
	}

	result.Classes = append(result.Classes, decl)
}

func (e *Extractor) scanInterface(node *sitter.Node, src []byte, result *extract.JavaResult) {
	name := identifierOf(node, src)
	if name == "" {
		return
	}

	decl := extract.ClassDecl{
		Name:          name,
		QualifiedName: qualifyJava(result.Package, name),
		IsInterface:   true,
		Line:          int(node.StartPoint().Row) + 1,
		EndLine:       int(node.EndPoint().Row) + 1,
	}

	for _, anno := range nodeAnnotations(node, src) {
		if strings.HasPrefix(anno, "@Mapper") {
			decl.IsMapper = true
		}
	}
	// MyBatis mapper interfaces are conventionally named *Mapper even when
	// the annotation is carried by a configuration class instead.
	if strings.HasSuffix(name, "Mapper") {
		decl.IsMapper = true
	}

	if extends := findChild(node, "extends_interfaces"); extends != nil {
		decl.RepositoryEntity = springDataEntity(extends, src)
		if decl.RepositoryEntity == "" {
			decl.ParentName = firstTypeName(extends, src)
		}
	}

	if body := findChild(node, "interface_body"); body != nil {
		e.scanMembers(body, src, &decl, result, false, "")
	}

	result.Classes = append(result.Classes, decl)
}

// scanMembers collects method declarations and their annotation payloads:
// @Query SQL and request mappings for controller classes.
func (e *Extractor) scanMembers(body *sitter.Node, src []byte, decl *extract.ClassDecl, result *extract.JavaResult, isController bool, basePath string) {
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "method_declaration":
			name, sig := methodNameAndSignature(child, src)
			if name == "" {
				continue
			}
			line := int(child.StartPoint().Row) + 1
			decl.Methods = append(decl.Methods, extract.MethodDecl{
				Name:      name,
				Signature: sig,
				Line:      line,
				EndLine:   int(child.EndPoint().Row) + 1,
			})

			for _, anno := range nodeAnnotations(child, src) {
				if strings.HasPrefix(anno, "@Query") || strings.HasPrefix(anno, "@Select") ||
					strings.HasPrefix(anno, "@Insert") || strings.HasPrefix(anno, "@Update") ||
					strings.HasPrefix(anno, "@Delete") {
					sql := extractAnnotationStringParam(anno)
					if sql != "" {
						result.Queries = append(result.Queries, extract.QueryRecord{
							QueryID:   name,
							Namespace: decl.QualifiedName,
							Kind:      statementKind(sql),
							SQL:       sql,
							FilePath:  result.FilePath,
							Line:      line,
						})
					}
				}

				if isController {
					if mapping := requestMapping(anno, basePath); mapping != nil {
						mapping.ClassName = decl.Name
						mapping.MethodName = name
						mapping.FilePath = result.FilePath
						mapping.Line = line
						result.Mappings = append(result.Mappings, *mapping)
					}
				}
			}

		case "constructor_declaration":
			decl.Methods = append(decl.Methods, extract.MethodDecl{
				Name:    decl.Name,
				Line:    int(child.StartPoint().Row) + 1,
				EndLine: int(child.EndPoint().Row) + 1,
			})
		}
	}
}

// mappingVerbs maps shortcut mapping annotations to their HTTP verb.
var mappingVerbs = map[string]string{
	"@GetMapping":    "GET",
	"@PostMapping":   "POST",
	"@PutMapping":    "PUT",
	"@DeleteMapping": "DELETE",
	"@PatchMapping":  "PATCH",
}

// requestMapping interprets a method-level mapping annotation. Returns nil for
// annotations that are not request mappings.
func requestMapping(anno, basePath string) *extract.APIMappingRecord {
	for prefix, verb := range mappingVerbs {
		if strings.HasPrefix(anno, prefix) {
			return &extract.APIMappingRecord{
				Verb: verb,
				URL:  joinPath(basePath, annotationPath(anno)),
			}
		}
	}
	if strings.HasPrefix(anno, "@RequestMapping") {
		verb := "GET"
		if m := extractAnnotationParam(anno, "method"); m != "" {
			verb = strings.ToUpper(m)
		} else if idx := strings.Index(anno, "RequestMethod."); idx >= 0 {
			rest := anno[idx+len("RequestMethod."):]
			end := strings.IndexAny(rest, " ,)}")
			if end < 0 {
				end = len(rest)
			}
			verb = rest[:end]
		}
		return &extract.APIMappingRecord{
			Verb: verb,
			URL:  joinPath(basePath, annotationPath(anno)),
		}
	}
	return nil
}

// annotationPath pulls the URL pattern out of a mapping annotation, checking
// the value/path named params before falling back to the first string literal.
func annotationPath(anno string) string {
	if p := extractAnnotationParam(anno, "value"); p != "" {
		return p
	}
	if p := extractAnnotationParam(anno, "path"); p != "" {
		return p
	}
	return extractAnnotationStringParam(anno)
}

func joinPath(base, path string) string {
	if base == "" {
		return path
	}
	if path == "" {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}

func statementKind(sql string) string {
	upper := strings.ToUpper(strings.TrimSpace(sql))
	for _, kind := range []string{"INSERT", "UPDATE", "DELETE", "MERGE"} {
		if strings.HasPrefix(upper, kind) {
			return kind
		}
	}
	return "SELECT"
}

// springDataEntity returns the entity type T when the extends list contains
// JpaRepository<T, ID> or a sibling Spring Data repository interface.
func springDataEntity(extends *sitter.Node, src []byte) string {
	for j := 0; j < int(extends.ChildCount()); j++ {
		text := extends.Child(j).Content(src)
		for _, repo := range []string{"JpaRepository", "CrudRepository", "PagingAndSortingRepository", "ReactiveCrudRepository"} {
			idx := strings.Index(text, repo+"<")
			if idx < 0 {
				continue
			}
			start := idx + len(repo)
			end := strings.IndexAny(text[start+1:], ",>")
			if end >= 0 {
				return strings.TrimSpace(text[start+1 : start+1+end])
			}
		}
	}
	return ""
}

func firstTypeName(extends *sitter.Node, src []byte) string {
	for i := 0; i < int(extends.ChildCount()); i++ {
		child := extends.Child(i)
		if child.Type() != "type_list" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			grandchild := child.Child(j)
			if grandchild.Type() == "type_identifier" {
				return grandchild.Content(src)
			}
			if grandchild.Type() == "generic_type" {
				text := grandchild.Content(src)
				if cut := strings.IndexByte(text, '<'); cut > 0 {
					return text[:cut]
				}
				return text
			}
		}
	}
	return ""
}

// nodeAnnotations returns the annotation texts attached to a declaration via
// its modifiers node.
func nodeAnnotations(node *sitter.Node, src []byte) []string {
	modifiers := findChild(node, "modifiers")
	if modifiers == nil {
		return nil
	}
	var annotations []string
	for i := 0; i < int(modifiers.ChildCount()); i++ {
		child := modifiers.Child(i)
		if child.Type() == "marker_annotation" || child.Type() == "annotation" {
			annotations = append(annotations, child.Content(src))
		}
	}
	return annotations
}

func extractPackageName(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "scoped_identifier" || child.Type() == "identifier" {
			return child.Content(src)
		}
	}
	return ""
}

func identifierOf(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" {
			return child.Content(src)
		}
	}
	return ""
}

func methodNameAndSignature(node *sitter.Node, src []byte) (string, string) {
	name := ""
	sig := ""
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" && name == "" {
			name = child.Content(src)
		}
		if child.Type() == "formal_parameters" {
			sig = child.Content(src)
		}
	}
	return name, sig
}

func extractTypeIdent(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "type_identifier" || child.Type() == "identifier" {
			return child.Content(src)
		}
	}
	return ""
}

func findChild(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

func qualifyJava(pkg, name string) string {
	if pkg != "" {
		return pkg + "." + name
	}
	return name
}

// extractAnnotationParam looks for param = "value" inside an annotation.
func extractAnnotationParam(text, param string) string {
	_, rest, found := strings.Cut(text, param)
	if !found {
		return ""
	}
	rest = strings.TrimSpace(rest)
	if len(rest) > 0 && rest[0] == '=' {
		rest = strings.TrimSpace(rest[1:])
		if len(rest) > 0 && (rest[0] == '"' || rest[0] == '\'') {
			end := strings.IndexByte(rest[1:], rest[0])
			if end >= 0 {
				return rest[1 : end+1]
			}
		}
	}
	return ""
}

// extractAnnotationStringParam returns the first string literal in an
// annotation.
func extractAnnotationStringParam(text string) string {
	idx := strings.IndexByte(text, '"')
	if idx < 0 {
		return ""
	}
	end := strings.IndexByte(text[idx+1:], '"')
	if end < 0 {
		return ""
	}
	return text[idx+1 : idx+1+end]
}
