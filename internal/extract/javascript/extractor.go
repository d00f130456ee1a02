// Package javascript extracts outbound HTTP API call sites from frontend
// sources (JS, TS, and the script blocks of JSP/Vue/HTML files).
//
// Patterns detected:
//   - fetch("/api/users"), fetch(url, { method: "POST" })
//   - axios.get("/api/users"), axios.post(...), axios({ method, url })
//   - http.get(...), this.$http.get(...) (Angular/Vue)
//   - $.ajax({ url: "...", method: "..." })
package javascript

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/codemap-labs/codemap/internal/extract"
)

// Extractor is a tree-sitter based call-site extractor.
type Extractor struct {
	tsParser *sitter.Parser
}

func New() *Extractor {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	return &Extractor{tsParser: p}
}

var httpVerbs = map[string]string{
	"get":    "GET",
	"post":   "POST",
	"put":    "PUT",
	"patch":  "PATCH",
	"delete": "DELETE",
}

// httpClients are receiver names treated as HTTP client objects.
var httpClients = map[string]bool{
	"axios": true, "http": true, "https": true, "api": true,
	"$": true, "jQuery": true,
}

// Extract parses the file and returns every API call site with a resolvable
// URL. Call sites whose URL is built entirely at runtime are skipped.
func (e *Extractor) Extract(input extract.FileInput) ([]extract.APICallRecord, error) {
	tree, err := e.tsParser.ParseCtx(context.Background(), nil, input.Content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var calls []extract.APICallRecord
	walkTree(tree.RootNode(), func(node *sitter.Node) {
		if node.Type() != "call_expression" {
			return
		}
		if rec := e.callRecord(node, input.Content); rec != nil {
			rec.FilePath = input.Path
			calls = append(calls, *rec)
		}
	})
	return calls, nil
}

// ExtractEmbedded handles JSP/HTML files: each <script> block is parsed
// separately and call-site lines are reported relative to the whole file.
func (e *Extractor) ExtractEmbedded(input extract.FileInput) ([]extract.APICallRecord, error) {
	content := string(input.Content)
	lower := strings.ToLower(content)

	var calls []extract.APICallRecord
	idx := 0
	for {
		start := strings.Index(lower[idx:], "<script")
		if start < 0 {
			break
		}
		start += idx
		open := strings.IndexByte(content[start:], '>')
		if open < 0 {
			break
		}
		open += start + 1
		end := strings.Index(lower[open:], "</script>")
		if end < 0 {
			break
		}
		end += open

		block := extract.FileInput{
			Path:    input.Path,
			Content: []byte(content[open:end]),
			Type:    input.Type,
		}
		blockCalls, err := e.Extract(block)
		if err != nil {
			return nil, err
		}
		offset := strings.Count(content[:open], "\n")
		for _, c := range blockCalls {
			c.Line += offset
			calls = append(calls, c)
		}

		idx = end + len("</script>")
	}
	return calls, nil
}

func (e *Extractor) callRecord(node *sitter.Node, src []byte) *extract.APICallRecord {
	line := int(node.StartPoint().Row) + 1
	args := findChild(node, "arguments")
	if args == nil {
		return nil
	}

	if fn := findChild(node, "identifier"); fn != nil {
		switch fn.Content(src) {
		// fetch("url") or fetch("url", { method: "POST" })
		case "fetch":
			url := urlArgument(args, src)
			if url == "" {
				return nil
			}
			verb := strings.ToUpper(objectStringProp(args, src, "method"))
			if verb == "" {
				verb = "GET"
			}
			return &extract.APICallRecord{URL: url, Verb: verb, Line: line}

		// axios({ method: "post", url: "/api/..." }) config-object form
		case "axios":
			url := objectStringProp(args, src, "url")
			if url == "" {
				return nil
			}
			verb := strings.ToUpper(objectStringProp(args, src, "method"))
			if verb == "" {
				verb = "GET"
			}
			return &extract.APICallRecord{URL: url, Verb: verb, Line: line}
		}
	}

	member := findChild(node, "member_expression")
	if member == nil {
		return nil
	}

	methodName := ""
	for i := int(member.ChildCount()) - 1; i >= 0; i-- {
		child := member.Child(i)
		if child.Type() == "property_identifier" || child.Type() == "identifier" {
			methodName = child.Content(src)
			break
		}
	}
	receiver := rootIdentifier(member, src)
	if !httpClients[receiver] && receiver != "$http" {
		return nil
	}

	// axios.request({ method, url }) / $.ajax({ url, method })
	if methodName == "request" || methodName == "ajax" {
		url := objectStringProp(args, src, "url")
		if url == "" {
			return nil
		}
		verb := strings.ToUpper(objectStringProp(args, src, "method"))
		if verb == "" {
			verb = "GET"
		}
		return &extract.APICallRecord{URL: url, Verb: verb, Line: line}
	}

	verb, ok := httpVerbs[strings.ToLower(methodName)]
	if !ok {
		return nil
	}
	url := urlArgument(args, src)
	if url == "" {
		return nil
	}
	return &extract.APICallRecord{URL: url, Verb: verb, Line: line}
}

// urlArgument extracts the first URL-like argument: a string literal, a
// template string (kept raw so the dynamic parts normalize to placeholders
// downstream), or the string prefix of a concatenation.
func urlArgument(args *sitter.Node, src []byte) string {
	for i := 0; i < int(args.ChildCount()); i++ {
		child := args.Child(i)
		switch child.Type() {
		case "string":
			return stringContent(child, src)
		case "template_string":
			return strings.Trim(child.Content(src), "`")
		case "binary_expression":
			if prefix := stringPrefix(child, src); prefix != "" {
				return prefix + "{*}"
			}
		}
	}
	return ""
}

// stringPrefix returns the leading string literal of a concatenation like
// "/api/users/" + id.
func stringPrefix(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "string" {
			if s := stringContent(child, src); s != "" {
				return s
			}
		}
		if child.Type() == "binary_expression" {
			if s := stringPrefix(child, src); s != "" {
				return s
			}
		}
	}
	return ""
}

// objectStringProp finds a string-valued property inside an object literal
// argument, e.g. method: "post".
func objectStringProp(args *sitter.Node, src []byte, prop string) string {
	var result string
	walkTree(args, func(node *sitter.Node) {
		if result != "" || node.Type() != "pair" {
			return
		}
		key := findChild(node, "property_identifier")
		if key == nil {
			key = findChild(node, "string")
		}
		if key == nil || strings.Trim(key.Content(src), `"'`) != prop {
			return
		}
		if val := findChild(node, "string"); val != nil && val != key {
			result = stringContent(val, src)
		}
	})
	return result
}

func rootIdentifier(member *sitter.Node, src []byte) string {
	obj := member.Child(0)
	if obj == nil {
		return ""
	}
	switch obj.Type() {
	case "identifier":
		return obj.Content(src)
	case "member_expression":
		// this.$http.get → $http
		for i := int(obj.ChildCount()) - 1; i >= 0; i-- {
			child := obj.Child(i)
			if child.Type() == "property_identifier" {
				return child.Content(src)
			}
		}
		return rootIdentifier(obj, src)
	}
	return ""
}

func stringContent(node *sitter.Node, src []byte) string {
	text := node.Content(src)
	if len(text) >= 2 {
		return strings.Trim(text, `"'`)
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

func walkTree(node *sitter.Node, fn func(*sitter.Node)) {
	fn(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(i), fn)
	}
}
