// Package mybatis pulls SQL statements out of MyBatis mapper XML files.
//
// Mapper files routinely fail strict XML parsing: dynamic SQL contains bare
// "<" and ">" comparison operators and unescaped ampersands. The extractor
// therefore scans text heuristically instead of building a DOM, which matches
// how the SQL is analyzed downstream anyway.
package mybatis

import (
	"regexp"
	"strings"

	"github.com/codemap-labs/codemap/internal/extract"
)

var (
	reNamespace = regexp.MustCompile(`<mapper[^>]*\bnamespace\s*=\s*"([^"]+)"`)
	reIDAttr    = regexp.MustCompile(`\bid\s*=\s*"([^"]+)"`)
)

// statementTags are the MyBatis statement elements that carry executable SQL.
// <sql> fragments and <resultMap> declarations are not statements.
var statementTags = []string{"select", "insert", "update", "delete"}

// Extract returns one QueryRecord per statement element in the mapper file.
func Extract(input extract.FileInput) ([]extract.QueryRecord, error) {
	content := string(input.Content)
	namespace := ""
	if m := reNamespace.FindStringSubmatch(content); m != nil {
		namespace = m[1]
	}

	var records []extract.QueryRecord
	for _, tag := range statementTags {
		records = append(records, scanTag(content, tag, namespace, input.Path)...)
	}
	return records, nil
}

// scanTag finds every <tag ...>...</tag> block and captures its id attribute
// and inner SQL text. Statements with no id are skipped; they cannot be
// referenced by a mapper interface.
func scanTag(content, tag, namespace, path string) []extract.QueryRecord {
	var records []extract.QueryRecord
	lower := strings.ToLower(content)
	open := "<" + tag
	closing := "</" + tag + ">"

	idx := 0
	for {
		start := strings.Index(lower[idx:], open)
		if start < 0 {
			break
		}
		start += idx

		// The match must be a whole tag name: "<select" but not "<selection".
		after := start + len(open)
		if after >= len(content) || (content[after] != ' ' && content[after] != '\t' && content[after] != '\n' && content[after] != '>') {
			idx = after
			continue
		}

		tagEnd := strings.IndexByte(content[start:], '>')
		if tagEnd < 0 {
			break
		}
		tagEnd += start

		end := strings.Index(lower[tagEnd:], closing)
		if end < 0 {
			idx = tagEnd + 1
			continue
		}
		end += tagEnd

		attrs := content[start : tagEnd+1]
		inner := content[tagEnd+1 : end]
		idx = end + len(closing)

		m := reIDAttr.FindStringSubmatch(attrs)
		if m == nil {
			continue
		}

		records = append(records, extract.QueryRecord{
			QueryID:   m[1],
			Namespace: namespace,
			Kind:      statementKind(tag, inner),
			SQL:       inner,
			FilePath:  path,
			Line:      1 + strings.Count(content[:start], "\n"),
		})
	}
	return records
}

// statementKind maps the element name to the SQL kind, except that an
// <update> or <insert> element wrapping a MERGE statement is classified as
// MERGE.
func statementKind(tag, sql string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(sql))
	if strings.HasPrefix(trimmed, "MERGE") {
		return "MERGE"
	}
	return strings.ToUpper(tag)
}
