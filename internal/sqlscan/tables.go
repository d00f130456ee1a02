package sqlscan

import (
	"regexp"
	"strings"

	"github.com/codemap-labs/codemap/internal/config"
)

// AliasMap maps a statement's table aliases to canonical (uppercased) table
// names. A table with no explicit alias appears under its own name.
type AliasMap map[string]string

// Tables returns the distinct table names in the map.
func (m AliasMap) Tables() []string {
	seen := make(map[string]struct{}, len(m))
	var out []string
	for _, t := range m {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Analyzer scans SQL text with an injected keyword catalog. The catalog is
// immutable, so one Analyzer is safely shared across all analysis passes.
type Analyzer struct {
	keywords *config.Keywords
}

func NewAnalyzer(kw *config.Keywords) *Analyzer {
	return &Analyzer{keywords: kw}
}

var (
	reIdent = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

	reFromKw   = regexp.MustCompile(`\bFROM\b`)
	reUpdateKw = regexp.MustCompile(`\bUPDATE\s+([A-Z0-9_."]+)(?:\s+([A-Z0-9_]+))?\s+SET\b`)
	reInsertKw = regexp.MustCompile(`\bINSERT\s+INTO\s+([A-Z0-9_."]+)`)
	reMergeKw  = regexp.MustCompile(`\bMERGE\s+INTO\s+([A-Z0-9_."]+)(?:\s+([A-Z0-9_]+))?`)
	reUsingKw  = regexp.MustCompile(`\bUSING\s+([A-Z0-9_."]+)(?:\s+([A-Z0-9_]+))?`)
	reJoinKw   = regexp.MustCompile(`\bJOIN\s+([A-Z0-9_."]+)(?:\s+([A-Z0-9_]+))?`)

	// Clause keywords that terminate a FROM table list.
	reFromBoundary = regexp.MustCompile(`\b(WHERE|GROUP\s+BY|ORDER\s+BY|HAVING|UNION|MINUS|INTERSECT|CONNECT\s+BY|START\s+WITH|LEFT|RIGHT|INNER|OUTER|CROSS|FULL|JOIN|ON|SET|VALUES|FOR\s+UPDATE)\b`)
)

// ExtractAliases normalizes raw SQL text and returns its alias map. The scan
// is a pure function of the input and the keyword catalog: identical input
// yields an identical map.
//
// Correlated subqueries and UNION branches contribute their FROM clauses to
// the same flat map; scope disambiguation is out of scope by design.
func (a *Analyzer) ExtractAliases(raw string) AliasMap {
	sql := Normalize(raw)
	out := AliasMap{}

	// Clause priority: FROM first, then the statement-verb clauses, then JOIN
	// and USING. Earlier clauses claim an alias key; later hits never
	// overwrite it.
	a.scanFromClauses(sql, out)
	a.scanRefs(sql, reUpdateKw, out)
	a.scanRefs(sql, reInsertKw, out)
	a.scanRefs(sql, reMergeKw, out)
	a.scanRefs(sql, reJoinKw, out)
	a.scanRefs(sql, reUsingKw, out)
	return out
}

// scanFromClauses handles comma-separated table lists after every FROM,
// including DELETE FROM and the FROM of each subquery or UNION branch.
func (a *Analyzer) scanFromClauses(sql string, out AliasMap) {
	for _, loc := range reFromKw.FindAllStringIndex(sql, -1) {
		seg := sql[loc[1]:]
		if b := reFromBoundary.FindStringIndex(seg); b != nil {
			seg = seg[:b[0]]
		}
		for _, item := range splitTopLevel(seg) {
			a.addRef(item, out)
		}
	}
}

func (a *Analyzer) scanRefs(sql string, re *regexp.Regexp, out AliasMap) {
	for _, m := range re.FindAllStringSubmatch(sql, -1) {
		ref := m[1]
		if len(m) > 2 && m[2] != "" {
			ref += " " + m[2]
		}
		a.addRef(ref, out)
	}
}

// addRef parses one "TABLE [alias]" item and records it. Subqueries (items
// starting with a parenthesis) and keyword-shaped candidates are discarded.
func (a *Analyzer) addRef(item string, out AliasMap) {
	item = strings.TrimSpace(item)
	if item == "" || item[0] == '(' {
		return
	}

	fields := strings.Fields(item)
	table, ok := a.tableCandidate(fields[0])
	if !ok {
		return
	}

	alias := table
	for _, f := range fields[1:] {
		if f == "AS" {
			continue
		}
		f = strings.Trim(f, `(),;"`)
		if reIdent.MatchString(f) && !a.keywords.Contains(f) {
			alias = f
		}
		break
	}

	if _, exists := out[alias]; !exists {
		out[alias] = table
	}
}

// tableCandidate validates a token as a table name: schema qualifiers are
// stripped, the remainder must start with a letter, contain only
// alphanumerics and underscores, be at least two characters, and not be a
// reserved word or function name.
func (a *Analyzer) tableCandidate(tok string) (string, bool) {
	tok = strings.Trim(tok, `(),;"`)
	if i := strings.LastIndexByte(tok, '.'); i >= 0 {
		tok = tok[i+1:]
	}
	if len(tok) < 2 || !reIdent.MatchString(tok) {
		return "", false
	}
	if a.keywords.Contains(tok) {
		return "", false
	}
	return tok, true
}

// splitTopLevel splits a FROM table list on commas outside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
