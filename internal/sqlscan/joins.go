package sqlscan

import (
	"regexp"
	"strings"
)

// JoinKind tags how a join edge was expressed in the SQL text.
type JoinKind string

const (
	JoinExplicit JoinKind = "JOIN_EXPLICIT"
	JoinMergeOn  JoinKind = "JOIN_MERGEON"
	JoinImplicit JoinKind = "JOIN_IMPLICIT"
)

// JoinEdge is a directed join between two resolved table names.
type JoinEdge struct {
	Source string
	Target string
	Kind   JoinKind
}

var (
	// alias.column = alias.column, tolerating the Oracle (+) outer-join
	// marker on either side. The marker variant is still classified by the
	// pass that found it; the outer-join side is not retained.
	reEquality = regexp.MustCompile(`([A-Z][A-Z0-9_]*)\.([A-Z][A-Z0-9_]*)\s*(?:\(\+\))?\s*=\s*([A-Z][A-Z0-9_]*)\.([A-Z][A-Z0-9_]*)\s*(?:\(\+\))?`)

	reJoinOn  = regexp.MustCompile(`\bJOIN\s+[A-Z0-9_."]+(?:\s+[A-Z0-9_]+)?\s+ON\b`)
	reMergeOn = regexp.MustCompile(`\bMERGE\s+INTO\b[\s\S]*?\bUSING\b[\s\S]*?\bON\b`)
	reWhereKw = regexp.MustCompile(`\bWHERE\b`)

	reOnBoundary    = regexp.MustCompile(`\b(LEFT|RIGHT|INNER|OUTER|CROSS|FULL|JOIN|WHERE|GROUP\s+BY|ORDER\s+BY|HAVING|UNION|MINUS|INTERSECT|WHEN)\b`)
	reWhereBoundary = regexp.MustCompile(`\b(GROUP\s+BY|ORDER\s+BY|HAVING|UNION|MINUS|INTERSECT|CONNECT\s+BY|START\s+WITH|FOR\s+UPDATE)\b`)
)

// AnalyzeJoins normalizes raw SQL text and returns its directed join edges,
// resolving aliases through the given map. Three independent passes run:
// explicit ANSI JOIN...ON, MERGE...USING...ON, and implicit WHERE-clause
// equalities. A condition whose alias is not in the map is skipped, never
// guessed. Self-joins are suppressed, and surviving edges are deduplicated by
// unordered table pair.
func (a *Analyzer) AnalyzeJoins(raw string, aliases AliasMap) []JoinEdge {
	sql := Normalize(raw)

	var edges []JoinEdge
	edges = append(edges, conditionEdges(sql, reJoinOn, reOnBoundary, aliases, JoinExplicit)...)
	edges = append(edges, conditionEdges(sql, reMergeOn, reOnBoundary, aliases, JoinMergeOn)...)
	edges = append(edges, conditionEdges(sql, reWhereKw, reWhereBoundary, aliases, JoinImplicit)...)

	return dedupeEdges(edges)
}

// conditionEdges locates every occurrence of the opening pattern, cuts the
// condition text at the next clause boundary, and extracts alias-resolved
// equality edges from it.
func conditionEdges(sql string, opener, boundary *regexp.Regexp, aliases AliasMap, kind JoinKind) []JoinEdge {
	var edges []JoinEdge
	for _, loc := range opener.FindAllStringIndex(sql, -1) {
		cond := sql[loc[1]:]
		if b := boundary.FindStringIndex(cond); b != nil {
			cond = cond[:b[0]]
		}
		edges = append(edges, equalityEdges(cond, aliases, kind)...)
	}
	return edges
}

func equalityEdges(cond string, aliases AliasMap, kind JoinKind) []JoinEdge {
	var edges []JoinEdge
	for _, m := range reEquality.FindAllStringSubmatch(cond, -1) {
		source, ok := aliases[m[1]]
		if !ok {
			continue
		}
		target, ok := aliases[m[3]]
		if !ok {
			continue
		}
		if source == "" || target == "" || source == target {
			continue
		}
		edges = append(edges, JoinEdge{Source: source, Target: target, Kind: kind})
	}
	return edges
}

// dedupeEdges collapses edges by unordered table pair, keeping the first hit.
// Connectivity is the goal; a WHERE clause restating an ON condition adds no
// information.
func dedupeEdges(edges []JoinEdge) []JoinEdge {
	seen := make(map[string]struct{}, len(edges))
	var out []JoinEdge
	for _, e := range edges {
		if e.Source == "" || e.Target == "" || e.Source == e.Target {
			continue
		}
		key := e.Source + "\x00" + e.Target
		if e.Target < e.Source {
			key = e.Target + "\x00" + e.Source
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

// ContainsJoin reports whether normalized SQL text has any join-bearing
// clause at all. Used to skip the join passes cheaply for simple statements.
func ContainsJoin(normalized string) bool {
	return strings.Contains(normalized, "JOIN") ||
		strings.Contains(normalized, "MERGE") ||
		strings.Contains(normalized, "WHERE")
}
