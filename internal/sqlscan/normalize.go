// Package sqlscan performs heuristic analysis of raw SQL text: normalization,
// table/alias discovery, and join-edge extraction.
//
// This is deliberately not a grammar-level SQL parser. The input is legacy
// Oracle/MyBatis SQL, frequently templated, truncated, or dynamically
// assembled, and a strict parser would reject most of it. Regex scanning over
// normalized text is the accepted trade-off; precision losses (subquery and
// UNION scopes folding into one flat alias map) are documented behavior.
package sqlscan

import (
	"regexp"
	"strings"
)

var (
	reCDATA       = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	reXMLTag      = regexp.MustCompile(`</?[A-Za-z][^>]*>`)
	reLineComment = regexp.MustCompile(`--[^\n]*`)
	reBlockComm   = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reBindMarker  = regexp.MustCompile(`[#$]\{[^}]*\}`)
	reWhitespace  = regexp.MustCompile(`\s+`)
)

// BindPlaceholder replaces #{...} and ${...} markers so that positional
// scanning still sees a value-shaped token where the template had one.
const BindPlaceholder = "?"

// Normalize runs the ordered preprocessing pipeline over raw SQL text:
// dynamic-tag stripping, comment stripping, bind-marker replacement,
// whitespace collapsing, uppercasing. Each step is total over the previous
// step's output. Tag stripping runs before comment stripping so that
// commented-out tag fragments cannot survive.
func Normalize(sql string) string {
	s := reCDATA.ReplaceAllString(sql, " $1 ")
	s = reXMLTag.ReplaceAllString(s, " ")
	s = reLineComment.ReplaceAllString(s, " ")
	s = reBlockComm.ReplaceAllString(s, " ")
	s = reBindMarker.ReplaceAllString(s, BindPlaceholder)
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.ToUpper(strings.TrimSpace(s))
}

// StatementKind classifies a normalized statement by its leading verb.
// Unknown text defaults to SELECT since fragments are most often predicates
// of larger queries.
func StatementKind(normalized string) string {
	switch {
	case strings.HasPrefix(normalized, "INSERT"):
		return "INSERT"
	case strings.HasPrefix(normalized, "UPDATE"):
		return "UPDATE"
	case strings.HasPrefix(normalized, "DELETE"):
		return "DELETE"
	case strings.HasPrefix(normalized, "MERGE"):
		return "MERGE"
	default:
		return "SELECT"
	}
}
