package sqlscan

import "testing"

func analyze(t *testing.T, sql string) []JoinEdge {
	t.Helper()
	a := testAnalyzer()
	return a.AnalyzeJoins(sql, a.ExtractAliases(sql))
}

func assertSingleEdge(t *testing.T, edges []JoinEdge, source, target string, kind JoinKind) {
	t.Helper()
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d: %v", len(edges), edges)
	}
	e := edges[0]
	if e.Source != source || e.Target != target || e.Kind != kind {
		t.Errorf("edge = %+v, want %s -> %s (%s)", e, source, target, kind)
	}
}

func TestAnalyzeJoins_Explicit(t *testing.T) {
	edges := analyze(t, "SELECT * FROM orders o JOIN users u ON o.user_id = u.user_id")
	assertSingleEdge(t, edges, "ORDERS", "USERS", JoinExplicit)
}

func TestAnalyzeJoins_ExplicitMultiCondition(t *testing.T) {
	edges := analyze(t,
		"SELECT * FROM orders o JOIN users u ON o.user_id = u.id AND o.tenant_id = u.tenant_id")
	// Both conditions name the same table pair; dedup keeps one edge.
	assertSingleEdge(t, edges, "ORDERS", "USERS", JoinExplicit)
}

func TestAnalyzeJoins_ExplicitChain(t *testing.T) {
	edges := analyze(t,
		"SELECT * FROM orders o JOIN users u ON o.user_id = u.id JOIN accounts a ON u.account_id = a.id")
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d: %v", len(edges), edges)
	}
}

func TestAnalyzeJoins_MergeOn(t *testing.T) {
	edges := analyze(t,
		"MERGE INTO targets t USING sources s ON (t.id = s.id) WHEN MATCHED THEN UPDATE SET t.v = s.v")
	assertSingleEdge(t, edges, "TARGETS", "SOURCES", JoinMergeOn)
}

func TestAnalyzeJoins_Implicit(t *testing.T) {
	edges := analyze(t, "SELECT * FROM orders a, customers b WHERE a.id = b.a_id")
	assertSingleEdge(t, edges, "ORDERS", "CUSTOMERS", JoinImplicit)
}

func TestAnalyzeJoins_ImplicitOracleOuter(t *testing.T) {
	tests := []string{
		"SELECT * FROM orders o, users u WHERE o.user_id(+) = u.id",
		"SELECT * FROM orders o, users u WHERE o.user_id = u.id(+)",
	}
	for _, sql := range tests {
		edges := analyze(t, sql)
		assertSingleEdge(t, edges, "ORDERS", "USERS", JoinImplicit)
	}
}

func TestAnalyzeJoins_ImplicitStopsAtGroupBy(t *testing.T) {
	edges := analyze(t,
		"SELECT count(*) FROM orders o, users u WHERE o.user_id = u.id GROUP BY u.id HAVING count(*) > 1")
	assertSingleEdge(t, edges, "ORDERS", "USERS", JoinImplicit)
}

func TestAnalyzeJoins_SelfJoinSuppressed(t *testing.T) {
	edges := analyze(t, "SELECT * FROM employees e1, employees e2 WHERE e1.manager_id = e2.emp_id")
	if len(edges) != 0 {
		t.Errorf("self-join must be suppressed, got %v", edges)
	}
}

func TestAnalyzeJoins_UnresolvableAliasSkipsCondition(t *testing.T) {
	a := testAnalyzer()
	aliases := AliasMap{"O": "ORDERS"}
	edges := a.AnalyzeJoins("SELECT * FROM orders o WHERE o.user_id = u.id", aliases)
	if len(edges) != 0 {
		t.Errorf("unresolvable alias must skip the condition, got %v", edges)
	}
}

func TestAnalyzeJoins_NonEqualityIgnored(t *testing.T) {
	edges := analyze(t, "SELECT * FROM orders o JOIN users u ON o.total > u.credit_limit")
	if len(edges) != 0 {
		t.Errorf("non-equality conditions yield no edges, got %v", edges)
	}
}

func TestAnalyzeJoins_DuplicateRestatementDeduped(t *testing.T) {
	// The WHERE clause restates the ON condition with sides flipped; the
	// unordered pair collapses to one edge, tagged by the first pass that hit.
	edges := analyze(t,
		"SELECT * FROM orders o JOIN users u ON o.user_id = u.id WHERE u.id = o.user_id")
	assertSingleEdge(t, edges, "ORDERS", "USERS", JoinExplicit)
}

func TestAnalyzeJoins_LiteralComparisonIgnored(t *testing.T) {
	edges := analyze(t, "SELECT * FROM orders o, users u WHERE o.status = 'OPEN'")
	if len(edges) != 0 {
		t.Errorf("column-to-literal comparisons yield no edges, got %v", edges)
	}
}
