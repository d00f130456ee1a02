package javascript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemap-labs/codemap/internal/extract"
	"github.com/codemap-labs/codemap/pkg/models"
)

func extractCalls(t *testing.T, src string) []extract.APICallRecord {
	t.Helper()
	calls, err := New().Extract(extract.FileInput{
		Path:    "app.js",
		Content: []byte(src),
		Type:    models.FileJS,
	})
	require.NoError(t, err)
	return calls
}

func TestFetchCalls(t *testing.T) {
	calls := extractCalls(t, `
fetch("/api/users");
fetch("/api/users", { method: "POST", body: payload });
`)

	require.Len(t, calls, 2)
	assert.Equal(t, "GET", calls[0].Verb)
	assert.Equal(t, "/api/users", calls[0].URL)
	assert.Equal(t, 2, calls[0].Line)
	assert.Equal(t, "POST", calls[1].Verb)
}

func TestAxiosVerbMethods(t *testing.T) {
	calls := extractCalls(t, `
axios.get("/api/orders");
axios.delete("/api/orders/42");
this.$http.put("/api/orders/42", body);
`)

	require.Len(t, calls, 3)
	assert.Equal(t, "GET", calls[0].Verb)
	assert.Equal(t, "DELETE", calls[1].Verb)
	assert.Equal(t, "/api/orders/42", calls[1].URL)
	assert.Equal(t, "PUT", calls[2].Verb)
}

func TestAxiosConfigObject(t *testing.T) {
	calls := extractCalls(t, `
axios({ method: "post", url: "/api/orders", data: order });
$.ajax({ url: "/legacy/order.do", method: "get" });
`)

	require.Len(t, calls, 2)
	assert.Equal(t, "POST", calls[0].Verb)
	assert.Equal(t, "/api/orders", calls[0].URL)
	assert.Equal(t, "GET", calls[1].Verb)
	assert.Equal(t, "/legacy/order.do", calls[1].URL)
}

func TestTemplateAndConcatenation(t *testing.T) {
	calls := extractCalls(t, `
fetch(` + "`/api/users/${id}`" + `);
axios.get("/api/users/" + userId);
`)

	require.Len(t, calls, 2)
	assert.Equal(t, "/api/users/${id}", calls[0].URL)
	assert.Equal(t, "/api/users/{*}", calls[1].URL)
}

func TestNonHTTPCallsIgnored(t *testing.T) {
	calls := extractCalls(t, `
logger.get("config");
list.delete(3);
fetch(buildURL());
`)

	assert.Empty(t, calls)
}

func TestExtractEmbeddedScriptBlocks(t *testing.T) {
	calls, err := New().ExtractEmbedded(extract.FileInput{
		Path: "order.jsp",
		Content: []byte(`<%@ page contentType="text/html" %>
<html>
<body>
<script type="text/javascript">
  fetch("/api/orders");
</script>
<div>static markup</div>
<script>
  axios.post("/api/orders", form);
</script>
</body>
</html>`),
		Type: models.FileJSP,
	})
	require.NoError(t, err)

	require.Len(t, calls, 2)
	assert.Equal(t, "/api/orders", calls[0].URL)
	assert.Equal(t, 5, calls[0].Line)
	assert.Equal(t, "POST", calls[1].Verb)
}