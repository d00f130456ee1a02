package relationship

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/users/123", "/api/users/{id}"},
		{"/api/users/{userId}", "/api/users/{id}"},
		{"/api/users/${id}", "/api/users/{id}"},
		{"/api/users/:id", "/api/users/{id}"},
		{"/api/users/{*}", "/api/users/{id}"},
		{"/api/users/", "/api/users"},
		{"/api/users?page=2", "/api/users"},
		{"/api/users#list", "/api/users"},
		{"http://localhost:8080/api/users/42", "/api/users/{id}"},
		{"/api/orders/123/items/456", "/api/orders/{id}/items/{id}"},
		{"/api/v2/users", "/api/v2/users"}, // v2 is not numeric
		{"/", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeURL(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeURL_EquivalentRoutes(t *testing.T) {
	assert.Equal(t, NormalizeURL("/api/users/123"), NormalizeURL("/api/users/{userId}"))
}

func TestAPIKey(t *testing.T) {
	assert.Equal(t, "GET_/api/users/{id}", APIKey("get", "/api/users/123"))
	assert.Equal(t, "POST_/api/users", APIKey("POST", "/api/users"))
	assert.Equal(t, "GET_/api/users", APIKey("", "/api/users"))
}
