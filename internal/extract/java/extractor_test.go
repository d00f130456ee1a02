package java

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemap-labs/codemap/internal/extract"
	"github.com/codemap-labs/codemap/pkg/models"
)

func extractSource(t *testing.T, path, src string) *extract.JavaResult {
	t.Helper()
	result, err := New().Extract(extract.FileInput{
		Path:    path,
		Content: []byte(src),
		Type:    models.FileJava,
	})
	require.NoError(t, err)
	return result
}

func classByName(t *testing.T, result *extract.JavaResult, name string) extract.ClassDecl {
	t.Helper()
	for _, c := range result.Classes {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("class %s not found", name)
	return extract.ClassDecl{}
}

func TestBasicClass(t *testing.T) {
	result := extractSource(t, "User.java", `
package com.example;

import java.util.List;

public class User extends BaseModel {
    private String name;
    public String getName() { return name; }
    public User() {}
}
`)

	assert.Equal(t, "com.example", result.Package)
	c := classByName(t, result, "User")
	assert.Equal(t, "com.example.User", c.QualifiedName)
	assert.Equal(t, "BaseModel", c.ParentName)
	assert.False(t, c.IsInterface)

	names := []string{}
	for _, m := range c.Methods {
		names = append(names, m.Name)
	}
	assert.Contains(t, names, "getName")
	assert.Contains(t, names, "User") // constructor
}

func TestEntityAnnotations(t *testing.T) {
	result := extractSource(t, "User.java", `
package com.example;

@Entity
@Table(name = "app_users")
public class User {
    @Id
    private Long id;
}
`)

	c := classByName(t, result, "User")
	assert.True(t, c.IsEntity)
	assert.Equal(t, "app_users", c.EntityTable)
}

func TestEntityWithoutTableName(t *testing.T) {
	result := extractSource(t, "Order.java", `
package com.example;

@Entity
public class Order {
    private Long id;
}
`)

	c := classByName(t, result, "Order")
	assert.True(t, c.IsEntity)
	assert.Equal(t, "", c.EntityTable)
}

func TestMapperInterface(t *testing.T) {
	result := extractSource(t, "UserMapper.java", `
package com.example.mapper;

@Mapper
public interface UserMapper {
    User selectUserById(Long id);
    int insertUser(User user);
}
`)

	c := classByName(t, result, "UserMapper")
	assert.True(t, c.IsInterface)
	assert.True(t, c.IsMapper)
	require.Len(t, c.Methods, 2)
	assert.Equal(t, "selectUserById", c.Methods[0].Name)
}

func TestMapperBySuffix(t *testing.T) {
	result := extractSource(t, "OrderMapper.java", `
package com.example.mapper;

public interface OrderMapper {
    Order selectOrder(Long id);
}
`)

	assert.True(t, classByName(t, result, "OrderMapper").IsMapper)
}

func TestSpringDataRepository(t *testing.T) {
	result := extractSource(t, "UserRepository.java", `
package com.example.repo;

public interface UserRepository extends JpaRepository<User, Long> {
    List<User> findByName(String name);
}
`)

	c := classByName(t, result, "UserRepository")
	assert.Equal(t, "User", c.RepositoryEntity)
}

func TestQueryAnnotation(t *testing.T) {
	result := extractSource(t, "UserRepository.java", `
package com.example.repo;

public interface UserRepository extends JpaRepository<User, Long> {
    @Query("SELECT * FROM users WHERE active = 1")
    List<User> findActive();

    @Update("UPDATE users SET active = 0 WHERE id = ?")
    int deactivate(Long id);
}
`)

	require.Len(t, result.Queries, 2)
	q := result.Queries[0]
	assert.Equal(t, "findActive", q.QueryID)
	assert.Equal(t, "com.example.repo.UserRepository", q.Namespace)
	assert.Equal(t, "SELECT", q.Kind)
	assert.Contains(t, q.SQL, "FROM users")
	assert.Equal(t, "UPDATE", result.Queries[1].Kind)
}

func TestControllerMappings(t *testing.T) {
	result := extractSource(t, "UserController.java", `
package com.example.web;

@RestController
@RequestMapping("/api/users")
public class UserController {
    @GetMapping("/{id}")
    public User getUser(@PathVariable Long id) { return service.get(id); }

    @PostMapping
    public User createUser(@RequestBody User user) { return service.create(user); }

    @RequestMapping(value = "/legacy", method = RequestMethod.DELETE)
    public void removeLegacy() { service.purge(); }
}
`)

	require.Len(t, result.Mappings, 3)

	byMethod := map[string]extract.APIMappingRecord{}
	for _, m := range result.Mappings {
		byMethod[m.MethodName] = m
	}

	get := byMethod["getUser"]
	assert.Equal(t, "GET", get.Verb)
	assert.Equal(t, "/api/users/{id}", get.URL)
	assert.Equal(t, "UserController", get.ClassName)

	post := byMethod["createUser"]
	assert.Equal(t, "POST", post.Verb)
	assert.Equal(t, "/api/users", post.URL)

	del := byMethod["removeLegacy"]
	assert.Equal(t, "DELETE", del.Verb)
	assert.Equal(t, "/api/users/legacy", del.URL)
}

func TestNonControllerMappingsIgnored(t *testing.T) {
	result := extractSource(t, "Helper.java", `
package com.example;

public class Helper {
    @GetMapping("/not-a-route")
    public void misplaced() {}
}
`)

	assert.Empty(t, result.Mappings)
}
