package mybatis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemap-labs/codemap/internal/extract"
	"github.com/codemap-labs/codemap/pkg/models"
)

func extractString(t *testing.T, content string) []extract.QueryRecord {
	t.Helper()
	records, err := Extract(extract.FileInput{
		Path:    "mapper/UserMapper.xml",
		Content: []byte(content),
		Type:    models.FileXML,
	})
	require.NoError(t, err)
	return records
}

func TestExtractStatements(t *testing.T) {
	records := extractString(t, `<?xml version="1.0" encoding="UTF-8"?>
<mapper namespace="com.acme.mapper.UserMapper">
  <select id="selectUserById" resultType="User">
    SELECT * FROM users WHERE id = #{id}
  </select>
  <insert id="insertUser">
    INSERT INTO users (id, name) VALUES (#{id}, #{name})
  </insert>
  <update id="touchUser">
    UPDATE users SET updated_at = SYSDATE WHERE id = #{id}
  </update>
  <delete id="deleteUser">
    DELETE FROM users WHERE id = #{id}
  </delete>
</mapper>`)

	require.Len(t, records, 4)

	byID := map[string]extract.QueryRecord{}
	for _, r := range records {
		byID[r.QueryID] = r
	}

	sel := byID["selectUserById"]
	assert.Equal(t, "SELECT", sel.Kind)
	assert.Equal(t, "com.acme.mapper.UserMapper", sel.Namespace)
	assert.Equal(t, "com.acme.mapper.UserMapper.selectUserById", sel.QualifiedID())
	assert.Contains(t, sel.SQL, "FROM users")
	assert.Equal(t, 3, sel.Line)

	assert.Equal(t, "INSERT", byID["insertUser"].Kind)
	assert.Equal(t, "UPDATE", byID["touchUser"].Kind)
	assert.Equal(t, "DELETE", byID["deleteUser"].Kind)
}

func TestExtractMergeInsideUpdate(t *testing.T) {
	records := extractString(t, `<mapper namespace="com.acme.mapper.StatsMapper">
  <update id="upsertDaily">
    MERGE INTO daily_stats d
    USING dual ON (d.stat_date = #{date})
    WHEN MATCHED THEN UPDATE SET d.hits = d.hits + 1
    WHEN NOT MATCHED THEN INSERT (stat_date, hits) VALUES (#{date}, 1)
  </update>
</mapper>`)

	require.Len(t, records, 1)
	assert.Equal(t, "MERGE", records[0].Kind)
	assert.Equal(t, "upsertDaily", records[0].QueryID)
}

func TestExtractDynamicTagsAndOperators(t *testing.T) {
	// Dynamic SQL with bare comparison operators is not valid XML; the
	// extractor must still find the statement boundaries.
	records := extractString(t, `<mapper namespace="com.acme.mapper.OrderMapper">
  <select id="findRecent" resultType="Order">
    SELECT * FROM orders o
    <where>
      <if test="minAmount != null">
        o.amount > #{minAmount} AND o.qty < 100
      </if>
    </where>
  </select>
</mapper>`)

	require.Len(t, records, 1)
	assert.Equal(t, "findRecent", records[0].QueryID)
	assert.Contains(t, records[0].SQL, "<where>")
	assert.Contains(t, records[0].SQL, "o.amount >")
}

func TestExtractSkipsFragmentsAndMissingID(t *testing.T) {
	records := extractString(t, `<mapper namespace="com.acme.mapper.ItemMapper">
  <sql id="columns">id, name, price</sql>
  <select resultType="Item">SELECT * FROM items</select>
  <select id="listItems">SELECT <include refid="columns"/> FROM items</select>
</mapper>`)

	require.Len(t, records, 1)
	assert.Equal(t, "listItems", records[0].QueryID)
}

func TestExtractNoNamespace(t *testing.T) {
	records := extractString(t, `<mapper>
  <select id="ping">SELECT 1 FROM dual</select>
</mapper>`)

	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].Namespace)
	assert.Equal(t, "ping", records[0].QualifiedID())
}
