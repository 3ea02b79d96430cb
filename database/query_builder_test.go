package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryBuilder_AddCondition(t *testing.T) {
	qb := NewQueryBuilder()

	qb.AddCondition("status", "published")

	assert.Equal(t, "WHERE status = $1", qb.WhereClause())
	assert.Equal(t, []any{"published"}, qb.Args())
}

func TestQueryBuilder_MultipleConditions(t *testing.T) {
	qb := NewQueryBuilder()

	qb.AddCondition("status", "published")
	qb.AddCondition("category", "web")
	qb.AddArrayContains("tags", "go")

	assert.Equal(t, "WHERE status = $1 AND category = $2 AND $3 = ANY(tags)", qb.WhereClause())
	assert.Equal(t, []any{"published", "web", "go"}, qb.Args())
	assert.Equal(t, "LIMIT $4 OFFSET $5", qb.Paginate(10, 0))
}

func TestQueryBuilder_AddFullTextSearch(t *testing.T) {
	qb := NewQueryBuilder()

	qb.AddCondition("status", "published")
	qb.AddFullTextSearch("title || ' ' || content", "go & web")

	assert.Equal(t,
		"WHERE status = $1 AND to_tsvector('english', title || ' ' || content) @@ to_tsquery('english', $2)",
		qb.WhereClause())
	assert.Equal(t, []any{"published", "go & web"}, qb.Args())
}

func TestQueryBuilder_EmptyWhere(t *testing.T) {
	qb := NewQueryBuilder()

	assert.Equal(t, "", qb.WhereClause())
	assert.Empty(t, qb.Args())
	assert.Equal(t, "LIMIT $1 OFFSET $2", qb.Paginate(10, 0))
}

func TestQueryBuilder_Paginate(t *testing.T) {
	qb := NewQueryBuilder()
	qb.AddCondition("read", false)

	clause := qb.Paginate(20, 40)

	assert.Equal(t, "LIMIT $2 OFFSET $3", clause)
	assert.Equal(t, []any{false, 20, 40}, qb.Args())
}
