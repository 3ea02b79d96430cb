package database

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// QueryBuilder helps build WHERE clauses safely
type QueryBuilder struct {
	conditions []string
	args       []any
	argCount   int
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{
		conditions: []string{},
		args:       []any{},
		argCount:   1,
	}
}

func (qb *QueryBuilder) AddCondition(column string, value any) {
	qb.conditions = append(qb.conditions, fmt.Sprintf("%s = $%d", column, qb.argCount))
	qb.args = append(qb.args, value)
	qb.argCount++
}

// AddArrayContains matches rows whose array column holds value.
func (qb *QueryBuilder) AddArrayContains(column string, value any) {
	qb.conditions = append(qb.conditions, fmt.Sprintf("$%d = ANY(%s)", qb.argCount, column))
	qb.args = append(qb.args, value)
	qb.argCount++
}

// AddFullTextSearch matches an already parsed tsquery against document, a
// SQL expression built from trusted column names.
func (qb *QueryBuilder) AddFullTextSearch(document, tsQuery string) {
	qb.conditions = append(qb.conditions,
		fmt.Sprintf("to_tsvector('english', %s) @@ to_tsquery('english', $%d)", document, qb.argCount))
	qb.args = append(qb.args, tsQuery)
	qb.argCount++
}

func (qb *QueryBuilder) WhereClause() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(qb.conditions, " AND ")
}

func (qb *QueryBuilder) Args() []any {
	return qb.args
}

// Paginate appends LIMIT/OFFSET placeholders and returns the clause.
func (qb *QueryBuilder) Paginate(limit, offset int) string {
	clause := fmt.Sprintf("LIMIT $%d OFFSET $%d", qb.argCount, qb.argCount+1)
	qb.args = append(qb.args, limit, offset)
	qb.argCount += 2
	return clause
}

// Helper functions

func validateLimit(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func validateOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// Page normalizes list pagination the same way queries do, so handlers can
// echo the effective values back.
func Page(limit, offset int) (int, int) {
	return validateLimit(limit, defaultLimit, maxLimit), validateOffset(offset)
}
