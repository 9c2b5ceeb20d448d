package querybuilder

import (
	"fmt"
	"strings"
)

// QueryBuilder assembles the parameterized statements the repositories
// issue: multi-row inserts with optional conflict handling and conjunctive
// WHERE clauses.
type QueryBuilder interface {
	Insert(cols ...string) QueryBuilder
	Into(table string) QueryBuilder
	Values(values ...interface{}) QueryBuilder
	OnConflict(cols ...string) QueryBuilder
	DoNothing() QueryBuilder

	Select(cols ...string) QueryBuilder
	From(table string) QueryBuilder
	Where(clause string, args ...interface{}) QueryBuilder
	And(clause string, args ...interface{}) QueryBuilder
	OrderBy(col string, asc bool) QueryBuilder

	Build() (string, []interface{})
}

type queryBuilder struct {
	schema       string
	table        string
	cols         []string
	rows         [][]interface{}
	conditions   []condition
	orderBy      []string
	onConflict   []string
	conflictNoop bool
}

type condition struct {
	clause string
	args   []interface{}
}

func NewQueryBuilder(schema string) QueryBuilder {
	return &queryBuilder{schema: schema}
}

func (q *queryBuilder) Insert(cols ...string) QueryBuilder {
	q.cols = cols
	return q
}

func (q *queryBuilder) Into(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Values(values ...interface{}) QueryBuilder {
	q.rows = append(q.rows, values)
	return q
}

func (q *queryBuilder) OnConflict(cols ...string) QueryBuilder {
	q.onConflict = cols
	return q
}

func (q *queryBuilder) DoNothing() QueryBuilder {
	q.conflictNoop = true
	return q
}

func (q *queryBuilder) Select(cols ...string) QueryBuilder {
	q.cols = append(q.cols, cols...)
	return q
}

func (q *queryBuilder) From(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Where(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, condition{clause: clause, args: args})
	return q
}

func (q *queryBuilder) And(clause string, args ...interface{}) QueryBuilder {
	return q.Where(clause, args...)
}

func (q *queryBuilder) OrderBy(col string, asc bool) QueryBuilder {
	direction := "ASC"
	if !asc {
		direction = "DESC"
	}
	q.orderBy = append(q.orderBy, fmt.Sprintf("%s %s", col, direction))
	return q
}

func (q *queryBuilder) Build() (string, []interface{}) {
	if len(q.rows) > 0 {
		return q.buildInsert()
	}
	return q.buildSelect()
}

func (q *queryBuilder) buildInsert() (string, []interface{}) {
	args := make([]interface{}, 0, len(q.rows)*len(q.cols))
	placeholders := make([]string, 0, len(q.rows))
	n := 1
	for _, row := range q.rows {
		ps := make([]string, 0, len(row))
		for _, v := range row {
			ps = append(ps, fmt.Sprintf("$%d", n))
			args = append(args, v)
			n++
		}
		placeholders = append(placeholders, fmt.Sprintf("(%s)", strings.Join(ps, ", ")))
	}

	query := fmt.Sprintf("INSERT INTO %s.%s (%s) VALUES %s",
		q.schema, q.table, strings.Join(q.cols, ", "), strings.Join(placeholders, ", "))
	if len(q.onConflict) > 0 && q.conflictNoop {
		query += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", strings.Join(q.onConflict, ", "))
	}
	return query, args
}

func (q *queryBuilder) buildSelect() (string, []interface{}) {
	query := fmt.Sprintf("SELECT %s FROM %s.%s", strings.Join(q.cols, ", "), q.schema, q.table)
	args := make([]interface{}, 0)
	if len(q.conditions) > 0 {
		clauses := make([]string, 0, len(q.conditions))
		for _, cond := range q.conditions {
			clauses = append(clauses, cond.clause)
			args = append(args, cond.args...)
		}
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	if len(q.orderBy) > 0 {
		query += " ORDER BY " + strings.Join(q.orderBy, ", ")
	}
	return renumber(query), args
}

// renumber rewrites `?` placeholders in WHERE clauses to $1..$n so callers
// can write clauses without tracking positions.
func renumber(query string) string {
	var sb strings.Builder
	n := 1
	for _, r := range query {
		if r == '?' {
			fmt.Fprintf(&sb, "$%d", n)
			n++
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
