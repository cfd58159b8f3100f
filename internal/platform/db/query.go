package db

import (
	"fmt"
	"strings"
)

// FilterKind selects how a query parameter is matched against its column.
type FilterKind int

const (
	FilterEquals   FilterKind = iota // exact match
	FilterContains                   // case-insensitive substring
	FilterDay                        // same calendar day as a YYYY-MM-DD value
)

// Filter maps a query parameter to a column.
type Filter struct {
	Kind   FilterKind
	Column string
}

// SelectQuery builds parameterised count and page queries for list endpoints.
type SelectQuery struct {
	table   string
	cols    string
	where   []string
	args    []any
	orderBy string
}

func NewSelectQuery(table, cols string) *SelectQuery {
	return &SelectQuery{table: table, cols: cols}
}

// Where appends a clause; use "?" as the placeholder for each argument.
func (q *SelectQuery) Where(clause string, args ...any) {
	for _, a := range args {
		q.args = append(q.args, a)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(q.args)), 1)
	}
	q.where = append(q.where, clause)
}

func (q *SelectQuery) Apply(f Filter, value string) {
	switch f.Kind {
	case FilterContains:
		q.Where(f.Column+" ILIKE ?", "%"+value+"%")
	case FilterDay:
		q.Where(f.Column+"::date = ?::date", value)
	default:
		q.Where(f.Column+" = ?", value)
	}
}

// ApplyParams applies every parameter that has a filter; others are ignored.
func (q *SelectQuery) ApplyParams(params map[string]string, filters map[string]Filter) {
	for name, value := range params {
		if f, ok := filters[name]; ok && value != "" {
			q.Apply(f, value)
		}
	}
}

func (q *SelectQuery) OrderBy(orderBy string) {
	q.orderBy = orderBy
}

func (q *SelectQuery) whereSQL() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

func (q *SelectQuery) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", q.table, q.whereSQL())
}

func (q *SelectQuery) CountArgs() []any {
	return q.args
}

// DataSQL returns the page query; limit <= 0 means no limit.
func (q *SelectQuery) DataSQL(limit, offset int) string {
	sql := fmt.Sprintf("SELECT %s FROM %s%s", q.cols, q.table, q.whereSQL())
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	n := len(q.args)
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
	} else {
		sql += fmt.Sprintf(" OFFSET $%d", n+1)
	}
	return sql
}

func (q *SelectQuery) DataArgs(limit, offset int) []any {
	out := make([]any, len(q.args), len(q.args)+2)
	copy(out, q.args)
	if limit > 0 {
		out = append(out, limit)
	}
	return append(out, offset)
}
