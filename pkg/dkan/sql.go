package dkan

import (
	"fmt"
	"strings"
)

// SQLQuery builds a statement in the DKAN datastore's bracketed SQL dialect:
// each clause is wrapped in square brackets and the statement ends with a
// semicolon, e.g.
//
//	[SELECT a,b FROM resource-id][WHERE a = "x"][ORDER BY a ASC][LIMIT 10 OFFSET 20];
//
// The client never parses or validates the assembled string; the server owns
// the dialect.
type SQLQuery struct {
	selectCols string
	from       string
	where      string
	orderBy    string
	orderDir   string
	limit      int
	offset     int
	hasLimit   bool
}

// NewSQLQuery starts a bracketed SQL statement.
func NewSQLQuery() *SQLQuery {
	return &SQLQuery{}
}

// Select sets the selected columns and source resource.
func (q *SQLQuery) Select(resource string, columns ...string) *SQLQuery {
	cols := "*"
	if len(columns) > 0 {
		cols = strings.Join(columns, ",")
	}

	q.selectCols = cols
	q.from = resource

	return q
}

// Where sets the condition clause, passed through verbatim.
func (q *SQLQuery) Where(condition string) *SQLQuery {
	q.where = condition

	return q
}

// OrderBy sets the ordering field and direction (ASC or DESC).
func (q *SQLQuery) OrderBy(field, direction string) *SQLQuery {
	q.orderBy = field
	q.orderDir = strings.ToUpper(direction)

	return q
}

// Limit sets the LIMIT n OFFSET m clause. An offset of zero is omitted.
func (q *SQLQuery) Limit(limit, offset int) *SQLQuery {
	q.limit = limit
	q.offset = offset
	q.hasLimit = true

	return q
}

// String assembles the bracketed statement.
func (q *SQLQuery) String() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "[SELECT %s FROM %s]", q.selectCols, q.from)

	if q.where != "" {
		fmt.Fprintf(&builder, "[WHERE %s]", q.where)
	}

	if q.orderBy != "" {
		fmt.Fprintf(&builder, "[ORDER BY %s %s]", q.orderBy, q.orderDir)
	}

	if q.hasLimit {
		if q.offset > 0 {
			fmt.Fprintf(&builder, "[LIMIT %d OFFSET %d]", q.limit, q.offset)
		} else {
			fmt.Fprintf(&builder, "[LIMIT %d]", q.limit)
		}
	}

	builder.WriteString(";")

	return builder.String()
}

// Build validates and returns the assembled statement.
func (q *SQLQuery) Build() (string, error) {
	if q.from == "" {
		return "", ErrSelectClauseRequired
	}

	return q.String(), nil
}

// SQLOptions controls how a bracketed SQL statement is delivered.
type SQLOptions struct {
	// UsePost sends the statement as a JSON body instead of the default GET
	// ?query= parameter.
	UsePost bool

	// ShowDBColumns asks the server to return raw database column names.
	ShowDBColumns bool
}
