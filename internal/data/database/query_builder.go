// Package database builds filtered SELECT statements with sanitized identifiers.
package database

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ConditionType is the comparison used by a Condition.
type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThan        ConditionType = ">"
	LessThan           ConditionType = "<"
	GreaterThanOrEqual ConditionType = ">="
	LessThanOrEqual    ConditionType = "<="
	ILike              ConditionType = "ILIKE"
	Any                ConditionType = "ANY"
	Custom             ConditionType = "CUSTOM"

	noLimit = -1
)

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// Condition is a single WHERE predicate.
type Condition struct {
	Field string
	Type  ConditionType
	Value any
	raw   string
}

// WhereCond builds a comparison on a column.
func WhereCond(field string, condType ConditionType, value any) Condition {
	if condType == Custom {
		//nolint:forbidigo // custom predicates must go through WhereRawCond.
		panic("use WhereRawCond for Custom conditions")
	}
	return Condition{Field: field, Type: condType, Value: value}
}

// WhereRawCond builds a predicate from raw SQL numbered $1..$n relative to params.
// The SQL itself is not sanitized.
func WhereRawCond(raw string, params ...any) Condition {
	return Condition{Type: Custom, raw: raw, Value: params}
}

// ListQueryOptions describes a SELECT statement.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	CountOnly  bool
}

// ListQueryOption mutates ListQueryOptions.
type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions returns options for table with opts applied.
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	o := &ListQueryOptions{Table: table, Limit: noLimit}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition adds a condition. Conditions are joined with AND.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithOrderBy sets the ordering column and direction.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = direction
	}
}

// WithLimit sets the limit. Negative values mean no limit.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) { o.Limit = limit }
}

// WithCountOnly selects COUNT(*) instead of columns.
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) { o.CountOnly = true }
}

func sanitizeIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// BuildListQuery renders options into SQL and positional arguments.
func BuildListQuery(o *ListQueryOptions) (string, []any) {
	if o == nil {
		return "", nil
	}

	var b strings.Builder
	switch {
	case o.CountOnly:
		b.WriteString("SELECT COUNT(*)")
	case len(o.Columns) == 0:
		b.WriteString("SELECT *")
	default:
		cols := make([]string, len(o.Columns))
		for i, c := range o.Columns {
			cols[i] = sanitizeIdentifier(c)
		}
		b.WriteString("SELECT " + strings.Join(cols, ", "))
	}
	b.WriteString(" FROM " + sanitizeIdentifier(o.Table))

	where, args := buildWhereClause(o.Conditions)
	if where != "" {
		b.WriteString(" " + where)
	}
	if o.CountOnly {
		return b.String(), args
	}

	if o.OrderBy != "" {
		b.WriteString(" ORDER BY " + sanitizeIdentifier(o.OrderBy))
		if dir := strings.ToUpper(o.OrderDir); dir == "ASC" || dir == "DESC" {
			b.WriteString(" " + dir)
		}
	}
	if o.Limit != noLimit {
		args = append(args, o.Limit)
		b.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}
	return b.String(), args
}

func buildWhereClause(conds []Condition) (string, []any) {
	parts := make([]string, 0, len(conds))
	var args []any
	for _, c := range conds {
		sqlPart, condArgs := renderCondition(c, len(args)+1)
		if sqlPart == "" {
			continue
		}
		parts = append(parts, sqlPart)
		args = append(args, condArgs...)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(parts, " AND "), args
}

func renderCondition(c Condition, next int) (string, []any) {
	switch c.Type {
	case Custom:
		return renderRaw(c, next)
	case Any:
		if c.Field == "" {
			return "", nil
		}
		rv := reflect.ValueOf(c.Value)
		if rv.Kind() != reflect.Slice || rv.Len() == 0 {
			return "", nil
		}
		return fmt.Sprintf("%s = ANY($%d)", sanitizeIdentifier(c.Field), next), []any{c.Value}
	case Equal, NotEqual, GreaterThan, LessThan, GreaterThanOrEqual, LessThanOrEqual, ILike:
		if c.Field == "" {
			return "", nil
		}
		return fmt.Sprintf("%s %s $%d", sanitizeIdentifier(c.Field), c.Type, next), []any{c.Value}
	default:
		return "", nil
	}
}

// renderRaw renumbers $n placeholders so raw predicates compose with the rest of the query.
func renderRaw(c Condition, next int) (string, []any) {
	if c.raw == "" {
		return "", nil
	}
	params, _ := c.Value.([]any)
	var args []any
	mapped := make(map[int]int)
	out := placeholderRe.ReplaceAllStringFunc(c.raw, func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(params) {
			return m
		}
		if _, ok := mapped[n]; !ok {
			mapped[n] = next + len(args)
			args = append(args, params[n-1])
		}
		return "$" + strconv.Itoa(mapped[n])
	})
	return out, args
}
