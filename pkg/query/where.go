package query

import (
	"fmt"
	"strings"
)

const (
	boolAnd = "AND"
	boolOr  = "OR"
)

type conditionKind uint8

const (
	condBasic conditionKind = iota
	condRaw
	condNested
	condIn
	condNotIn
	condNull
	condNotNull
	condBetween
)

// condition is one entry of a WHERE or HAVING list. Values are captured
// when the condition is added and emitted in placeholder order.
type condition struct {
	nested   *Builder
	column   string
	operator string
	sql      string
	boolean  string
	values   []any
	kind     conditionKind
}

var operators = map[string]struct{}{
	"=": {}, "<": {}, ">": {}, "<=": {}, ">=": {}, "<>": {}, "!=": {},
	"LIKE": {}, "NOT LIKE": {}, "ILIKE": {}, "NOT ILIKE": {},
}

func normalizeOperator(op string) (string, bool) {
	op = strings.Join(strings.Fields(strings.ToUpper(op)), " ")
	_, ok := operators[op]
	return op, ok
}

func basicCondition(column, operator string, value any, boolean string) (condition, error) {
	op, ok := normalizeOperator(operator)
	if !ok {
		return condition{}, fmt.Errorf("%w: %q on %s", ErrInvalidOperator, operator, column)
	}

	// Comparing with NULL through a binding never matches; emit IS [NOT] NULL.
	if value == nil {
		switch op {
		case "=":
			return condition{kind: condNull, column: column, boolean: boolean}, nil
		case "<>", "!=":
			return condition{kind: condNotNull, column: column, boolean: boolean}, nil
		}
	}

	return condition{
		kind:     condBasic,
		column:   column,
		operator: op,
		values:   []any{value},
		boolean:  boolean,
	}, nil
}

func rawCondition(sql string, args []any, boolean string) (condition, error) {
	if n := strings.Count(sql, "?"); n != len(args) {
		return condition{}, fmt.Errorf("%w: %q has %d placeholders, got %d values", ErrBindingMismatch, sql, n, len(args))
	}
	return condition{kind: condRaw, sql: sql, values: args, boolean: boolean}, nil
}

// Where adds an AND-joined condition "column operator ?".
//
// Example:
//
//	db.Table("users").Where("age", ">", 18).OrWhere("age", "<", 5)
//	// ... WHERE age > ? OR age < ?   bindings: [18 5]
func (b *Builder) Where(column, operator string, value any) *Builder {
	return b.addWhere(column, operator, value, boolAnd)
}

// OrWhere adds an OR-joined condition.
func (b *Builder) OrWhere(column, operator string, value any) *Builder {
	return b.addWhere(column, operator, value, boolOr)
}

func (b *Builder) addWhere(column, operator string, value any, boolean string) *Builder {
	c, err := basicCondition(column, operator, value, boolean)
	if err != nil {
		return b.fail(err)
	}
	b.wheres = append(b.wheres, c)
	return b
}

// WhereRaw adds a raw SQL fragment. The number of "?" in sql must match args.
func (b *Builder) WhereRaw(sql string, args ...any) *Builder {
	return b.addRaw(sql, args, boolAnd)
}

// OrWhereRaw adds an OR-joined raw SQL fragment.
func (b *Builder) OrWhereRaw(sql string, args ...any) *Builder {
	return b.addRaw(sql, args, boolOr)
}

func (b *Builder) addRaw(sql string, args []any, boolean string) *Builder {
	c, err := rawCondition(sql, args, boolean)
	if err != nil {
		return b.fail(err)
	}
	b.wheres = append(b.wheres, c)
	return b
}

// WhereNested groups the conditions added by fn in parentheses.
// A group that adds no conditions is dropped.
//
// Example:
//
//	q.Where("active", "=", true).WhereNested(func(q *query.Builder) {
//	    q.Where("role", "=", "admin").OrWhere("role", "=", "owner")
//	})
//	// ... WHERE active = ? AND (role = ? OR role = ?)
func (b *Builder) WhereNested(fn func(q *Builder)) *Builder {
	return b.addNested(fn, boolAnd)
}

// OrWhereNested adds an OR-joined parenthesized group.
func (b *Builder) OrWhereNested(fn func(q *Builder)) *Builder {
	return b.addNested(fn, boolOr)
}

func (b *Builder) addNested(fn func(q *Builder), boolean string) *Builder {
	child := newBuilder(b.conn, b.logger).Table(b.table)
	fn(child)
	if child.err != nil {
		return b.fail(child.err)
	}
	if len(child.wheres) == 0 {
		return b
	}
	b.wheres = append(b.wheres, condition{kind: condNested, nested: child, boolean: boolean})
	return b
}

// WhereIn adds "column IN (?, ...)". An empty list matches nothing.
func (b *Builder) WhereIn(column string, values ...any) *Builder {
	b.wheres = append(b.wheres, condition{kind: condIn, column: column, values: values, boolean: boolAnd})
	return b
}

// OrWhereIn adds an OR-joined IN condition.
func (b *Builder) OrWhereIn(column string, values ...any) *Builder {
	b.wheres = append(b.wheres, condition{kind: condIn, column: column, values: values, boolean: boolOr})
	return b
}

// WhereNotIn adds "column NOT IN (?, ...)". An empty list matches everything.
func (b *Builder) WhereNotIn(column string, values ...any) *Builder {
	b.wheres = append(b.wheres, condition{kind: condNotIn, column: column, values: values, boolean: boolAnd})
	return b
}

// WhereNull adds "column IS NULL".
func (b *Builder) WhereNull(column string) *Builder {
	b.wheres = append(b.wheres, condition{kind: condNull, column: column, boolean: boolAnd})
	return b
}

// WhereNotNull adds "column IS NOT NULL".
func (b *Builder) WhereNotNull(column string) *Builder {
	b.wheres = append(b.wheres, condition{kind: condNotNull, column: column, boolean: boolAnd})
	return b
}

// WhereBetween adds "column BETWEEN ? AND ?".
func (b *Builder) WhereBetween(column string, low, high any) *Builder {
	b.wheres = append(b.wheres, condition{kind: condBetween, column: column, values: []any{low, high}, boolean: boolAnd})
	return b
}

// OrWhereBetween adds an OR-joined BETWEEN condition.
func (b *Builder) OrWhereBetween(column string, low, high any) *Builder {
	b.wheres = append(b.wheres, condition{kind: condBetween, column: column, values: []any{low, high}, boolean: boolOr})
	return b
}

// OrWhereNull adds an OR-joined "column IS NULL".
func (b *Builder) OrWhereNull(column string) *Builder {
	b.wheres = append(b.wheres, condition{kind: condNull, column: column, boolean: boolOr})
	return b
}

// compileConditions renders conditions in insertion order. Each condition
// carries its own boolean; the first one's boolean is dropped.
func compileConditions(conds []condition) (string, []any) {
	var sb strings.Builder
	var args []any
	for i, c := range conds {
		frag, vals := c.compile()
		if i > 0 {
			sb.WriteByte(' ')
			sb.WriteString(c.boolean)
			sb.WriteByte(' ')
		}
		sb.WriteString(frag)
		args = append(args, vals...)
	}
	return sb.String(), args
}

func (c condition) compile() (string, []any) {
	switch c.kind {
	case condRaw:
		return c.sql, c.values
	case condNested:
		frag, args := compileConditions(c.nested.wheres)
		return "(" + frag + ")", args
	case condIn:
		if len(c.values) == 0 {
			return "0 = 1", nil
		}
		return c.column + " IN (" + placeholders(len(c.values)) + ")", c.values
	case condNotIn:
		if len(c.values) == 0 {
			return "1 = 1", nil
		}
		return c.column + " NOT IN (" + placeholders(len(c.values)) + ")", c.values
	case condNull:
		return c.column + " IS NULL", nil
	case condNotNull:
		return c.column + " IS NOT NULL", nil
	case condBetween:
		return c.column + " BETWEEN ? AND ?", c.values
	default:
		return c.column + " " + c.operator + " ?", c.values
	}
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
