package query

import (
	"slices"
	"strconv"
	"strings"
)

// Build renders the SELECT statement with "?" placeholders and returns
// the bindings in placeholder order.
func (b *Builder) Build() (string, []any, error) {
	if err := b.check(); err != nil {
		return "", nil, err
	}
	sql, args := b.compileSelect()
	return sql, args, nil
}

// Bindings returns the values the SELECT statement binds, in order.
func (b *Builder) Bindings() []any {
	_, args := b.compileSelect()
	return args
}

func (b *Builder) check() error {
	if b.err != nil {
		return b.err
	}
	if b.table == "" {
		return ErrNoTable
	}
	return nil
}

func (b *Builder) compileSelect() (string, []any) {
	if b.aggregate != nil && (b.distinct || len(b.groups) > 0) {
		return b.compileWrappedAggregate()
	}

	var sb strings.Builder
	var args []any

	sb.WriteString("SELECT ")
	if b.distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(b.compileColumns())
	sb.WriteString(" FROM ")
	sb.WriteString(b.compileTable())

	for _, j := range b.joins {
		sb.WriteByte(' ')
		sb.WriteString(string(j.kind))
		sb.WriteByte(' ')
		sb.WriteString(j.table)
		if j.kind != crossJoin {
			sb.WriteString(" ON ")
			sb.WriteString(j.first)
			sb.WriteByte(' ')
			sb.WriteString(j.operator)
			sb.WriteByte(' ')
			sb.WriteString(j.second)
		}
	}

	args = b.appendWhere(&sb, args)

	if len(b.groups) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(b.groups, ", "))
	}

	if len(b.havings) > 0 {
		frag, vals := compileConditions(b.havings)
		sb.WriteString(" HAVING ")
		sb.WriteString(frag)
		args = append(args, vals...)
	}

	// Aggregates ignore ordering, paging and locks.
	if b.aggregate != nil {
		return sb.String(), args
	}

	if len(b.orders) > 0 {
		sb.WriteString(" ORDER BY ")
		for i, o := range b.orders {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(o.column)
			sb.WriteByte(' ')
			sb.WriteString(o.direction)
		}
	}

	if b.limit >= 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
	}
	if b.offset >= 0 {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(b.offset))
	}

	switch b.lock {
	case LockForUpdate:
		sb.WriteString(" FOR UPDATE")
	case LockShared:
		sb.WriteString(" FOR SHARE")
	}

	return sb.String(), args
}

// compileWrappedAggregate aggregates over a grouped or distinct select,
// which cannot be expressed by replacing its column list.
func (b *Builder) compileWrappedAggregate() (string, []any) {
	inner := b.clone()
	agg := inner.aggregate
	inner.aggregate = nil
	inner.orders = nil
	inner.limit, inner.offset = -1, -1
	inner.lock = LockNone
	sql, args := inner.compileSelect()

	column := agg.column
	if column != "*" {
		column = "sub." + unqualified(column)
	}
	return "SELECT " + agg.function + "(" + column + ") AS aggregate FROM (" + sql + ") AS sub", args
}

func (b *Builder) compileColumns() string {
	if b.aggregate != nil {
		return b.aggregate.function + "(" + b.aggregate.column + ") AS aggregate"
	}
	if len(b.columns) == 0 {
		return "*"
	}
	return strings.Join(b.columns, ", ")
}

func (b *Builder) compileTable() string {
	if b.alias == "" {
		return b.table
	}
	return b.table + " AS " + b.alias
}

func (b *Builder) appendWhere(sb *strings.Builder, args []any) []any {
	if len(b.wheres) == 0 {
		return args
	}
	frag, vals := compileConditions(b.wheres)
	sb.WriteString(" WHERE ")
	sb.WriteString(frag)
	return append(args, vals...)
}

func (b *Builder) compileInsert(values Values) (string, []any) {
	columns := sortedColumns(values)
	args := make([]any, 0, len(columns))
	marks := make([]string, 0, len(columns))
	for _, col := range columns {
		if expr, ok := values[col].(Expr); ok {
			marks = append(marks, expr.SQL)
			continue
		}
		marks = append(marks, "?")
		args = append(args, values[col])
	}

	sql := "INSERT INTO " + b.table + " (" + strings.Join(columns, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	return sql, args
}

// compileUpdate emits SET placeholders before WHERE placeholders, so the
// SET values lead the bindings.
func (b *Builder) compileUpdate(values Values) (string, []any) {
	columns := sortedColumns(values)
	args := make([]any, 0, len(columns))

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.table)
	sb.WriteString(" SET ")
	for i, col := range columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(col)
		sb.WriteString(" = ")
		if expr, ok := values[col].(Expr); ok {
			sb.WriteString(expr.SQL)
			continue
		}
		sb.WriteByte('?')
		args = append(args, values[col])
	}

	args = b.appendWhere(&sb, args)
	return sb.String(), args
}

func (b *Builder) compileDelete() (string, []any) {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(b.table)
	args := b.appendWhere(&sb, nil)
	return sb.String(), args
}

func sortedColumns(values Values) []string {
	columns := make([]string, 0, len(values))
	for col := range values {
		columns = append(columns, col)
	}
	slices.Sort(columns)
	return columns
}

// unqualified strips a table qualifier and alias: "u.name AS n" -> "n".
func unqualified(column string) string {
	if i := strings.LastIndex(strings.ToLower(column), " as "); i >= 0 {
		return strings.TrimSpace(column[i+4:])
	}
	if i := strings.LastIndexByte(column, '.'); i >= 0 {
		return column[i+1:]
	}
	return column
}
