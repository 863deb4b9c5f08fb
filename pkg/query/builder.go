package query

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// LockMode selects a row locking clause for SELECT statements.
type LockMode uint8

const (
	LockNone LockMode = iota
	LockForUpdate
	LockShared
)

// Values maps column names to values for Insert and Update.
// Columns are written in lexical order so statements are deterministic.
type Values map[string]any

// Expr is a raw SQL fragment used as a value. It is emitted verbatim
// and contributes no bindings.
type Expr struct {
	SQL string
}

// Raw wraps a trusted SQL fragment, e.g. Raw("visits + 1").
func Raw(sql string) Expr {
	return Expr{SQL: sql}
}

type joinKind string

const (
	innerJoin joinKind = "INNER JOIN"
	leftJoin  joinKind = "LEFT JOIN"
	rightJoin joinKind = "RIGHT JOIN"
	crossJoin joinKind = "CROSS JOIN"
)

type join struct {
	kind     joinKind
	table    string
	first    string
	operator string
	second   string
}

type order struct {
	column    string
	direction string
}

type aggregate struct {
	function string
	column   string
}

// Builder assembles a single SQL statement through chained calls.
// Identifiers (tables, columns) are emitted as given and must never come
// from user input; values always travel as positional bindings.
//
// Configuration methods record the first error they encounter and keep
// returning the builder; the error surfaces from the terminal call.
type Builder struct {
	conn   Conn
	logger *slog.Logger
	err    error

	table     string
	alias     string
	columns   []string
	joins     []join
	wheres    []condition
	groups    []string
	havings   []condition
	orders    []order
	aggregate *aggregate

	limit    int
	offset   int
	distinct bool
	lock     LockMode
}

func newBuilder(conn Conn, logger *slog.Logger) *Builder {
	return &Builder{
		conn:   conn,
		logger: logger,
		limit:  -1,
		offset: -1,
	}
}

// Table sets the table the statement targets.
func (b *Builder) Table(name string) *Builder {
	b.table = strings.TrimSpace(name)
	return b
}

// As sets an alias for the table in SELECT statements.
func (b *Builder) As(alias string) *Builder {
	b.alias = alias
	return b
}

// Select replaces the selected column list. No columns means "*".
func (b *Builder) Select(columns ...string) *Builder {
	b.columns = slices.Clone(columns)
	return b
}

// AddSelect appends columns to the selected column list.
func (b *Builder) AddSelect(columns ...string) *Builder {
	b.columns = append(b.columns, columns...)
	return b
}

// Distinct makes the statement SELECT DISTINCT.
func (b *Builder) Distinct() *Builder {
	b.distinct = true
	return b
}

// Join adds an INNER JOIN ... ON first operator second.
func (b *Builder) Join(table, first, operator, second string) *Builder {
	return b.addJoin(innerJoin, table, first, operator, second)
}

// LeftJoin adds a LEFT JOIN.
func (b *Builder) LeftJoin(table, first, operator, second string) *Builder {
	return b.addJoin(leftJoin, table, first, operator, second)
}

// RightJoin adds a RIGHT JOIN.
func (b *Builder) RightJoin(table, first, operator, second string) *Builder {
	return b.addJoin(rightJoin, table, first, operator, second)
}

// CrossJoin adds a CROSS JOIN without an ON clause.
func (b *Builder) CrossJoin(table string) *Builder {
	b.joins = append(b.joins, join{kind: crossJoin, table: table})
	return b
}

func (b *Builder) addJoin(kind joinKind, table, first, operator, second string) *Builder {
	op, ok := normalizeOperator(operator)
	if !ok {
		return b.fail(fmt.Errorf("%w: %q in join on %s", ErrInvalidOperator, operator, table))
	}
	b.joins = append(b.joins, join{kind: kind, table: table, first: first, operator: op, second: second})
	return b
}

// GroupBy appends GROUP BY columns.
func (b *Builder) GroupBy(columns ...string) *Builder {
	b.groups = append(b.groups, columns...)
	return b
}

// Having adds an AND-joined HAVING condition.
func (b *Builder) Having(column, operator string, value any) *Builder {
	return b.addHaving(column, operator, value, boolAnd)
}

// OrHaving adds an OR-joined HAVING condition.
func (b *Builder) OrHaving(column, operator string, value any) *Builder {
	return b.addHaving(column, operator, value, boolOr)
}

// HavingRaw adds a raw HAVING fragment with its own bindings.
func (b *Builder) HavingRaw(sql string, args ...any) *Builder {
	c, err := rawCondition(sql, args, boolAnd)
	if err != nil {
		return b.fail(err)
	}
	b.havings = append(b.havings, c)
	return b
}

func (b *Builder) addHaving(column, operator string, value any, boolean string) *Builder {
	c, err := basicCondition(column, operator, value, boolean)
	if err != nil {
		return b.fail(err)
	}
	b.havings = append(b.havings, c)
	return b
}

// OrderBy appends an ORDER BY column with direction "asc" or "desc".
func (b *Builder) OrderBy(column, direction string) *Builder {
	dir := strings.ToUpper(strings.TrimSpace(direction))
	if dir == "" {
		dir = "ASC"
	}
	if dir != "ASC" && dir != "DESC" {
		return b.fail(fmt.Errorf("%w: %q", ErrInvalidDirection, direction))
	}
	b.orders = append(b.orders, order{column: column, direction: dir})
	return b
}

// OrderByDesc appends a descending ORDER BY column.
func (b *Builder) OrderByDesc(column string) *Builder {
	return b.OrderBy(column, "DESC")
}

// Latest orders by the given column descending, "created_at" by default.
func (b *Builder) Latest(column ...string) *Builder {
	col := "created_at"
	if len(column) > 0 && column[0] != "" {
		col = column[0]
	}
	return b.OrderByDesc(col)
}

// Limit sets the maximum number of rows. A negative value removes the limit.
func (b *Builder) Limit(n int) *Builder {
	b.limit = max(n, -1)
	return b
}

// Offset sets the number of rows to skip. A negative value removes the offset.
func (b *Builder) Offset(n int) *Builder {
	b.offset = max(n, -1)
	return b
}

// ForUpdate locks the selected rows for update.
func (b *Builder) ForUpdate() *Builder {
	b.lock = LockForUpdate
	return b
}

// SharedLock locks the selected rows in shared mode.
func (b *Builder) SharedLock() *Builder {
	b.lock = LockShared
	return b
}

// Reset clears every clause so the builder can assemble a new statement.
// The connection, table and alias are kept.
func (b *Builder) Reset() *Builder {
	*b = Builder{
		conn:   b.conn,
		logger: b.logger,
		table:  b.table,
		alias:  b.alias,
		limit:  -1,
		offset: -1,
	}
	return b
}

// Err returns the first error recorded while configuring the builder.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// clone returns an independent copy whose clause lists can be modified
// without affecting b.
func (b *Builder) clone() *Builder {
	c := *b
	c.columns = slices.Clone(b.columns)
	c.joins = slices.Clone(b.joins)
	c.wheres = slices.Clone(b.wheres)
	c.groups = slices.Clone(b.groups)
	c.havings = slices.Clone(b.havings)
	c.orders = slices.Clone(b.orders)
	if b.aggregate != nil {
		agg := *b.aggregate
		c.aggregate = &agg
	}
	return &c
}
