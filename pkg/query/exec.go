package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"
)

// Page is one page of results with the totals needed to render pagination.
type Page struct {
	Items       []Row `json:"data"`
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
}

// Get executes the SELECT statement and returns all rows.
func (b *Builder) Get(ctx context.Context) ([]Row, error) {
	sql, args, err := b.Build()
	if err != nil {
		return nil, err
	}

	var rows []Row
	err = b.run(ctx, sql, func(stmt Stmt) error {
		var err error
		rows, err = stmt.Query(ctx, args...)
		return err
	})
	return rows, err
}

// First returns the first matching row.
// Returns ErrNotFound if nothing matches.
func (b *Builder) First(ctx context.Context) (Row, error) {
	rows, err := b.clone().Limit(1).Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// Find returns the row whose "id" column equals id.
func (b *Builder) Find(ctx context.Context, id any) (Row, error) {
	return b.clone().Where("id", "=", id).First(ctx)
}

// Exists reports whether any row matches.
func (b *Builder) Exists(ctx context.Context) (bool, error) {
	rows, err := b.clone().Select("1").Limit(1).Get(ctx)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// Pluck returns the values of a single column across all matching rows.
func (b *Builder) Pluck(ctx context.Context, column string) ([]any, error) {
	rows, err := b.clone().Select(column).Get(ctx)
	if err != nil {
		return nil, err
	}
	key := unqualified(column)
	out := make([]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, row[key])
	}
	return out, nil
}

// Count returns the number of matching rows.
func (b *Builder) Count(ctx context.Context) (int64, error) {
	v, err := b.aggregateValue(ctx, "COUNT", "*")
	if err != nil {
		return 0, err
	}
	return toInt64(v)
}

// Sum returns the sum of column over matching rows; zero for no rows.
func (b *Builder) Sum(ctx context.Context, column string) (float64, error) {
	v, err := b.aggregateValue(ctx, "SUM", column)
	if err != nil {
		return 0, err
	}
	return toFloat64(v)
}

// Avg returns the average of column over matching rows; zero for no rows.
func (b *Builder) Avg(ctx context.Context, column string) (float64, error) {
	v, err := b.aggregateValue(ctx, "AVG", column)
	if err != nil {
		return 0, err
	}
	return toFloat64(v)
}

// Min returns the smallest value of column, or nil for no rows.
func (b *Builder) Min(ctx context.Context, column string) (any, error) {
	return b.aggregateValue(ctx, "MIN", column)
}

// Max returns the largest value of column, or nil for no rows.
func (b *Builder) Max(ctx context.Context, column string) (any, error) {
	return b.aggregateValue(ctx, "MAX", column)
}

func (b *Builder) aggregateValue(ctx context.Context, function, column string) (any, error) {
	q := b.clone()
	q.aggregate = &aggregate{function: function, column: column}

	sql, args, err := q.Build()
	if err != nil {
		return nil, err
	}

	var v any
	err = b.run(ctx, sql, func(stmt Stmt) error {
		var err error
		v, err = stmt.Scalar(ctx, args...)
		if errors.Is(err, ErrNotFound) {
			v, err = nil, nil
		}
		return err
	})
	return v, err
}

// Paginate fetches one page and, with a second independent statement, the
// total number of matching rows.
//
// Example:
//
//	page, err := db.Table("users").OrderBy("id", "asc").Paginate(ctx, 10, 2)
//	// SELECT * FROM users ORDER BY id ASC LIMIT 10 OFFSET 10
//	// SELECT COUNT(*) AS aggregate FROM users
func (b *Builder) Paginate(ctx context.Context, perPage, page int) (*Page, error) {
	if perPage < 1 || page < 1 {
		return nil, fmt.Errorf("%w: per_page=%d page=%d", ErrInvalidPage, perPage, page)
	}

	items, err := b.clone().Limit(perPage).Offset((page - 1) * perPage).Get(ctx)
	if err != nil {
		return nil, err
	}

	counter := b.clone()
	counter.orders = nil
	counter.limit, counter.offset = -1, -1
	total, err := counter.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &Page{
		Items:       items,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    int(math.Ceil(float64(total) / float64(perPage))),
	}, nil
}

// Insert writes one row and returns the number of rows affected.
func (b *Builder) Insert(ctx context.Context, values Values) (int64, error) {
	if err := b.check(); err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, ErrNoValues
	}
	sql, args := b.compileInsert(values)
	return b.exec(ctx, sql, args)
}

// InsertReturning writes one row and returns the value of column from the
// inserted row, typically the generated primary key.
func (b *Builder) InsertReturning(ctx context.Context, values Values, column string) (any, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, ErrNoValues
	}
	sql, args := b.compileInsert(values)
	sql += " RETURNING " + column

	var v any
	err := b.run(ctx, sql, func(stmt Stmt) error {
		var err error
		v, err = stmt.Scalar(ctx, args...)
		return err
	})
	return v, err
}

// Update writes values to every matching row.
// Returns ErrGuardViolation if no WHERE condition was added.
func (b *Builder) Update(ctx context.Context, values Values) (int64, error) {
	if err := b.check(); err != nil {
		return 0, err
	}
	if len(b.wheres) == 0 {
		return 0, ErrGuardViolation
	}
	if len(values) == 0 {
		return 0, ErrNoValues
	}
	sql, args := b.compileUpdate(values)
	return b.exec(ctx, sql, args)
}

// Delete removes every matching row.
// Returns ErrGuardViolation if no WHERE condition was added.
func (b *Builder) Delete(ctx context.Context) (int64, error) {
	if err := b.check(); err != nil {
		return 0, err
	}
	if len(b.wheres) == 0 {
		return 0, ErrGuardViolation
	}
	sql, args := b.compileDelete()
	return b.exec(ctx, sql, args)
}

func (b *Builder) exec(ctx context.Context, sql string, args []any) (int64, error) {
	var affected int64
	err := b.run(ctx, sql, func(stmt Stmt) error {
		var err error
		affected, err = stmt.Exec(ctx, args...)
		return err
	})
	return affected, err
}

// run prepares sql, hands the statement to fn and closes it afterwards.
// Failures are wrapped with ErrStatementFailed and never retried.
func (b *Builder) run(ctx context.Context, sql string, fn func(stmt Stmt) error) error {
	start := time.Now()

	stmt, err := b.conn.Prepare(ctx, sql)
	if err != nil {
		b.logger.ErrorContext(ctx, "prepare failed", slog.String("sql", sql), slog.Any("error", err))
		return errors.Join(ErrStatementFailed, err)
	}
	defer func() { _ = stmt.Close(ctx) }()

	if err := fn(stmt); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		b.logger.ErrorContext(ctx, "statement failed", slog.String("sql", sql), slog.Any("error", err))
		return errors.Join(ErrStatementFailed, err)
	}

	b.logger.DebugContext(ctx, "statement executed",
		slog.String("sql", sql),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("query: cannot convert %T to int64", v)
	}
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case []byte:
		return strconv.ParseFloat(string(n), 64)
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("query: cannot convert %T to float64", v)
	}
}
