package db

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/frame/pkg/query"
)

// querier is the subset of pgxpool.Pool and pgx.Tx the adapter needs.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Conn adapts a pgx pool to query.Conn. It rewrites "?" placeholders to
// PostgreSQL's "$n" and relies on pgx's statement cache for preparation.
type Conn struct {
	q    querier
	pool *pgxpool.Pool
}

var (
	_ query.TxBeginner = (*Conn)(nil)
	_ query.Tx         = (*txConn)(nil)
)

// NewConn wraps pool.
func NewConn(pool *pgxpool.Pool) *Conn {
	return &Conn{q: pool, pool: pool}
}

// Prepare implements query.Conn.
func (c *Conn) Prepare(_ context.Context, sql string) (query.Stmt, error) {
	return prepare(c.q, sql)
}

// Begin implements query.TxBeginner.
func (c *Conn) Begin(ctx context.Context) (query.Tx, error) {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &txConn{tx: tx}, nil
}

// WithTx runs fn inside a pgx transaction on pool.
// If fn returns an error, the transaction is rolled back.
// If fn panics, the transaction is rolled back and the panic is re-raised.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx *query.DB) error) error {
	return query.New(NewConn(pool)).Transaction(ctx, fn)
}

type txConn struct {
	tx pgx.Tx
}

func (t *txConn) Prepare(_ context.Context, sql string) (query.Stmt, error) {
	return prepare(t.tx, sql)
}

func (t *txConn) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *txConn) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

func prepare(q querier, sql string) (query.Stmt, error) {
	rewritten, err := sq.Dollar.ReplacePlaceholders(sql)
	if err != nil {
		return nil, errors.Join(ErrPlaceholders, err)
	}
	return &stmt{q: q, sql: rewritten}, nil
}

type stmt struct {
	q   querier
	sql string
}

func (s *stmt) Exec(ctx context.Context, args ...any) (int64, error) {
	tag, err := s.q.Exec(ctx, s.sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *stmt) Query(ctx context.Context, args ...any) ([]query.Row, error) {
	rows, err := s.q.Query(ctx, s.sql, args...)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	for _, row := range out {
		for k, v := range row {
			row[k] = normalize(v)
		}
	}
	return out, nil
}

func (s *stmt) Scalar(ctx context.Context, args ...any) (any, error) {
	rows, err := s.q.Query(ctx, s.sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, query.ErrNotFound
	}
	vals, err := rows.Values()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, query.ErrNotFound
	}
	return normalize(vals[0]), nil
}

func (s *stmt) Close(context.Context) error { return nil }

// normalize converts pgx wire types without a natural Go value into ones
// that render and serialize predictably.
func normalize(v any) any {
	switch x := v.(type) {
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(x).String()
	default:
		return v
	}
}
