package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frame/pkg/query"
)

func TestBuilder_Get(t *testing.T) {
	t.Parallel()

	conn := newRecorder()
	conn.rows["SELECT id, name FROM users"] = []query.Row{
		{"id": int64(1), "name": "Ann"},
		{"id": int64(2), "name": "Bob"},
	}
	db := query.New(conn)

	rows, err := db.Table("users").Select("id", "name").Where("active", "=", true).Get(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bob", rows[1]["name"])

	stmts := conn.Statements()
	require.Len(t, stmts, 1)
	assert.Equal(t, "SELECT id, name FROM users WHERE active = ?", stmts[0].SQL)
	assert.Equal(t, []any{true}, stmts[0].Args)
}

func TestBuilder_First(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		conn.rows["SELECT * FROM users"] = []query.Row{{"id": int64(7)}}
		db := query.New(conn)

		row, err := db.Table("users").Find(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), row["id"])

		stmts := conn.Statements()
		require.Len(t, stmts, 1)
		assert.Equal(t, "SELECT * FROM users WHERE id = ? LIMIT 1", stmts[0].SQL)
		assert.Equal(t, []any{7}, stmts[0].Args)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		db := query.New(newRecorder())
		_, err := db.Table("users").Where("id", "=", 1).First(context.Background())
		require.ErrorIs(t, err, query.ErrNotFound)
	})

	t.Run("does not modify builder", func(t *testing.T) {
		t.Parallel()

		db := query.New(newRecorder())
		b := db.Table("users")
		_, _ = b.First(context.Background())

		sql, _, err := b.Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM users", sql)
	})
}

func TestBuilder_ExistsAndPluck(t *testing.T) {
	t.Parallel()

	conn := newRecorder()
	conn.rows["SELECT 1 FROM users"] = []query.Row{{"?column?": int32(1)}}
	conn.rows["SELECT email FROM users"] = []query.Row{{"email": "a@x.io"}, {"email": "b@x.io"}}
	db := query.New(conn)
	ctx := context.Background()

	ok, err := db.Table("users").Where("email", "=", "a@x.io").Exists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	emails, err := db.Table("users").Pluck(ctx, "email")
	require.NoError(t, err)
	assert.Equal(t, []any{"a@x.io", "b@x.io"}, emails)

	stmts := conn.Statements()
	require.Len(t, stmts, 2)
	assert.Equal(t, "SELECT 1 FROM users WHERE email = ? LIMIT 1", stmts[0].SQL)
}

func TestBuilder_Aggregates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("count ignores order and limit", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		conn.scalars["SELECT COUNT(*)"] = int64(12)
		db := query.New(conn)

		n, err := db.Table("users").Select("id", "name").Where("age", ">", 18).OrderBy("id", "asc").Limit(3).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(12), n)

		stmts := conn.Statements()
		require.Len(t, stmts, 1)
		assert.Equal(t, "SELECT COUNT(*) AS aggregate FROM users WHERE age > ?", stmts[0].SQL)
		assert.Equal(t, []any{18}, stmts[0].Args)
	})

	t.Run("count over distinct wraps subquery", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		conn.scalars["SELECT COUNT(*)"] = int64(4)
		db := query.New(conn)

		n, err := db.Table("users").Distinct().Select("email").Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
		assert.Equal(t, "SELECT COUNT(*) AS aggregate FROM (SELECT DISTINCT email FROM users) AS sub", conn.Statements()[0].SQL)
	})

	t.Run("sum avg min max", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		conn.scalars["SELECT SUM(total)"] = "150.50"
		conn.scalars["SELECT AVG(total)"] = float64(37.625)
		conn.scalars["SELECT MIN(total)"] = int64(10)
		conn.scalars["SELECT MAX(total)"] = int64(90)
		db := query.New(conn)

		sum, err := db.Table("orders").Sum(ctx, "total")
		require.NoError(t, err)
		assert.InDelta(t, 150.5, sum, 0.0001)

		avg, err := db.Table("orders").Avg(ctx, "total")
		require.NoError(t, err)
		assert.InDelta(t, 37.625, avg, 0.0001)

		low, err := db.Table("orders").Min(ctx, "total")
		require.NoError(t, err)
		assert.Equal(t, int64(10), low)

		high, err := db.Table("orders").Max(ctx, "total")
		require.NoError(t, err)
		assert.Equal(t, int64(90), high)
	})

	t.Run("no rows yields zero", func(t *testing.T) {
		t.Parallel()

		db := query.New(newRecorder())
		sum, err := db.Table("orders").Sum(ctx, "total")
		require.NoError(t, err)
		assert.Zero(t, sum)

		high, err := db.Table("orders").Max(ctx, "total")
		require.NoError(t, err)
		assert.Nil(t, high)
	})
}

func TestBuilder_Paginate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("second page issues data and count statements", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		conn.rows["SELECT * FROM users"] = []query.Row{{"id": int64(11)}, {"id": int64(12)}}
		conn.scalars["SELECT COUNT(*)"] = int64(25)
		db := query.New(conn)

		page, err := db.Table("users").Where("active", "=", true).OrderBy("id", "asc").Paginate(ctx, 10, 2)
		require.NoError(t, err)

		stmts := conn.Statements()
		require.Len(t, stmts, 2)
		assert.Equal(t, "SELECT * FROM users WHERE active = ? ORDER BY id ASC LIMIT 10 OFFSET 10", stmts[0].SQL)
		assert.Equal(t, []any{true}, stmts[0].Args)
		assert.Equal(t, "SELECT COUNT(*) AS aggregate FROM users WHERE active = ?", stmts[1].SQL)
		assert.Equal(t, []any{true}, stmts[1].Args)

		assert.Len(t, page.Items, 2)
		assert.Equal(t, int64(25), page.Total)
		assert.Equal(t, 10, page.PerPage)
		assert.Equal(t, 2, page.CurrentPage)
		assert.Equal(t, 3, page.LastPage)
	})

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		conn.scalars["SELECT COUNT(*)"] = int64(0)
		db := query.New(conn)

		page, err := db.Table("users").Paginate(ctx, 10, 1)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Zero(t, page.Total)
		assert.Zero(t, page.LastPage)
	})

	t.Run("exact multiple", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		conn.scalars["SELECT COUNT(*)"] = int64(20)
		db := query.New(conn)

		page, err := db.Table("users").Paginate(ctx, 10, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, page.LastPage)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		db := query.New(conn)

		_, err := db.Table("users").Paginate(ctx, 0, 1)
		require.ErrorIs(t, err, query.ErrInvalidPage)
		_, err = db.Table("users").Paginate(ctx, 10, 0)
		require.ErrorIs(t, err, query.ErrInvalidPage)
		assert.Empty(t, conn.Statements())
	})
}

func TestBuilder_Insert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("columns are sorted", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		conn.affected = 1
		db := query.New(conn)

		n, err := db.Table("users").Insert(ctx, query.Values{
			"name":       "Ann",
			"email":      "ann@x.io",
			"created_at": query.Raw("NOW()"),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		stmts := conn.Statements()
		require.Len(t, stmts, 1)
		assert.Equal(t, "INSERT INTO users (created_at, email, name) VALUES (NOW(), ?, ?)", stmts[0].SQL)
		assert.Equal(t, []any{"ann@x.io", "Ann"}, stmts[0].Args)
	})

	t.Run("returning", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		conn.scalars["INSERT INTO users"] = int64(42)
		db := query.New(conn)

		id, err := db.Table("users").InsertReturning(ctx, query.Values{"name": "Bob"}, "id")
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
		assert.Equal(t, "INSERT INTO users (name) VALUES (?) RETURNING id", conn.Statements()[0].SQL)
	})

	t.Run("no values", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		_, err := query.New(conn).Table("users").Insert(ctx, nil)
		require.ErrorIs(t, err, query.ErrNoValues)
		assert.Empty(t, conn.Statements())
	})
}

func TestBuilder_Update(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set bindings precede where bindings", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		conn.affected = 1
		db := query.New(conn)

		n, err := db.Table("users").
			Where("id", "=", 7).
			Update(ctx, query.Values{"name": "x", "visits": query.Raw("visits + 1")})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		stmts := conn.Statements()
		require.Len(t, stmts, 1)
		assert.Equal(t, "UPDATE users SET name = ?, visits = visits + 1 WHERE id = ?", stmts[0].SQL)
		assert.Equal(t, []any{"x", 7}, stmts[0].Args)
	})

	t.Run("refuses without where", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		_, err := query.New(conn).Table("users").Update(ctx, query.Values{"name": "x"})
		require.ErrorIs(t, err, query.ErrGuardViolation)
		assert.Empty(t, conn.Statements())
	})
}

func TestBuilder_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("with where", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		conn.affected = 3
		n, err := query.New(conn).Table("sessions").Where("expires_at", "<", "2024-01-01").Delete(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.Equal(t, "DELETE FROM sessions WHERE expires_at < ?", conn.Statements()[0].SQL)
	})

	t.Run("refuses without where", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		_, err := query.New(conn).Table("sessions").Delete(ctx)
		require.ErrorIs(t, err, query.ErrGuardViolation)
		assert.Empty(t, conn.Statements())
	})
}

func TestBuilder_StatementFailure(t *testing.T) {
	t.Parallel()

	conn := newRecorder()
	conn.failWith = errBoom

	_, err := query.New(conn).Table("users").Get(context.Background())
	require.ErrorIs(t, err, query.ErrStatementFailed)
	require.ErrorIs(t, err, errBoom)
}

func TestDB_Transaction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		err := query.New(conn).Transaction(ctx, func(tx *query.DB) error {
			_, err := tx.Table("users").Insert(ctx, query.Values{"name": "Ann"})
			return err
		})
		require.NoError(t, err)
		assert.True(t, conn.committed)
		assert.False(t, conn.rolledBack)
		assert.Len(t, conn.Statements(), 1)
	})

	t.Run("rollback on error", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		err := query.New(conn).Transaction(ctx, func(*query.DB) error {
			return errBoom
		})
		require.ErrorIs(t, err, errBoom)
		assert.False(t, conn.committed)
		assert.True(t, conn.rolledBack)
	})

	t.Run("rollback on panic", func(t *testing.T) {
		t.Parallel()

		conn := newRecorder()
		assert.Panics(t, func() {
			_ = query.New(conn).Transaction(ctx, func(*query.DB) error {
				panic("boom")
			})
		})
		assert.True(t, conn.rolledBack)
	})

	t.Run("unsupported connection", func(t *testing.T) {
		t.Parallel()

		err := query.New(plainConn{}).Transaction(ctx, func(*query.DB) error { return nil })
		require.ErrorIs(t, err, query.ErrTxNotSupported)
	})
}

type plainConn struct{}

func (plainConn) Prepare(context.Context, string) (query.Stmt, error) { return nil, errBoom }
