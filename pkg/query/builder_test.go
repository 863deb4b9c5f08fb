package query_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frame/pkg/query"
)

func TestBuilder_Select(t *testing.T) {
	t.Parallel()

	db := query.New(newRecorder())

	tests := []struct {
		name     string
		builder  *query.Builder
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "all columns",
			builder: db.Table("users"),
			wantSQL: "SELECT * FROM users",
		},
		{
			name:     "where or where keeps per condition boolean",
			builder:  db.Table("users").Where("age", ">", 18).OrWhere("age", "<", 5),
			wantSQL:  "SELECT * FROM users WHERE age > ? OR age < ?",
			wantArgs: []any{18, 5},
		},
		{
			name: "nested group",
			builder: db.Table("posts").
				Where("published", "=", true).
				WhereNested(func(q *query.Builder) {
					q.Where("author_id", "=", 7).OrWhereRaw("score > ?", 100)
				}),
			wantSQL:  "SELECT * FROM posts WHERE published = ? AND (author_id = ? OR score > ?)",
			wantArgs: []any{true, 7, 100},
		},
		{
			name: "or nested group",
			builder: db.Table("posts").
				Where("draft", "=", false).
				OrWhereNested(func(q *query.Builder) {
					q.Where("author_id", "=", 1).Where("pinned", "=", true)
				}),
			wantSQL:  "SELECT * FROM posts WHERE draft = ? OR (author_id = ? AND pinned = ?)",
			wantArgs: []any{false, 1, true},
		},
		{
			name: "empty nested group is dropped",
			builder: db.Table("posts").
				Where("id", "=", 1).
				WhereNested(func(*query.Builder) {}),
			wantSQL:  "SELECT * FROM posts WHERE id = ?",
			wantArgs: []any{1},
		},
		{
			name: "alias and join",
			builder: db.Table("users").As("u").
				Select("u.id", "p.title").
				Join("posts AS p", "p.user_id", "=", "u.id"),
			wantSQL: "SELECT u.id, p.title FROM users AS u INNER JOIN posts AS p ON p.user_id = u.id",
		},
		{
			name: "left and cross join",
			builder: db.Table("users").
				LeftJoin("profiles", "profiles.user_id", "=", "users.id").
				CrossJoin("settings"),
			wantSQL: "SELECT * FROM users LEFT JOIN profiles ON profiles.user_id = users.id CROSS JOIN settings",
		},
		{
			name: "group by and having",
			builder: db.Table("orders").
				Select("user_id", "COUNT(*) AS total").
				Where("status", "=", "paid").
				GroupBy("user_id").
				Having("COUNT(*)", ">", 3),
			wantSQL:  "SELECT user_id, COUNT(*) AS total FROM orders WHERE status = ? GROUP BY user_id HAVING COUNT(*) > ?",
			wantArgs: []any{"paid", 3},
		},
		{
			name:    "order limit offset",
			builder: db.Table("users").OrderBy("name", "asc").Latest().Limit(5).Offset(10),
			wantSQL: "SELECT * FROM users ORDER BY name ASC, created_at DESC LIMIT 5 OFFSET 10",
		},
		{
			name:    "distinct",
			builder: db.Table("users").Distinct().Select("email"),
			wantSQL: "SELECT DISTINCT email FROM users",
		},
		{
			name:     "lock for update",
			builder:  db.Table("accounts").Where("id", "=", 1).ForUpdate(),
			wantSQL:  "SELECT * FROM accounts WHERE id = ? FOR UPDATE",
			wantArgs: []any{1},
		},
		{
			name:    "shared lock",
			builder: db.Table("accounts").SharedLock(),
			wantSQL: "SELECT * FROM accounts FOR SHARE",
		},
		{
			name:    "nil value becomes is null",
			builder: db.Table("users").Where("deleted_at", "=", nil).OrWhere("banned_at", "!=", nil),
			wantSQL: "SELECT * FROM users WHERE deleted_at IS NULL OR banned_at IS NOT NULL",
		},
		{
			name:     "in and not in",
			builder:  db.Table("users").WhereIn("id", 1, 2, 3).WhereNotIn("role", "guest"),
			wantSQL:  "SELECT * FROM users WHERE id IN (?, ?, ?) AND role NOT IN (?)",
			wantArgs: []any{1, 2, 3, "guest"},
		},
		{
			name:    "empty in matches nothing",
			builder: db.Table("users").WhereIn("id"),
			wantSQL: "SELECT * FROM users WHERE 0 = 1",
		},
		{
			name:     "between",
			builder:  db.Table("users").WhereBetween("age", 18, 30),
			wantSQL:  "SELECT * FROM users WHERE age BETWEEN ? AND ?",
			wantArgs: []any{18, 30},
		},
		{
			name:     "operator is normalized",
			builder:  db.Table("users").Where("name", "not  like", "a%"),
			wantSQL:  "SELECT * FROM users WHERE name NOT LIKE ?",
			wantArgs: []any{"a%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sql, args, err := tt.builder.Build()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuilder_BindingsFollowPlaceholders(t *testing.T) {
	t.Parallel()

	db := query.New(newRecorder())

	// Clauses are added out of rendering order on purpose.
	b := db.Table("orders").
		Having("SUM(total)", ">=", 500).
		Where("status", "=", "paid").
		Join("users", "users.id", "=", "orders.user_id").
		WhereNested(func(q *query.Builder) {
			q.WhereIn("region", "eu", "us").OrWhereBetween("created_at", "2024-01-01", "2024-12-31")
		}).
		GroupBy("orders.user_id").
		OrWhereRaw("priority = ?", "high")

	sql, args, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT * FROM orders INNER JOIN users ON users.id = orders.user_id"+
			" WHERE status = ? AND (region IN (?, ?) OR created_at BETWEEN ? AND ?) OR priority = ?"+
			" GROUP BY orders.user_id HAVING SUM(total) >= ?",
		sql,
	)
	assert.Equal(t, []any{"paid", "eu", "us", "2024-01-01", "2024-12-31", "high", 500}, args)
	assert.Equal(t, strings.Count(sql, "?"), len(args))
	assert.Equal(t, args, b.Bindings())
}

func TestBuilder_Errors(t *testing.T) {
	t.Parallel()

	db := query.New(newRecorder())

	t.Run("missing table", func(t *testing.T) {
		t.Parallel()
		_, _, err := db.Table("  ").Build()
		require.ErrorIs(t, err, query.ErrNoTable)
	})

	t.Run("invalid operator", func(t *testing.T) {
		t.Parallel()
		b := db.Table("users").Where("id", "; DROP", 1)
		require.ErrorIs(t, b.Err(), query.ErrInvalidOperator)
		_, _, err := b.Build()
		require.ErrorIs(t, err, query.ErrInvalidOperator)
	})

	t.Run("invalid join operator", func(t *testing.T) {
		t.Parallel()
		_, _, err := db.Table("users").Join("posts", "posts.user_id", "==", "users.id").Build()
		require.ErrorIs(t, err, query.ErrInvalidOperator)
	})

	t.Run("invalid direction", func(t *testing.T) {
		t.Parallel()
		_, _, err := db.Table("users").OrderBy("id", "sideways").Build()
		require.ErrorIs(t, err, query.ErrInvalidDirection)
	})

	t.Run("raw placeholder mismatch", func(t *testing.T) {
		t.Parallel()
		_, _, err := db.Table("users").WhereRaw("a = ? AND b = ?", 1).Build()
		require.ErrorIs(t, err, query.ErrBindingMismatch)
	})

	t.Run("nested error propagates", func(t *testing.T) {
		t.Parallel()
		_, _, err := db.Table("users").WhereNested(func(q *query.Builder) {
			q.Where("id", "<=>", 1)
		}).Build()
		require.ErrorIs(t, err, query.ErrInvalidOperator)
	})

	t.Run("first error wins", func(t *testing.T) {
		t.Parallel()
		b := db.Table("users").OrderBy("id", "up").Where("id", "??", 1)
		require.ErrorIs(t, b.Err(), query.ErrInvalidDirection)
	})
}

func TestBuilder_Reset(t *testing.T) {
	t.Parallel()

	db := query.New(newRecorder())
	b := db.Table("users").As("u").
		Select("u.id").
		Where("u.id", "=", 1).
		OrderBy("u.id", "desc").
		Limit(1).
		ForUpdate()

	sql, args, err := b.Reset().Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users AS u", sql)
	assert.Empty(t, args)

	sql, args, err = b.Where("u.email", "=", "a@b.c").Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users AS u WHERE u.email = ?", sql)
	assert.Equal(t, []any{"a@b.c"}, args)
}

func TestBuilder_ToSQL(t *testing.T) {
	t.Parallel()

	db := query.New(newRecorder())
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	sql, err := db.Table("users").
		Where("name", "=", "O'Brien").
		Where("age", ">", 18).
		Where("score", ">", 4.5).
		Where("active", "=", true).
		Where("created_at", "<", at).
		Where("deleted_at", "=", nil).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM users WHERE name = 'O''Brien' AND age > 18 AND score > 4.5"+
			" AND active = TRUE AND created_at < '2024-05-01T12:00:00Z' AND deleted_at IS NULL",
		sql,
	)

	_, err = db.Table("").ToSQL()
	require.ErrorIs(t, err, query.ErrNoTable)
}

func TestInterpolate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a = NULL AND b = ?", query.Interpolate("a = ? AND b = ?", []any{nil}))
	assert.Equal(t, "x IN (1, 'two', FALSE)", query.Interpolate("x IN (?, ?, ?)", []any{1, "two", false}))
}
