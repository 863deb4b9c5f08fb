// Package query provides a fluent SQL statement builder with positional
// parameter binding.
//
// A [Builder] is created per logical query from a [DB], configured through
// chained calls and consumed by one terminal call (Get, First, Insert,
// Update, Delete, an aggregate, Paginate or ToSQL). Values never appear in
// the SQL text: every value becomes a "?" placeholder and the bindings are
// returned in exactly the order their placeholders are emitted.
//
// # Usage
//
//	db := query.New(conn, query.WithLogger(log))
//
//	rows, err := db.Table("users").
//		Select("id", "name").
//		Where("age", ">", 18).
//		OrWhere("age", "<", 5).
//		OrderBy("name", "asc").
//		Get(ctx)
//	// SELECT id, name FROM users WHERE age > ? OR age < ? ORDER BY name ASC
//	// bindings: [18 5]
//
// # Nested and raw conditions
//
//	db.Table("posts").
//		Where("published", "=", true).
//		WhereNested(func(q *query.Builder) {
//			q.Where("author_id", "=", 7).OrWhereRaw("score > ?", 100)
//		})
//	// ... WHERE published = ? AND (author_id = ? OR score > ?)
//
// # Mutation guards
//
// Update and Delete refuse to run without at least one WHERE condition and
// return [ErrGuardViolation] without touching the connection.
//
// # Connections
//
// The package only depends on the [Conn] interface. Placeholders are always
// "?"; adapters such as the pgx one in pkg/db rewrite them to the driver's
// native style.
package query
