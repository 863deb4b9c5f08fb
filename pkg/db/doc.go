// Package db connects the query builder to PostgreSQL through pgx.
//
// [Conn] implements [query.Conn] and [query.TxBeginner] over a
// [pgxpool.Pool]: "?" placeholders produced by the builder are rewritten to
// "$1, $2, ..." and rows are collected into maps keyed by column name.
//
// # Usage
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	qdb := query.New(db.NewConn(pool), query.WithLogger(log))
//	users, err := qdb.Table("users").Where("active", "=", true).Get(ctx)
//
// [Open] does both steps and honours Config.LogStatements.
//
// # Migrations
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	sub, _ := fs.Sub(migrations, "migrations")
//	err := db.Migrate(ctx, pool, sub, cfg.MigrationsTable, log)
//
// [Rollback] and [Status] use the same goose setup.
//
// # Configuration
//
//	DB_URL                 - PostgreSQL connection URL (required)
//	DB_MIGRATIONS_DIR      - Migrations directory (default: migrations)
//	DB_MIGRATIONS_TABLE    - Migrations table (default: schema_migrations)
//	DB_MAX_CONNS           - Maximum pool size (default: 10)
//	DB_MIN_CONNS           - Minimum idle connections (default: 2)
//	DB_HEALTHCHECK_PERIOD  - Pool health check interval (default: 1m)
//	DB_MAX_CONN_IDLE_TIME  - Idle connection lifetime (default: 10m)
//	DB_MAX_CONN_LIFETIME   - Connection lifetime (default: 30m)
//	DB_CONNECT_ATTEMPTS    - Startup connection attempts (default: 3)
//	DB_CONNECT_BACKOFF     - Base wait between attempts (default: 2s)
//	DB_LOG_STATEMENTS      - Log statements at debug level (default: false)
package db
