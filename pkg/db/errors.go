package db

import "errors"

var (
	ErrParseConfig       = errors.New("db: failed to parse database configuration")
	ErrOpenConnection    = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed = errors.New("db: healthcheck failed")
	ErrPlaceholders      = errors.New("db: failed to rewrite placeholders")
	ErrSetDialect        = errors.New("db migrator: failed to set dialect")
	ErrApplyMigrations   = errors.New("db migrator: failed to apply migrations")
	ErrRollbackMigration = errors.New("db migrator: failed to roll back migration")
	ErrMigrationStatus   = errors.New("db migrator: failed to read migration status")
)
