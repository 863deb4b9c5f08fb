package query

import "errors"

var (
	// ErrGuardViolation is returned by Update and Delete when no WHERE
	// condition was added. No statement is sent to the connection.
	ErrGuardViolation = errors.New("query: refusing to mutate without a where clause")

	ErrNoTable          = errors.New("query: table not specified")
	ErrNoValues         = errors.New("query: no values to write")
	ErrInvalidOperator  = errors.New("query: invalid operator")
	ErrInvalidDirection = errors.New("query: invalid order direction")
	ErrBindingMismatch  = errors.New("query: placeholder count does not match bindings")
	ErrInvalidPage      = errors.New("query: page and per-page must be positive")
	ErrNotFound         = errors.New("query: no rows in result set")
	ErrStatementFailed  = errors.New("query: statement failed")
	ErrTxNotSupported   = errors.New("query: connection does not support transactions")
)
