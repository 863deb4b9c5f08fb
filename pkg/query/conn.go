package query

import "context"

// Row is a single result row keyed by column name.
type Row = map[string]any

// Conn prepares statements that use positional "?" placeholders.
// Implementations translate placeholders to the driver's native style.
type Conn interface {
	Prepare(ctx context.Context, query string) (Stmt, error)
}

// Stmt is a prepared statement bound positionally at execution time.
type Stmt interface {
	// Exec runs a statement that returns no rows and reports rows affected.
	Exec(ctx context.Context, args ...any) (int64, error)

	// Query fetches all rows.
	Query(ctx context.Context, args ...any) ([]Row, error)

	// Scalar fetches the first column of the first row.
	// Returns ErrNotFound if the statement yields no rows.
	Scalar(ctx context.Context, args ...any) (any, error)

	// Close releases the statement.
	Close(ctx context.Context) error
}

// Tx is a connection bound to an open transaction.
type Tx interface {
	Conn
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxBeginner is a connection able to open transactions.
type TxBeginner interface {
	Conn
	Begin(ctx context.Context) (Tx, error)
}

// Transaction executes fn within a transaction opened on conn.
// If fn returns an error, the transaction is rolled back.
// If fn panics, the transaction is rolled back and the panic is re-raised.
// If fn succeeds, the transaction is committed.
func Transaction(ctx context.Context, conn TxBeginner, fn func(tx Conn) error) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}
