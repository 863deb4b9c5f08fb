package query

import (
	"context"
	"io"
	"log/slog"
)

// DB creates builders bound to a single connection.
type DB struct {
	conn   Conn
	logger *slog.Logger
}

// Option configures a DB.
type Option func(*DB)

// WithLogger logs every executed statement at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(db *DB) {
		if l != nil {
			db.logger = l
		}
	}
}

// New creates a DB over the given connection.
func New(conn Conn, opts ...Option) *DB {
	db := &DB{
		conn:   conn,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Conn returns the underlying connection.
func (db *DB) Conn() Conn {
	return db.conn
}

// Table starts a new builder for the given table.
//
// Example:
//
//	users, err := db.Table("users").Where("active", "=", true).Get(ctx)
func (db *DB) Table(name string) *Builder {
	return newBuilder(db.conn, db.logger).Table(name)
}

// Transaction runs fn with a DB bound to a transaction.
// Returns ErrTxNotSupported if the connection cannot begin transactions.
func (db *DB) Transaction(ctx context.Context, fn func(tx *DB) error) error {
	beginner, ok := db.conn.(TxBeginner)
	if !ok {
		return ErrTxNotSupported
	}
	return Transaction(ctx, beginner, func(tx Conn) error {
		return fn(&DB{conn: tx, logger: db.logger})
	})
}
