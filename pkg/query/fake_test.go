package query_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrymomot/frame/pkg/query"
)

type statement struct {
	SQL  string
	Args []any
}

// recorder is an in-memory query.Conn that records executed statements and
// answers from canned results keyed by SQL prefix.
type recorder struct {
	mu         sync.Mutex
	statements []statement
	rows       map[string][]query.Row
	scalars    map[string]any
	affected   int64
	failWith   error
	committed  bool
	rolledBack bool
}

func newRecorder() *recorder {
	return &recorder{
		rows:    map[string][]query.Row{},
		scalars: map[string]any{},
	}
}

func (r *recorder) Prepare(_ context.Context, sql string) (query.Stmt, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	return &recordedStmt{r: r, sql: sql}, nil
}

func (r *recorder) Begin(context.Context) (query.Tx, error) {
	return &recordedTx{recorder: r}, nil
}

func (r *recorder) record(sql string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = append(r.statements, statement{SQL: sql, Args: args})
}

func (r *recorder) Statements() []statement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]statement(nil), r.statements...)
}

func (r *recorder) lookupRows(sql string) []query.Row {
	for prefix, rows := range r.rows {
		if strings.HasPrefix(sql, prefix) {
			return rows
		}
	}
	return nil
}

func (r *recorder) lookupScalar(sql string) (any, bool) {
	for prefix, v := range r.scalars {
		if strings.HasPrefix(sql, prefix) {
			return v, true
		}
	}
	return nil, false
}

type recordedTx struct {
	*recorder
}

func (t *recordedTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *recordedTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type recordedStmt struct {
	r   *recorder
	sql string
}

func (s *recordedStmt) Exec(_ context.Context, args ...any) (int64, error) {
	s.r.record(s.sql, args)
	return s.r.affected, nil
}

func (s *recordedStmt) Query(_ context.Context, args ...any) ([]query.Row, error) {
	s.r.record(s.sql, args)
	return s.r.lookupRows(s.sql), nil
}

func (s *recordedStmt) Scalar(_ context.Context, args ...any) (any, error) {
	s.r.record(s.sql, args)
	v, ok := s.r.lookupScalar(s.sql)
	if !ok {
		return nil, query.ErrNotFound
	}
	return v, nil
}

func (s *recordedStmt) Close(context.Context) error { return nil }

var errBoom = errors.New("boom")
