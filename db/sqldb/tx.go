package sqldb

import "context"

// Tx Transaction
// A Tx is also a StmtPreparer, so deferred actions can be driven inside it.
type Tx interface {
	StmtPreparer
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}
