package sqldb

import "context"

type PreparedStmt interface {
	Query(ctx context.Context, args ...any) (Rows, error)
	Exec(ctx context.Context, args ...any) (Result, error)
	Close() error
}

// KeyedStmt is a statement prepared with generated-key capture.
type KeyedStmt interface {
	// ExecKeys executes the statement and returns the generated-keys cursor,
	// never the primary row cursor.
	ExecKeys(ctx context.Context, args ...any) (Rows, error)
	Close() error
}
