package sqldb

import "context"

// StmtPreparer is the live-connection surface a deferred action runs against.
// Both Handle (auto-commit) and Tx (transaction-scoped) satisfy it.
type StmtPreparer interface {
	// Prepare creates a statement without generated-key capture.
	Prepare(ctx context.Context, query string) (PreparedStmt, error)

	// PrepareKeys creates a statement with generated-key capture enabled.
	// Use only for single INSERT statements whose keys must be read back.
	PrepareKeys(ctx context.Context, query string) (KeyedStmt, error)
}

type Handle interface {
	StmtPreparer

	// Exec executes SQL statement like INSERT, UPDATE, DELETE.
	Exec(ctx context.Context, query string, args ...any) (Result, error)

	QueryRows(ctx context.Context, query string, args ...any) (Rows, error) // Eager. Fail upfront on statement execution
	QueryRow(ctx context.Context, query string, args ...any) Row            // Lazy. only fails at Scan()
}
