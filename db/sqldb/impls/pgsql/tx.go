package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Mu-L/prisma1/db/sqldb"
)

type Tx struct {
	tx pgx.Tx
}

// Ensure pgsql.Tx implements sqldb.Tx
var _ sqldb.Tx = (*Tx)(nil)

func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	tag, err := t.tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Result{tag: tag}, nil
}

func (t *Tx) Query(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Rows{
		conn:    nil, // tx already owns the connection
		current: rows,
	}, nil
}

func (t *Tx) Prepare(ctx context.Context, query string) (sqldb.PreparedStmt, error) {
	stmtName := newStmtName()
	if _, err := t.tx.Conn().Prepare(ctx, stmtName, query); err != nil {
		return nil, err
	}
	return &PreparedStmt{q: t.tx, stmtName: stmtName, release: t.deallocate(stmtName)}, nil
}

func (t *Tx) PrepareKeys(ctx context.Context, query string) (sqldb.KeyedStmt, error) {
	query, err := withReturning(query)
	if err != nil {
		return nil, err
	}
	stmtName := newStmtName()
	if _, err := t.tx.Conn().Prepare(ctx, stmtName, query); err != nil {
		return nil, err
	}
	return &KeyedStmt{q: t.tx, stmtName: stmtName, release: t.deallocate(stmtName)}, nil
}

// deallocate frees a statement prepared on the tx connection; the
// connection outlives the tx, so the name must not linger.
func (t *Tx) deallocate(stmtName string) func() {
	return func() {
		_ = t.tx.Conn().Deallocate(context.Background(), stmtName)
	}
}
