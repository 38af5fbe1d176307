package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Mu-L/prisma1/db/sqldb"
)

// queryer is satisfied by *pgxpool.Conn and pgx.Tx, so prepared
// statements execute on whichever surface prepared them.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PreparedStmt struct {
	q        queryer
	stmtName string
	release  func()
}

// Ensure pgsql.PreparedStmt implements sqldb.PreparedStmt interface
var _ sqldb.PreparedStmt = (*PreparedStmt)(nil)

func (p *PreparedStmt) Query(ctx context.Context, args ...any) (sqldb.Rows, error) {
	rows, err := p.q.Query(ctx, p.stmtName, args...)
	if err != nil {
		return nil, err
	}
	return &Rows{current: rows}, nil
}

func (p *PreparedStmt) Exec(ctx context.Context, args ...any) (sqldb.Result, error) {
	tag, err := p.q.Exec(ctx, p.stmtName, args...)
	if err != nil {
		return nil, err
	}
	return &Result{tag: tag}, nil
}

func (p *PreparedStmt) Close() error {
	if p.release != nil {
		p.release()
	}
	return nil
}

// KeyedStmt is an INSERT ... RETURNING prepared with generated-key
// capture. The returned rows are the generated-keys cursor.
type KeyedStmt struct {
	q        queryer
	stmtName string
	release  func()
}

// Ensure pgsql.KeyedStmt implements sqldb.KeyedStmt interface
var _ sqldb.KeyedStmt = (*KeyedStmt)(nil)

func (p *KeyedStmt) ExecKeys(ctx context.Context, args ...any) (sqldb.Rows, error) {
	rows, err := p.q.Query(ctx, p.stmtName, args...)
	if err != nil {
		return nil, err
	}
	return &Rows{current: rows}, nil
}

func (p *KeyedStmt) Close() error {
	if p.release != nil {
		p.release()
	}
	return nil
}
