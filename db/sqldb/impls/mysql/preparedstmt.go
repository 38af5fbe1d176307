package mysql

import (
	"context"
	"database/sql"

	"github.com/Mu-L/prisma1/db/sqldb"
)

type PreparedStmt struct {
	stmt *sql.Stmt
}

// Ensure mysql.PreparedStmt implements sqldb.PreparedStmt interface
var _ sqldb.PreparedStmt = (*PreparedStmt)(nil)

func (p *PreparedStmt) Query(ctx context.Context, args ...any) (sqldb.Rows, error) {
	rows, err := p.stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (p *PreparedStmt) Exec(ctx context.Context, args ...any) (sqldb.Result, error) {
	result, err := p.stmt.ExecContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	return &Result{result: result}, nil
}

func (p *PreparedStmt) Close() error {
	return p.stmt.Close()
}

// KeyedStmt is an INSERT prepared with generated-key capture.
// MySQL reports the auto-increment id through the driver result, so the
// keys cursor is synthesized from LastInsertId.
type KeyedStmt struct {
	stmt *sql.Stmt
}

// Ensure mysql.KeyedStmt implements sqldb.KeyedStmt interface
var _ sqldb.KeyedStmt = (*KeyedStmt)(nil)

func (p *KeyedStmt) ExecKeys(ctx context.Context, args ...any) (sqldb.Rows, error) {
	result, err := p.stmt.ExecContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &keyRows{id: id}, nil
}

func (p *KeyedStmt) Close() error {
	return p.stmt.Close()
}
