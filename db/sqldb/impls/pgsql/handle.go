package pgsql

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mu-L/prisma1/db/sqldb"
)

type Handle struct {
	Pool *pgxpool.Pool
}

// Ensure pgsql.Handle implements sqldb.Handle interface
var _ sqldb.Handle = (*Handle)(nil)

func (h *Handle) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	tag, err := h.Pool.Exec(ctx, query, args...)
	// NOTE: We can process a DBMS-specific error to produce a better abstracted error
	if err != nil {
		return nil, err
	}
	return &Result{tag: tag}, nil
}

func (h *Handle) QueryRows(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	rows, err := h.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Rows{
		conn:    nil, // pool manages connection, no need to release here
		current: rows,
	}, nil
}

func (h *Handle) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	row := h.Pool.QueryRow(ctx, query, args...)
	return &Row{row: row}
}

func (h *Handle) Prepare(ctx context.Context, query string) (sqldb.PreparedStmt, error) {
	conn, err := h.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	stmtName := newStmtName()
	if _, err = conn.Conn().Prepare(ctx, stmtName, query); err != nil {
		conn.Release()
		return nil, err
	}
	return &PreparedStmt{q: conn, stmtName: stmtName, release: conn.Release}, nil
}

// PrepareKeys - PostgreSQL reports generated keys through RETURNING;
// a `RETURNING id` clause is appended when the rendered SQL lacks one.
func (h *Handle) PrepareKeys(ctx context.Context, query string) (sqldb.KeyedStmt, error) {
	query, err := withReturning(query)
	if err != nil {
		return nil, err
	}
	conn, err := h.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	stmtName := newStmtName()
	if _, err = conn.Conn().Prepare(ctx, stmtName, query); err != nil {
		conn.Release()
		return nil, err
	}
	return &KeyedStmt{q: conn, stmtName: stmtName, release: conn.Release}, nil
}

func newStmtName() string {
	return fmt.Sprintf("stmt_%x", time.Now().UnixNano())
}

// returningClause matches RETURNING as a standalone keyword, not as a
// substring of an identifier like returning_date.
var returningClause = regexp.MustCompile(`(?i)\bRETURNING\b`)

func withReturning(query string) (string, error) {
	trimmed := strings.TrimSpace(query)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "INSERT") {
		return "", fmt.Errorf("generated-key capture requires a single INSERT statement")
	}
	if !returningClause.MatchString(query) {
		query += " RETURNING id"
	}
	return query, nil
}
