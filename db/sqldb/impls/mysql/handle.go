package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Mu-L/prisma1/db/sqldb"
)

type Handle struct {
	DB *sql.DB
}

// Ensure mysql.Handle implements sqldb.Handle interface
var _ sqldb.Handle = (*Handle)(nil)

func (h *Handle) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	result, err := h.DB.ExecContext(ctx, query, args...)
	// NOTE: We can process a DBMS-specific error to produce a better abstracted error
	if err != nil {
		return nil, err
	}
	return &Result{result: result}, nil
}

func (h *Handle) QueryRows(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	rows, err := h.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (h *Handle) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	row := h.DB.QueryRowContext(ctx, query, args...)
	return &Row{row: row}
}

func (h *Handle) Prepare(ctx context.Context, query string) (sqldb.PreparedStmt, error) {
	stmt, err := h.DB.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &PreparedStmt{stmt: stmt}, nil
}

// PrepareKeys - Single INSERT statement, placeholders only
// to guarantee the generated-keys cursor works for auto-increment `id`
func (h *Handle) PrepareKeys(ctx context.Context, query string) (sqldb.KeyedStmt, error) {
	if err := requireInsert(query); err != nil {
		return nil, err
	}
	stmt, err := h.DB.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &KeyedStmt{stmt: stmt}, nil
}

func requireInsert(query string) error {
	trimmed := strings.TrimSpace(query)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "INSERT") {
		return fmt.Errorf("generated-key capture requires a single INSERT statement")
	}
	return nil
}
