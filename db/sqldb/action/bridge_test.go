package action

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/Mu-L/prisma1/db/sqldb"
)

// fakeRows is an in-memory cursor. Supports *int64 and *string targets.
type fakeRows struct {
	values [][]any
	pos    int
	closed int
	err    error
}

var _ sqldb.Rows = (*fakeRows)(nil)

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.values[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan targets %d != columns %d", len(dest), len(row))
	}
	for i, d := range dest {
		switch t := d.(type) {
		case *int64:
			*t = row[i].(int64)
		case *string:
			*t = row[i].(string)
		case sql.Scanner:
			if err := t.Scan(row[i]); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported scan target %T", d)
		}
	}
	return nil
}

func (r *fakeRows) Close() error {
	r.closed++
	return nil
}

func (r *fakeRows) Err() error { return r.err }

type fakeResult struct {
	affected int64
}

func (r *fakeResult) RowsAffected() (int64, error) { return r.affected, nil }
func (r *fakeResult) LastInsertId() (int64, error) { return 0, nil }

type fakeStmt struct {
	rows     *fakeRows
	result   *fakeResult
	queryErr error
	execErr  error

	gotArgs    []any
	queryCalls int
	execCalls  int
	closed     int
}

var _ sqldb.PreparedStmt = (*fakeStmt)(nil)

func (s *fakeStmt) Query(_ context.Context, args ...any) (sqldb.Rows, error) {
	s.queryCalls++
	s.gotArgs = args
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.rows, nil
}

func (s *fakeStmt) Exec(_ context.Context, args ...any) (sqldb.Result, error) {
	s.execCalls++
	s.gotArgs = args
	if s.execErr != nil {
		return nil, s.execErr
	}
	if s.result == nil {
		return &fakeResult{}, nil
	}
	return s.result, nil
}

func (s *fakeStmt) Close() error {
	s.closed++
	return nil
}

type fakeKeyedStmt struct {
	keys    *fakeRows
	execErr error

	gotArgs   []any
	execCalls int
	closed    int
}

var _ sqldb.KeyedStmt = (*fakeKeyedStmt)(nil)

func (s *fakeKeyedStmt) ExecKeys(_ context.Context, args ...any) (sqldb.Rows, error) {
	s.execCalls++
	s.gotArgs = args
	if s.execErr != nil {
		return nil, s.execErr
	}
	return s.keys, nil
}

func (s *fakeKeyedStmt) Close() error {
	s.closed++
	return nil
}

// fakeConn is the live connection context, counting prepare calls.
type fakeConn struct {
	stmt  *fakeStmt
	keyed *fakeKeyedStmt

	prepareErr       error
	prepareCalls     int
	prepareKeysCalls int
	lastSQL          string
}

var _ sqldb.StmtPreparer = (*fakeConn)(nil)

func (c *fakeConn) Prepare(_ context.Context, query string) (sqldb.PreparedStmt, error) {
	c.prepareCalls++
	c.lastSQL = query
	if c.prepareErr != nil {
		return nil, c.prepareErr
	}
	return c.stmt, nil
}

func (c *fakeConn) PrepareKeys(_ context.Context, query string) (sqldb.KeyedStmt, error) {
	c.prepareKeysCalls++
	c.lastSQL = query
	if c.prepareErr != nil {
		return nil, c.prepareErr
	}
	return c.keyed, nil
}

func bindValues(values ...any) Binder {
	return func(p *Params) error {
		p.Bind(values...)
		return nil
	}
}

func TestInsertWithKeysReadsGeneratedKey(t *testing.T) {
	conn := &fakeConn{keyed: &fakeKeyedStmt{keys: &fakeRows{values: [][]any{{int64(7)}}}}}
	a := ToInsertWithKeys(sqldb.Stmt("INSERT INTO t(a) VALUES (?)"), bindValues(42), ReadFirstKey)

	got, err := a.Run(context.Background(), conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Errorf("generated key = %d, want 7", got)
	}
	if conn.prepareKeysCalls != 1 || conn.prepareCalls != 0 {
		t.Errorf("prepare calls = (keys:%d, plain:%d), want (1, 0)", conn.prepareKeysCalls, conn.prepareCalls)
	}
	if conn.keyed.closed != 1 {
		t.Errorf("stmt closed %d times, want 1", conn.keyed.closed)
	}
	if len(conn.keyed.gotArgs) != 1 || conn.keyed.gotArgs[0] != 42 {
		t.Errorf("bound args = %v, want [42]", conn.keyed.gotArgs)
	}
}

func TestDeleteExecFailureStillReleases(t *testing.T) {
	constraintErr := errors.New("FOREIGN KEY constraint failed")
	conn := &fakeConn{stmt: &fakeStmt{execErr: constraintErr}}
	a := ToDelete(sqldb.Stmt("DELETE FROM t WHERE id = ?"), bindValues("abc"))

	_, err := a.Run(context.Background(), conn)
	var stmtErr *StmtError
	if !errors.As(err, &stmtErr) {
		t.Fatalf("error %v is not a *StmtError", err)
	}
	if stmtErr.Phase != PhaseExecute {
		t.Errorf("phase = %s, want %s", stmtErr.Phase, PhaseExecute)
	}
	if !errors.Is(err, constraintErr) {
		t.Errorf("driver error not wrapped: %v", err)
	}
	if conn.stmt.closed != 1 {
		t.Errorf("stmt closed %d times, want 1", conn.stmt.closed)
	}
}

func TestTruncateNoBinder(t *testing.T) {
	conn := &fakeConn{stmt: &fakeStmt{}}
	a := ToTruncate(sqldb.Stmt("TRUNCATE TABLE t"))

	if _, err := a.Run(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.prepareCalls != 1 || conn.prepareKeysCalls != 0 {
		t.Errorf("prepare calls = (plain:%d, keys:%d), want (1, 0)", conn.prepareCalls, conn.prepareKeysCalls)
	}
	if conn.stmt.execCalls != 1 {
		t.Errorf("exec calls = %d, want 1", conn.stmt.execCalls)
	}
	if len(conn.stmt.gotArgs) != 0 {
		t.Errorf("bound args = %v, want none", conn.stmt.gotArgs)
	}
	if conn.stmt.closed != 1 {
		t.Errorf("stmt closed %d times, want 1", conn.stmt.closed)
	}
}

func TestTruncateTableRendersIdentifier(t *testing.T) {
	conn := &fakeConn{stmt: &fakeStmt{}}
	a := TruncateTable(sqldb.NewColumnOrPanic("t"))

	if _, err := a.Run(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.lastSQL != "TRUNCATE TABLE t" {
		t.Errorf("rendered SQL = %q", conn.lastSQL)
	}
}

func TestQueryReaderGetsRowCursor(t *testing.T) {
	rows := &fakeRows{values: [][]any{{int64(1), "one"}, {int64(2), "two"}}}
	conn := &fakeConn{stmt: &fakeStmt{rows: rows}}

	var seen sqldb.Rows
	a := ToQuery(sqldb.Stmt("SELECT id, name FROM t"), nil, func(r sqldb.Rows) (int, error) {
		seen = r
		n := 0
		for r.Next() {
			n++
		}
		return n, r.Err()
	})

	got, err := a.Run(context.Background(), conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Errorf("row count = %d, want 2", got)
	}
	if seen != sqldb.Rows(rows) {
		t.Error("reader did not receive the statement's row cursor")
	}
	if rows.closed != 1 {
		t.Errorf("rows closed %d times, want 1", rows.closed)
	}
	if conn.stmt.closed != 1 {
		t.Errorf("stmt closed %d times, want 1", conn.stmt.closed)
	}
}

func TestBindErrorAbortsBeforeExecute(t *testing.T) {
	bindErr := errors.New("unsupported value")
	conn := &fakeConn{stmt: &fakeStmt{}}
	a := ToInsert(sqldb.Stmt("INSERT INTO t(a) VALUES (?)"), func(_ *Params) error {
		return bindErr
	})

	_, err := a.Run(context.Background(), conn)
	var stmtErr *StmtError
	if !errors.As(err, &stmtErr) || stmtErr.Phase != PhaseBind {
		t.Fatalf("error = %v, want BIND phase StmtError", err)
	}
	if conn.stmt.execCalls != 0 {
		t.Errorf("exec ran %d times after bind failure, want 0", conn.stmt.execCalls)
	}
	if conn.stmt.closed != 1 {
		t.Errorf("stmt closed %d times, want 1", conn.stmt.closed)
	}
}

func TestPrepareErrorPhase(t *testing.T) {
	prepErr := errors.New("syntax error")
	conn := &fakeConn{prepareErr: prepErr}
	a := ToUpdate(sqldb.Stmt("UPDTAE t SET a = ?"), bindValues(1))

	_, err := a.Run(context.Background(), conn)
	var stmtErr *StmtError
	if !errors.As(err, &stmtErr) || stmtErr.Phase != PhasePrepare {
		t.Fatalf("error = %v, want PREPARE phase StmtError", err)
	}
	if !errors.Is(err, prepErr) {
		t.Errorf("driver error not wrapped: %v", err)
	}
}

func TestReadErrorStillReleases(t *testing.T) {
	readErr := errors.New("bad cursor")
	rows := &fakeRows{values: [][]any{{int64(1)}}}
	conn := &fakeConn{stmt: &fakeStmt{rows: rows}}
	a := ToQuery(sqldb.Stmt("SELECT id FROM t"), nil, func(_ sqldb.Rows) (int, error) {
		return 0, readErr
	})

	_, err := a.Run(context.Background(), conn)
	var stmtErr *StmtError
	if !errors.As(err, &stmtErr) || stmtErr.Phase != PhaseRead {
		t.Fatalf("error = %v, want READ phase StmtError", err)
	}
	if rows.closed != 1 {
		t.Errorf("rows closed %d times, want 1", rows.closed)
	}
	if conn.stmt.closed != 1 {
		t.Errorf("stmt closed %d times, want 1", conn.stmt.closed)
	}
}

func TestBinderPreservesOrder(t *testing.T) {
	conn := &fakeConn{stmt: &fakeStmt{}}
	a := ToInsert(sqldb.Stmt("INSERT INTO t(a, b, c) VALUES (?, ?, ?)"), func(p *Params) error {
		p.Bind("first")
		p.Bind(2, 3.0)
		return nil
	})

	if _, err := a.Run(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []any{"first", 2, 3.0}
	if len(conn.stmt.gotArgs) != len(want) {
		t.Fatalf("bound %d args, want %d", len(conn.stmt.gotArgs), len(want))
	}
	for i := range want {
		if conn.stmt.gotArgs[i] != want[i] {
			t.Errorf("arg[%d] = %v, want %v", i, conn.stmt.gotArgs[i], want[i])
		}
	}
}

func TestUpdateCountReadsRowsAffected(t *testing.T) {
	conn := &fakeConn{stmt: &fakeStmt{result: &fakeResult{affected: 3}}}
	a := ToUpdateCount(sqldb.Stmt("UPDATE t SET a = ? WHERE b = ?"), bindValues(1, 2))

	got, err := a.Run(context.Background(), conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3 {
		t.Errorf("affected = %d, want 3", got)
	}
	if conn.stmt.closed != 1 {
		t.Errorf("stmt closed %d times, want 1", conn.stmt.closed)
	}
}

func TestPlainModesNeverRequestKeys(t *testing.T) {
	cases := []struct {
		name  string
		build func() Action[Unit]
	}{
		{"insert", func() Action[Unit] { return ToInsert(sqldb.Stmt("INSERT INTO t(a) VALUES (?)"), bindValues(1)) }},
		{"update", func() Action[Unit] { return ToUpdate(sqldb.Stmt("UPDATE t SET a = ?"), bindValues(1)) }},
		{"delete", func() Action[Unit] { return ToDelete(sqldb.Stmt("DELETE FROM t WHERE a = ?"), bindValues(1)) }},
		{"truncate", func() Action[Unit] { return ToTruncate(sqldb.Stmt("TRUNCATE TABLE t")) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conn := &fakeConn{stmt: &fakeStmt{}}
			if _, err := tc.build().Run(context.Background(), conn); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if conn.prepareKeysCalls != 0 {
				t.Errorf("prepareKeys called %d times, want 0", conn.prepareKeysCalls)
			}
			if conn.prepareCalls != 1 {
				t.Errorf("prepare called %d times, want 1", conn.prepareCalls)
			}
		})
	}
}

func TestConstructionIsDeferred(t *testing.T) {
	conn := &fakeConn{stmt: &fakeStmt{}}
	_ = ToInsert(sqldb.Stmt("INSERT INTO t(a) VALUES (?)"), bindValues(1))
	if conn.prepareCalls != 0 || conn.prepareKeysCalls != 0 {
		t.Error("building an action touched the connection")
	}
}
