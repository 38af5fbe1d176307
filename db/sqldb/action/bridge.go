package action

import (
	"context"
	"log"

	"github.com/Mu-L/prisma1/db/sqldb"
)

// Query is a fully rendered SQL statement, as produced by a query builder
// or the raw statement store. The only remaining placeholders are the
// dialect's positional markers.
type Query interface {
	SQL() string
}

// Params is the positional-parameter sink handed to a Binder. Values are
// forwarded to the prepared statement in the exact order they were bound.
type Params struct {
	args []any
}

// Bind appends values to the next parameter slots.
func (p *Params) Bind(values ...any) {
	p.args = append(p.args, values...)
}

// Len returns the number of values bound so far.
func (p *Params) Len() int {
	return len(p.args)
}

// Binder writes parameter values into their slots, in the same order as
// the statement's positional markers. The bridge cannot count markers
// against bound values; that contract is the caller's.
type Binder func(p *Params) error

// Reader extracts a typed result from a cursor: the row cursor for plain
// queries, the generated-keys cursor for ToInsertWithKeys. The cursor is
// closed by the bridge after the Reader returns.
type Reader[T any] func(rows sqldb.Rows) (T, error)

type mode int

const (
	modeQuery mode = iota
	modeInsertKeys
	modeInsert
	modeUpdate
	modeDelete
	modeTruncate
)

// ToQuery defers a row-returning statement. read receives the row cursor.
func ToQuery[T any](q Query, bind Binder, read Reader[T]) Action[T] {
	return runStmt(q, bind, read, modeQuery)
}

// ToInsertWithKeys defers an insert prepared with generated-key capture.
// read receives the generated-keys cursor, never the primary row cursor.
func ToInsertWithKeys[T any](q Query, bind Binder, read Reader[T]) Action[T] {
	return runStmt(q, bind, read, modeInsertKeys)
}

// ToInsert defers an insert, discarding the result.
func ToInsert(q Query, bind Binder) Action[Unit] {
	return runStmt[Unit](q, bind, nil, modeInsert)
}

// ToUpdate defers an update, discarding the affected-row count.
// Use ToUpdateCount when the count matters.
func ToUpdate(q Query, bind Binder) Action[Unit] {
	return runStmt[Unit](q, bind, nil, modeUpdate)
}

// ToDelete defers a delete, discarding the result.
func ToDelete(q Query, bind Binder) Action[Unit] {
	return runStmt[Unit](q, bind, nil, modeDelete)
}

// ToTruncate defers a parameterless truncate.
func ToTruncate(q Query) Action[Unit] {
	return runStmt[Unit](q, nil, nil, modeTruncate)
}

// TruncateTable defers a TRUNCATE of a validated table identifier.
func TruncateTable(table sqldb.Column) Action[Unit] {
	return ToTruncate(sqldb.Stmt("TRUNCATE TABLE " + table.Name()))
}

// ToUpdateCount defers an update and yields the affected-row count.
func ToUpdateCount(q Query, bind Binder) Action[int64] {
	return Action[int64]{run: func(ctx context.Context, db sqldb.StmtPreparer) (int64, error) {
		text := q.SQL()
		stmt, err := db.Prepare(ctx, text)
		if err != nil {
			return 0, &StmtError{Phase: PhasePrepare, SQL: text, Err: err}
		}
		defer closeQuietly(stmt)
		args, err := bindArgs(bind)
		if err != nil {
			return 0, &StmtError{Phase: PhaseBind, SQL: text, Err: err}
		}
		res, err := stmt.Exec(ctx, args...)
		if err != nil {
			return 0, &StmtError{Phase: PhaseExecute, SQL: text, Err: err}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, &StmtError{Phase: PhaseRead, SQL: text, Err: err}
		}
		return n, nil
	}}
}

// runStmt builds the deferred statement lifecycle shared by all modes:
// prepare -> bind -> execute -> read -> release. The statement is
// released on every exit path, exactly once, via defer.
func runStmt[T any](q Query, bind Binder, read Reader[T], m mode) Action[T] {
	return Action[T]{run: func(ctx context.Context, db sqldb.StmtPreparer) (T, error) {
		var zero T
		text := q.SQL()

		if m == modeInsertKeys {
			stmt, err := db.PrepareKeys(ctx, text)
			if err != nil {
				return zero, &StmtError{Phase: PhasePrepare, SQL: text, Err: err}
			}
			defer closeQuietly(stmt)
			args, err := bindArgs(bind)
			if err != nil {
				return zero, &StmtError{Phase: PhaseBind, SQL: text, Err: err}
			}
			keys, err := stmt.ExecKeys(ctx, args...)
			if err != nil {
				return zero, &StmtError{Phase: PhaseExecute, SQL: text, Err: err}
			}
			defer closeQuietly(keys)
			v, err := read(keys)
			if err != nil {
				return zero, &StmtError{Phase: PhaseRead, SQL: text, Err: err}
			}
			return v, nil
		}

		stmt, err := db.Prepare(ctx, text)
		if err != nil {
			return zero, &StmtError{Phase: PhasePrepare, SQL: text, Err: err}
		}
		defer closeQuietly(stmt)
		args, err := bindArgs(bind)
		if err != nil {
			return zero, &StmtError{Phase: PhaseBind, SQL: text, Err: err}
		}

		if m == modeQuery {
			rows, err := stmt.Query(ctx, args...)
			if err != nil {
				return zero, &StmtError{Phase: PhaseExecute, SQL: text, Err: err}
			}
			defer closeQuietly(rows)
			v, err := read(rows)
			if err != nil {
				return zero, &StmtError{Phase: PhaseRead, SQL: text, Err: err}
			}
			return v, nil
		}

		// insert, update, delete, truncate: execute and discard the result
		if _, err := stmt.Exec(ctx, args...); err != nil {
			return zero, &StmtError{Phase: PhaseExecute, SQL: text, Err: err}
		}
		return zero, nil
	}}
}

// bindArgs collects all parameter values in a single pass, before any
// execution call. A nil binder binds nothing.
func bindArgs(bind Binder) ([]any, error) {
	if bind == nil {
		return nil, nil
	}
	var p Params
	if err := bind(&p); err != nil {
		return nil, err
	}
	return p.args, nil
}

func closeQuietly(c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		log.Printf("[WARN] close failed: %v", err)
	}
}
