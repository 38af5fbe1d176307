// Package action turns rendered SQL statements into deferred, composable
// units of work. Building an Action never touches the database; the
// prepare/bind/execute/read sequence only happens when a transaction
// runner (or a bare handle) drives the Action with Run.
package action

import (
	"context"

	"github.com/Mu-L/prisma1/db/sqldb"
)

// Unit is the result of actions that only report success or failure.
type Unit struct{}

// Action is a single deferred unit of work, typed over its result.
// One Run performs at most one statement lifecycle; the prepared
// statement is always released before Run returns.
type Action[T any] struct {
	run func(ctx context.Context, db sqldb.StmtPreparer) (T, error)
}

// Run drives the action against a live connection surface.
// The runner owns sequencing; an Action holds no state between runs.
func (a Action[T]) Run(ctx context.Context, db sqldb.StmtPreparer) (T, error) {
	return a.run(ctx, db)
}

// Pure lifts a plain value into an Action that performs no database work.
func Pure[T any](v T) Action[T] {
	return Action[T]{run: func(_ context.Context, _ sqldb.StmtPreparer) (T, error) {
		return v, nil
	}}
}

// FailWith lifts an error into an always-failing Action.
func FailWith[T any](err error) Action[T] {
	return Action[T]{run: func(_ context.Context, _ sqldb.StmtPreparer) (T, error) {
		var zero T
		return zero, err
	}}
}

// Map transforms the result of an action without touching the database.
func Map[T, U any](a Action[T], f func(T) U) Action[U] {
	return Action[U]{run: func(ctx context.Context, db sqldb.StmtPreparer) (U, error) {
		v, err := a.run(ctx, db)
		if err != nil {
			var zero U
			return zero, err
		}
		return f(v), nil
	}}
}

// Then sequences a dependent action after a. The second action is only
// built once the first result is known, so inserts can feed their
// generated keys into follow-up statements within the same transaction.
func Then[T, U any](a Action[T], f func(T) Action[U]) Action[U] {
	return Action[U]{run: func(ctx context.Context, db sqldb.StmtPreparer) (U, error) {
		v, err := a.run(ctx, db)
		if err != nil {
			var zero U
			return zero, err
		}
		return f(v).run(ctx, db)
	}}
}

// Seq runs unit actions in order, stopping at the first failure.
func Seq(actions ...Action[Unit]) Action[Unit] {
	return Action[Unit]{run: func(ctx context.Context, db sqldb.StmtPreparer) (Unit, error) {
		for _, a := range actions {
			if _, err := a.run(ctx, db); err != nil {
				return Unit{}, err
			}
		}
		return Unit{}, nil
	}}
}

// All runs actions in order and collects their results.
func All[T any](actions ...Action[T]) Action[[]T] {
	return Action[[]T]{run: func(ctx context.Context, db sqldb.StmtPreparer) ([]T, error) {
		results := make([]T, 0, len(actions))
		for _, a := range actions {
			v, err := a.run(ctx, db)
			if err != nil {
				return nil, err
			}
			results = append(results, v)
		}
		return results, nil
	}}
}
