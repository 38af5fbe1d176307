package action

import (
	"context"
	"errors"
	"sync"

	"github.com/Mu-L/prisma1/db/sqldb"
	"github.com/Mu-L/prisma1/locks/keyonlylocks"
)

var ErrKeysLocked = errors.New("action: keys already locked")

// WithLockKeys holds in-process key locks for the duration of one run.
// Contended keys fail fast with ErrKeysLocked; acquired locks are
// released on every exit path.
func WithLockKeys[T any](lockStore *sync.Map, keys []string, a Action[T]) Action[T] {
	return Action[T]{run: func(ctx context.Context, db sqldb.StmtPreparer) (T, error) {
		acquired, ok := keyonlylocks.AcquireLocks(lockStore, keys)
		if !ok {
			var zero T
			return zero, ErrKeysLocked
		}
		defer keyonlylocks.ReleaseLocks(lockStore, acquired)
		return a.Run(ctx, db)
	}}
}
