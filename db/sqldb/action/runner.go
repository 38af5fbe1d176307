package action

import (
	"context"
	"fmt"
	"log"

	"github.com/Mu-L/prisma1/db/sqldb"
)

// InTx runs one (possibly composed) action inside a single transaction:
// commit on success, rollback on failure. Retry policy lives here with
// the caller, not in the bridge; only this layer knows whether retrying
// is transactionally safe.
func InTx[T any](ctx context.Context, client sqldb.Client, a Action[T]) (T, error) {
	var zero T
	tx, err := client.BeginTx(ctx)
	if err != nil {
		return zero, fmt.Errorf("begin tx: %w", err)
	}
	v, err := a.Run(ctx, tx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.Printf("[WARN] tx rollback failed: %v", rbErr)
		}
		return zero, err
	}
	if err := tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("commit tx: %w", err)
	}
	return v, nil
}
