package action

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Mu-L/prisma1/db/kvdb"
	"github.com/Mu-L/prisma1/db/sqldb"
)

// Cached memoizes a read-only action's result in a key-value store as
// JSON. A cache hit skips the statement lifecycle entirely and slides
// the entry's expiration forward by ttl; misses, store failures and
// unreadable entries fall through to the wrapped action. Cache write
// failures are logged, not propagated: the database result is already
// valid. Do not wrap mutating actions.
func Cached[T any](kv kvdb.Client, key string, ttl time.Duration, a Action[T]) Action[T] {
	return Action[T]{run: func(ctx context.Context, db sqldb.StmtPreparer) (T, error) {
		var zero T
		raw, found, err := kv.Get(ctx, key)
		if err != nil {
			log.Printf("[WARN] cache get failed for %q: %v", key, err)
		} else if found {
			var v T
			if err := json.Unmarshal([]byte(raw), &v); err == nil {
				if _, err := kv.Expire(ctx, key, ttl); err != nil {
					log.Printf("[WARN] cache ttl refresh failed for %q: %v", key, err)
				}
				return v, nil
			}
			// stale or corrupt entry, fall through to the database
		}
		v, err := a.Run(ctx, db)
		if err != nil {
			return zero, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			log.Printf("[WARN] cache marshal failed for %q: %v", key, err)
			return v, nil
		}
		if err := kv.Set(ctx, key, string(data), ttl); err != nil {
			log.Printf("[WARN] cache set failed for %q: %v", key, err)
		}
		return v, nil
	}}
}

// Invalidate drops a cached entry. Pair with mutating actions whose
// statements change rows a Cached action reads.
func Invalidate[T any](kv kvdb.Client, key string, a Action[T]) Action[T] {
	return Action[T]{run: func(ctx context.Context, db sqldb.StmtPreparer) (T, error) {
		v, err := a.Run(ctx, db)
		if err != nil {
			var zero T
			return zero, err
		}
		if _, err := kv.Delete(ctx, key); err != nil {
			log.Printf("[WARN] cache invalidate failed for %q: %v", key, err)
		}
		return v, nil
	}}
}
