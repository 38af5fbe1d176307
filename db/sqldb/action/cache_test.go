package action

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Mu-L/prisma1/db/kvdb"
	"github.com/Mu-L/prisma1/db/sqldb"
)

// fakeKV satisfies kvdb.Client for the ops the cache combinator touches.
type fakeKV struct {
	kvdb.Client
	store   map[string]string
	ttls    map[string]time.Duration
	setErr  error
	getErr  error
	expErr  error
	deletes int
}

func newFakeKV() *fakeKV {
	return &fakeKV{store: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (kv *fakeKV) Exists(_ context.Context, key string) (bool, error) {
	_, found := kv.store[key]
	return found, nil
}

func (kv *fakeKV) Expire(_ context.Context, key string, expiration time.Duration) (bool, error) {
	if kv.expErr != nil {
		return false, kv.expErr
	}
	if _, found := kv.store[key]; !found {
		return false, nil
	}
	kv.ttls[key] = expiration
	return true, nil
}

func (kv *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	if kv.getErr != nil {
		return "", false, kv.getErr
	}
	val, found := kv.store[key]
	return val, found, nil
}

func (kv *fakeKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if kv.setErr != nil {
		return kv.setErr
	}
	kv.store[key] = value.(string)
	return nil
}

func (kv *fakeKV) Delete(_ context.Context, keys ...string) (int64, error) {
	var n int64
	for _, key := range keys {
		if _, found := kv.store[key]; found {
			delete(kv.store, key)
			n++
		}
	}
	kv.deletes++
	return n, nil
}

func countingAction(n *int, v int64) Action[int64] {
	return Action[int64]{run: func(_ context.Context, _ sqldb.StmtPreparer) (int64, error) {
		*n++
		return v, nil
	}}
}

func TestCachedMissRunsAndStores(t *testing.T) {
	kv := newFakeKV()
	runs := 0
	a := Cached(kv, "t:1", time.Minute, countingAction(&runs, 7))

	got, err := a.Run(context.Background(), &fakeConn{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 || runs != 1 {
		t.Errorf("got %d after %d runs, want 7 after 1", got, runs)
	}
	if kv.store["t:1"] != "7" {
		t.Errorf("cached value = %q, want %q", kv.store["t:1"], "7")
	}
}

func TestCachedHitSkipsDatabase(t *testing.T) {
	kv := newFakeKV()
	kv.store["t:1"] = "7"
	runs := 0
	a := Cached(kv, "t:1", time.Minute, countingAction(&runs, 0))

	got, err := a.Run(context.Background(), &fakeConn{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Errorf("got %d, want cached 7", got)
	}
	if runs != 0 {
		t.Errorf("wrapped action ran %d times on a hit, want 0", runs)
	}
	if kv.ttls["t:1"] != time.Minute {
		t.Errorf("hit did not slide expiration: ttl = %v, want %v", kv.ttls["t:1"], time.Minute)
	}
}

func TestCachedHitSurvivesTTLRefreshFailure(t *testing.T) {
	kv := newFakeKV()
	kv.store["t:1"] = "7"
	kv.expErr = errors.New("connection refused")
	runs := 0
	a := Cached(kv, "t:1", time.Minute, countingAction(&runs, 0))

	got, err := a.Run(context.Background(), &fakeConn{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 || runs != 0 {
		t.Errorf("got %d after %d runs, want cached 7 after 0", got, runs)
	}
}

func TestCachedGetFailureFallsThrough(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("connection refused")
	runs := 0
	a := Cached(kv, "t:1", time.Minute, countingAction(&runs, 7))

	got, err := a.Run(context.Background(), &fakeConn{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 || runs != 1 {
		t.Errorf("got %d after %d runs, want 7 after 1", got, runs)
	}
}

func TestCachedCorruptEntryFallsThrough(t *testing.T) {
	kv := newFakeKV()
	kv.store["t:1"] = "{not json"
	runs := 0
	a := Cached(kv, "t:1", time.Minute, countingAction(&runs, 7))

	got, err := a.Run(context.Background(), &fakeConn{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 || runs != 1 {
		t.Errorf("got %d after %d runs, want 7 after 1", got, runs)
	}
}

func TestCachedSetFailureStillReturnsResult(t *testing.T) {
	kv := newFakeKV()
	kv.setErr = errors.New("connection refused")
	runs := 0
	a := Cached(kv, "t:1", time.Minute, countingAction(&runs, 7))

	got, err := a.Run(context.Background(), &fakeConn{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}

func TestCachedPropagatesActionFailure(t *testing.T) {
	kv := newFakeKV()
	boom := errors.New("boom")
	a := Cached(kv, "t:1", time.Minute, FailWith[int64](boom))

	_, err := a.Run(context.Background(), &fakeConn{})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}
	if len(kv.store) != 0 {
		t.Error("failure was cached")
	}
}

func TestInvalidateDropsKeyAfterSuccess(t *testing.T) {
	kv := newFakeKV()
	kv.store["t:1"] = "7"
	a := Invalidate(kv, "t:1", Pure(Unit{}))

	if _, err := a.Run(context.Background(), &fakeConn{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var store kvdb.Client = kv
	if found, err := store.Exists(context.Background(), "t:1"); err != nil || found {
		t.Errorf("Exists after invalidate = %v, %v, want false", found, err)
	}
}

func TestInvalidateKeepsKeyOnFailure(t *testing.T) {
	kv := newFakeKV()
	kv.store["t:1"] = "7"
	a := Invalidate(kv, "t:1", FailWith[Unit](errors.New("boom")))

	_, _ = a.Run(context.Background(), &fakeConn{})
	if _, found := kv.store["t:1"]; !found {
		t.Error("key dropped even though the action failed")
	}
}
