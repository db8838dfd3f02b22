// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

package throttle

import (
	"context"
	"sync"
	"time"

	"github.com/minhtran/authgate/internal/platform/constants"
)

// attemptRecord tracks the failure run for one key.
//
// Invariants: count is never negative; nextAllowedAt only moves forward
// while failures continue.
type attemptRecord struct {
	count         int
	windowStart   time.Time
	nextAllowedAt time.Time
	expiresAt     time.Time
}

// MemoryStore is the default process-local [Store].
//
// # Scope
//
// State lives only in this process: it is not shared across replicas and
// not persisted, so a restart resets all throttling. That is the accepted
// trade-off of the default deployment; use [RedisStore] when attempt state
// must survive the process or span replicas.
type MemoryStore struct {
	policy Policy

	mu      sync.Mutex
	records map[string]*attemptRecord
}

// NewMemoryStore creates an in-memory attempt store and starts a janitor
// goroutine that sweeps expired records until ctx is cancelled.
func NewMemoryStore(ctx context.Context, policy Policy) *MemoryStore {
	store := &MemoryStore{
		policy:  policy,
		records: make(map[string]*attemptRecord),
	}

	go func() {
		ticker := time.NewTicker(constants.ThrottleJanitorInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				store.sweep(time.Now())
			case <-ctx.Done():
				return
			}
		}
	}()

	return store
}

/*
Admit decides whether a new attempt for key may proceed, counting it if so.

Description: Atomic check-and-increment under the store mutex. A blocked
key is refused before any counting; an admitted attempt past the free
budget pessimistically extends the backoff window, so a concurrent second
attempt observes the window immediately.

Parameters:
  - context: context.Context (unused by the memory backend)
  - key: The raw submitted identifier.

Returns:
  - Decision: Allowed, or blocked with the retry time.
  - error: Always nil for the memory backend.
*/
func (store *MemoryStore) Admit(_ context.Context, key string) (Decision, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := time.Now()
	record := store.records[key]

	// A naturally expired record is indistinguishable from no record.
	if record != nil && now.After(record.expiresAt) && !now.Before(record.nextAllowedAt) {
		delete(store.records, key)
		record = nil
	}

	if record != nil && now.Before(record.nextAllowedAt) {
		return Decision{Allowed: false, RetryAt: record.nextAllowedAt}, nil
	}

	if record == nil {
		record = &attemptRecord{windowStart: now}
		store.records[key] = record
	}

	record.count++
	record.expiresAt = now.Add(store.policy.Lifetime)

	if wait := store.policy.Backoff(record.count); wait > 0 {
		next := now.Add(wait)
		// Monotonic: the window never moves backwards while failures continue.
		if next.After(record.nextAllowedAt) {
			record.nextAllowedAt = next
		}
	}

	return Decision{Allowed: true, RetryAt: record.nextAllowedAt}, nil
}

/*
Forgive refunds one previously admitted attempt for key.

Description: Decrements the failure count; if the key drops back inside
the free budget, the backoff window is lifted. A fully refunded record is
removed.

Parameters:
  - context: context.Context (unused by the memory backend)
  - key: The raw submitted identifier.

Returns:
  - error: Always nil for the memory backend.
*/
func (store *MemoryStore) Forgive(_ context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	record := store.records[key]
	if record == nil {
		return nil
	}

	if record.count > 0 {
		record.count--
	}

	if record.count == 0 {
		delete(store.records, key)
		return nil
	}

	// The refunded attempt was not a failure, so it must not leave a
	// window behind if the key is back inside the free budget.
	if record.count <= store.policy.FreeRetries {
		record.nextAllowedAt = time.Time{}
	}

	return nil
}

/*
Reset clears the attempt record for key entirely.

Parameters:
  - context: context.Context (unused by the memory backend)
  - key: The raw submitted identifier.

Returns:
  - error: Always nil for the memory backend.
*/
func (store *MemoryStore) Reset(_ context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.records, key)
	return nil
}

// sweep removes records whose lifetime and backoff window have both passed.
func (store *MemoryStore) sweep(now time.Time) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for key, record := range store.records {
		if now.After(record.expiresAt) && !now.Before(record.nextAllowedAt) {
			delete(store.records, key)
		}
	}
}
