// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

package throttle_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtran/authgate/internal/users/throttle"
)

// newRedisStore spins up a miniredis instance and a store bound to it.
func newRedisStore(t *testing.T, policy throttle.Policy) (*throttle.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return throttle.NewRedisStore(client, policy), server
}

/*
TestRedisStore_FreeRetries verifies admissions inside the free budget.
*/
func TestRedisStore_FreeRetries(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t, defaultPolicy)

	for i := 0; i < defaultPolicy.FreeRetries; i++ {
		decision, err := store.Admit(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.True(t, decision.RetryAt.IsZero())
	}
}

/*
TestRedisStore_BlocksPastBudget verifies the block flag is honored until
its TTL lapses, after which the next window doubles.
*/
func TestRedisStore_BlocksPastBudget(t *testing.T) {
	ctx := context.Background()
	store, server := newRedisStore(t, defaultPolicy)

	for i := 0; i < defaultPolicy.FreeRetries+1; i++ {
		decision, err := store.Admit(ctx, "ghost@example.com")
		require.NoError(t, err)
		require.True(t, decision.Allowed)
	}

	blocked, err := store.Admit(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)
	assert.False(t, blocked.RetryAt.IsZero())

	// Let the first window lapse.
	server.FastForward(defaultPolicy.MinWait + time.Second)

	decision, err := store.Admit(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	// That admission was the seventh failure: the re-armed window doubles.
	blocked, err = store.Admit(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)
}

/*
TestRedisStore_ResetClears verifies a success clears counter and block flag.
*/
func TestRedisStore_ResetClears(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t, defaultPolicy)

	for i := 0; i < defaultPolicy.FreeRetries+1; i++ {
		_, err := store.Admit(ctx, "ghost@example.com")
		require.NoError(t, err)
	}

	require.NoError(t, store.Reset(ctx, "ghost@example.com"))

	decision, err := store.Admit(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.True(t, decision.RetryAt.IsZero())
}

/*
TestRedisStore_ForgiveRefunds verifies that refunding the window-arming
attempt lifts the block flag.
*/
func TestRedisStore_ForgiveRefunds(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t, defaultPolicy)

	for i := 0; i < defaultPolicy.FreeRetries+1; i++ {
		_, err := store.Admit(ctx, "ghost@example.com")
		require.NoError(t, err)
	}

	require.NoError(t, store.Forgive(ctx, "ghost@example.com"))

	decision, err := store.Admit(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

/*
TestRedisStore_ConcurrentAdmissions is the regression test for the
check-and-increment race on the shared backend: concurrent identical-key
attempts must never be admitted more than FreeRetries + 1 times before
blocking, exactly as the memory store guarantees.
*/
func TestRedisStore_ConcurrentAdmissions(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t, defaultPolicy)

	const attempts = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision, err := store.Admit(ctx, "ghost@example.com")
			assert.NoError(t, err)
			if decision.Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, defaultPolicy.FreeRetries+1, admitted)
}

/*
TestRedisStore_NaturalExpiry verifies an idle counter disappears after the
policy lifetime.
*/
func TestRedisStore_NaturalExpiry(t *testing.T) {
	ctx := context.Background()
	store, server := newRedisStore(t, defaultPolicy)

	for i := 0; i < 3; i++ {
		_, err := store.Admit(ctx, "ghost@example.com")
		require.NoError(t, err)
	}

	server.FastForward(defaultPolicy.Lifetime + time.Second)

	// The counter restarted, so the full free budget is available again.
	for i := 0; i < defaultPolicy.FreeRetries; i++ {
		decision, err := store.Admit(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.True(t, decision.RetryAt.IsZero())
	}
}
