// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

package throttle

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minhtran/authgate/internal/platform/constants"
)

// RedisStore implements [Store] on a shared Redis instance, for
// deployments where several Authgate replicas must see one attempt budget
// per identifier.
//
// # Layout
//
// Two keys per identifier: a failure counter that expires after the policy
// lifetime, and a block flag whose TTL is the active backoff window and
// whose value is the retry deadline in unix milliseconds. Admission runs
// as one server-side script, so the block check, the count, and the window
// arming are a single atomic step across every replica.
type RedisStore struct {
	client *redis.Client
	policy Policy
}

// admitScript is the atomic admission step. KEYS[1] is the failure
// counter, KEYS[2] the block flag. ARGV: now (ms), record lifetime (ms),
// free retries, min wait (ms), max wait (ms).
//
// The reply is {allowed 0|1, retry deadline in unix ms as a string}; the
// deadline is "0" when no window is active. Strings, because Lua numbers
// lose millisecond precision on the wire.
var admitScript = redis.NewScript(`
local retry = redis.call('GET', KEYS[2])
if retry then
    return {0, retry}
end

local count = redis.call('INCR', KEYS[1])
redis.call('PEXPIRE', KEYS[1], ARGV[2])

local exceeded = count - tonumber(ARGV[3])
if exceeded <= 0 then
    return {1, '0'}
end

local wait = tonumber(ARGV[4])
local max = tonumber(ARGV[5])
for i = 2, exceeded do
    wait = wait * 2
    if wait >= max then
        wait = max
        break
    end
end
if wait > max then
    wait = max
end

local deadline = tonumber(ARGV[1]) + wait
redis.call('SET', KEYS[2], tostring(deadline), 'PX', wait)
return {1, tostring(deadline)}
`)

// NewRedisStore creates a Redis-backed attempt store.
func NewRedisStore(client *redis.Client, policy Policy) *RedisStore {
	return &RedisStore{client: client, policy: policy}
}

func (store *RedisStore) attemptsKey(key string) string {
	return constants.RedisPrefixAttempts + key
}

func (store *RedisStore) blockKey(key string) string {
	return constants.RedisPrefixBlock + key
}

/*
Admit decides whether a new attempt for key may proceed, counting it if so.

Description: One round trip running [admitScript] server-side: an active
block flag refuses the attempt before any counting; an admitted attempt is
counted with a sliding lifetime and, past the free budget, arms the block
flag for the new window in the same atomic step. No interleaving of
concurrent Admit calls can slip an attempt past the budget, within one
process or across replicas.

Parameters:
  - context: context.Context
  - key: The raw submitted identifier.

Returns:
  - Decision: Allowed, or blocked with the retry time.
  - error: Redis connectivity failures.
*/
func (store *RedisStore) Admit(context context.Context, key string) (Decision, error) {
	result, err := admitScript.Run(context, store.client,
		[]string{store.attemptsKey(key), store.blockKey(key)},
		time.Now().UnixMilli(),
		store.policy.Lifetime.Milliseconds(),
		store.policy.FreeRetries,
		store.policy.MinWait.Milliseconds(),
		store.policy.MaxWait.Milliseconds(),
	).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("redis_throttle_admit_failed: %w", err)
	}

	reply, ok := result.([]interface{})
	if !ok || len(reply) != 2 {
		return Decision{}, fmt.Errorf("redis_throttle_admit_reply_malformed: %v", result)
	}

	allowed, ok := reply[0].(int64)
	if !ok {
		return Decision{}, fmt.Errorf("redis_throttle_admit_reply_malformed: %v", result)
	}

	deadlineRaw, ok := reply[1].(string)
	if !ok {
		return Decision{}, fmt.Errorf("redis_throttle_admit_reply_malformed: %v", result)
	}
	deadlineMillis, err := strconv.ParseInt(deadlineRaw, 10, 64)
	if err != nil {
		return Decision{}, fmt.Errorf("redis_throttle_deadline_parse_failed: %w", err)
	}

	decision := Decision{Allowed: allowed == 1}
	if deadlineMillis > 0 {
		decision.RetryAt = time.UnixMilli(deadlineMillis)
	}

	return decision, nil
}

/*
Forgive refunds one previously admitted attempt for key.

Parameters:
  - context: context.Context
  - key: The raw submitted identifier.

Returns:
  - error: Redis connectivity failures.
*/
func (store *RedisStore) Forgive(context context.Context, key string) error {
	count, err := store.client.Decr(context, store.attemptsKey(key)).Result()
	if err != nil {
		return fmt.Errorf("redis_throttle_decr_failed: %w", err)
	}

	// A refund never leaves a negative counter behind.
	if count <= 0 {
		if err := store.client.Del(context, store.attemptsKey(key)).Err(); err != nil {
			return fmt.Errorf("redis_throttle_del_failed: %w", err)
		}
	}

	// Back inside the free budget: lift any active window.
	if int(count) <= store.policy.FreeRetries {
		if err := store.client.Del(context, store.blockKey(key)).Err(); err != nil {
			return fmt.Errorf("redis_throttle_unblock_failed: %w", err)
		}
	}

	return nil
}

/*
Reset clears the attempt record for key entirely.

Parameters:
  - context: context.Context
  - key: The raw submitted identifier.

Returns:
  - error: Redis connectivity failures.
*/
func (store *RedisStore) Reset(context context.Context, key string) error {
	if err := store.client.Del(context, store.attemptsKey(key), store.blockKey(key)).Err(); err != nil {
		return fmt.Errorf("redis_throttle_reset_failed: %w", err)
	}
	return nil
}
