// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

/*
Package throttle implements the per-identifier brute-force defence for the
login endpoint.

Every admitted login attempt for a key is counted as a failure until proven
otherwise: a successful authentication resets the key, and outcomes that
must not consume budget (upstream failures) are forgiven. The first
FreeRetries failures incur no delay; each failure beyond that imposes a
doubling wait window between MinWait and MaxWait.

Architecture:

  - Policy: Pure backoff arithmetic, independently testable.
  - Store: The swappable admission interface. Admit is an atomic
    check-and-increment, so concurrent attempts against the same key can
    never slip past the free budget together.
  - MemoryStore: Default process-local backend. Not shared across
    processes and not persisted — a restart silently resets all throttling.
  - RedisStore: Optional shared backend for multi-process deployments.

The throttle is keyed by the raw submitted identifier, not the resolved
account id: attempts against identifiers that never resolve still consume
budget, and the throttle does not distinguish failure kinds.
*/
package throttle

import (
	"context"
	"time"
)

// Policy defines the escalation parameters for a throttled key.
type Policy struct {
	// FreeRetries is how many failures are tolerated before backoff starts.
	FreeRetries int

	// MinWait is the first wait window imposed past the free budget.
	MinWait time.Duration

	// MaxWait caps the doubling wait window.
	MaxWait time.Duration

	// Lifetime is how long an idle attempt record survives before it
	// naturally expires and the key starts fresh.
	Lifetime time.Duration
}

/*
Backoff returns the wait window imposed after the given total failure count.

Description: The window for the k-th failure beyond the free budget is
min(MaxWait, MinWait * 2^(k-1)). Counts inside the free budget impose no
wait.

Parameters:
  - count: Total failures recorded for the key, including this one.

Returns:
  - time.Duration: Zero within the free budget, otherwise the capped window.
*/
func (policy Policy) Backoff(count int) time.Duration {
	exceeded := count - policy.FreeRetries
	if exceeded <= 0 {
		return 0
	}

	wait := policy.MinWait
	for i := 1; i < exceeded; i++ {
		wait *= 2
		if wait >= policy.MaxWait || wait <= 0 {
			// Capped (or overflowed past the cap).
			return policy.MaxWait
		}
	}

	if wait > policy.MaxWait {
		return policy.MaxWait
	}
	return wait
}

// Decision is the outcome of an admission check.
type Decision struct {
	// Allowed reports whether the attempt may proceed.
	Allowed bool

	// RetryAt is when the key is next allowed an attempt. Zero when no
	// backoff window is active.
	RetryAt time.Time
}

// # Admission Contract

// Store is the swappable backing store for attempt records.
//
// # Atomicity
//
// Admit must be an atomic check-and-increment: refuse if the key is inside
// its backoff window, otherwise count the attempt and, once past the free
// budget, extend the window. Two concurrent Admit calls for the same key
// must observe each other, so the number of admissions before blocking
// never exceeds FreeRetries + 1.
type Store interface {

	/*
		Admit decides whether a new attempt for key may proceed, counting
		it if so.

		Parameters:
		  - context: context.Context
		  - key: The raw submitted identifier.

		Returns:
		  - Decision: Allowed, or blocked with the retry time.
		  - error: Backend connectivity failures.
	*/
	Admit(context context.Context, key string) (Decision, error)

	/*
		Forgive refunds one previously admitted attempt.

		Description: Called when an admitted attempt turns out not to be a
		countable failure (e.g. the account store was unreachable). If the
		refund brings the key back inside the free budget, any active
		backoff window is lifted.

		Parameters:
		  - context: context.Context
		  - key: The raw submitted identifier.

		Returns:
		  - error: Backend connectivity failures.
	*/
	Forgive(context context.Context, key string) error

	/*
		Reset clears the attempt record for key entirely.

		Description: Invoked exactly once, on full successful
		authentication, regardless of how many prior failures existed.

		Parameters:
		  - context: context.Context
		  - key: The raw submitted identifier.

		Returns:
		  - error: Backend connectivity failures.
	*/
	Reset(context context.Context, key string) error
}
