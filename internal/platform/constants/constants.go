// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

/*
Package constants provides centralized, immutable values for the entire service.

It defines default timeouts, throttle policy defaults, and cross-cutting keys
that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Login Throttle: Free retry budget and backoff window bounds.
  - Rate Limiting: Per-IP burst capacities and tracking TTLs.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "authgate-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Login Throttle

const (
	// DefaultFreeRetries is how many failed attempts a key may make before
	// backoff windows start.
	DefaultFreeRetries = 5

	// DefaultMinWait is the first backoff window imposed past the free budget.
	DefaultMinWait = 5 * time.Minute

	// DefaultMaxWait caps the doubling backoff window.
	DefaultMaxWait = 1 * time.Hour

	// DefaultAttemptLifetime is how long an idle attempt record survives
	// before it naturally expires.
	DefaultAttemptLifetime = 1 * time.Hour

	// ThrottleJanitorInterval is how often expired attempt records are
	// swept from the in-memory store.
	ThrottleJanitorInterval = 1 * time.Minute
)

// # Per-IP Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Client Messages (legacy plugin wire format — frozen)

const (
	// MsgMissingIdentifier is returned when the username/email field is absent.
	MsgMissingIdentifier = "Username/Email is not provided, username/email and password are required fields"

	// MsgMissingPassword is returned when the password field is absent.
	MsgMissingPassword = "Password is empty"

	// MsgNotAnEmail is returned in email-only mode for non-email identifiers.
	MsgNotAnEmail = "Email provided is not a valid mail"

	// MsgTooManyAttempts prefixes the blocked-retry response; a relative
	// time phrase is appended at the call site.
	MsgTooManyAttempts = "You have made too many failed attempts in a short period of time, please try again "
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixAttempts = "login:attempts:"
	RedisPrefixBlock    = "login:block:"
)
