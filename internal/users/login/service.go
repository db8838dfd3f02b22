// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

/*
Package login implements the external login pipeline for the host forum.

It authenticates a submitted identifier/secret pair against the forum's
account directory while the attempt throttle defends the endpoint against
repeated failures.

Architecture:

  - Resolver: Classifies the identifier (email vs. handle) and resolves it
    to an account id.
  - Fetcher: Assembles profile, secure fields and admin flag concurrently.
  - Verifier: Applies the ordered security checks (ban, password,
    confirmation).
  - Service: Orchestrates one attempt as a strictly linear state machine;
    any stage failure terminates the request.

# Review Process

This package is critical for security. Any change to check ordering,
throttle interaction, or rejection messages must be reviewed by the
security team.
*/
package login

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/minhtran/authgate/internal/platform/apperr"
	"github.com/minhtran/authgate/internal/platform/constants"
	"github.com/minhtran/authgate/internal/platform/ctxutil"
	"github.com/minhtran/authgate/internal/users/throttle"
)

// Options are the policy toggles covering the divergent deployment
// variants of the login pipeline.
type Options struct {
	// EmailOnly restricts login to email identifiers; handle login is
	// rejected as a validation failure before any throttle work.
	EmailOnly bool

	// RequireConfirmed rejects accounts whose email is unconfirmed.
	RequireConfirmed bool
}

// Service implements the login use case.
type Service struct {
	directory Directory
	secure    SecureStore
	attempts  throttle.Store
	passwords PasswordVerifier
	options   Options
}

// NewService constructs a new login [Service] with necessary dependencies.
func NewService(
	directory Directory,
	secure SecureStore,
	attempts throttle.Store,
	passwords PasswordVerifier,
	options Options,
) *Service {
	return &Service{
		directory: directory,
		secure:    secure,
		attempts:  attempts,
		passwords: passwords,
		options:   options,
	}
}

// Input defines one authentication attempt.
type Input struct {
	// Identifier is the raw submitted username or email. It is also the
	// throttle key, untrimmed and unresolved.
	Identifier string

	// Secret is the plaintext password candidate.
	Secret string
}

/*
Authenticate runs one login attempt through the full pipeline.

Description: Strictly linear — policy validation, throttle admission,
identifier resolution, concurrent account fetch, ordered credential
verification. There is no retry within a request; the first failing stage
terminates it. On success the attempt record for the key is
unconditionally cleared.

Counting: throttle admission atomically counts the attempt as a failure.
A success resets the key; upstream failures (directory, verifier) are
forgiven so they never consume the caller's budget; the four rejection
kinds — unknown identifier, banned, wrong password, unconfirmed — keep
the admission, which is what records the failure.

Parameters:
  - context: context.Context
  - input: Input

Returns:
  - *Account: The authenticated public profile.
  - error: A classified [apperr.AppError] for every rejection kind.
*/
func (service *Service) Authenticate(context context.Context, input Input) (*Account, error) {
	logger := ctxutil.GetLogger(context)

	// Policy validation. Runs before throttle admission so malformed
	// input never consumes an attempt (validation is never throttled).
	kind := Classify(input.Identifier)
	if service.options.EmailOnly && kind != KindEmail {
		return nil, apperr.ValidationError(constants.MsgNotAnEmail)
	}

	// Throttle admission: atomic check-and-count, keyed by the raw
	// identifier, ahead of any directory work.
	decision, err := service.attempts.Admit(context, input.Identifier)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("login_service_throttle_admit_failed: %w", err))
	}
	if !decision.Allowed {
		return nil, apperr.Blocked(constants.MsgTooManyAttempts + humanize.Time(decision.RetryAt))
	}

	logger.InfoContext(context, "login_attempt_admitted",
		slog.String("identifier", input.Identifier),
	)

	// Resolution.
	accountID, err := service.resolveAccount(context, input.Identifier, kind)
	if err != nil {
		if errors.Is(err, ErrNoAccount) {
			// A countable failure: the admission stands.
			return nil, apperr.UnknownIdentifier(input.Identifier)
		}
		service.forgive(context, input.Identifier)
		return nil, apperr.Internal(fmt.Errorf("login_service_resolve_failed: %w", err))
	}

	// Concurrent fetch.
	fetched, err := service.fetchAccount(context, accountID)
	if err != nil {
		service.forgive(context, input.Identifier)
		return nil, apperr.Internal(err)
	}

	// Ordered verification.
	account, err := service.verifyCredentials(context, input.Identifier, fetched, input.Secret)
	if err != nil {
		if apperr.IsAppError(err) {
			// Banned / wrong password / unconfirmed: the admission stands.
			return nil, err
		}
		service.forgive(context, input.Identifier)
		return nil, apperr.Internal(err)
	}

	// Success clears the key unconditionally, however many failures
	// preceded it.
	if err := service.attempts.Reset(context, input.Identifier); err != nil {
		logger.ErrorContext(context, "login_throttle_reset_failed",
			slog.String("identifier", input.Identifier),
			slog.Any("error", err),
		)
	}

	logger.InfoContext(context, "login_succeeded",
		slog.String("account_id", account.ID),
		slog.Bool("is_admin", fetched.IsAdmin),
	)

	return account, nil
}

// forgive refunds a throttle admission for an outcome that must not
// consume the caller's budget. Refund failures are logged, never surfaced.
func (service *Service) forgive(context context.Context, key string) {
	if err := service.attempts.Forgive(context, key); err != nil {
		ctxutil.GetLogger(context).ErrorContext(context, "login_throttle_forgive_failed",
			slog.String("identifier", key),
			slog.Any("error", err),
		)
	}
}
