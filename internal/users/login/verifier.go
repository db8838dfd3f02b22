// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

package login

import (
	"context"
	"fmt"

	"github.com/minhtran/authgate/internal/platform/apperr"
)

/*
verifyCredentials applies the ordered security checks to a fetched account.

Description: Checks short-circuit in a fixed order — ban, password,
confirmation — each rejecting immediately without evaluating later checks.
The ban check runs before any password work so that a banned account never
learns whether its password was correct. No secure field ever appears in a
returned error.

Parameters:
  - context: context.Context
  - identifier: The raw submitted identifier (for rejection messages).
  - fetched: The atomically assembled account view.
  - candidateSecret: The plaintext password supplied by the client.

Returns:
  - *Account: The authenticated public profile.
  - error: A classified [apperr.AppError] rejection, or a wrapped verifier
    infrastructure failure.
*/
func (service *Service) verifyCredentials(context context.Context, identifier string, fetched *fetchedAccount, candidateSecret string) (*Account, error) {

	// 1. Ban check.
	if fetched.Secure.Banned {
		return nil, apperr.AccountBanned(identifier)
	}

	// 2. Password check. Timing resistance is the verifier's contract.
	match, err := service.passwords.Compare(context, candidateSecret, fetched.Secure.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("login_password_compare_failed: %w", err)
	}
	if !match {
		return nil, apperr.InvalidCredentials()
	}

	// 3. Confirmation check (policy-gated).
	if service.options.RequireConfirmed && !fetched.Secure.EmailConfirmed {
		return nil, apperr.UnconfirmedAccount()
	}

	return fetched.Profile, nil
}
