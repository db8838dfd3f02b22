// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

package login

import (
	"context"
	"errors"
)

// ErrNoAccount is the sentinel returned by directory lookups when an
// identifier resolves to nothing. The service maps it to the
// UnknownIdentifier rejection carrying the raw identifier.
var ErrNoAccount = errors.New("login: no such account")

// # Account Directory

// Directory is the read-only query interface onto the host forum's
// account store.
type Directory interface {

	/*
		ResolveByEmail returns the account id registered under email.

		Description: The lookup key is passed case-preserving; the store
		decides its own case folding.

		Parameters:
		  - context: context.Context
		  - email: The raw email identifier.

		Returns:
		  - string: Account id.
		  - error: ErrNoAccount, or storage failures.
	*/
	ResolveByEmail(context context.Context, email string) (string, error)

	/*
		ResolveBySlug returns the account id indexed under the normalized
		username slug.

		Parameters:
		  - context: context.Context
		  - userslug: The slugified handle.

		Returns:
		  - string: Account id.
		  - error: ErrNoAccount, or storage failures.
	*/
	ResolveBySlug(context context.Context, userslug string) (string, error)

	/*
		FetchProfile returns the public profile for an account id.

		Parameters:
		  - context: context.Context
		  - accountID: string

		Returns:
		  - *Account: Hydrated public profile.
		  - error: Storage failures.
	*/
	FetchProfile(context context.Context, accountID string) (*Account, error)

	/*
		FetchAdminFlag reports whether the account holds the
		administrator role.

		Parameters:
		  - context: context.Context
		  - accountID: string

		Returns:
		  - bool: Administrator flag.
		  - error: Storage failures.
	*/
	FetchAdminFlag(context context.Context, accountID string) (bool, error)
}

// # Secure Field Store

// SecureStore fetches the private security attributes of an account.
// Kept separate from [Directory] so the blast radius of a profile query
// can never include a password hash.
type SecureStore interface {

	/*
		FetchSecureFields returns the security attributes for an account
		id, with integer-encoded flags already coerced to booleans.

		Parameters:
		  - context: context.Context
		  - accountID: string

		Returns:
		  - *SecureFields: Hash, ban flag, confirmation flag, expiry.
		  - error: Storage failures.
	*/
	FetchSecureFields(context context.Context, accountID string) (*SecureFields, error)
}

// # Password Verification

// PasswordVerifier is the black-box comparison of a plaintext candidate
// against a stored hash. Implementations must be resistant to timing
// side-channels.
type PasswordVerifier interface {

	/*
		Compare reports whether candidate matches the stored hash.

		Parameters:
		  - context: context.Context
		  - candidate: The plaintext secret supplied by the client.
		  - hash: The stored password hash.

		Returns:
		  - bool: True on a match.
		  - error: Verifier infrastructure failures (never a mismatch).
	*/
	Compare(context context.Context, candidate, hash string) (bool, error)
}
