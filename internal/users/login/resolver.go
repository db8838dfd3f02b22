// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

package login

import (
	"context"
	"fmt"

	"github.com/minhtran/authgate/internal/platform/validate"
	"github.com/minhtran/authgate/pkg/slug"
)

// IdentifierKind classifies a raw submitted identifier. The two variants
// are resolved once per request and dispatched with a switch — never by
// indexing a lookup-function table by string.
type IdentifierKind int

const (
	// KindEmail is a strictly valid RFC 5322 address.
	KindEmail IdentifierKind = iota
	// KindHandle is anything else: a username to be slug-normalized.
	KindHandle
)

// Classify tags identifier as an email or a handle. The email check is
// syntax-only; whether such an account exists is resolution's problem.
func Classify(identifier string) IdentifierKind {
	if validate.IsEmail(identifier) {
		return KindEmail
	}
	return KindHandle
}

// LookupKey derives the directory lookup key for an identifier: emails
// are used as-is (case-preserving), handles are slug-normalized so
// "John Doe" and "john-doe" resolve identically.
func LookupKey(identifier string, kind IdentifierKind) string {
	switch kind {
	case KindEmail:
		return identifier
	default:
		return slug.From(identifier)
	}
}

/*
resolveAccount maps an identifier to an account id via the directory.

Parameters:
  - context: context.Context
  - identifier: The raw submitted identifier.
  - kind: Classification of the identifier.

Returns:
  - string: Account id.
  - error: ErrNoAccount if unresolved, or wrapped storage failures.
*/
func (service *Service) resolveAccount(context context.Context, identifier string, kind IdentifierKind) (string, error) {
	key := LookupKey(identifier, kind)

	var accountID string
	var err error

	switch kind {
	case KindEmail:
		accountID, err = service.directory.ResolveByEmail(context, key)
	case KindHandle:
		accountID, err = service.directory.ResolveBySlug(context, key)
	default:
		return "", fmt.Errorf("login_service_unknown_identifier_kind: %d", kind)
	}

	if err != nil {
		return "", err
	}

	return accountID, nil
}
