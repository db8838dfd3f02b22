// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

// Package validate provides a chainable Validator that collects input
// failures before returning a single [apperr.AppError].
//
// # Wire Format
//
// The login endpoint's validation messages are fixed by the legacy plugin
// protocol ("Password is empty", ...), so every rule takes the exact
// client-facing message instead of generating one. The first failed rule
// wins: its message becomes the response body.
package validate

import (
	"net/mail"

	"github.com/minhtran/authgate/internal/platform/apperr"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects input failures via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request.
type Validator struct {
	messages []string
}

// Required fails with message if the value is empty.
//
// No implicit trimming: a whitespace-only secret is a legal secret.
func (v *Validator) Required(value, message string) *Validator {
	if value == "" {
		v.messages = append(v.messages, message)
	}
	return v
}

// Email fails with message if the value is not a strictly valid email
// address. "Name <a@b.com>" display forms are rejected: the address must
// stand alone.
func (v *Validator) Email(value, message string) *Validator {
	if !IsEmail(value) {
		v.messages = append(v.messages, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) carrying the first
// failed rule's message, or nil if all rules passed.
//
// This is the only output method — call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.messages) == 0 {
		return nil
	}
	return apperr.ValidationError(v.messages[0])
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.messages) > 0
}

// IsEmail reports whether value is a strictly valid RFC 5322 address.
//
// The parse itself is case-insensitive; the value is never rewritten, so
// lookups downstream stay case-preserving.
func IsEmail(value string) bool {
	address, err := mail.ParseAddress(value)
	if err != nil {
		return false
	}
	// Reject "Display Name <user@host>" forms: the raw identifier must be
	// the address and nothing else.
	return address.Address == value
}
