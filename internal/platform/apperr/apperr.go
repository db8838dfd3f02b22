// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

/*
Package apperr defines the centralized error handling framework for Authgate.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing a machine-readable Code and a user-friendly message.
  - Taxonomy: One constructor per login rejection kind, so the service layer
    never hand-rolls HTTP status codes.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"net/http"
)

// Rejection codes for the login pipeline. Each maps 1:1 to a rejection
// kind and carries a distinct client-facing message.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeBlocked            = "TOO_MANY_ATTEMPTS"
	CodeUnknownIdentifier  = "UNKNOWN_IDENTIFIER"
	CodeAccountBanned      = "ACCOUNT_BANNED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnconfirmed        = "UNCONFIRMED_ACCOUNT"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError is the canonical error type for the Authgate API.
//
// It carries an HTTP status code, a machine-readable code and a client-safe
// message.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries or
// stored password hashes).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "ACCOUNT_BANNED").
	Code string `json:"-"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// ValidationError creates a 400 [AppError] for malformed or missing input.
// Validation failures never consume throttle budget.
func ValidationError(msg string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Blocked creates a 403 [AppError] for a throttle refusal.
func Blocked(msg string) *AppError {
	return &AppError{
		Code:       CodeBlocked,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// UnknownIdentifier creates a 403 [AppError] for an identifier that did
// not resolve to any account. The message carries the raw submitted
// identifier, never an internal account id.
func UnknownIdentifier(identifier string) *AppError {
	return &AppError{
		Code:       CodeUnknownIdentifier,
		Message:    "User " + identifier + " does not exist",
		HTTPStatus: http.StatusForbidden,
	}
}

// AccountBanned creates a 403 [AppError] for a banned account.
//
// The ban check runs before any password work, so this rejection never
// reveals whether the supplied password was correct.
func AccountBanned(identifier string) *AppError {
	return &AppError{
		Code:       CodeAccountBanned,
		Message:    "User " + identifier + " is banned.",
		HTTPStatus: http.StatusForbidden,
	}
}

// InvalidCredentials creates a 403 [AppError] for a password mismatch.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:       CodeInvalidCredentials,
		Message:    "Invalid Password",
		HTTPStatus: http.StatusForbidden,
	}
}

// UnconfirmedAccount creates a 403 [AppError] for an account whose email
// address has not been confirmed.
func UnconfirmedAccount() *AppError {
	return &AppError{
		Code:       CodeUnconfirmed,
		Message:    "Email has not been confirmed",
		HTTPStatus: http.StatusForbidden,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
